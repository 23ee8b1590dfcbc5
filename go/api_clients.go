package portalserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	clientsdomain "github.com/telconova/portal/internal/domains/clients/domain"
	clientsports "github.com/telconova/portal/internal/domains/clients/ports"
	"github.com/telconova/portal/internal/shared/validation"
)

type ClientsAPI struct {
	service clientsports.Service
}

func NewClientsAPI(service clientsports.Service) ClientsAPI {
	return ClientsAPI{service: service}
}

// Get /api/clients
// Lists cached clients
func (api *ClientsAPI) ListClients(c *gin.Context) {
	clients, err := api.service.List(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilClients(clients))
}

// Post /api/clients
// Registers a client
func (api *ClientsAPI) CreateClient(c *gin.Context) {
	var form validation.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBindError(c, err)
		return
	}
	client, err := api.service.Create(c.Request.Context(), currentSession(c), form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Post /api/clients/sync
// Refreshes the cached clients from the backend
func (api *ClientsAPI) SyncClients(c *gin.Context) {
	clients, err := api.service.Sync(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilClients(clients))
}

// Get /api/clients/search
// Finds a client by name or identification
func (api *ClientsAPI) SearchClients(c *gin.Context) {
	result, err := api.service.Search(c.Request.Context(), currentSession(c), c.Query("name"), c.Query("identification"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/clients/options
// Lists clients as select options for the order form
func (api *ClientsAPI) ClientOptions(c *gin.Context) {
	options, err := api.service.Options(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func nonNilClients(clients []clientsdomain.Client) []clientsdomain.Client {
	if clients == nil {
		return []clientsdomain.Client{}
	}
	return clients
}
