package portalserver

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/telconova/portal/internal/domains/orders/domain"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
	"github.com/telconova/portal/internal/shared/session"
)

// OrdersAPI wires HTTP transport with the orders bounded context service and workflows.
type OrdersAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

func NewOrdersAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// NextNumberResponse is the body of GET /api/orders/next-number.
type NextNumberResponse struct {
	OrderNumber string `json:"orderNumber"`
}

// Get /api/orders
// Lists cached work orders matching the filters
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	var criteria ordersdomain.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := api.service.List(c.Request.Context(), currentSession(c), criteria)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Post /api/orders
// Creates a work order
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var form ordersdomain.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.createOrder(c.Request.Context(), currentSession(c), form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (api *OrdersAPI) createOrder(ctx context.Context, sess session.Session, form ordersdomain.OrderForm) (ordersdomain.WorkOrder, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, sess, form)
	}
	return api.service.Create(ctx, sess, form)
}

// Post /api/orders/sync
// Refreshes the cached orders from the backend
func (api *OrdersAPI) SyncOrders(c *gin.Context) {
	orders, err := api.service.Sync(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []ordersdomain.WorkOrder{}
	}
	c.JSON(http.StatusOK, orders)
}

// Get /api/orders/next-number
// Returns the number the next local order will get
func (api *OrdersAPI) NextOrderNumber(c *gin.Context) {
	next, err := api.service.NextOrderNumber(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NextNumberResponse{OrderNumber: next})
}

// Get /api/orders/export
// Downloads the filtered listing as xlsx or csv
func (api *OrdersAPI) ExportOrders(c *gin.Context) {
	var criteria ordersdomain.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		respondBindError(c, err)
		return
	}
	format, err := ordersports.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := api.service.Export(c.Request.Context(), currentSession(c), criteria, format, &buf); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ordenes.%s"`, format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Get /api/orders/:orderId
// Finds a cached order by id
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	order, err := api.service.Get(c.Request.Context(), currentSession(c), c.Param("orderId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Put /api/orders/:orderId
// Updates status, activity, priority and description of an order
func (api *OrdersAPI) UpdateOrder(c *gin.Context) {
	var edit ordersdomain.OrderEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.Update(c.Request.Context(), currentSession(c), c.Param("orderId"), edit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete /api/orders/:orderId
// Deletes an order
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), currentSession(c), c.Param("orderId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
