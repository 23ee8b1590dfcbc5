package portalserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/telconova/portal/internal/shared/validation"
)

func init() {
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Install(engine)
	}
}

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every part of the API.
type ApiHandleFunctions struct {
	// Sessions resolves the caller's session for every /api route.
	Sessions SessionResolver
	// Routes for the AuthAPI part of the API
	AuthAPI AuthAPI
	// Routes for the OrdersAPI part of the API
	OrdersAPI OrdersAPI
	// Routes for the ClientsAPI part of the API
	ClientsAPI ClientsAPI
	// Routes for the GeoAPI part of the API
	GeoAPI GeoAPI
	// Routes for the NotificationsAPI part of the API
	NotificationsAPI NotificationsAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Middleware
// already registered on router applies to every route.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.GET("/healthz", Healthz)

	api := router.Group("/")
	if handleFunctions.Sessions != nil {
		api.Use(SessionMiddleware(handleFunctions.Sessions))
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			api.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			api.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			api.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			api.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			api.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Login", http.MethodPost, "/api/auth/login", handleFunctions.AuthAPI.Login},
		{"Register", http.MethodPost, "/api/auth/register", handleFunctions.AuthAPI.Register},
		{"Logout", http.MethodPost, "/api/auth/logout", handleFunctions.AuthAPI.Logout},
		{"CurrentUser", http.MethodGet, "/api/auth/me", handleFunctions.AuthAPI.CurrentUser},
		{"VerifyCode", http.MethodPost, "/api/auth/verify", handleFunctions.AuthAPI.VerifyCode},
		{"ListOrders", http.MethodGet, "/api/orders", handleFunctions.OrdersAPI.ListOrders},
		{"CreateOrder", http.MethodPost, "/api/orders", handleFunctions.OrdersAPI.CreateOrder},
		{"SyncOrders", http.MethodPost, "/api/orders/sync", handleFunctions.OrdersAPI.SyncOrders},
		{"NextOrderNumber", http.MethodGet, "/api/orders/next-number", handleFunctions.OrdersAPI.NextOrderNumber},
		{"ExportOrders", http.MethodGet, "/api/orders/export", handleFunctions.OrdersAPI.ExportOrders},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", handleFunctions.OrdersAPI.GetOrder},
		{"UpdateOrder", http.MethodPut, "/api/orders/:orderId", handleFunctions.OrdersAPI.UpdateOrder},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:orderId", handleFunctions.OrdersAPI.DeleteOrder},
		{"ListClients", http.MethodGet, "/api/clients", handleFunctions.ClientsAPI.ListClients},
		{"CreateClient", http.MethodPost, "/api/clients", handleFunctions.ClientsAPI.CreateClient},
		{"SyncClients", http.MethodPost, "/api/clients/sync", handleFunctions.ClientsAPI.SyncClients},
		{"SearchClients", http.MethodGet, "/api/clients/search", handleFunctions.ClientsAPI.SearchClients},
		{"ClientOptions", http.MethodGet, "/api/clients/options", handleFunctions.ClientsAPI.ClientOptions},
		{"Countries", http.MethodGet, "/api/geo/countries", handleFunctions.GeoAPI.Countries},
		{"Departments", http.MethodGet, "/api/geo/departments", handleFunctions.GeoAPI.Departments},
		{"Cities", http.MethodGet, "/api/geo/departments/:departmentId/cities", handleFunctions.GeoAPI.Cities},
		{"Notifications", http.MethodGet, "/api/notifications/ws", handleFunctions.NotificationsAPI.Subscribe},
	}
}
