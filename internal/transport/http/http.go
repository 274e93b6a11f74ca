package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	createorder "github.com/foodfeast/order/internal/transport/http/create_order"
	listorders "github.com/foodfeast/order/internal/transport/http/list_orders"
	orderstatus "github.com/foodfeast/order/internal/transport/http/order_status"
	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/models/orderitem"
	"github.com/foodfeast/order/pkg/http/middleware/trace"
	"github.com/foodfeast/order/pkg/logger"
)

type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID int64, rawStatus string) error
	AcceptOrder(ctx context.Context, orderID int64) error
	MarkPickedUp(ctx context.Context, orderID int64) error
	MarkDelivered(ctx context.Context, orderID int64) error

	GetOrdersByCustomerID(ctx context.Context, customerID int64) ([]order.Order, error)
	GetOrdersByRestaurantID(ctx context.Context, restaurantID int64) ([]order.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]orderitem.OrderItem, error)
	GetUnacceptedOrders(ctx context.Context) ([]order.Details, error)
	CheckOrderAccepted(ctx context.Context, orderID int64) (bool, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler returns the underlying router.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport. Paths are kept
// exactly as clients already use them.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/orders", func(r chi.Router) {
		r.Get("/user/{userId}", h.ordersByUser)
		r.Get("/restaurant/{restaurantId}", h.ordersByRestaurant)
		r.Get("/items/{orderId}", h.orderItems)
		r.Get("/unaccepted", h.unacceptedOrders)
		r.Get("/accepted/{orderId}", h.orderAccepted)

		r.Post("/", h.createOrder)
		r.Post("/status", h.changeStatus)
		r.Post("/accept", h.acceptOrder)
		r.Post("/pickup/{orderId}", h.pickUpOrder)
		r.Post("/delivered/{orderId}", h.deliveredOrder)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) changeStatus(w http.ResponseWriter, r *http.Request) {
	orderstatus.ChangeStatus(w, r, h.service)
}

func (h *HTTPTransport) acceptOrder(w http.ResponseWriter, r *http.Request) {
	orderstatus.Accept(w, r, h.service)
}

func (h *HTTPTransport) pickUpOrder(w http.ResponseWriter, r *http.Request) {
	orderstatus.PickUp(w, r, h.service)
}

func (h *HTTPTransport) deliveredOrder(w http.ResponseWriter, r *http.Request) {
	orderstatus.Delivered(w, r, h.service)
}

func (h *HTTPTransport) ordersByUser(w http.ResponseWriter, r *http.Request) {
	listorders.ByUser(w, r, h.service)
}

func (h *HTTPTransport) ordersByRestaurant(w http.ResponseWriter, r *http.Request) {
	listorders.ByRestaurant(w, r, h.service)
}

func (h *HTTPTransport) orderItems(w http.ResponseWriter, r *http.Request) {
	listorders.Items(w, r, h.service)
}

func (h *HTTPTransport) unacceptedOrders(w http.ResponseWriter, r *http.Request) {
	listorders.Unaccepted(w, r, h.service)
}

func (h *HTTPTransport) orderAccepted(w http.ResponseWriter, r *http.Request) {
	listorders.Accepted(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
