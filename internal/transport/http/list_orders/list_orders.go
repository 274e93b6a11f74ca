package listorders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/models/orderitem"
	"github.com/foodfeast/order/internal/service/services/ordersvc"
)

// service is an interface for the service layer.
type service interface {
	GetOrdersByCustomerID(ctx context.Context, customerID int64) ([]order.Order, error)
	GetOrdersByRestaurantID(ctx context.Context, restaurantID int64) ([]order.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]orderitem.OrderItem, error)
	GetUnacceptedOrders(ctx context.Context) ([]order.Details, error)
	CheckOrderAccepted(ctx context.Context, orderID int64) (bool, error)
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// ByUser lists the orders of one customer.
func ByUser(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := idParam(r, "userId")
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)

		return
	}

	orders, err := service.GetOrdersByCustomerID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		slog.Error("Error fetching orders by user", "user_id", userID, "error", err)

		return
	}

	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, orders)
}

// ByRestaurant lists the orders of one restaurant, acceptance flag included.
func ByRestaurant(w http.ResponseWriter, r *http.Request, service service) {
	restaurantID, err := idParam(r, "restaurantId")
	if err != nil {
		http.Error(w, "Invalid restaurant id", http.StatusBadRequest)

		return
	}

	orders, err := service.GetOrdersByRestaurantID(r.Context(), restaurantID)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		slog.Error("Error fetching orders by restaurant", "restaurant_id", restaurantID, "error", err)

		return
	}

	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, orders)
}

// Items lists the line items of one order.
func Items(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := idParam(r, "orderId")
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	items, err := service.GetOrderItemsByOrderID(r.Context(), orderID)
	if err != nil {
		http.Error(w, "Error fetching order items", http.StatusInternalServerError)
		slog.Error("Error fetching order items", "order_id", orderID, "error", err)

		return
	}

	if items == nil {
		items = []orderitem.OrderItem{}
	}
	writeJSON(w, items)
}

// Unaccepted lists the backlog of orders no driver has claimed yet.
func Unaccepted(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.GetUnacceptedOrders(r.Context())
	if err != nil {
		http.Error(w, "Error fetching unaccepted orders", http.StatusInternalServerError)
		slog.Error("Error fetching unaccepted orders", "error", err)

		return
	}

	if orders == nil {
		orders = []order.Details{}
	}
	writeJSON(w, orders)
}

// Accepted reports the acceptance flag of one order as 0 or 1, the shape the
// driver clients poll for.
func Accepted(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := idParam(r, "orderId")
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	accepted, err := service.CheckOrderAccepted(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, ordersvc.ErrOrderNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}
		http.Error(w, "Error fetching acceptance flag", http.StatusInternalServerError)
		slog.Error("Error fetching acceptance flag", "order_id", orderID, "error", err)

		return
	}

	flag := 0
	if accepted {
		flag = 1
	}
	writeJSON(w, map[string]int{"order_accepted_by_driver": flag})
}
