package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/models/orderitem"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// cartItem mirrors the wire format submitted by the checkout page.
type cartItem struct {
	ItemID          int64   `json:"itemId"`
	ItemQuantity    int     `json:"itemQuantity"`
	Price           float64 `json:"price"`
	SpecialRequests string  `json:"specialRequests"`
}

// createOrderRequest mirrors the wire format of the order placement call.
// orderStatus is accepted for compatibility but ignored: a new order always
// starts Placed.
type createOrderRequest struct {
	CustomerID          int64      `json:"customerId"`
	RestaurantID        int64      `json:"restaurantId"`
	OrderDate           string     `json:"orderDate"`
	OrderStatus         string     `json:"orderStatus"`
	OrderTotal          float64    `json:"orderTotal"`
	DeliveryAddress     string     `json:"deliveryAddress"`
	PaymentMethod       string     `json:"paymentMethod"`
	SpecialInstructions string     `json:"specialInstructions"`
	CartItems           []cartItem `json:"cartItems"`
}

// parseOrderDate accepts RFC 3339 or the date-time layout older clients send.
func parseOrderDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t
	}

	return time.Time{}
}

// CreateOrder handles the order placement request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	items := make([]orderitem.OrderItem, len(req.CartItems))
	for i, item := range req.CartItems {
		items[i] = orderitem.OrderItem{
			MenuItemID:      item.ItemID,
			Quantity:        item.ItemQuantity,
			Price:           item.Price,
			SpecialRequests: item.SpecialRequests,
		}
	}

	o := order.Order{
		CustomerID:          req.CustomerID,
		RestaurantID:        req.RestaurantID,
		OrderDate:           parseOrderDate(req.OrderDate),
		Total:               req.OrderTotal,
		DeliveryAddress:     req.DeliveryAddress,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
		OrderItems:          items,
	}

	created, err := service.CreateOrder(r.Context(), o)
	if err != nil {
		http.Error(w, "Error creating order", http.StatusInternalServerError)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error writing response for create order", "error", err)
	}
}
