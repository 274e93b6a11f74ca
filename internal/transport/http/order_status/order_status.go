package orderstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/services/ordersvc"
)

// service is an interface for the service layer.
type service interface {
	ChangeOrderStatus(ctx context.Context, orderID int64, rawStatus string) error
	AcceptOrder(ctx context.Context, orderID int64) error
	MarkPickedUp(ctx context.Context, orderID int64) error
	MarkDelivered(ctx context.Context, orderID int64) error
}

type changeStatusRequest struct {
	OrderID     int64  `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

type acceptRequest struct {
	OrderID int64 `json:"orderId"`
}

// statusFromError maps the lifecycle error taxonomy to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, order.ErrUnknownStatus):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ordersvc.ErrOrderNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"message":"ok"}`)); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// ChangeStatus handles the status transition request.
func ChangeStatus(w http.ResponseWriter, r *http.Request, service service) {
	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for change status", "error", err)

		return
	}

	if err := service.ChangeOrderStatus(r.Context(), req.OrderID, req.OrderStatus); err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		slog.Error("Error changing order status",
			"order_id", req.OrderID,
			"status", req.OrderStatus,
			"error", err,
		)

		return
	}

	writeOK(w)
}

// Accept handles the driver claim request.
func Accept(w http.ResponseWriter, r *http.Request, service service) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for accept order", "error", err)

		return
	}

	if err := service.AcceptOrder(r.Context(), req.OrderID); err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		slog.Error("Error accepting order", "order_id", req.OrderID, "error", err)

		return
	}

	writeOK(w)
}

func orderIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
}

// PickUp handles the picked-up request.
func PickUp(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	if err := service.MarkPickedUp(r.Context(), orderID); err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		slog.Error("Error marking order as picked up", "order_id", orderID, "error", err)

		return
	}

	writeOK(w)
}

// Delivered handles the delivered request.
func Delivered(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	if err := service.MarkDelivered(r.Context(), orderID); err != nil {
		http.Error(w, err.Error(), statusFromError(err))
		slog.Error("Error marking order as delivered", "order_id", orderID, "error", err)

		return
	}

	writeOK(w)
}
