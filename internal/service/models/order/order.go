package order

import (
	"time"

	"github.com/foodfeast/order/internal/service/models/orderitem"
)

// Order is an order header. The acceptance flag is independent of Status:
// it starts false and is set true exactly once when a driver claims the order.
type Order struct {
	ID                  int64                 `json:"order_id"`
	CustomerID          int64                 `json:"customer_id"`
	RestaurantID        int64                 `json:"restaurant_id"`
	OrderDate           time.Time             `json:"order_date"`
	Status              Status                `json:"order_status"`
	Total               float64               `json:"order_total"`
	DeliveryAddress     string                `json:"delivery_address"`
	PaymentMethod       string                `json:"payment_method"`
	SpecialInstructions string                `json:"special_instructions"`
	AcceptedByDriver    bool                  `json:"order_accepted_by_driver"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	OrderItems          []orderitem.OrderItem `json:"order_items,omitempty"`
}

// Details is an order joined with the metadata of its restaurant. Used for
// the driver-facing projections (unaccepted backlog, in-progress event).
type Details struct {
	Order
	RestaurantName    string `json:"name"`
	EstDeliveryTime   int    `json:"est_delivery_time"`
	RestaurantPhone   string `json:"phone"`
	RestaurantAddress string `json:"address"`
}
