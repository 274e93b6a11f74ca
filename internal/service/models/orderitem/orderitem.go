package orderitem

import (
	"time"
)

// OrderItem is a single ordered menu entry. Quantity and price are a snapshot
// taken at order time; items are written once alongside the order header and
// never mutated afterwards.
type OrderItem struct {
	ID              int64     `json:"id"`
	OrderID         int64     `json:"order_id"`
	MenuItemID      int64     `json:"menu_item_id"`
	Quantity        int       `json:"quantity"`
	Price           float64   `json:"price"`
	ItemTotal       float64   `json:"item_total"`
	SpecialRequests string    `json:"special_requests"`
	CreatedAt       time.Time `json:"created_at"`
}
