package iorderitemrepo

import (
	"context"

	"github.com/foodfeast/order/internal/service/models/orderitem"
)

// PostgresRepository defines order item persistence operations.
type PostgresRepository interface {
	// BulkInsert writes all items of an order in one statement and returns
	// them with server-assigned ids.
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)

	// Query retrieves order items based on filter criteria.
	Query(ctx context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error)
}
