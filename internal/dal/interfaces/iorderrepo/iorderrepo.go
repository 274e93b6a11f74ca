package iorderrepo

import (
	"context"

	"github.com/foodfeast/order/internal/service/models/order"
)

// PostgresRepository defines order header persistence operations.
type PostgresRepository interface {
	// Insert writes a single order header and returns it with the
	// server-assigned id.
	Insert(ctx context.Context, o order.Order) (order.Order, error)

	// Query retrieves orders based on filter criteria.
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// GetStatusForUpdate reads the current status of an order, locking the
	// row for the duration of the enclosing transaction.
	GetStatusForUpdate(ctx context.Context, orderID int64) (order.Status, error)

	// UpdateStatus overwrites the status of an order.
	UpdateStatus(ctx context.Context, orderID int64, status order.Status) error

	// SetAcceptedByDriver sets the driver acceptance flag to true.
	SetAcceptedByDriver(ctx context.Context, orderID int64) error

	// GetAcceptedFlag reads the driver acceptance flag of a single order.
	GetAcceptedFlag(ctx context.Context, orderID int64) (bool, error)

	// GetDetails reads a single order joined with its restaurant metadata.
	GetDetails(ctx context.Context, orderID int64) (*order.Details, error)

	// QueryUnaccepted lists orders not yet claimed by any driver, joined
	// with restaurant metadata, regardless of status.
	QueryUnaccepted(ctx context.Context) ([]order.Details, error)
}
