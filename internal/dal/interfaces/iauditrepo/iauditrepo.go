package iauditrepo

import (
	"context"

	"github.com/foodfeast/order/internal/service/models/auditlog"
)

// PostgresRepository defines the audit trail persistence operations.
type PostgresRepository interface {
	// Insert records a single status transition.
	Insert(ctx context.Context, entry auditlog.StatusChange) error
}
