package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/foodfeast/order/internal/service/models/auditlog"
)

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresAuditRepository persists the status transition audit trail.
type PostgresAuditRepository struct {
	conn GenericConn
}

// NewPostgresAuditRepository creates a new Postgres audit repository.
func NewPostgresAuditRepository(conn GenericConn) *PostgresAuditRepository {
	return &PostgresAuditRepository{
		conn: conn,
	}
}

// Insert records a single status transition.
func (r *PostgresAuditRepository) Insert(ctx context.Context, entry auditlog.StatusChange) error {
	query, args, err := sq.Insert("order_status_audit").
		Columns("order_id", "old_status", "new_status", "changed_at").
		Values(entry.OrderID, entry.OldStatus, entry.NewStatus, entry.ChangedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}
