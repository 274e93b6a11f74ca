package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/foodfeast/order/internal/dal/interfaces/iauditrepo"
	"github.com/foodfeast/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/foodfeast/order/internal/dal/interfaces/iorderrepo"
	"github.com/foodfeast/order/internal/dal/postgres"
	auditrepo "github.com/foodfeast/order/internal/dal/repositories/audit/postgres"
	orderrepo "github.com/foodfeast/order/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/foodfeast/order/internal/dal/repositories/orderitem/postgres"
)

// UnitOfWork scopes order, order item and audit repositories to one
// connection. Until Begin is called the repositories run directly on the
// pool; after Begin they share a single transaction.
type UnitOfWork struct {
	client        *postgres.Client
	tx            pgx.Tx
	orderRepo     iorderrepo.PostgresRepository
	orderItemRepo iorderitemrepo.PostgresRepository
	auditRepo     iauditrepo.PostgresRepository
}

func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	return &UnitOfWork{
		client:        client,
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		auditRepo:     auditrepo.NewPostgresAuditRepository(client.Pool()),
	}
}

func (u *UnitOfWork) OrderRepository() iorderrepo.PostgresRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.PostgresRepository {
	return u.orderItemRepo
}

func (u *UnitOfWork) AuditRepository() iauditrepo.PostgresRepository {
	return u.auditRepo
}

// Begin starts a transaction and rebinds the repositories to it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.auditRepo = auditrepo.NewPostgresAuditRepository(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Commit(ctx)
	u.tx = nil

	return err
}

// Rollback aborts the transaction. Calling it after Commit is a no-op, so it
// is safe to defer.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(ctx)
	u.tx = nil

	return err
}
