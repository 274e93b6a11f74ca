package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/foodfeast/order/internal/dal/interfaces/iauditrepo"
	"github.com/foodfeast/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/foodfeast/order/internal/dal/interfaces/iorderrepo"
	"github.com/foodfeast/order/internal/dal/postgres"
	"github.com/foodfeast/order/internal/dal/uow"
	"github.com/foodfeast/order/internal/service/models/auditlog"
	"github.com/foodfeast/order/internal/service/models/event"
	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/models/orderitem"
)

// ErrOrderNotFound is returned when a lifecycle operation references an
// order id with no matching row.
var ErrOrderNotFound = errors.New("order not found")

// unitOfWork scopes repositories to one connection or transaction.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.PostgresRepository
	OrderItemRepository() iorderitemrepo.PostgresRepository
	AuditRepository() iauditrepo.PostgresRepository
}

// broadcaster emits a lifecycle event to every current member of a group.
// It is injected at construction so tests can substitute a recording stub.
type broadcaster interface {
	Emit(ctx context.Context, group, eventName string, payload any) error
}

// OrderService owns the order lifecycle: it validates and applies status
// transitions, orchestrates the transactional header plus line item writes,
// and emits events to the interested groups after a write is committed,
// never before.
type OrderService struct {
	newUOW      func() unitOfWork
	broadcaster broadcaster
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit of work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// WithBroadcaster sets the event broadcaster for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBroadcaster(b broadcaster) option {
	return func(s *OrderService) {
		s.broadcaster = b
	}
}

// CreateOrder persists a new order header together with all of its line
// items in one transaction, then emits a newOrder event to the restaurant's
// group and to the drivers pool. The initial status is always Placed and the
// acceptance flag always false, whatever the caller sent.
func (s *OrderService) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	now := time.Now()

	o.Status = order.StatusPlaced
	o.AcceptedByDriver = false
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer work.Rollback(ctx)

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	items := make([]orderitem.OrderItem, len(o.OrderItems))
	for i, item := range o.OrderItems {
		item.OrderID = inserted.ID
		item.ItemTotal = float64(item.Quantity) * item.Price
		item.CreatedAt = now
		items[i] = item
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	inserted.OrderItems = items

	g, gctx := errgroup.WithContext(ctx)
	for _, group := range []string{event.RestaurantGroup(inserted.RestaurantID), event.GroupDrivers} {
		group := group
		g.Go(func() error {
			return s.broadcaster.Emit(gctx, group, event.NewOrder, inserted)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Failed to emit newOrder event", "order_id", inserted.ID, "error", err)
	}

	return inserted, nil
}

// ChangeOrderStatus applies a status transition. When the order enters
// In Progress the enriched order is emitted to the drivers pool; no other
// status broadcasts. Picked-up and delivered stay pull-only: drivers and
// restaurants already track those through the query endpoints.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, orderID int64, rawStatus string) error {
	next, err := order.ParseStatus(rawStatus)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, orderID, next); err != nil {
		return err
	}

	if next != order.StatusInProgress {
		return nil
	}

	details, err := s.newUOW().OrderRepository().GetDetails(ctx, orderID)
	if err != nil {
		// The transition is already committed; losing the notification must
		// not fail the request.
		slog.Error("Failed to load order details for emission", "order_id", orderID, "error", err)

		return nil
	}

	s.emit(ctx, event.GroupDrivers, event.OrderInProgress, details)

	return nil
}

// AcceptOrder marks an order as claimed by a driver. The write is idempotent
// at the data level, but the orderAccepted event goes out on every call so
// all drivers see the claim even if it is repeated.
func (s *OrderService) AcceptOrder(ctx context.Context, orderID int64) error {
	work := s.newUOW()

	if err := work.OrderRepository().SetAcceptedByDriver(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}

		return err
	}

	s.emit(ctx, event.GroupDrivers, event.OrderAccepted, event.OrderAcceptedPayload{OrderID: orderID})

	return nil
}

// MarkPickedUp moves an order to Out for Delivery. No event is emitted.
func (s *OrderService) MarkPickedUp(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, order.StatusOutForDelivery)
}

// MarkDelivered moves an order to Delivered. No event is emitted.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID int64) error {
	return s.transition(ctx, orderID, order.StatusDelivered)
}

// transition validates and applies a single status transition inside one
// transaction, recording it in the audit trail. The FOR UPDATE read
// serializes concurrent transitions on the same order.
func (s *OrderService) transition(ctx context.Context, orderID int64, next order.Status) error {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer work.Rollback(ctx)

	current, err := work.OrderRepository().GetStatusForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}

		return err
	}

	if err := current.ValidateTransition(next); err != nil {
		return err
	}

	if err := work.OrderRepository().UpdateStatus(ctx, orderID, next); err != nil {
		return err
	}

	entry := auditlog.StatusChange{
		OrderID:   orderID,
		OldStatus: current.String(),
		NewStatus: next.String(),
		ChangedAt: time.Now(),
	}
	if err := work.AuditRepository().Insert(ctx, entry); err != nil {
		return err
	}

	return work.Commit(ctx)
}

// emit broadcasts a single event, logging a residual failure. The
// broadcaster itself queues undeliverable events for retry, so an error here
// means both the publish and the fallback failed.
func (s *OrderService) emit(ctx context.Context, group, eventName string, payload any) {
	if err := s.broadcaster.Emit(ctx, group, eventName, payload); err != nil {
		slog.Error("Failed to emit event", "group", group, "event", eventName, "error", err)
	}
}

// GetOrdersByCustomerID lists the orders placed by one customer.
func (s *OrderService) GetOrdersByCustomerID(ctx context.Context, customerID int64) ([]order.Order, error) {
	return s.newUOW().OrderRepository().Query(ctx, &order.QueryOrdersModel{
		CustomerIds: []int64{customerID},
	})
}

// GetOrdersByRestaurantID lists the orders of one restaurant, acceptance
// flag included.
func (s *OrderService) GetOrdersByRestaurantID(ctx context.Context, restaurantID int64) ([]order.Order, error) {
	return s.newUOW().OrderRepository().Query(ctx, &order.QueryOrdersModel{
		RestaurantIds: []int64{restaurantID},
	})
}

// GetOrderItemsByOrderID lists the line items of one order.
func (s *OrderService) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]orderitem.OrderItem, error) {
	return s.newUOW().OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{orderID},
	})
}

// GetUnacceptedOrders lists the backlog of orders no driver has claimed yet,
// enriched with restaurant metadata. The filter is on the acceptance flag
// alone, regardless of status.
func (s *OrderService) GetUnacceptedOrders(ctx context.Context) ([]order.Details, error) {
	return s.newUOW().OrderRepository().QueryUnaccepted(ctx)
}

// CheckOrderAccepted reports whether a driver has claimed the order.
func (s *OrderService) CheckOrderAccepted(ctx context.Context, orderID int64) (bool, error) {
	accepted, err := s.newUOW().OrderRepository().GetAcceptedFlag(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}

		return false, err
	}

	return accepted, nil
}
