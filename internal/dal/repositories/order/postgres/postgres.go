package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/foodfeast/order/internal/service/models/order"
	"github.com/foodfeast/order/internal/service/models/orderitem"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	OrderId             int64     `db:"order_id"`
	CustomerId          int64     `db:"customer_id"`
	RestaurantId        int64     `db:"restaurant_id"`
	OrderDate           time.Time `db:"order_date"`
	OrderStatus         string    `db:"order_status"`
	OrderTotal          float64   `db:"order_total"`
	DeliveryAddress     string    `db:"delivery_address"`
	PaymentMethod       string    `db:"payment_method"`
	SpecialInstructions string    `db:"special_instructions"`
	AcceptedByDriver    bool      `db:"order_accepted_by_driver"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.OrderStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:                  o.OrderId,
		CustomerID:          o.CustomerId,
		RestaurantID:        o.RestaurantId,
		OrderDate:           o.OrderDate,
		Status:              status,
		Total:               o.OrderTotal,
		DeliveryAddress:     o.DeliveryAddress,
		PaymentMethod:       o.PaymentMethod,
		SpecialInstructions: o.SpecialInstructions,
		AcceptedByDriver:    o.AcceptedByDriver,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		OrderItems:          []orderitem.OrderItem{}, // populated separately
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const orderColumns = `
	order_id,
	customer_id,
	restaurant_id,
	order_date,
	order_status,
	order_total,
	delivery_address,
	payment_method,
	special_instructions,
	order_accepted_by_driver,
	created_at,
	updated_at
`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.OrderId,
		&dal.CustomerId,
		&dal.RestaurantId,
		&dal.OrderDate,
		&dal.OrderStatus,
		&dal.OrderTotal,
		&dal.DeliveryAddress,
		&dal.PaymentMethod,
		&dal.SpecialInstructions,
		&dal.AcceptedByDriver,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert writes a single order header and returns it with the assigned id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	sql := `
		INSERT INTO food_orders (
			customer_id,
			restaurant_id,
			order_date,
			order_status,
			order_total,
			delivery_address,
			payment_method,
			special_instructions,
			order_accepted_by_driver,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + orderColumns

	row := r.conn.QueryRow(ctx, sql,
		o.CustomerID,
		o.RestaurantID,
		o.OrderDate,
		o.Status,
		o.Total,
		o.DeliveryAddress,
		o.PaymentMethod,
		o.SpecialInstructions,
		o.AcceptedByDriver,
		o.CreatedAt,
		o.UpdatedAt,
	)

	inserted, err := scanOrder(row)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return *inserted, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select(
			"order_id",
			"customer_id",
			"restaurant_id",
			"order_date",
			"order_status",
			"order_total",
			"delivery_address",
			"payment_method",
			"special_instructions",
			"order_accepted_by_driver",
			"created_at",
			"updated_at",
		).
		From("food_orders")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.Ids})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if len(filter.RestaurantIds) > 0 {
		query = query.Where(sq.Eq{"restaurant_id": filter.RestaurantIds})
	}

	if filter.UnacceptedOnly {
		query = query.Where(sq.Eq{"order_accepted_by_driver": false})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetStatusForUpdate reads the current status of an order, taking a row lock.
// The row lock is the only mutual exclusion across concurrent transitions on
// the same order.
func (r *PostgresOrderRepository) GetStatusForUpdate(
	ctx context.Context,
	orderID int64,
) (order.Status, error) {
	sql := `SELECT order_status FROM food_orders WHERE order_id = $1 FOR UPDATE`

	var raw string
	if err := r.conn.QueryRow(ctx, sql, orderID).Scan(&raw); err != nil {
		return "", fmt.Errorf("failed to get order status: %w", err)
	}

	return order.ParseStatus(raw)
}

// UpdateStatus overwrites the status of an order.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	orderID int64,
	status order.Status,
) error {
	sql := `UPDATE food_orders SET order_status = $2, updated_at = $3 WHERE order_id = $1`

	tag, err := r.conn.Exec(ctx, sql, orderID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// SetAcceptedByDriver sets the driver acceptance flag to true. The update is
// idempotent: the flag is never reset once set.
func (r *PostgresOrderRepository) SetAcceptedByDriver(ctx context.Context, orderID int64) error {
	sql := `UPDATE food_orders SET order_accepted_by_driver = true, updated_at = $2 WHERE order_id = $1`

	tag, err := r.conn.Exec(ctx, sql, orderID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set order accepted by driver: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// GetAcceptedFlag reads the driver acceptance flag of a single order.
func (r *PostgresOrderRepository) GetAcceptedFlag(ctx context.Context, orderID int64) (bool, error) {
	sql := `SELECT order_accepted_by_driver FROM food_orders WHERE order_id = $1`

	var accepted bool
	if err := r.conn.QueryRow(ctx, sql, orderID).Scan(&accepted); err != nil {
		return false, fmt.Errorf("failed to get acceptance flag: %w", err)
	}

	return accepted, nil
}

const detailsColumns = `
	fo.order_id,
	fo.customer_id,
	fo.restaurant_id,
	fo.order_date,
	fo.order_status,
	fo.order_total,
	fo.delivery_address,
	fo.payment_method,
	fo.special_instructions,
	fo.order_accepted_by_driver,
	fo.created_at,
	fo.updated_at,
	r.name,
	r.est_delivery_time,
	r.phone,
	r.address
`

func scanDetails(row pgx.Row) (*order.Details, error) {
	var dal OrderDal
	var details order.Details

	err := row.Scan(
		&dal.OrderId,
		&dal.CustomerId,
		&dal.RestaurantId,
		&dal.OrderDate,
		&dal.OrderStatus,
		&dal.OrderTotal,
		&dal.DeliveryAddress,
		&dal.PaymentMethod,
		&dal.SpecialInstructions,
		&dal.AcceptedByDriver,
		&dal.CreatedAt,
		&dal.UpdatedAt,
		&details.RestaurantName,
		&details.EstDeliveryTime,
		&details.RestaurantPhone,
		&details.RestaurantAddress,
	)
	if err != nil {
		return nil, err
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, err
	}
	details.Order = *model

	return &details, nil
}

// GetDetails reads a single order joined with its restaurant metadata.
func (r *PostgresOrderRepository) GetDetails(ctx context.Context, orderID int64) (*order.Details, error) {
	sql := `
		SELECT ` + detailsColumns + `
		FROM food_orders fo
		JOIN restaurants r ON fo.restaurant_id = r.id
		WHERE fo.order_id = $1
	`

	details, err := scanDetails(r.conn.QueryRow(ctx, sql, orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order details: %w", err)
	}

	return details, nil
}

// QueryUnaccepted lists orders not yet claimed by any driver, joined with
// restaurant metadata. The filter is on the acceptance flag alone, not status.
func (r *PostgresOrderRepository) QueryUnaccepted(ctx context.Context) ([]order.Details, error) {
	sql := `
		SELECT ` + detailsColumns + `
		FROM food_orders fo
		JOIN restaurants r ON fo.restaurant_id = r.id
		WHERE fo.order_accepted_by_driver = false
	`

	rows, err := r.conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query unaccepted orders: %w", err)
	}
	defer rows.Close()

	var result []order.Details
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unaccepted order: %w", err)
		}
		result = append(result, *details)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
