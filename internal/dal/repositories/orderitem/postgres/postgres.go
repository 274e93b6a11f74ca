package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/foodfeast/order/internal/service/models/orderitem"
)

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id              int64     `db:"id"`
	OrderId         int64     `db:"order_id"`
	MenuItemId      int64     `db:"menu_item_id"`
	Quantity        int       `db:"quantity"`
	Price           float64   `db:"price"`
	ItemTotal       float64   `db:"item_total"`
	SpecialRequests string    `db:"special_requests"`
	CreatedAt       time.Time `db:"created_at"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (oi *OrderItemDal) ToModel() *orderitem.OrderItem {
	return &orderitem.OrderItem{
		ID:              oi.Id,
		OrderID:         oi.OrderId,
		MenuItemID:      oi.MenuItemId,
		Quantity:        oi.Quantity,
		Price:           oi.Price,
		ItemTotal:       oi.ItemTotal,
		SpecialRequests: oi.SpecialRequests,
		CreatedAt:       oi.CreatedAt,
	}
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts all items of an order in one statement and returns them
// with assigned ids.
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	sql := `
		INSERT INTO order_items (
			order_id,
			menu_item_id,
			quantity,
			price,
			item_total,
			special_requests,
			created_at
		)
		SELECT
			order_id,
			menu_item_id,
			quantity,
			price,
			item_total,
			special_requests,
			created_at
		FROM unnest(
			$1::bigint[], $2::bigint[], $3::int[], $4::numeric[], $5::numeric[], $6::text[], $7::timestamptz[]
		)
		AS t(order_id, menu_item_id, quantity, price, item_total, special_requests, created_at)
		RETURNING id, order_id, menu_item_id, quantity, price, item_total, special_requests, created_at
	`

	orderIds := make([]int64, len(items))
	menuItemIds := make([]int64, len(items))
	quantities := make([]int32, len(items))
	prices := make([]float64, len(items))
	itemTotals := make([]float64, len(items))
	specialRequests := make([]string, len(items))
	createdAts := make([]time.Time, len(items))

	for i, item := range items {
		orderIds[i] = item.OrderID
		menuItemIds[i] = item.MenuItemID
		quantities[i] = int32(item.Quantity)
		prices[i] = item.Price
		itemTotals[i] = item.ItemTotal
		specialRequests[i] = item.SpecialRequests
		createdAts[i] = item.CreatedAt
	}

	rows, err := r.conn.Query(ctx, sql,
		orderIds,
		menuItemIds,
		quantities,
		prices,
		itemTotals,
		specialRequests,
		createdAts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.MenuItemId,
			&dal.Quantity,
			&dal.Price,
			&dal.ItemTotal,
			&dal.SpecialRequests,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.
		Select(
			"id",
			"order_id",
			"menu_item_id",
			"quantity",
			"price",
			"item_total",
			"special_requests",
			"created_at",
		).
		From("order_items").
		OrderBy("id ASC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
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
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.MenuItemId,
			&dal.Quantity,
			&dal.Price,
			&dal.ItemTotal,
			&dal.SpecialRequests,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
