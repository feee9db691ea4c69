package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/platefit/fulfillment/internal/models"
	"github.com/platefit/fulfillment/internal/repository/postgres"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, status, restaurant_id, latitude, longitude, total_cents, source, created_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	selectOrderColumns = `
						id, status, restaurant_id, latitude, longitude, total_cents, source,
						created_at, assigned_at, accepted_at, preparation_started_at,
						ready_at, picked_up_at, delivered_at, cancelled_at
`
	// Every status transition is a single conditional update. Timestamp
	// columns are append-only: once set they are never overwritten.
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1,
						    restaurant_id = COALESCE($2, restaurant_id),
						    assigned_at = CASE WHEN $1 IN ('awaiting_restaurant', 'restaurant_assigned') THEN COALESCE(assigned_at, now()) ELSE assigned_at END,
						    accepted_at = CASE WHEN $1 = 'restaurant_accepted' THEN COALESCE(accepted_at, now()) ELSE accepted_at END,
						    preparation_started_at = CASE WHEN $1 = 'preparing' THEN COALESCE(preparation_started_at, now()) ELSE preparation_started_at END,
						    ready_at = CASE WHEN $1 = 'ready_for_pickup' THEN COALESCE(ready_at, now()) ELSE ready_at END,
						    picked_up_at = CASE WHEN $1 = 'on_the_way' THEN COALESCE(picked_up_at, now()) ELSE picked_up_at END,
						    delivered_at = CASE WHEN $1 = 'delivered' THEN COALESCE(delivered_at, now()) ELSE delivered_at END
						WHERE id = $3 AND status = $4
`
	cancelOrderQuery = `
						UPDATE orders
						SET status = 'cancelled',
						    cancelled_at = COALESCE(cancelled_at, now())
						WHERE id = $1
						  AND status NOT IN ('delivered', 'cancelled', 'no_restaurant_accepted', 'no_restaurant_available')
`
	selectOrdersByStatusQuery = `
						SELECT ` + selectOrderColumns + `
						FROM orders
						WHERE status = $1
						ORDER BY created_at
`
	selectStuckOrdersQuery = `
						SELECT ` + selectOrderColumns + `
						FROM orders o
						WHERE o.status = 'pending'
						  AND o.restaurant_id IS NULL
						  AND o.created_at BETWEEN $1 AND $2
						  AND NOT EXISTS (SELECT 1 FROM assignments a WHERE a.order_id = o.id)
						ORDER BY o.created_at
`
)

// OrderRepository implements order persistence over postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := or.db.Exec(ctx, insertOrderQuery,
		order.ID, order.Status, order.RestaurantID,
		order.Latitude, order.Longitude, order.TotalCents,
		order.Source, order.CreatedAt,
	)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflict
		}
		return err
	}
	return nil
}

// GetOrder returns order by id
func (or *OrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	row := or.db.QueryRow(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

// UpdateOrderStatus transitions order from one status to another. The update
// is conditioned on the current status; it reports false when zero rows were
// affected, meaning the transition was lost to a concurrent writer.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string, restaurantID *uuid.UUID) (bool, error) {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, to, restaurantID, id, from)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// CancelOrder cancels order from any non-terminal status
func (or *OrderRepository) CancelOrder(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := or.db.Exec(ctx, cancelOrderQuery, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// GetOrdersByStatus returns orders with the given status
func (or *OrderRepository) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByStatusQuery, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

// GetStuckOrders returns pending orders without restaurant and without any
// assignment rows, created inside the [since, until] window
func (or *OrderRepository) GetStuckOrders(ctx context.Context, since, until time.Time) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectStuckOrdersQuery, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := models.Order{}
	err := row.Scan(
		&order.ID, &order.Status, &order.RestaurantID,
		&order.Latitude, &order.Longitude, &order.TotalCents, &order.Source,
		&order.CreatedAt, &order.AssignedAt, &order.AcceptedAt, &order.PreparationStartedAt,
		&order.ReadyAt, &order.PickedUpAt, &order.DeliveredAt, &order.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
