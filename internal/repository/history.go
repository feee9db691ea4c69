package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/platefit/fulfillment/internal/models"
	"github.com/platefit/fulfillment/internal/repository/postgres"
)

const (
	insertHistoryQuery = `
						INSERT INTO order_history (order_id, event_type, restaurant_id, detail)
						VALUES ($1, $2, $3, $4)
						RETURNING id, created_at
`
	selectHistoryByOrderQuery = `
						SELECT id, order_id, event_type, restaurant_id, detail, created_at
						FROM order_history
						WHERE order_id = $1
						ORDER BY id
`
)

// HistoryRepository implements the append-only order audit log
type HistoryRepository struct {
	db *postgres.DB
}

// NewHistoryRepository creates new HistoryRepository instance
func NewHistoryRepository(db *postgres.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// AppendEvent writes one audit log entry
func (hr *HistoryRepository) AppendEvent(ctx context.Context, event *models.HistoryEvent) error {
	return hr.db.QueryRow(ctx, insertHistoryQuery,
		event.OrderID, event.EventType, event.RestaurantID, event.Detail,
	).Scan(&event.ID, &event.CreatedAt)
}

// GetEventsByOrder returns the audit trail of the order
func (hr *HistoryRepository) GetEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.HistoryEvent, error) {
	rows, err := hr.db.Query(ctx, selectHistoryByOrderQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.HistoryEvent{}

	for rows.Next() {
		e := models.HistoryEvent{}
		err = rows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.RestaurantID, &e.Detail, &e.CreatedAt)
		if err != nil {
			continue
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
