package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/platefit/fulfillment/internal/models"
	"github.com/platefit/fulfillment/internal/repository/postgres"
)

const (
	insertStageQuery = `
						INSERT INTO preparation_stages (id, order_id, stage_name, stage_order, status, estimated_duration_minutes, started_at, notes)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	selectStageColumns = `
						id, order_id, stage_name, stage_order, status,
						estimated_duration_minutes, actual_duration_minutes,
						started_at, completed_at, notes
`
	selectStagesByOrderQuery = `
						SELECT ` + selectStageColumns + `
						FROM preparation_stages
						WHERE order_id = $1
						ORDER BY stage_order
`
	completeStageQuery = `
						UPDATE preparation_stages
						SET status = 'completed',
						    completed_at = now(),
						    actual_duration_minutes = GREATEST(0, CEIL(EXTRACT(EPOCH FROM (now() - started_at)) / 60))::int
						WHERE order_id = $1 AND stage_name = $2 AND status = 'in_progress'
`
	startStageQuery = `
						UPDATE preparation_stages
						SET status = 'in_progress', started_at = now()
						WHERE id = $1 AND status = 'pending'
`
	selectLowestPendingQuery = `
						SELECT ` + selectStageColumns + `
						FROM preparation_stages
						WHERE order_id = $1 AND status = 'pending'
						ORDER BY stage_order
						LIMIT 1
`
	countUncompletedBeforeQuery = `
						SELECT count(*) FROM preparation_stages
						WHERE order_id = $1 AND stage_order < $2 AND status <> 'completed'
`
	selectStalledPreparingQuery = `
						SELECT o.id FROM orders o
						WHERE o.status = 'preparing'
						  AND NOT EXISTS (SELECT 1 FROM preparation_stages s
						                  WHERE s.order_id = o.id AND s.status = 'in_progress')
						  AND EXISTS (SELECT 1 FROM preparation_stages s
						              WHERE s.order_id = o.id AND s.status = 'pending')
`
	selectAcceptedWithoutStagesQuery = `
						SELECT o.id FROM orders o
						WHERE o.status = 'restaurant_accepted'
						  AND NOT EXISTS (SELECT 1 FROM preparation_stages s
						                  WHERE s.order_id = o.id)
`
)

// StageRepository implements preparation stage persistence over postgres
type StageRepository struct {
	db *postgres.DB
}

// NewStageRepository creates new StageRepository instance
func NewStageRepository(db *postgres.DB) *StageRepository {
	return &StageRepository{db: db}
}

// CreateStages inserts the full stage set of an order in one transaction
func (sr *StageRepository) CreateStages(ctx context.Context, stages []models.PreparationStage) error {
	tx, err := sr.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range stages {
		_, err := tx.Exec(ctx, insertStageQuery,
			s.ID, s.OrderID, s.StageName, s.StageOrder,
			s.Status, s.EstimatedDurationMinutes, s.StartedAt, s.Notes,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetStagesByOrder returns the stage set of the order sorted by stage order
func (sr *StageRepository) GetStagesByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PreparationStage, error) {
	rows, err := sr.db.Query(ctx, selectStagesByOrderQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := []models.PreparationStage{}

	for rows.Next() {
		s := models.PreparationStage{}
		err = rows.Scan(
			&s.ID, &s.OrderID, &s.StageName, &s.StageOrder, &s.Status,
			&s.EstimatedDurationMinutes, &s.ActualDurationMinutes,
			&s.StartedAt, &s.CompletedAt, &s.Notes,
		)
		if err != nil {
			continue
		}
		stages = append(stages, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stages, nil
}

// CompleteStage marks the named in-progress stage of the order completed and
// records the actual duration. Reports false when the stage was not in
// progress.
func (sr *StageRepository) CompleteStage(ctx context.Context, orderID uuid.UUID, stageName string) (bool, error) {
	cmd, err := sr.db.Exec(ctx, completeStageQuery, orderID, stageName)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// StartStage transitions a pending stage to in progress
func (sr *StageRepository) StartStage(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := sr.db.Exec(ctx, startStageQuery, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// GetLowestPending returns the lowest-ordered pending stage of the order, or
// models.ErrStageNotFound when none remain
func (sr *StageRepository) GetLowestPending(ctx context.Context, orderID uuid.UUID) (*models.PreparationStage, error) {
	row := sr.db.QueryRow(ctx, selectLowestPendingQuery, orderID)

	s := models.PreparationStage{}
	err := row.Scan(
		&s.ID, &s.OrderID, &s.StageName, &s.StageOrder, &s.Status,
		&s.EstimatedDurationMinutes, &s.ActualDurationMinutes,
		&s.StartedAt, &s.CompletedAt, &s.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrStageNotFound
		}
		return nil, err
	}

	return &s, nil
}

// CountUncompletedBefore returns how many stages below the given order are
// not yet completed
func (sr *StageRepository) CountUncompletedBefore(ctx context.Context, orderID uuid.UUID, stageOrder int) (int, error) {
	var n int
	if err := sr.db.QueryRow(ctx, countUncompletedBeforeQuery, orderID, stageOrder).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetStalledPreparingOrders returns ids of preparing orders whose stage set
// has pending stages but nothing in progress
func (sr *StageRepository) GetStalledPreparingOrders(ctx context.Context) ([]uuid.UUID, error) {
	return sr.collectOrderIDs(ctx, selectStalledPreparingQuery)
}

// GetAcceptedWithoutStages returns ids of accepted orders whose stage set was
// never created, e.g. when the insert failed inside the accept cascade
func (sr *StageRepository) GetAcceptedWithoutStages(ctx context.Context) ([]uuid.UUID, error) {
	return sr.collectOrderIDs(ctx, selectAcceptedWithoutStagesQuery)
}

func (sr *StageRepository) collectOrderIDs(ctx context.Context, query string) ([]uuid.UUID, error) {
	rows, err := sr.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
