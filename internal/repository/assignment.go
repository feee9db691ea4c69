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
	insertAssignmentQuery = `
						INSERT INTO assignments (id, order_id, restaurant_id, distance_km, status, assigned_at, expires_at, metadata)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	selectAssignmentColumns = `
						id, order_id, restaurant_id, distance_km, status,
						assigned_at, expires_at, responded_at, response_notes, metadata
`
	// The compare-and-swap at the heart of the arbiter: the row must still be
	// pending and owned by the responding restaurant, otherwise zero rows are
	// affected and the caller knows it lost the race.
	respondAssignmentQuery = `
						UPDATE assignments
						SET status = $1, responded_at = now(), response_notes = $2
						WHERE id = $3 AND restaurant_id = $4 AND status = 'pending'
`
	cancelPendingByOrderQuery = `
						UPDATE assignments
						SET status = 'cancelled'
						WHERE order_id = $1 AND id <> $2 AND status = 'pending'
`
	revokeAcceptedQuery = `
						UPDATE assignments
						SET status = 'cancelled'
						WHERE id = $1 AND status = 'accepted'
`
	expireAssignmentQuery = `
						UPDATE assignments
						SET status = 'expired'
						WHERE id = $1 AND status = 'pending'
`
	selectExpiredPendingQuery = `
						SELECT ` + selectAssignmentColumns + `
						FROM assignments
						WHERE status = 'pending' AND expires_at < $1
						ORDER BY expires_at
`
	selectByOrderQuery = `
						SELECT ` + selectAssignmentColumns + `
						FROM assignments
						WHERE order_id = $1
						ORDER BY assigned_at
`
	selectPendingByOrderQuery = `
						SELECT ` + selectAssignmentColumns + `
						FROM assignments
						WHERE order_id = $1 AND status = 'pending'
						ORDER BY assigned_at
`
	selectPendingByRestaurantQuery = `
						SELECT ` + selectAssignmentColumns + `
						FROM assignments
						WHERE restaurant_id = $1 AND status = 'pending' AND expires_at > now()
						ORDER BY expires_at
`
	countLiveByOrderQuery = `
						SELECT count(*) FILTER (WHERE status = 'pending'),
						       count(*) FILTER (WHERE status = 'accepted')
						FROM assignments
						WHERE order_id = $1
`
	countActiveByOrderQuery = `
						SELECT count(*) FROM assignments
						WHERE order_id = $1 AND status <> 'cancelled'
`
	countByOrderQuery = `
						SELECT count(*) FROM assignments WHERE order_id = $1
`
	deleteOrphanedQuery = `
						DELETE FROM assignments
						WHERE restaurant_id IS NULL AND ($1::uuid IS NULL OR order_id = $1)
`
)

// AssignmentRepository implements assignment persistence over postgres
type AssignmentRepository struct {
	db *postgres.DB
}

// NewAssignmentRepository creates new AssignmentRepository instance
func NewAssignmentRepository(db *postgres.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateAssignments inserts the assignment batch in a single transaction
func (ar *AssignmentRepository) CreateAssignments(ctx context.Context, assignments []models.Assignment) error {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range assignments {
		_, err := tx.Exec(ctx, insertAssignmentQuery,
			a.ID, a.OrderID, a.RestaurantID, a.DistanceKm,
			a.Status, a.AssignedAt, a.ExpiresAt, a.Metadata,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetAssignment returns assignment by id
func (ar *AssignmentRepository) GetAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	row := ar.db.QueryRow(ctx, `SELECT `+selectAssignmentColumns+` FROM assignments WHERE id = $1`, id)

	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAssignmentNotFound
		}
		return nil, err
	}

	return a, nil
}

// Respond flips a pending assignment owned by the restaurant to the given
// status. It reports false when the conditional update affected zero rows, or
// when a concurrent acceptance on a sibling row already holds the one-accepted
// index for the order.
func (ar *AssignmentRepository) Respond(ctx context.Context, id, restaurantID uuid.UUID, status string, notes *string) (bool, error) {
	cmd, err := ar.db.Exec(ctx, respondAssignmentQuery, status, notes, id, restaurantID)
	if err != nil {
		if ar.db.ErrorCode(err) == pgErrUniqueViolationCode {
			return false, nil
		}
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// CancelPendingByOrder cancels every pending sibling assignment of the order,
// returning how many rows were cancelled
func (ar *AssignmentRepository) CancelPendingByOrder(ctx context.Context, orderID, exceptID uuid.UUID) (int64, error) {
	cmd, err := ar.db.Exec(ctx, cancelPendingByOrderQuery, orderID, exceptID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// RevokeAccepted flips an accepted assignment to cancelled. Used only to
// compensate an acceptance whose order-level transition lost to a concurrent
// cancellation.
func (ar *AssignmentRepository) RevokeAccepted(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := ar.db.Exec(ctx, revokeAcceptedQuery, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// Expire transitions a pending assignment to expired. A row already out of
// pending is skipped, which makes concurrent sweeps safe.
func (ar *AssignmentRepository) Expire(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := ar.db.Exec(ctx, expireAssignmentQuery, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// GetExpiredPending returns pending assignments whose deadline is before now
func (ar *AssignmentRepository) GetExpiredPending(ctx context.Context, now time.Time) ([]models.Assignment, error) {
	rows, err := ar.db.Query(ctx, selectExpiredPendingQuery, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetByOrder returns every assignment of the order
func (ar *AssignmentRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error) {
	rows, err := ar.db.Query(ctx, selectByOrderQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetPendingByOrder returns pending assignments of the order
func (ar *AssignmentRepository) GetPendingByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Assignment, error) {
	rows, err := ar.db.Query(ctx, selectPendingByOrderQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetPendingByRestaurant returns live offers for the restaurant
func (ar *AssignmentRepository) GetPendingByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Assignment, error) {
	rows, err := ar.db.Query(ctx, selectPendingByRestaurantQuery, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// CountLiveByOrder returns how many pending and accepted assignments the
// order still has
func (ar *AssignmentRepository) CountLiveByOrder(ctx context.Context, orderID uuid.UUID) (pending int, accepted int, err error) {
	row := ar.db.QueryRow(ctx, countLiveByOrderQuery, orderID)
	if err := row.Scan(&pending, &accepted); err != nil {
		return 0, 0, err
	}
	return pending, accepted, nil
}

// CountActiveByOrder returns the number of non-cancelled assignments
func (ar *AssignmentRepository) CountActiveByOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	var n int
	if err := ar.db.QueryRow(ctx, countActiveByOrderQuery, orderID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountByOrder returns the total number of assignment rows for the order
func (ar *AssignmentRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	var n int
	if err := ar.db.QueryRow(ctx, countByOrderQuery, orderID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteOrphaned removes assignment rows with a NULL restaurant reference,
// scoped to one order when orderID is non-nil
func (ar *AssignmentRepository) DeleteOrphaned(ctx context.Context, orderID *uuid.UUID) (int64, error) {
	cmd, err := ar.db.Exec(ctx, deleteOrphanedQuery, orderID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	a := models.Assignment{}
	err := row.Scan(
		&a.ID, &a.OrderID, &a.RestaurantID, &a.DistanceKm, &a.Status,
		&a.AssignedAt, &a.ExpiresAt, &a.RespondedAt, &a.ResponseNotes, &a.Metadata,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAssignments(rows pgx.Rows) ([]models.Assignment, error) {
	assignments := []models.Assignment{}

	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			continue
		}
		assignments = append(assignments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
