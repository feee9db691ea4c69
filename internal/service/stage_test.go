package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// acceptOrder drives a fresh order through broadcast and acceptance so the
// kitchen pipeline exists
func acceptOrder(t *testing.T, env *testEnv) *models.Order {
	t.Helper()
	ctx := context.Background()
	order := placeOrder(t, env, CreateOrderCommand{
		Latitude:  floatPtr(40.7),
		Longitude: floatPtr(-74.0),
	})
	batch, err := env.assignments.GetAssignmentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotEmpty(t, batch)
	require.NoError(t, env.assignments.Respond(ctx, batch[0].ID, *batch[0].RestaurantID, ActionAccept, nil))
	got, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	return got
}

func TestStageService_BeginPreparation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFinder{candidates: candidateList(1)})
	order := acceptOrder(t, env)

	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assert.NotNil(t, order.PreparationStartedAt)

	stages, err := env.stages.GetStages(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stages, 3)

	assert.Equal(t, "prep", stages[0].StageName)
	assert.Equal(t, models.StageStatusInProgress, stages[0].Status)
	assert.NotNil(t, stages[0].StartedAt)

	assert.Equal(t, "cook", stages[1].StageName)
	assert.Equal(t, models.StageStatusPending, stages[1].Status)
	assert.Equal(t, "package", stages[2].StageName)
	assert.Equal(t, models.StageStatusPending, stages[2].Status)
}

func TestStageService_AdvanceStage(t *testing.T) {
	ctx := context.Background()

	t.Run("runs_the_pipeline_in_order", func(t *testing.T) {
		env := newTestEnv(&stubFinder{candidates: candidateList(1)})
		order := acceptOrder(t, env)

		require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "prep"))

		stages, err := env.stages.GetStages(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StageStatusCompleted, stages[0].Status)
		assert.NotNil(t, stages[0].ActualDurationMinutes)
		assert.Equal(t, models.StageStatusInProgress, stages[1].Status)

		require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "cook"))
		require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "package"))

		got, err := env.orders.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusReadyForPickup, got.Status)
		assert.Contains(t, env.store.eventTypes(order.ID), models.EventOrderReady)
	})

	t.Run("skipping_ahead_is_refused", func(t *testing.T) {
		env := newTestEnv(&stubFinder{candidates: candidateList(1)})
		order := acceptOrder(t, env)

		err := env.stages.AdvanceStage(ctx, order.ID, "package")
		assert.ErrorIs(t, err, models.ErrStageOrder)

		// the pipeline is untouched
		stages, err := env.stages.GetStages(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StageStatusInProgress, stages[0].Status)
		assert.Equal(t, models.StageStatusPending, stages[2].Status)
	})

	t.Run("completing_twice_is_refused", func(t *testing.T) {
		env := newTestEnv(&stubFinder{candidates: candidateList(1)})
		order := acceptOrder(t, env)

		require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "prep"))
		err := env.stages.AdvanceStage(ctx, order.ID, "prep")
		assert.ErrorIs(t, err, models.ErrStageNotInProgress)
	})

	t.Run("unknown_stage", func(t *testing.T) {
		env := newTestEnv(&stubFinder{candidates: candidateList(1)})
		order := acceptOrder(t, env)

		err := env.stages.AdvanceStage(ctx, order.ID, "garnish")
		assert.ErrorIs(t, err, models.ErrStageNotFound)
	})
}

func TestStageService_ResumeStalled(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFinder{candidates: candidateList(1)})
	order := acceptOrder(t, env)

	// simulate a crash between completing a stage and starting the next:
	// the first stage completed but nothing is in progress
	ok, err := env.store.CompleteStage(ctx, order.ID, "prep")
	require.NoError(t, err)
	require.True(t, ok)

	resumed, err := env.stages.ResumeStalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)

	stages, err := env.stages.GetStages(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageStatusCompleted, stages[0].Status)
	assert.Equal(t, models.StageStatusInProgress, stages[1].Status)

	// a healthy pipeline is left alone
	resumed, err = env.stages.ResumeStalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resumed)
}

// flakyStageStore fails stage-set creation a fixed number of times before
// delegating to the shared in-memory store
type flakyStageStore struct {
	*memStore
	failures int
}

func (f *flakyStageStore) CreateStages(ctx context.Context, stages []models.PreparationStage) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset")
	}
	return f.memStore.CreateStages(ctx, stages)
}

func TestStageService_ResumeStalledRecreatesMissingStageSet(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	flaky := &flakyStageStore{memStore: store, failures: 1}
	publisher := &recordingPublisher{}
	finder := &stubFinder{candidates: candidateList(1)}

	stageSvc := NewStageService(store, flaky, store, publisher)
	assignmentSvc := NewAssignmentService(store, store, store, finder, stageSvc, publisher, AssignmentConfig{
		BroadcastTTL:   15 * time.Minute,
		DirectTTL:      30 * time.Minute,
		SearchRadiusKm: 5,
	})
	orderSvc := NewOrderService(store, store, store, assignmentSvc, publisher)

	order, err := orderSvc.Create(ctx, CreateOrderCommand{
		Latitude:  floatPtr(40.7),
		Longitude: floatPtr(-74.0),
	})
	require.NoError(t, err)

	batch, err := assignmentSvc.GetAssignmentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	// the stage-set insert fails inside the accept cascade; the acceptance
	// itself stands and leaves the order without a pipeline
	require.NoError(t, assignmentSvc.Respond(ctx, batch[0].ID, *batch[0].RestaurantID, ActionAccept, nil))

	got, err := orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRestaurantAccepted, got.Status)

	set, err := stageSvc.GetStages(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.ErrorIs(t, stageSvc.AdvanceStage(ctx, order.ID, "prep"), models.ErrStageNotFound)

	// the repair pass recreates the pipeline and restarts the order
	resumed, err := stageSvc.ResumeStalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)

	got, err = orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, got.Status)

	set, err = stageSvc.GetStages(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, models.StageStatusInProgress, set[0].Status)
	require.NoError(t, stageSvc.AdvanceStage(ctx, order.ID, "prep"))

	// a second pass has nothing left to repair
	resumed, err = stageSvc.ResumeStalled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, resumed)
}

func TestStageService_LastStageOnWithdrawnOrderStaysQuiet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFinder{candidates: candidateList(1)})
	order := acceptOrder(t, env)

	require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "prep"))
	require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "cook"))

	// the customer cancels while the kitchen finishes packaging
	require.NoError(t, env.orders.Cancel(ctx, order.ID))

	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	require.NoError(t, env.stages.AdvanceStage(ctx, order.ID, "package"))

	got, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.NotContains(t, env.store.eventTypes(order.ID), models.EventOrderReady)
	assert.Zero(t, logs.FilterMessage("order ready for pickup").Len())
}

func TestStageService_GetStagesEmpty(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(&stubFinder{})

	stages, err := env.stages.GetStages(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, stages)
}
