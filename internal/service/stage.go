package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platefit/fulfillment/internal/logger"
	"github.com/platefit/fulfillment/internal/models"
)

// defaultStageTemplates is the kitchen pipeline created for every accepted
// order, in execution order
var defaultStageTemplates = []models.StageTemplate{
	{Name: "prep", EstimatedMinutes: 10},
	{Name: "cook", EstimatedMinutes: 20},
	{Name: "package", EstimatedMinutes: 5},
}

// StageService drives the ordered kitchen pipeline of an accepted order and
// advances the order's top-level status as stages complete
type StageService struct {
	orders    OrderRepository
	stages    StageRepository
	history   HistoryRepository
	publisher EventPublisher
	templates []models.StageTemplate
}

// NewStageService creates new StageService instance
func NewStageService(orders OrderRepository, stages StageRepository, history HistoryRepository, publisher EventPublisher) *StageService {
	return &StageService{
		orders:    orders,
		stages:    stages,
		history:   history,
		publisher: publisher,
		templates: defaultStageTemplates,
	}
}

// BeginPreparation creates the full stage set of a freshly accepted order in
// one atomic batch, starts the first stage and moves the order to preparing
func (ss *StageService) BeginPreparation(ctx context.Context, orderID uuid.UUID) error {
	now := time.Now()
	set := make([]models.PreparationStage, 0, len(ss.templates))
	for i, tpl := range ss.templates {
		stage := models.PreparationStage{
			ID:                       uuid.New(),
			OrderID:                  orderID,
			StageName:                tpl.Name,
			StageOrder:               i + 1,
			Status:                   models.StageStatusPending,
			EstimatedDurationMinutes: tpl.EstimatedMinutes,
		}
		if i == 0 {
			stage.Status = models.StageStatusInProgress
			stage.StartedAt = &now
		}
		set = append(set, stage)
	}

	if err := ss.stages.CreateStages(ctx, set); err != nil {
		return err
	}

	ok, err := ss.orders.UpdateOrderStatus(ctx, orderID, models.OrderStatusRestaurantAccepted, models.OrderStatusPreparing, nil)
	if err != nil {
		return err
	}
	if ok {
		ss.recordEvent(ctx, orderID, models.EventStageStarted, map[string]any{
			"stage": set[0].StageName,
		})
		ss.notifyStatus(ctx, orderID, models.OrderStatusPreparing)
	}

	return nil
}

// AdvanceStage marks the named stage completed and starts the next pending
// stage. When no pending stage remains the order becomes ready for pickup.
// A stage may only complete after every lower-ordered stage has completed.
func (ss *StageService) AdvanceStage(ctx context.Context, orderID uuid.UUID, stageName string) error {
	set, err := ss.stages.GetStagesByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	var stage *models.PreparationStage
	for i := range set {
		if set[i].StageName == stageName {
			stage = &set[i]
			break
		}
	}
	if stage == nil {
		return models.ErrStageNotFound
	}

	behind, err := ss.stages.CountUncompletedBefore(ctx, orderID, stage.StageOrder)
	if err != nil {
		return err
	}
	if behind > 0 {
		return models.ErrStageOrder
	}

	ok, err := ss.stages.CompleteStage(ctx, orderID, stageName)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrStageNotInProgress
	}

	ss.recordEvent(ctx, orderID, models.EventStageCompleted, map[string]any{
		"stage": stageName,
	})

	next, err := ss.stages.GetLowestPending(ctx, orderID)
	if err == nil {
		if _, err := ss.stages.StartStage(ctx, next.ID); err != nil {
			return err
		}
		ss.recordEvent(ctx, orderID, models.EventStageStarted, map[string]any{
			"stage": next.StageName,
		})
		return nil
	}
	if !errors.Is(err, models.ErrStageNotFound) {
		return err
	}

	// every stage is done, the kitchen is finished with this order
	ok, err = ss.orders.UpdateOrderStatus(ctx, orderID, models.OrderStatusPreparing, models.OrderStatusReadyForPickup, nil)
	if err != nil {
		return err
	}
	if ok {
		ss.recordEvent(ctx, orderID, models.EventOrderReady, nil)
		ss.notifyStatus(ctx, orderID, models.OrderStatusReadyForPickup)
		logger.Log.Info("order ready for pickup", zap.String("order", orderID.String()))
	}

	return nil
}

// GetStages returns the stage set of the order
func (ss *StageService) GetStages(ctx context.Context, orderID uuid.UUID) ([]models.PreparationStage, error) {
	return ss.stages.GetStagesByOrder(ctx, orderID)
}

// ResumeStalled repairs orders whose kitchen pipeline stopped mid-transition.
// Accepted orders whose stage set was never created get a fresh one, and
// preparing orders with no in-progress stage resume the lowest-ordered
// pending stage. Returns how many orders were repaired.
func (ss *StageService) ResumeStalled(ctx context.Context) (int, error) {
	resumed := 0

	orphaned, err := ss.stages.GetAcceptedWithoutStages(ctx)
	if err != nil {
		return 0, err
	}
	for _, orderID := range orphaned {
		if err := ss.BeginPreparation(ctx, orderID); err != nil {
			logger.Log.Error("recreate stage set",
				zap.String("order", orderID.String()), zap.Error(err))
			continue
		}
		resumed++
	}

	ids, err := ss.stages.GetStalledPreparingOrders(ctx)
	if err != nil {
		return resumed, err
	}

	for _, orderID := range ids {
		next, err := ss.stages.GetLowestPending(ctx, orderID)
		if err != nil {
			continue
		}
		ok, err := ss.stages.StartStage(ctx, next.ID)
		if err != nil || !ok {
			continue
		}
		ss.recordEvent(ctx, orderID, models.EventStageStarted, map[string]any{
			"stage":   next.StageName,
			"resumed": true,
		})
		resumed++
	}

	if resumed > 0 {
		logger.Log.Info("resumed stalled preparation", zap.Int("orders", resumed))
	}

	return resumed, nil
}

func (ss *StageService) recordEvent(ctx context.Context, orderID uuid.UUID, eventType string, detail map[string]any) {
	event := models.HistoryEvent{
		OrderID:   orderID,
		EventType: eventType,
		Detail:    detail,
	}
	if err := ss.history.AppendEvent(ctx, &event); err != nil {
		logger.Log.Error("append history event",
			zap.String("order", orderID.String()),
			zap.String("event", eventType),
			zap.Error(err))
		return
	}
	if err := ss.publisher.PublishHistory(ctx, event); err != nil {
		logger.Log.Warn("publish history event",
			zap.String("order", orderID.String()), zap.Error(err))
	}
}

func (ss *StageService) notifyStatus(ctx context.Context, orderID uuid.UUID, status string) {
	if err := ss.publisher.PublishStatusChange(ctx, orderID, status); err != nil {
		logger.Log.Warn("publish status change",
			zap.String("order", orderID.String()), zap.Error(err))
	}
}
