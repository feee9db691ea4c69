package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/platefit/fulfillment/internal/models"
)

// memStore is an in-memory stand-in for the postgres repositories. Every
// conditional update takes the same status guard the SQL does, under one
// mutex, so the arbitration behavior under test matches production.
type memStore struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]*models.Order
	assignments map[uuid.UUID]*models.Assignment
	stages      map[uuid.UUID]*models.PreparationStage
	events      []models.HistoryEvent
	nextEventID int64
}

func newMemStore() *memStore {
	return &memStore{
		orders:      map[uuid.UUID]*models.Order{},
		assignments: map[uuid.UUID]*models.Assignment{},
		stages:      map[uuid.UUID]*models.PreparationStage{},
	}
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id uuid.UUID, from, to string, restaurantID *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if restaurantID != nil {
		rid := *restaurantID
		o.RestaurantID = &rid
	}
	now := time.Now()
	switch to {
	case models.OrderStatusRestaurantAssigned:
		o.AssignedAt = &now
	case models.OrderStatusRestaurantAccepted:
		o.AcceptedAt = &now
	case models.OrderStatusPreparing:
		o.PreparationStartedAt = &now
	case models.OrderStatusReadyForPickup:
		o.ReadyAt = &now
	case models.OrderStatusOnTheWay:
		o.PickedUpAt = &now
	case models.OrderStatusDelivered:
		o.DeliveredAt = &now
	case models.OrderStatusCancelled:
		o.CancelledAt = &now
	}
	return true, nil
}

func (m *memStore) CancelOrder(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || models.IsTerminalOrderStatus(o.Status) {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	now := time.Now()
	o.CancelledAt = &now
	return true, nil
}

func (m *memStore) GetOrdersByStatus(_ context.Context, status string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) GetStuckOrders(_ context.Context, since, until time.Time) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.Status != models.OrderStatusPending || o.RestaurantID != nil {
			continue
		}
		if o.CreatedAt.Before(since) || o.CreatedAt.After(until) {
			continue
		}
		hasAssignments := false
		for _, a := range m.assignments {
			if a.OrderID == o.ID {
				hasAssignments = true
				break
			}
		}
		if !hasAssignments {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) CreateAssignments(_ context.Context, assignments []models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range assignments {
		cp := assignments[i]
		m.assignments[cp.ID] = &cp
	}
	return nil
}

func (m *memStore) GetAssignment(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return nil, models.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) Respond(_ context.Context, id, restaurantID uuid.UUID, status string, notes *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok || a.RestaurantID == nil || *a.RestaurantID != restaurantID || a.Status != models.AssignmentStatusPending {
		return false, nil
	}
	// same outcome as the partial unique index on accepted rows: a second
	// acceptance for the order loses the race instead of committing
	if status == models.AssignmentStatusAccepted {
		for _, other := range m.assignments {
			if other.OrderID == a.OrderID && other.ID != a.ID && other.Status == models.AssignmentStatusAccepted {
				return false, nil
			}
		}
	}
	a.Status = status
	now := time.Now()
	a.RespondedAt = &now
	a.ResponseNotes = notes
	return true, nil
}

func (m *memStore) RevokeAccepted(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok || a.Status != models.AssignmentStatusAccepted {
		return false, nil
	}
	a.Status = models.AssignmentStatusCancelled
	return true, nil
}

func (m *memStore) CancelPendingByOrder(_ context.Context, orderID, exceptID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.assignments {
		if a.OrderID == orderID && a.ID != exceptID && a.Status == models.AssignmentStatusPending {
			a.Status = models.AssignmentStatusCancelled
			n++
		}
	}
	return n, nil
}

func (m *memStore) Expire(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok || a.Status != models.AssignmentStatusPending {
		return false, nil
	}
	a.Status = models.AssignmentStatusExpired
	return true, nil
}

func (m *memStore) GetExpiredPending(_ context.Context, now time.Time) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, a := range m.assignments {
		if a.Status == models.AssignmentStatusPending && !a.ExpiresAt.After(now) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) GetByOrder(_ context.Context, orderID uuid.UUID) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, a := range m.assignments {
		if a.OrderID == orderID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) GetPendingByOrder(_ context.Context, orderID uuid.UUID) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assignment
	for _, a := range m.assignments {
		if a.OrderID == orderID && a.Status == models.AssignmentStatusPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) GetPendingByRestaurant(_ context.Context, restaurantID uuid.UUID) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []models.Assignment
	for _, a := range m.assignments {
		if a.RestaurantID != nil && *a.RestaurantID == restaurantID &&
			a.Status == models.AssignmentStatusPending && a.ExpiresAt.After(now) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) CountLiveByOrder(_ context.Context, orderID uuid.UUID) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending, accepted := 0, 0
	for _, a := range m.assignments {
		if a.OrderID != orderID {
			continue
		}
		switch a.Status {
		case models.AssignmentStatusPending:
			pending++
		case models.AssignmentStatusAccepted:
			accepted++
		}
	}
	return pending, accepted, nil
}

func (m *memStore) CountActiveByOrder(_ context.Context, orderID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.assignments {
		if a.OrderID == orderID && a.Status != models.AssignmentStatusCancelled {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountByOrder(_ context.Context, orderID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.assignments {
		if a.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteOrphaned(_ context.Context, orderID *uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.assignments {
		if a.RestaurantID != nil {
			continue
		}
		if orderID != nil && a.OrderID != *orderID {
			continue
		}
		delete(m.assignments, id)
		n++
	}
	return n, nil
}

func (m *memStore) CreateStages(_ context.Context, stages []models.PreparationStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range stages {
		cp := stages[i]
		m.stages[cp.ID] = &cp
	}
	return nil
}

func (m *memStore) GetStagesByOrder(_ context.Context, orderID uuid.UUID) ([]models.PreparationStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PreparationStage
	for _, s := range m.stages {
		if s.OrderID == orderID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageOrder < out[j].StageOrder })
	return out, nil
}

func (m *memStore) CompleteStage(_ context.Context, orderID uuid.UUID, stageName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stages {
		if s.OrderID == orderID && s.StageName == stageName && s.Status == models.StageStatusInProgress {
			s.Status = models.StageStatusCompleted
			now := time.Now()
			s.CompletedAt = &now
			minutes := 0
			if s.StartedAt != nil {
				minutes = int(now.Sub(*s.StartedAt).Minutes())
			}
			s.ActualDurationMinutes = &minutes
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) StartStage(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stages[id]
	if !ok || s.Status != models.StageStatusPending {
		return false, nil
	}
	s.Status = models.StageStatusInProgress
	now := time.Now()
	s.StartedAt = &now
	return true, nil
}

func (m *memStore) GetLowestPending(_ context.Context, orderID uuid.UUID) (*models.PreparationStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var lowest *models.PreparationStage
	for _, s := range m.stages {
		if s.OrderID != orderID || s.Status != models.StageStatusPending {
			continue
		}
		if lowest == nil || s.StageOrder < lowest.StageOrder {
			lowest = s
		}
	}
	if lowest == nil {
		return nil, models.ErrStageNotFound
	}
	cp := *lowest
	return &cp, nil
}

func (m *memStore) CountUncompletedBefore(_ context.Context, orderID uuid.UUID, stageOrder int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.stages {
		if s.OrderID == orderID && s.StageOrder < stageOrder && s.Status != models.StageStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetStalledPreparingOrders(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for _, o := range m.orders {
		if o.Status != models.OrderStatusPreparing {
			continue
		}
		active, pending := false, false
		for _, s := range m.stages {
			if s.OrderID != o.ID {
				continue
			}
			switch s.Status {
			case models.StageStatusInProgress:
				active = true
			case models.StageStatusPending:
				pending = true
			}
		}
		if !active && pending {
			out = append(out, o.ID)
		}
	}
	return out, nil
}

func (m *memStore) GetAcceptedWithoutStages(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for _, o := range m.orders {
		if o.Status != models.OrderStatusRestaurantAccepted {
			continue
		}
		hasStages := false
		for _, s := range m.stages {
			if s.OrderID == o.ID {
				hasStages = true
				break
			}
		}
		if !hasStages {
			out = append(out, o.ID)
		}
	}
	return out, nil
}

func (m *memStore) AppendEvent(_ context.Context, event *models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEventID++
	event.ID = m.nextEventID
	event.CreatedAt = time.Now()
	m.events = append(m.events, *event)
	return nil
}

func (m *memStore) GetEventsByOrder(_ context.Context, orderID uuid.UUID) ([]models.HistoryEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HistoryEvent
	for _, e := range m.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

// eventTypes returns the recorded event types of one order, in append order
func (m *memStore) eventTypes(orderID uuid.UUID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.OrderID == orderID {
			out = append(out, e.EventType)
		}
	}
	return out
}

// stubFinder serves a fixed candidate list
type stubFinder struct {
	candidates []models.Candidate
	err        error
}

func (f *stubFinder) FindCandidates(context.Context, float64, float64, float64) ([]models.Candidate, error) {
	return f.candidates, f.err
}

// recordingPublisher captures outbound events instead of talking to a broker
type recordingPublisher struct {
	mu       sync.Mutex
	history  []models.HistoryEvent
	statuses []string
}

func (p *recordingPublisher) PublishHistory(_ context.Context, event models.HistoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, event)
	return nil
}

func (p *recordingPublisher) PublishStatusChange(_ context.Context, _ uuid.UUID, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, status)
	return nil
}

// testEnv wires the full service graph over the in-memory store, mirroring
// the production wiring
type testEnv struct {
	store     *memStore
	finder    *stubFinder
	publisher *recordingPublisher

	stages      *StageService
	assignments *AssignmentService
	orders      *OrderService
	sweeper     *SweeperService
	recovery    *RecoveryService
}

func newTestEnv(finder *stubFinder) *testEnv {
	store := newMemStore()
	publisher := &recordingPublisher{}

	stages := NewStageService(store, store, store, publisher)
	assignments := NewAssignmentService(store, store, store, finder, stages, publisher, AssignmentConfig{
		BroadcastTTL:   15 * time.Minute,
		DirectTTL:      30 * time.Minute,
		SearchRadiusKm: 5,
	})
	orders := NewOrderService(store, store, store, assignments, publisher)
	sweeper := NewSweeperService(store, store, store, publisher)
	recovery := NewRecoveryService(store, store, store, assignments, 10*time.Minute)

	return &testEnv{
		store:       store,
		finder:      finder,
		publisher:   publisher,
		stages:      stages,
		assignments: assignments,
		orders:      orders,
		sweeper:     sweeper,
		recovery:    recovery,
	}
}

func candidateList(n int) []models.Candidate {
	out := make([]models.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Candidate{
			RestaurantID: uuid.New(),
			DistanceKm:   float64(i) + 0.5,
		})
	}
	return out
}

func placeOrder(t *testing.T, env *testEnv, cmd CreateOrderCommand) *models.Order {
	t.Helper()
	order, err := env.orders.Create(context.Background(), cmd)
	require.NoError(t, err)
	return order
}

func floatPtr(v float64) *float64 { return &v }
