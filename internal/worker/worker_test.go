package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/platefit/fulfillment/internal/models"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) SweepExpired(context.Context, time.Time) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

type countingStages struct {
	calls atomic.Int32
}

func (c *countingStages) ResumeStalled(context.Context) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

type countingRecovery struct {
	calls atomic.Int32
}

func (c *countingRecovery) FindStuckOrders(context.Context, time.Duration) ([]models.Order, error) {
	c.calls.Add(1)
	return nil, nil
}

func TestExpiryWorker_RunStopsOnCancel(t *testing.T) {
	sweeper := &countingSweeper{}
	w := NewExpiryWorker(sweeper, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}

	assert.Greater(t, sweeper.calls.Load(), int32(0))
}

func TestRecoveryWorker_RunStopsOnCancel(t *testing.T) {
	stages := &countingStages{}
	recovery := &countingRecovery{}
	w := NewRecoveryWorker(stages, recovery, 5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(40 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}

	assert.Greater(t, stages.calls.Load(), int32(0))
	assert.Greater(t, recovery.calls.Load(), int32(0))
}
