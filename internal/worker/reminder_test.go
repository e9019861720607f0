package worker

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

type stubAppRepo struct {
	pending []*entity.TravelApplication
	calls   atomic.Int32
}

func (s *stubAppRepo) Create(tx *sql.Tx, app *entity.TravelApplication) error { return nil }
func (s *stubAppRepo) Update(tx *sql.Tx, app *entity.TravelApplication) error { return nil }
func (s *stubAppRepo) GetByID(id int64) (*entity.TravelApplication, error)    { return nil, nil }
func (s *stubAppRepo) ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error) {
	return nil, nil
}
func (s *stubAppRepo) ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error) {
	return nil, nil
}
func (s *stubAppRepo) ListPendingSince(cutoff time.Time) ([]*entity.TravelApplication, error) {
	s.calls.Add(1)
	return s.pending, nil
}

func TestSweepQueriesPendingApplications(t *testing.T) {
	repo := &stubAppRepo{pending: []*entity.TravelApplication{
		{ID: 1, Status: entity.StatusSubmitted},
		{ID: 2, Status: entity.StatusCHROApproved, RequiresCEO: true},
	}}
	w := NewReminderWorker(ReminderConfig{Interval: time.Hour, PendingThreshold: 48 * time.Hour}, repo, zap.NewNop())

	w.sweep()
	assert.Equal(t, int32(1), repo.calls.Load())
}

func TestReminderWorkerLifecycle(t *testing.T) {
	repo := &stubAppRepo{}
	w := NewReminderWorker(ReminderConfig{Interval: 5 * time.Millisecond, PendingThreshold: time.Hour}, repo, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	assert.Error(t, w.Start(ctx), "double start must be refused")

	deadline := time.After(time.Second)
	for repo.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker never swept")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop(), "stop is idempotent")
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(zap.NewNop())
	repo := &stubAppRepo{}
	m.Register(NewReminderWorker(ReminderConfig{Interval: time.Hour, PendingThreshold: time.Hour}, repo, zap.NewNop()))

	require.NoError(t, m.StartAll(context.Background()))
	assert.Error(t, m.StartAll(context.Background()))
	assert.NoError(t, m.StopAll())
	assert.NoError(t, m.StopAll(), "second stop is a no-op")
}
