package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/application/port"
	"github.com/hrops/traveldesk/internal/domain/workflow"
)

// ReminderConfig holds the reminder worker settings.
type ReminderConfig struct {
	// Interval is how often the pending queue is swept.
	Interval time.Duration
	// PendingThreshold is how long an application may wait at one approval
	// level before a reminder is raised.
	PendingThreshold time.Duration
}

// ReminderWorker periodically sweeps applications stuck in the approval
// chain and raises a reminder naming the role holding them up.
type ReminderWorker struct {
	config  ReminderConfig
	appRepo port.ApplicationRepository
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewReminderWorker creates a new reminder worker.
func NewReminderWorker(config ReminderConfig, appRepo port.ApplicationRepository, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		config:  config,
		appRepo: appRepo,
		logger:  logger,
	}
}

func (w *ReminderWorker) Name() string { return "approval-reminder" }

// Start begins the sweep loop.
func (w *ReminderWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("reminder worker already running")
	}
	w.running = true
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop waits for the sweep loop to exit. The context passed to Start must
// be cancelled first.
func (w *ReminderWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	done := w.done
	w.mu.Unlock()

	<-done
	return nil
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep raises one reminder per application that has been waiting at its
// current level longer than the threshold.
func (w *ReminderWorker) sweep() {
	cutoff := time.Now().Add(-w.config.PendingThreshold)
	apps, err := w.appRepo.ListPendingSince(cutoff)
	if err != nil {
		w.logger.Error("Reminder sweep failed", zap.Error(err))
		return
	}

	for _, app := range apps {
		role := workflow.PendingRole(workflow.State(app.Status), app.RequiresCEO)
		if role == "" {
			continue
		}
		w.logger.Warn("Application awaiting action",
			zap.Int64("application_id", app.ID),
			zap.String("applicant_id", app.ApplicantID),
			zap.String("status", app.Status),
			zap.String("pending_role", role),
			zap.Time("last_update", app.UpdatedAt))
	}

	if len(apps) > 0 {
		w.logger.Info("Reminder sweep complete", zap.Int("pending", len(apps)))
	}
}
