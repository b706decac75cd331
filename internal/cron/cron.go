// Package cron runs the scheduled maintenance jobs.
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xiaoxiao0301/artist-atlas/internal/service"
	"github.com/xiaoxiao0301/artist-atlas/pkg/logger"
)

const sweepTimeout = 5 * time.Minute

// Manager schedules the expired OTP sweep.
type Manager struct {
	cron     *cron.Cron
	auth     service.AuthService
	schedule string
	logger   logger.Logger
}

// NewManager creates the cron manager. The schedule uses the standard
// five-field cron format.
func NewManager(auth service.AuthService, schedule string, log logger.Logger) *Manager {
	return &Manager{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		auth:     auth,
		schedule: schedule,
		logger:   log,
	}
}

// Start registers the jobs and starts the scheduler.
func (m *Manager) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, m.runSweep); err != nil {
		return err
	}

	m.cron.Start()
	m.logger.Info("cron manager started", logger.String("otp_sweep_schedule", m.schedule))
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("cron manager stopped")
}

func (m *Manager) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := m.auth.SweepExpiredOTPs(ctx)
	if err != nil {
		m.logger.Error("otp sweep failed", logger.Err(err))
		return
	}
	m.logger.Info("otp sweep completed",
		logger.Int64("swept", n),
		logger.Duration("took", time.Since(start)),
	)
}

// RunSweepNow triggers the sweep outside the schedule.
func (m *Manager) RunSweepNow(ctx context.Context) (int64, error) {
	return m.auth.SweepExpiredOTPs(ctx)
}
