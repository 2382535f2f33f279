package jobs

import (
	"franchise-backend/internal/config"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
	"franchise-backend/internal/service"
)

// JobRunner coordinates the scheduled reminder jobs. Jobs only read state
// and send notifications; money movement stays in the request-driven core.
type JobRunner struct {
	repos    *repository.Repositories
	emailSvc service.EmailService
	config   *config.Config
	clock    service.Clock
}

func NewJobRunner(repos *repository.Repositories, emailSvc service.EmailService, cfg *config.Config, clock service.Clock) *JobRunner {
	return &JobRunner{
		repos:    repos,
		emailSvc: emailSvc,
		config:   cfg,
		clock:    clock,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SendPaymentReminders()
	jr.SendInvoiceReminders()
}
