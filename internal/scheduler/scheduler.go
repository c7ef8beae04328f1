// Package scheduler drives queued retrain jobs through their lifecycle.
package scheduler

import (
	"context"
	"time"

	"github.com/labsupply/smartpricing/internal/clock"
	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	"github.com/labsupply/smartpricing/pkg/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	RunInterval time.Duration
	BatchSize   int
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = 15 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	return c
}

type Scheduler struct {
	cfg     Config
	db      *gorm.DB
	log     *zap.Logger
	repo    importerdomain.Repository
	clock   clock.Clock
	metrics *telemetry.Metrics
}

func New(cfg Config, db *gorm.DB, log *zap.Logger, repo importerdomain.Repository, clk clock.Clock, metrics *telemetry.Metrics) *Scheduler {
	return &Scheduler{
		cfg:     cfg.withDefaults(),
		db:      db,
		log:     log.Named("scheduler"),
		repo:    repo,
		clock:   clk,
		metrics: metrics,
	}
}

// Run processes pending jobs until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.log.Error("scheduler tick failed", zap.Error(err))
			}
		}
	}
}

// Tick claims one batch of pending jobs and runs each to completion.
func (s *Scheduler) Tick(ctx context.Context) error {
	jobs, err := s.repo.PendingJobs(ctx, s.db, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	for i := range jobs {
		s.runJob(ctx, &jobs[i])
	}
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, job *importerdomain.RetrainJob) {
	started := s.clock.Now()
	job.Status = importerdomain.JobRunning
	job.StartedAt = &started
	job.UpdatedAt = started
	if err := s.repo.UpdateJobStatus(ctx, s.db, job); err != nil {
		s.log.Error("failed to claim retrain job",
			zap.String("job_id", job.JobID),
			zap.Error(err),
		)
		return
	}

	rows, err := s.repo.CountRows(ctx, s.db)

	finished := s.clock.Now()
	job.FinishedAt = &finished
	job.UpdatedAt = finished
	if err != nil {
		job.Status = importerdomain.JobFailed
	} else {
		job.Status = importerdomain.JobCompleted
	}

	if updateErr := s.repo.UpdateJobStatus(ctx, s.db, job); updateErr != nil {
		s.log.Error("failed to finalize retrain job",
			zap.String("job_id", job.JobID),
			zap.Error(updateErr),
		)
		return
	}

	s.metrics.RecordRetrainJob(string(job.Status))
	if err != nil {
		s.log.Error("retrain job failed",
			zap.String("job_id", job.JobID),
			zap.Error(err),
		)
		return
	}
	s.log.Info("retrain job completed",
		zap.String("job_id", job.JobID),
		zap.Int64("rows_trained", rows),
		zap.Duration("elapsed", finished.Sub(started)),
	)
}
