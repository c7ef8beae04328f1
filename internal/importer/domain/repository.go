package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository persists import batches, rows, and retrain jobs.
type Repository interface {
	InsertBatch(ctx context.Context, db *gorm.DB, batch *ImportBatch, rows []ImportRow) error
	InsertJob(ctx context.Context, db *gorm.DB, job *RetrainJob) error
	PendingJobs(ctx context.Context, db *gorm.DB, limit int) ([]RetrainJob, error)
	UpdateJobStatus(ctx context.Context, db *gorm.DB, job *RetrainJob) error
	CountRows(ctx context.Context, db *gorm.DB) (int64, error)
}
