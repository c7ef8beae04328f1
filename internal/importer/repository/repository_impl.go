package repository

import (
	"context"

	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() importerdomain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, batch *importerdomain.ImportBatch, rows []importerdomain.ImportRow) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

func (r *repo) InsertJob(ctx context.Context, db *gorm.DB, job *importerdomain.RetrainJob) error {
	return db.WithContext(ctx).Create(job).Error
}

func (r *repo) PendingJobs(ctx context.Context, db *gorm.DB, limit int) ([]importerdomain.RetrainJob, error) {
	var jobs []importerdomain.RetrainJob
	err := db.WithContext(ctx).
		Where("status = ?", importerdomain.JobPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) UpdateJobStatus(ctx context.Context, db *gorm.DB, job *importerdomain.RetrainJob) error {
	return db.WithContext(ctx).Model(job).
		Select("status", "started_at", "finished_at", "updated_at").
		Updates(job).Error
}

func (r *repo) CountRows(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&importerdomain.ImportRow{}).Count(&count).Error
	return count, err
}
