// Package domain contains the training-data import models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RequiredHeaders is the fixed training-data schema, in template order.
// Every accepted row is normalized to exactly these keys.
var RequiredHeaders = []string{
	"order_id",
	"date_ordered",
	"product_type",
	"customer_type",
	"price",
	"competitor_price",
	"promotion_flag",
	"marketing_spend",
	"economic_index",
	"seasonality_index",
	"trend_index",
	"day_of_week",
	"month",
	"price_gap",
	"quantity",
}

// PreviewLimit caps the number of rows echoed back for display.
const PreviewLimit = 10

// Record is one normalized row: exactly the required headers, values as
// text. Numeric interpretation is deferred to the training pipeline.
type Record map[string]string

// HeaderCheck partitions a submitted header set against RequiredHeaders.
type HeaderCheck struct {
	MissingHeaders []string `json:"missing_headers"`
	ExtraHeaders   []string `json:"extra_headers"`
}

// Ok reports whether the header set satisfies the schema.
func (h HeaderCheck) Ok() bool {
	return len(h.MissingHeaders) == 0
}

// ImportBatch records one accepted upload.
type ImportBatch struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	Source    string            `gorm:"type:text"`
	FileName  string            `gorm:"type:text"`
	NumRows   int               `gorm:"not null;default:0"`
	Schema    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ImportBatch) TableName() string { return "import_batches" }

// ImportRow is one persisted training-data row.
type ImportRow struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	BatchID          snowflake.ID `gorm:"not null;index"`
	OrderID          string       `gorm:"column:order_id;type:text"`
	DateOrdered      string       `gorm:"type:text"`
	ProductType      string       `gorm:"type:text"`
	CustomerType     string       `gorm:"type:text"`
	Price            string       `gorm:"type:text"`
	CompetitorPrice  string       `gorm:"type:text"`
	PromotionFlag    string       `gorm:"type:text"`
	MarketingSpend   string       `gorm:"type:text"`
	EconomicIndex    string       `gorm:"type:text"`
	SeasonalityIndex string       `gorm:"type:text"`
	TrendIndex       string       `gorm:"type:text"`
	DayOfWeek        string       `gorm:"type:text"`
	Month            string       `gorm:"type:text"`
	PriceGap         string       `gorm:"type:text"`
	Quantity         string       `gorm:"type:text"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ImportRow) TableName() string { return "import_rows" }

// JobStatus tracks a retrain job through its lifecycle.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// RetrainJob is one queued model retrain.
type RetrainJob struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	JobID      string            `gorm:"type:text;not null;uniqueIndex"`
	Status     JobStatus         `gorm:"type:text;not null;default:'PENDING'"`
	Source     string            `gorm:"type:text"`
	FileName   string            `gorm:"type:text"`
	NumRows    int               `gorm:"not null;default:0"`
	Schema     datatypes.JSONMap `gorm:"type:jsonb"`
	StartedAt  *time.Time        `gorm:""`
	FinishedAt *time.Time        `gorm:""`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RetrainJob) TableName() string { return "retrain_jobs" }
