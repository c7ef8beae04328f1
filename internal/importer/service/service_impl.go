package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/labsupply/smartpricing/internal/clock"
	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  importerdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  importerdomain.Repository
}

func New(p Params) importerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("importer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// CheckHeaders partitions the submitted headers against the required
// schema. Extra headers are reported but never block an upload.
func (s *Service) CheckHeaders(headers []string) importerdomain.HeaderCheck {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h != "" {
			present[h] = true
		}
	}

	required := make(map[string]bool, len(importerdomain.RequiredHeaders))
	var check importerdomain.HeaderCheck
	for _, h := range importerdomain.RequiredHeaders {
		required[h] = true
		if !present[h] {
			check.MissingHeaders = append(check.MissingHeaders, h)
		}
	}
	for h := range present {
		if !required[h] {
			check.ExtraHeaders = append(check.ExtraHeaders, h)
		}
	}
	sort.Strings(check.ExtraHeaders)

	return check
}

func (s *Service) Upload(ctx context.Context, req importerdomain.UploadRequest) (*importerdomain.UploadResult, error) {
	if len(req.Rows) == 0 {
		return nil, importerdomain.ErrNoRows
	}

	check := s.CheckHeaders(headerUnion(req.Rows))
	if !check.Ok() {
		return nil, &importerdomain.MissingHeadersError{
			MissingHeaders: check.MissingHeaders,
			ExtraHeaders:   check.ExtraHeaders,
		}
	}

	records := make([]importerdomain.Record, 0, len(req.Rows))
	for _, raw := range req.Rows {
		records = append(records, normalize(raw))
	}

	now := s.clock.Now()
	batch := &importerdomain.ImportBatch{
		ID:        s.genID.Generate(),
		Source:    strings.TrimSpace(req.Source),
		FileName:  strings.TrimSpace(req.FileName),
		NumRows:   len(records),
		Schema:    schemaMetadata(check),
		CreatedAt: now,
	}

	rows := make([]importerdomain.ImportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toRow(s.genID.Generate(), batch.ID, rec, now))
	}

	if err := s.repo.InsertBatch(ctx, s.db, batch, rows); err != nil {
		return nil, err
	}

	s.log.Info("import batch accepted",
		zap.String("batch_id", batch.ID.String()),
		zap.String("file_name", batch.FileName),
		zap.Int("num_rows", batch.NumRows),
		zap.Strings("extra_headers", check.ExtraHeaders),
	)

	preview := records
	if len(preview) > importerdomain.PreviewLimit {
		preview = preview[:importerdomain.PreviewLimit]
	}

	return &importerdomain.UploadResult{
		BatchID:      batch.ID.String(),
		Message:      "Data received",
		NumRows:      len(records),
		ExtraHeaders: check.ExtraHeaders,
		Preview:      preview,
	}, nil
}

func (s *Service) Retrain(ctx context.Context, req importerdomain.RetrainRequest) (*importerdomain.RetrainResult, error) {
	now := s.clock.Now()
	job := &importerdomain.RetrainJob{
		ID:        s.genID.Generate(),
		JobID:     newJobID(),
		Status:    importerdomain.JobPending,
		Source:    strings.TrimSpace(req.Source),
		FileName:  strings.TrimSpace(req.FileName),
		NumRows:   req.NumRows,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(req.Schema) > 0 {
		job.Schema = datatypes.JSONMap{"headers": req.Schema}
	}

	if err := s.repo.InsertJob(ctx, s.db, job); err != nil {
		return nil, err
	}

	s.log.Info("retrain job queued",
		zap.String("job_id", job.JobID),
		zap.String("source", job.Source),
		zap.Int("num_rows", job.NumRows),
	)

	return &importerdomain.RetrainResult{
		JobID:   job.JobID,
		Message: "Retraining started. This may take several minutes.",
	}, nil
}

// Template returns the downloadable CSV header line.
func (s *Service) Template() string {
	return strings.Join(importerdomain.RequiredHeaders, ",")
}

func headerUnion(rows []map[string]string) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	return headers
}

// normalize maps a raw row onto exactly the required headers, coercing
// absent cells to the empty string and dropping anything else.
func normalize(raw map[string]string) importerdomain.Record {
	rec := make(importerdomain.Record, len(importerdomain.RequiredHeaders))
	for _, h := range importerdomain.RequiredHeaders {
		rec[h] = raw[h]
	}
	return rec
}

func schemaMetadata(check importerdomain.HeaderCheck) datatypes.JSONMap {
	meta := datatypes.JSONMap{"headers": headerList()}
	if len(check.ExtraHeaders) > 0 {
		meta["extra_headers"] = check.ExtraHeaders
	}
	return meta
}

func headerList() []any {
	out := make([]any, 0, len(importerdomain.RequiredHeaders))
	for _, h := range importerdomain.RequiredHeaders {
		out = append(out, h)
	}
	return out
}

func toRow(id, batchID snowflake.ID, rec importerdomain.Record, now time.Time) importerdomain.ImportRow {
	return importerdomain.ImportRow{
		ID:               id,
		BatchID:          batchID,
		OrderID:          rec["order_id"],
		DateOrdered:      rec["date_ordered"],
		ProductType:      rec["product_type"],
		CustomerType:     rec["customer_type"],
		Price:            rec["price"],
		CompetitorPrice:  rec["competitor_price"],
		PromotionFlag:    rec["promotion_flag"],
		MarketingSpend:   rec["marketing_spend"],
		EconomicIndex:    rec["economic_index"],
		SeasonalityIndex: rec["seasonality_index"],
		TrendIndex:       rec["trend_index"],
		DayOfWeek:        rec["day_of_week"],
		Month:            rec["month"],
		PriceGap:         rec["price_gap"],
		Quantity:         rec["quantity"],
		CreatedAt:        now,
	}
}

func newJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
