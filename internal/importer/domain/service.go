package domain

import (
	"context"
	"errors"
)

// Service validates, normalizes, and stores training-data uploads, and
// queues retrain jobs.
type Service interface {
	CheckHeaders(headers []string) HeaderCheck
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	Retrain(ctx context.Context, req RetrainRequest) (*RetrainResult, error)
	Template() string
}

// UploadRequest carries the parsed rows of one file.
type UploadRequest struct {
	Source   string              `json:"source"`
	FileName string              `json:"fileName"`
	Rows     []map[string]string `json:"rows"`
}

// UploadResult echoes what was accepted plus a bounded preview.
type UploadResult struct {
	BatchID      string   `json:"batch_id"`
	Message      string   `json:"message"`
	NumRows      int      `json:"num_rows"`
	ExtraHeaders []string `json:"extra_headers,omitempty"`
	Preview      []Record `json:"preview"`
}

// RetrainRequest describes the upload a retrain should run against.
type RetrainRequest struct {
	Source   string   `json:"source"`
	FileName string   `json:"fileName"`
	NumRows  int      `json:"numRows"`
	Schema   []string `json:"schema"`
}

// RetrainResult acknowledges a queued job.
type RetrainResult struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// MissingHeadersError rejects an upload whose header set is incomplete.
// Extra headers never block an upload.
type MissingHeadersError struct {
	MissingHeaders []string
	ExtraHeaders   []string
}

func (e *MissingHeadersError) Error() string {
	return "missing_headers"
}

var (
	ErrNoRows = errors.New("no_rows")
)
