package domain

import (
	"context"
	"errors"
)

// Service computes shipping estimates.
type Service interface {
	Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error)
}

var (
	ErrInvalidServiceLevel = errors.New("invalid_service_level")
	ErrMissingLocation     = errors.New("missing_location")
)
