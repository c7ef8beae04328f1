package domain

import (
	"context"
	"errors"
)

// Service computes invoice totals and renders invoice documents.
type Service interface {
	ComputeTotals(ctx context.Context, inv Invoice) (*Totals, error)
	GeneratePDF(ctx context.Context, inv Invoice) ([]byte, string, error)
}

var (
	ErrNoLineItems      = errors.New("no_line_items")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
	ErrInvalidSegment   = errors.New("invalid_segment")
	ErrInvalidFeeType   = errors.New("invalid_fee_type")
	ErrRenderFailed     = errors.New("render_failed")
)
