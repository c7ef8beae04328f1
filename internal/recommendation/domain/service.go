package domain

import (
	"context"
	"errors"

	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
)

// Service serves price recommendations, invoice pricing, and competitor
// lookups.
type Service interface {
	List(ctx context.Context) ([]Recommendation, error)
	Track(ctx context.Context, req TrackRequest) (*Recommendation, error)
	PriceInvoice(ctx context.Context, inv invoicedomain.Invoice) (*InvoicePricing, error)
	Competitors(ctx context.Context, query string, maxResults int) (*CompetitorOffers, error)
}

// TrackRequest registers a sku for recommendations.
type TrackRequest struct {
	SKU          string  `json:"sku"`
	CurrentPrice float64 `json:"currentPrice"`
}

var (
	ErrInvalidSKU     = errors.New("invalid_sku")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrDuplicateSKU   = errors.New("duplicate_sku")
	ErrLookupFailed   = errors.New("lookup_failed")
	ErrInvalidQuery   = errors.New("invalid_query")
	ErrNoLineItems    = errors.New("no_line_items")
	ErrInvalidSegment = errors.New("invalid_segment")
)
