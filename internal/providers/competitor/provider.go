// Package competitor looks up competitor offers from external catalogs.
package competitor

import (
	"context"
	"time"
)

// Offer is one competitor listing for a queried sku.
type Offer struct {
	Source      string   `json:"source"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	PriceText   string   `json:"price_text,omitempty"`
	Matched     bool     `json:"matched,omitempty"`
	LastChecked string   `json:"last_checked"`
}

// Provider searches one external catalog.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Offer, error)
}

// Cache stores the first successful offer set per sku. Entries have no
// TTL; the cache lives as long as the process (or the redis keyspace).
type Cache interface {
	Get(ctx context.Context, query string) ([]Offer, bool)
	Set(ctx context.Context, query string, offers []Offer)
}

// Clockish narrows what the client needs from a clock.
type Clockish interface {
	Now() time.Time
}
