// Package domain contains the price recommendation models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TrackedProduct is a sku the merchant watches for pricing guidance.
type TrackedProduct struct {
	ID           snowflake.ID    `gorm:"primaryKey"`
	SKU          string          `gorm:"type:text;not null;uniqueIndex"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TrackedProduct) TableName() string { return "tracked_products" }

// Recommendation is the read-only view served to the recommendations table.
type Recommendation struct {
	SKU              string  `json:"sku"`
	CurrentPrice     float64 `json:"currentPrice"`
	RecommendedPrice float64 `json:"recommendedPrice"`
	LiftPct          float64 `json:"liftPct"`
}

// ItemRecommendation is one priced invoice line with strategy context.
type ItemRecommendation struct {
	SKU              string   `json:"sku"`
	CurrentPrice     float64  `json:"current_price"`
	RecommendedPrice float64  `json:"recommended_price"`
	PricingStrategy  string   `json:"pricing_strategy"`
	Reasoning        string   `json:"reasoning"`
	MarketFactors    []string `json:"market_factors"`
	ConfidenceLevel  string   `json:"confidence_level"`
}

// InvoicePricing is the response to an invoice pricing request.
type InvoicePricing struct {
	Recommendations []ItemRecommendation `json:"recommendations"`
	Provider        string               `json:"provider"`
	Message         string               `json:"message"`
}

// CompetitorOffers is the response to a competitor lookup.
type CompetitorOffers struct {
	Query              string         `json:"query"`
	Offers             []OfferView    `json:"offers"`
	Provider           string         `json:"provider,omitempty"`
	Message            string         `json:"message,omitempty"`
	AttemptedProviders []string       `json:"attemptedProviders,omitempty"`
}

// OfferView is one competitor listing.
type OfferView struct {
	Source      string   `json:"source"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	PriceText   string   `json:"price_text,omitempty"`
	Matched     bool     `json:"matched,omitempty"`
	LastChecked string   `json:"last_checked"`
}
