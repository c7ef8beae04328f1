// Package domain contains the invoice model and totals contract.
package domain

import "github.com/shopspring/decimal"

// BuyerSegment categorizes the buyer for pricing purposes.
type BuyerSegment string

const (
	SegmentAcademic    BuyerSegment = "academic"
	SegmentBiotech     BuyerSegment = "biotech"
	SegmentPharma      BuyerSegment = "pharma"
	SegmentDistributor BuyerSegment = "distributor"
	SegmentOther       BuyerSegment = "other"
)

// ValidSegment reports whether s is one of the known buyer segments.
func ValidSegment(s BuyerSegment) bool {
	switch s {
	case SegmentAcademic, SegmentBiotech, SegmentPharma, SegmentDistributor, SegmentOther:
		return true
	default:
		return false
	}
}

// FeeType classifies invoice-level fees. Promotions carry negative amounts.
type FeeType string

const (
	FeeTariff    FeeType = "tariff"
	FeeService   FeeType = "service"
	FeeHandling  FeeType = "handling"
	FeePromotion FeeType = "promotion"
	FeeOther     FeeType = "other"
)

// ValidFeeType reports whether t is one of the known fee types.
func ValidFeeType(t FeeType) bool {
	switch t {
	case FeeTariff, FeeService, FeeHandling, FeePromotion, FeeOther:
		return true
	default:
		return false
	}
}

// Party identifies a supplier or buyer on an invoice.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country"`
}

// Buyer extends Party with a pricing segment.
type Buyer struct {
	Party
	Segment BuyerSegment `json:"segment"`
}

// LineItem is one ordered product line.
type LineItem struct {
	SKU           string          `json:"sku"`
	Description   string          `json:"description"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Currency      string          `json:"currency"`
	WeightKG      *float64        `json:"weight_kg,omitempty"`
	HSCode        string          `json:"hs_code,omitempty"`
	OriginCountry string          `json:"origin_country,omitempty"`
}

// Fee is a signed invoice-level adjustment.
type Fee struct {
	Type   FeeType         `json:"type"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Invoice is the full document as submitted by the client. Invoices are
// consumed once per generate action and never persisted.
type Invoice struct {
	Number   string     `json:"number"`
	Date     string     `json:"date"`
	Supplier Party      `json:"supplier"`
	Buyer    Buyer      `json:"buyer"`
	Items    []LineItem `json:"items"`
	Fees     []Fee      `json:"fees"`
	Notes    string     `json:"notes,omitempty"`
}

// Totals is the derived summary stamped onto totals responses and PDFs.
type Totals struct {
	ItemsSubtotal decimal.Decimal `json:"items_subtotal"`
	FeesTotal     decimal.Decimal `json:"fees_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}
