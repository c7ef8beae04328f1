// Package pdf renders invoice documents.
package pdf

import "context"

// InvoiceDocument is the render-ready view of an invoice.
type InvoiceDocument struct {
	InvoiceNumber string
	Date          string

	SupplierName    string
	SupplierAddress string
	SupplierCountry string

	BuyerName    string
	BuyerSegment string
	BuyerAddress string
	BuyerCountry string

	Items []InvoiceDocumentItem
	Fees  []InvoiceDocumentFee

	ItemsSubtotal string
	FeesTotal     string
	GrandTotal    string

	Notes string
}

type InvoiceDocumentItem struct {
	SKU         string
	Description string
	Quantity    int64
	UnitPrice   string
	Amount      string
}

type InvoiceDocumentFee struct {
	Type   string
	Label  string
	Amount string
}

// Provider renders an invoice document to PDF bytes.
type Provider interface {
	GenerateInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
