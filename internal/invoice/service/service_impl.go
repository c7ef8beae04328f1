package service

import (
	"context"
	"strings"

	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	"github.com/labsupply/smartpricing/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
	PDF pdf.Provider
}

type Service struct {
	log *zap.Logger
	pdf pdf.Provider
}

func New(p Params) invoicedomain.Service {
	return &Service{
		log: p.Log.Named("invoice.service"),
		pdf: p.PDF,
	}
}

// ComputeTotals derives the items subtotal, signed fee total, and grand
// total from the submitted invoice. Pure with respect to the input.
func (s *Service) ComputeTotals(ctx context.Context, inv invoicedomain.Invoice) (*invoicedomain.Totals, error) {
	_ = ctx

	if err := validate(inv); err != nil {
		return nil, err
	}

	totals := computeTotals(inv)
	return &totals, nil
}

func (s *Service) GeneratePDF(ctx context.Context, inv invoicedomain.Invoice) ([]byte, string, error) {
	if err := validate(inv); err != nil {
		return nil, "", err
	}

	totals := computeTotals(inv)
	doc := buildDocument(inv, totals)

	rendered, err := s.pdf.GenerateInvoice(ctx, doc)
	if err != nil {
		s.log.Error("invoice pdf render failed",
			zap.String("invoice_number", inv.Number),
			zap.Error(err),
		)
		return nil, "", invoicedomain.ErrRenderFailed
	}

	filename := strings.TrimSpace(inv.Number)
	if filename == "" {
		filename = "invoice"
	}
	return rendered, filename + ".pdf", nil
}

func validate(inv invoicedomain.Invoice) error {
	if len(inv.Items) == 0 {
		return invoicedomain.ErrNoLineItems
	}
	for _, item := range inv.Items {
		if item.Quantity < 1 {
			return invoicedomain.ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return invoicedomain.ErrInvalidUnitPrice
		}
	}
	if inv.Buyer.Segment != "" && !invoicedomain.ValidSegment(inv.Buyer.Segment) {
		return invoicedomain.ErrInvalidSegment
	}
	for _, fee := range inv.Fees {
		if !invoicedomain.ValidFeeType(fee.Type) {
			return invoicedomain.ErrInvalidFeeType
		}
	}
	return nil
}

func computeTotals(inv invoicedomain.Invoice) invoicedomain.Totals {
	var totals invoicedomain.Totals
	for _, item := range inv.Items {
		line := item.UnitPrice.Mul(decimalFromInt(item.Quantity))
		totals.ItemsSubtotal = totals.ItemsSubtotal.Add(line)
	}
	for _, fee := range inv.Fees {
		totals.FeesTotal = totals.FeesTotal.Add(fee.Amount)
	}
	totals.GrandTotal = totals.ItemsSubtotal.Add(totals.FeesTotal)
	return totals
}

func buildDocument(inv invoicedomain.Invoice, totals invoicedomain.Totals) pdf.InvoiceDocument {
	doc := pdf.InvoiceDocument{
		InvoiceNumber:   inv.Number,
		Date:            inv.Date,
		SupplierName:    inv.Supplier.Name,
		SupplierAddress: inv.Supplier.Address,
		SupplierCountry: inv.Supplier.Country,
		BuyerName:       inv.Buyer.Name,
		BuyerSegment:    string(inv.Buyer.Segment),
		BuyerAddress:    inv.Buyer.Address,
		BuyerCountry:    inv.Buyer.Country,
		ItemsSubtotal:   money(totals.ItemsSubtotal),
		FeesTotal:       money(totals.FeesTotal),
		GrandTotal:      money(totals.GrandTotal),
		Notes:           inv.Notes,
	}

	for _, item := range inv.Items {
		amount := item.UnitPrice.Mul(decimalFromInt(item.Quantity))
		doc.Items = append(doc.Items, pdf.InvoiceDocumentItem{
			SKU:         item.SKU,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   money(item.UnitPrice),
			Amount:      money(amount),
		})
	}
	for _, fee := range inv.Fees {
		doc.Fees = append(doc.Fees, pdf.InvoiceDocumentFee{
			Type:   string(fee.Type),
			Label:  fee.Label,
			Amount: money(fee.Amount),
		})
	}

	return doc
}
