package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type marotoProvider struct{}

// New returns the maroto-backed invoice renderer.
func New() Provider {
	return &marotoProvider{}
}

func (p *marotoProvider) GenerateInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(14,
		col.New(6).Add(
			text.New("Invoice number: "+doc.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date: "+doc.Date, props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(34,
		col.New(6).Add(
			text.New("Supplier", props.Text{Style: fontstyle.Bold}),
			text.New(doc.SupplierName, props.Text{Top: 5}),
			text.New(doc.SupplierAddress, props.Text{Top: 9}),
			text.New(doc.SupplierCountry, props.Text{Top: 13}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(doc.BuyerName+" ("+doc.BuyerSegment+")", props.Text{Top: 5}),
			text.New(doc.BuyerAddress, props.Text{Top: 9}),
			text.New(doc.BuyerCountry, props.Text{Top: 13}),
		),
	)

	m.AddRow(10,
		text.NewCol(2, "SKU", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range doc.Items {
		m.AddRow(8,
			text.NewCol(2, item.SKU, props.Text{Size: 9}),
			text.NewCol(4, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if len(doc.Fees) > 0 {
		m.AddRow(10,
			text.NewCol(2, "Fee", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
			text.NewCol(8, "Label", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
			text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Align: align.Right}),
		)
		m.AddRow(2, line.NewCol(12))
		for _, fee := range doc.Fees {
			m.AddRow(8,
				text.NewCol(2, fee.Type, props.Text{Size: 9}),
				text.NewCol(8, fee.Label, props.Text{Size: 9}),
				text.NewCol(2, fee.Amount, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, doc.ItemsSubtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Fees", props.Text{Size: 9}),
		text.NewCol(2, doc.FeesTotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, doc.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if doc.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, doc.Notes, props.Text{Size: 8, Top: 4}),
		)
	}

	rendered, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return rendered.GetBytes(), nil
}
