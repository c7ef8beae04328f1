package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
)

type totalsResponse struct {
	ItemsSubtotal float64 `json:"items_subtotal"`
	FeesTotal     float64 `json:"fees_total"`
	GrandTotal    float64 `json:"grand_total"`
}

func (s *Server) ComputeInvoiceTotals(c *gin.Context) {
	var inv invoicedomain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	totals, err := s.invoiceSvc.ComputeTotals(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordInvoiceTotals()

	itemsSubtotal, _ := totals.ItemsSubtotal.Float64()
	feesTotal, _ := totals.FeesTotal.Float64()
	grandTotal, _ := totals.GrandTotal.Float64()
	c.JSON(http.StatusOK, totalsResponse{
		ItemsSubtotal: itemsSubtotal,
		FeesTotal:     feesTotal,
		GrandTotal:    grandTotal,
	})
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	var inv invoicedomain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	doc, filename, err := s.invoiceSvc.GeneratePDF(c.Request.Context(), inv)
	if err != nil {
		s.metrics.RecordPDFRender("error")
		AbortWithError(c, err)
		return
	}
	s.metrics.RecordPDFRender("ok")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}
