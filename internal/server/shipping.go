package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	shippingdomain "github.com/labsupply/smartpricing/internal/shipping/domain"
)

type estimateBreakdown struct {
	BaseShipping  float64 `json:"base_shipping"`
	FuelSurcharge float64 `json:"fuel_surcharge"`
	HandlingFee   float64 `json:"handling_fee"`
}

type estimateResponse struct {
	EstimatedCost float64           `json:"estimated_cost"`
	Breakdown     estimateBreakdown `json:"breakdown"`
	Provider      string            `json:"provider"`
	Message       string            `json:"message,omitempty"`
}

func (s *Server) EstimateShipping(c *gin.Context) {
	var req shippingdomain.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	est, err := s.shippingSvc.Estimate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// the service accepts mixed-case/padded levels; record the canonical form
	s.metrics.RecordShippingEstimate(strings.ToLower(strings.TrimSpace(string(req.ServiceLevel))))

	estimatedCost, _ := est.EstimatedCost.Float64()
	baseShipping, _ := est.Breakdown.BaseShipping.Float64()
	fuelSurcharge, _ := est.Breakdown.FuelSurcharge.Float64()
	handlingFee, _ := est.Breakdown.HandlingFee.Float64()
	c.JSON(http.StatusOK, estimateResponse{
		EstimatedCost: estimatedCost,
		Breakdown: estimateBreakdown{
			BaseShipping:  baseShipping,
			FuelSurcharge: fuelSurcharge,
			HandlingFee:   handlingFee,
		},
		Provider: est.Provider,
		Message:  est.Message,
	})
}
