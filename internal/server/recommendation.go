package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
)

const defaultMaxOffers = 6

func (s *Server) ListRecommendations(c *gin.Context) {
	recs, err := s.recommendationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if recs == nil {
		recs = []recdomain.Recommendation{}
	}

	// the recommendations table consumes a bare array
	c.JSON(http.StatusOK, recs)
}

func (s *Server) TrackProduct(c *gin.Context) {
	var req recdomain.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rec, err := s.recommendationSvc.Track(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rec})
}

func (s *Server) PriceInvoice(c *gin.Context) {
	var inv invoicedomain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pricing, err := s.recommendationSvc.PriceInvoice(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pricing)
}

func (s *Server) LookupCompetitors(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		AbortWithError(c, newValidationError("q", "invalid_query", "query is required"))
		return
	}

	maxResults := defaultMaxOffers
	if raw := c.Query("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, newValidationError("max_results", "invalid_max_results", "invalid value"))
			return
		}
		maxResults = parsed
	}

	offers, err := s.recommendationSvc.Competitors(c.Request.Context(), query, maxResults)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}
