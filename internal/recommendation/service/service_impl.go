package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/labsupply/smartpricing/internal/clock"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	"github.com/labsupply/smartpricing/internal/providers/competitor"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	"github.com/labsupply/smartpricing/pkg/db"
	"github.com/labsupply/smartpricing/pkg/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const engineName = "internal-heuristic"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     recdomain.Repository
	Provider competitor.Provider
	Cache    competitor.Cache
	Metrics  *telemetry.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     recdomain.Repository
	provider competitor.Provider
	cache    competitor.Cache
	metrics  *telemetry.Metrics
}

func New(p Params) recdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("recommendation.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		provider: p.Provider,
		cache:    p.Cache,
		metrics:  p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]recdomain.Recommendation, error) {
	products, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	out := make([]recdomain.Recommendation, 0, len(products))
	for _, p := range products {
		rec := recommendPrice(p.SKU, p.CurrentPrice, invoicedomain.SegmentOther)
		current, _ := p.CurrentPrice.Float64()
		recommended, _ := rec.Recommended.Float64()
		out = append(out, recdomain.Recommendation{
			SKU:              p.SKU,
			CurrentPrice:     current,
			RecommendedPrice: recommended,
			LiftPct:          liftPct(p.CurrentPrice, rec.Recommended),
		})
	}
	return out, nil
}

func (s *Service) Track(ctx context.Context, req recdomain.TrackRequest) (*recdomain.Recommendation, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, recdomain.ErrInvalidSKU
	}
	if req.CurrentPrice <= 0 {
		return nil, recdomain.ErrInvalidPrice
	}

	now := s.clock.Now()
	product := &recdomain.TrackedProduct{
		ID:           s.genID.Generate(),
		SKU:          sku,
		CurrentPrice: decimal.NewFromFloat(req.CurrentPrice).Round(2),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, recdomain.ErrDuplicateSKU
		}
		return nil, err
	}

	s.log.Info("product tracked",
		zap.String("sku", product.SKU),
		zap.String("current_price", product.CurrentPrice.String()),
	)

	rec := recommendPrice(product.SKU, product.CurrentPrice, invoicedomain.SegmentOther)
	current, _ := product.CurrentPrice.Float64()
	recommended, _ := rec.Recommended.Float64()
	return &recdomain.Recommendation{
		SKU:              product.SKU,
		CurrentPrice:     current,
		RecommendedPrice: recommended,
		LiftPct:          liftPct(product.CurrentPrice, rec.Recommended),
	}, nil
}

func (s *Service) PriceInvoice(ctx context.Context, inv invoicedomain.Invoice) (*recdomain.InvoicePricing, error) {
	if len(inv.Items) == 0 {
		return nil, recdomain.ErrNoLineItems
	}
	segment := inv.Buyer.Segment
	if segment == "" {
		segment = invoicedomain.SegmentOther
	}
	if !invoicedomain.ValidSegment(segment) {
		return nil, recdomain.ErrInvalidSegment
	}

	recs := make([]recdomain.ItemRecommendation, 0, len(inv.Items))
	for _, item := range inv.Items {
		rec := recommendPrice(item.SKU, item.UnitPrice, segment)
		current, _ := item.UnitPrice.Float64()
		recommended, _ := rec.Recommended.Float64()
		recs = append(recs, recdomain.ItemRecommendation{
			SKU:              item.SKU,
			CurrentPrice:     current,
			RecommendedPrice: recommended,
			PricingStrategy:  rec.Strategy,
			Reasoning:        rec.Reasoning,
			MarketFactors:    rec.Factors,
			ConfidenceLevel:  rec.Confidence,
		})
	}

	return &recdomain.InvoicePricing{
		Recommendations: recs,
		Provider:        engineName,
		Message:         "Pricing recommendations generated",
	}, nil
}

func (s *Service) Competitors(ctx context.Context, query string, maxResults int) (*recdomain.CompetitorOffers, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, recdomain.ErrInvalidQuery
	}
	if maxResults <= 0 {
		maxResults = 6
	}

	if offers, ok := s.cache.Get(ctx, query); ok {
		return s.offersResponse(query, offers, s.provider.Name(), "cached"), nil
	}

	start := s.clock.Now()
	offers, err := s.provider.Search(ctx, query, maxResults)
	elapsed := s.clock.Now().Sub(start)
	if err != nil {
		s.metrics.ObserveCompetitorLookup(s.provider.Name(), "error", elapsed)
		s.log.Warn("competitor lookup failed",
			zap.String("query", query),
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return &recdomain.CompetitorOffers{
			Query:              query,
			Offers:             []recdomain.OfferView{},
			Message:            "No competitor listings found",
			AttemptedProviders: []string{s.provider.Name()},
		}, nil
	}
	s.metrics.ObserveCompetitorLookup(s.provider.Name(), "ok", elapsed)

	if len(offers) == 0 {
		return &recdomain.CompetitorOffers{
			Query:              query,
			Offers:             []recdomain.OfferView{},
			Message:            "No competitor listings found",
			AttemptedProviders: []string{s.provider.Name()},
		}, nil
	}

	s.cache.Set(ctx, query, offers)

	return s.offersResponse(query, offers, s.provider.Name(), "live"), nil
}

func (s *Service) offersResponse(query string, offers []competitor.Offer, provider, source string) *recdomain.CompetitorOffers {
	views := make([]recdomain.OfferView, 0, len(offers))
	for _, o := range offers {
		views = append(views, recdomain.OfferView{
			Source:      o.Source,
			Title:       o.Title,
			URL:         o.URL,
			Price:       o.Price,
			Currency:    o.Currency,
			PriceText:   o.PriceText,
			Matched:     o.Matched,
			LastChecked: o.LastChecked,
		})
	}
	s.log.Debug("competitor offers served",
		zap.String("query", query),
		zap.String("source", source),
		zap.Int("offers", len(views)),
	)
	return &recdomain.CompetitorOffers{
		Query:    query,
		Offers:   views,
		Provider: provider,
	}
}
