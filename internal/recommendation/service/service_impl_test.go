package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/labsupply/smartpricing/internal/clock"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	"github.com/labsupply/smartpricing/internal/providers/competitor"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	"github.com/labsupply/smartpricing/internal/recommendation/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type providerStub struct {
	offers   []competitor.Offer
	err      error
	searches int
}

func (p *providerStub) Name() string { return "stub-catalog" }

func (p *providerStub) Search(ctx context.Context, query string, maxResults int) ([]competitor.Offer, error) {
	p.searches++
	if p.err != nil {
		return nil, p.err
	}
	return p.offers, nil
}

func newTestService(t *testing.T, provider competitor.Provider) (recdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&recdomain.TrackedProduct{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)),
		Repo:     repository.Provide(),
		Provider: provider,
		Cache:    competitor.NewMemoryCache(),
	})
	return svc, db
}

func TestTrackAndList(t *testing.T) {
	svc, _ := newTestService(t, &providerStub{})
	ctx := context.Background()

	rec, err := svc.Track(ctx, recdomain.TrackRequest{SKU: "PCR-100", CurrentPrice: 185})
	assert.NoError(t, err)
	assert.Equal(t, "PCR-100", rec.SKU)
	assert.Equal(t, 185.0, rec.CurrentPrice)
	assert.Greater(t, rec.RecommendedPrice, 0.0)

	_, err = svc.Track(ctx, recdomain.TrackRequest{SKU: "SEQ-20", CurrentPrice: 42.5})
	assert.NoError(t, err)

	recs, err := svc.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, "PCR-100", recs[0].SKU)
	assert.Equal(t, "SEQ-20", recs[1].SKU)

	// liftPct is consistent with the price pair it accompanies
	for _, r := range recs {
		expected := liftPct(decimal.NewFromFloat(r.CurrentPrice), decimal.NewFromFloat(r.RecommendedPrice))
		assert.InDelta(t, expected, r.LiftPct, 0.11, r.SKU)
	}
}

func TestTrack_DuplicateSKU(t *testing.T) {
	svc, _ := newTestService(t, &providerStub{})
	ctx := context.Background()

	_, err := svc.Track(ctx, recdomain.TrackRequest{SKU: "PCR-100", CurrentPrice: 185})
	assert.NoError(t, err)

	_, err = svc.Track(ctx, recdomain.TrackRequest{SKU: "PCR-100", CurrentPrice: 190})
	assert.ErrorIs(t, err, recdomain.ErrDuplicateSKU)
}

func TestTrack_Validation(t *testing.T) {
	svc, _ := newTestService(t, &providerStub{})
	ctx := context.Background()

	_, err := svc.Track(ctx, recdomain.TrackRequest{SKU: "  ", CurrentPrice: 10})
	assert.ErrorIs(t, err, recdomain.ErrInvalidSKU)

	_, err = svc.Track(ctx, recdomain.TrackRequest{SKU: "PCR-100", CurrentPrice: 0})
	assert.ErrorIs(t, err, recdomain.ErrInvalidPrice)
}

func TestPriceInvoice(t *testing.T) {
	svc, _ := newTestService(t, &providerStub{})

	pricing, err := svc.PriceInvoice(context.Background(), invoicedomain.Invoice{
		Buyer: invoicedomain.Buyer{Segment: invoicedomain.SegmentPharma},
		Items: []invoicedomain.LineItem{
			{SKU: "PCR-100", Quantity: 2, UnitPrice: decimal.RequireFromString("185.00")},
			{SKU: "SEQ-20", Quantity: 1, UnitPrice: decimal.RequireFromString("42.50")},
		},
	})
	assert.NoError(t, err)

	assert.Len(t, pricing.Recommendations, 2)
	assert.Equal(t, "internal-heuristic", pricing.Provider)
	for _, rec := range pricing.Recommendations {
		assert.NotEmpty(t, rec.PricingStrategy)
		assert.NotEmpty(t, rec.Reasoning)
		assert.NotEmpty(t, rec.MarketFactors)
		assert.NotEmpty(t, rec.ConfidenceLevel)
	}
}

func TestPriceInvoice_Validation(t *testing.T) {
	svc, _ := newTestService(t, &providerStub{})
	ctx := context.Background()

	_, err := svc.PriceInvoice(ctx, invoicedomain.Invoice{})
	assert.ErrorIs(t, err, recdomain.ErrNoLineItems)

	_, err = svc.PriceInvoice(ctx, invoicedomain.Invoice{
		Buyer: invoicedomain.Buyer{Segment: "enterprise"},
		Items: []invoicedomain.LineItem{{SKU: "PCR-100", Quantity: 1, UnitPrice: decimal.New(1, 0)}},
	})
	assert.ErrorIs(t, err, recdomain.ErrInvalidSegment)
}

func TestCompetitors_CachesFirstSuccess(t *testing.T) {
	price := 12.5
	provider := &providerStub{offers: []competitor.Offer{
		{Source: "stub-catalog", Title: "PCR kit", Price: &price, Currency: "USD"},
	}}
	svc, _ := newTestService(t, provider)
	ctx := context.Background()

	first, err := svc.Competitors(ctx, "PCR-100", 6)
	assert.NoError(t, err)
	assert.Len(t, first.Offers, 1)
	assert.Equal(t, 1, provider.searches)

	second, err := svc.Competitors(ctx, "PCR-100", 6)
	assert.NoError(t, err)
	assert.Len(t, second.Offers, 1)
	assert.Equal(t, 1, provider.searches, "second lookup must be served from cache")
}

func TestCompetitors_ProviderFailureDegrades(t *testing.T) {
	provider := &providerStub{err: errors.New("upstream down")}
	svc, _ := newTestService(t, provider)

	offers, err := svc.Competitors(context.Background(), "PCR-100", 6)
	assert.NoError(t, err)
	assert.Empty(t, offers.Offers)
	assert.Equal(t, "No competitor listings found", offers.Message)
	assert.Equal(t, []string{"stub-catalog"}, offers.AttemptedProviders)
}

func TestCompetitors_EmptyQuery(t *testing.T) {
	svc, _ := newTestService(t, &providerStub{})

	_, err := svc.Competitors(context.Background(), "  ", 6)
	assert.ErrorIs(t, err, recdomain.ErrInvalidQuery)
}
