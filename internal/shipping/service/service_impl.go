package service

import (
	"context"
	"strings"

	"github.com/labsupply/smartpricing/internal/config"
	shippingdomain "github.com/labsupply/smartpricing/internal/shipping/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const providerName = "internal-rate-table"

type Params struct {
	fx.In

	Log   *zap.Logger
	Rates *config.RateConfigHolder
}

type Service struct {
	log   *zap.Logger
	rates *config.RateConfigHolder
}

func New(p Params) shippingdomain.Service {
	return &Service{
		log:   p.Log.Named("shipping.service"),
		rates: p.Rates,
	}
}

// Estimate derives the shipping cost from the current rate tables:
// base = weight * rate[level] * zoneMultiplier + boxes * boxFee, plus a
// percentage fuel surcharge and a flat handling fee. Idempotent for a
// given request and rate table.
func (s *Service) Estimate(ctx context.Context, req shippingdomain.EstimateRequest) (*shippingdomain.Estimate, error) {
	_ = ctx

	origin := normalizeCountry(req.OriginCountry)
	destination := normalizeCountry(req.DestinationCountry)
	if origin == "" || destination == "" {
		return nil, shippingdomain.ErrMissingLocation
	}

	level := shippingdomain.ServiceLevel(strings.ToLower(strings.TrimSpace(string(req.ServiceLevel))))
	if !shippingdomain.ValidServiceLevel(level) {
		return nil, shippingdomain.ErrInvalidServiceLevel
	}

	rates := s.rates.Current()

	weight := float64(req.WeightKG)
	if weight < 0 {
		weight = 0
	}
	boxes := int(req.NumBoxes)
	if boxes < 1 {
		boxes = 1
	}

	baseRate := decimal.NewFromFloat(rates.BaseRates[string(level)])
	multiplier := decimal.NewFromFloat(zoneMultiplier(rates, origin, destination))
	boxFee := decimal.NewFromFloat(rates.BoxFee)

	base := decimal.NewFromFloat(weight).
		Mul(baseRate).
		Mul(multiplier).
		Add(boxFee.Mul(decimal.NewFromInt(int64(boxes))))

	fuel := base.Mul(decimal.NewFromFloat(rates.FuelSurchargePct))
	handling := decimal.NewFromFloat(rates.HandlingFee)
	total := base.Add(fuel).Add(handling)

	return &shippingdomain.Estimate{
		EstimatedCost: total,
		Breakdown: shippingdomain.Breakdown{
			BaseShipping:  base,
			FuelSurcharge: fuel,
			HandlingFee:   handling,
		},
		Provider: providerName,
		Message:  "estimate computed from " + origin + "->" + destination + " rate table",
	}, nil
}

func zoneMultiplier(rates config.RateConfig, origin, destination string) float64 {
	if mult, ok := rates.ZoneMultipliers[origin+"->"+destination]; ok {
		return mult
	}
	return rates.DefaultZoneMultiplier
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
