// Package domain contains the shipping estimate contract.
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ServiceLevel selects the carrier speed tier.
type ServiceLevel string

const (
	LevelGround   ServiceLevel = "ground"
	LevelExpress  ServiceLevel = "express"
	LevelPriority ServiceLevel = "priority"
)

// ValidServiceLevel reports whether l is a known service level.
func ValidServiceLevel(l ServiceLevel) bool {
	switch l {
	case LevelGround, LevelExpress, LevelPriority:
		return true
	default:
		return false
	}
}

// FlexFloat accepts a JSON number or a string. Non-numeric input decodes
// to zero rather than failing the request.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(parsed)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt accepts a JSON number or a string, decoding non-numeric input
// to zero.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		*i = 0
		return nil
	}
	*i = FlexInt(f)
	return nil
}

// EstimateRequest carries the inputs for one estimate. Weight is clamped
// to a floor of 0 and box count to a floor of 1 before computing.
type EstimateRequest struct {
	OriginCountry      string       `json:"origin_country"`
	DestinationCountry string       `json:"destination_country"`
	WeightKG           FlexFloat    `json:"weight_kg"`
	NumBoxes           FlexInt      `json:"num_boxes"`
	ServiceLevel       ServiceLevel `json:"service_level"`
}

// Breakdown itemizes the estimate.
type Breakdown struct {
	BaseShipping  decimal.Decimal
	FuelSurcharge decimal.Decimal
	HandlingFee   decimal.Decimal
}

// Estimate is the derived shipping cost.
type Estimate struct {
	EstimatedCost decimal.Decimal
	Breakdown     Breakdown
	Provider      string
	Message       string
}
