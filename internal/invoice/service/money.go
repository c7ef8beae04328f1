package service

import "github.com/shopspring/decimal"

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
