// Package priceindex converts wire-format float64 prices into the
// fixed-point integer keys price levels are indexed by. Price levels
// must never be keyed by float directly: two float64 values that print
// identically can compare unequal, which would silently fragment a
// price level into two.
package priceindex

import "github.com/shopspring/decimal"

const scale = 100

// ToKey rounds price to two decimal places and returns it as an integer
// number of cents (round(price * 100)).
func ToKey(price float64) int64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(scale)).
		Round(0).
		IntPart()
}

// FromKey is the inverse of ToKey, used only where no original float is
// available to carry forward (the public wire format otherwise retains
// the float a caller supplied).
func FromKey(key int64) float64 {
	f, _ := decimal.NewFromInt(key).
		Div(decimal.NewFromInt(scale)).
		Round(2).
		Float64()
	return f
}
