package token

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var ErrAmountOutOfRange = errors.New("token: amount out of range")

var maxUnits = decimal.NewFromInt(math.MaxInt64)

// Format renders base units as a decimal USDC amount, e.g. 1500000 -> "1.5".
func Format(amount int64) string {
	return decimal.New(amount, -Decimals).String()
}

// Parse converts a decimal USDC amount into base units, truncating any
// digits past the token's precision. Amounts that do not fit in int64
// base units are rejected.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	units := d.Shift(Decimals).Truncate(0)
	if units.Abs().GreaterThan(maxUnits) {
		return 0, ErrAmountOutOfRange
	}
	return units.IntPart(), nil
}
