package finance

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// roundHalfUp rounds to the nearest integer with ties going towards positive
// infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// formatFixed renders x with the given number of decimals. The float is
// expanded to its exact binary value first, so 2.125 becomes "2.13" while
// 1.005 (stored as 1.00499...) stays "1.00".
func formatFixed(x float64, places int) string {
	if !isFinite(x) {
		return strconv.FormatFloat(x, 'f', places, 64)
	}
	exact := new(big.Float).SetFloat64(x).Text('f', 1100)
	return decimal.RequireFromString(exact).StringFixed(int32(places))
}
