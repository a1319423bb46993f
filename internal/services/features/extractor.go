package features

import (
	"math"

	"MarketBoard/internal/domain/models"
)

// TradingDaysPerYear is used to annualize daily statistics.
const TradingDaysPerYear = 252

// ComputeLogReturns computes log returns r_t = ln(C_t / C_{t-1}) over closes.
// It returns a slice of length len(points)-1, or nil if insufficient data.
func ComputeLogReturns(points []models.TimeSeriesPoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	out := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Price
		cur := points[i].Price
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes annualized realized volatility over the latest
// window of returns using the provided number of bars per year.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerYear)
}

// PercentChange returns (last-first)/first*100 over closes, or 0.
func PercentChange(points []models.TimeSeriesPoint) float64 {
	if len(points) < 2 || points[0].Price == 0 {
		return 0
	}
	first := points[0].Price
	last := points[len(points)-1].Price
	return (last - first) / first * 100
}

// Trend classifies a percent change against a symmetric threshold.
func Trend(changePercent, threshold float64) string {
	switch {
	case changePercent > threshold:
		return "bullish"
	case changePercent < -threshold:
		return "bearish"
	default:
		return "neutral"
	}
}

// VolatilityClass buckets annualized volatility (fraction) into low/moderate/high.
func VolatilityClass(vol float64) string {
	switch {
	case vol < 0.20:
		return "low"
	case vol < 0.40:
		return "moderate"
	default:
		return "high"
	}
}
