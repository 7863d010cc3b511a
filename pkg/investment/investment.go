// Package investment treats a points-per-season series like the price history of an
// asset and works out how well it has grown, and how steadily.
package investment

import (
	"math"
	"sort"
)

// Point is the total points scored in one season.
type Point struct {
	Season int     `json:"season"`
	Points float64 `json:"points"`
}

// Return is the percentage change in points from the previous season in the series.
// Defined is false for the first season and for any season following a zero-point
// season, where the change can't be expressed as a percentage.
type Return struct {
	Season  int     `json:"season"`
	Percent float64 `json:"percent"`
	Defined bool    `json:"defined"`
}

// Metrics describe a series of Points.
type Metrics struct {
	// CAGR is the compound annual growth rate, as a percentage.
	CAGR float64 `json:"cagr"`

	// Volatility is the sample standard deviation of the defined Returns, as a
	// percentage. It is 0 when fewer than two Returns are defined.
	Volatility float64 `json:"volatility"`

	// RiskAdjusted is CAGR / Volatility, or 0 when Volatility is 0.
	RiskAdjusted float64 `json:"risk_adjusted"`

	Returns []Return `json:"returns"`

	// Samples is the number of defined Returns that Volatility was calculated from.
	Samples int `json:"samples"`
}

// Compute calculates the Metrics of a series. Points are expected to be in season
// order, they are sorted (stably) if they aren't.
func Compute(points []Point) Metrics {
	points = sorted(points)

	returns := YearOnYear(points)
	volatility, samples := Volatility(returns)
	cagr := CAGR(points)

	var riskAdjusted float64

	if volatility > 0 {
		riskAdjusted = cagr / volatility
	}

	return Metrics{
		CAGR:         cagr,
		Volatility:   volatility,
		RiskAdjusted: riskAdjusted,
		Returns:      returns,
		Samples:      samples,
	}
}

// CAGR is ((last / first) ^ (1 / n) - 1) * 100, where n is the number of distinct
// seasons. A series with one season, or one starting on zero (or fewer) points, has a
// CAGR of 0.
func CAGR(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	first, last := points[0].Points, points[len(points)-1].Points

	if first <= 0 {
		return 0
	}

	years := float64(distinctSeasons(points))

	return (math.Pow(last/first, 1/years) - 1) * 100
}

// YearOnYear returns the change between each point and the one before it in the
// series. A gap in seasons is not filled: the previous present season is used.
func YearOnYear(points []Point) []Return {
	returns := make([]Return, len(points))

	for i, point := range points {
		returns[i].Season = point.Season

		if i == 0 {
			continue
		}

		previous := points[i-1].Points

		if previous == 0 {
			continue
		}

		returns[i].Percent = (point.Points - previous) / previous * 100
		returns[i].Defined = true
	}

	return returns
}

// Volatility is the sample standard deviation of the defined returns, and the number
// of returns it was taken over. With fewer than two defined returns it is 0.
func Volatility(returns []Return) (float64, int) {
	var values []float64

	for _, r := range returns {
		if r.Defined {
			values = append(values, r.Percent)
		}
	}

	if len(values) < 2 {
		return 0, len(values)
	}

	var sum float64

	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))

	var squares float64

	for _, v := range values {
		squares += (v - mean) * (v - mean)
	}

	return math.Sqrt(squares / float64(len(values)-1)), len(values)
}

func distinctSeasons(points []Point) int {
	seen := make(map[int]bool)

	for _, p := range points {
		seen[p.Season] = true
	}

	return len(seen)
}

func sorted(points []Point) []Point {
	if sort.SliceIsSorted(points, func(i, j int) bool { return points[i].Season < points[j].Season }) {
		return points
	}

	out := make([]Point, len(points))
	copy(out, points)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Season < out[j].Season
	})

	return out
}
