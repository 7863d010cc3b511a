package investment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type metricsTest struct {
	name   string
	points []Point

	cagr, volatility, riskAdjusted float64
	samples                        int
}

func TestCompute(t *testing.T) {
	tests := []metricsTest{
		{
			name:   "empty",
			points: nil,
		},
		{
			name:   "single season",
			points: []Point{{Season: 2020, Points: 100}},
		},
		{
			name:   "zero starting season",
			points: []Point{{Season: 2019, Points: 0}, {Season: 2020, Points: 100}},
		},
		{
			name:         "steady growth",
			points:       []Point{{Season: 2018, Points: 50}, {Season: 2019, Points: 75}, {Season: 2020, Points: 100}},
			cagr:         25.992105,
			volatility:   11.785113,
			riskAdjusted: 2.205503,
			samples:      2,
		},
		{
			name:         "unsorted input",
			points:       []Point{{Season: 2020, Points: 100}, {Season: 2018, Points: 50}, {Season: 2019, Points: 75}},
			cagr:         25.992105,
			volatility:   11.785113,
			riskAdjusted: 2.205503,
			samples:      2,
		},
		{
			name:    "two seasons, one return",
			points:  []Point{{Season: 2019, Points: 50}, {Season: 2020, Points: 100}},
			cagr:    41.421356,
			samples: 1,
		},
		{
			name:         "zero in the middle is excluded from volatility",
			points:       []Point{{Season: 2017, Points: 10}, {Season: 2018, Points: 20}, {Season: 2019, Points: 0}, {Season: 2020, Points: 30}, {Season: 2021, Points: 15}},
			cagr:         8.447177,
			volatility:   104.083300,
			riskAdjusted: 0.081158,
			samples:      3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := Compute(test.points)

			assert.InDelta(t, test.cagr, m.CAGR, 1e-5)
			assert.InDelta(t, test.volatility, m.Volatility, 1e-5)
			assert.InDelta(t, test.riskAdjusted, m.RiskAdjusted, 1e-5)
			assert.Equal(t, test.samples, m.Samples)
			assert.Len(t, m.Returns, len(test.points))
		})
	}
}

func TestYearOnYear(t *testing.T) {
	returns := YearOnYear([]Point{{Season: 2018, Points: 50}, {Season: 2019, Points: 75}, {Season: 2021, Points: 100}})

	assert.False(t, returns[0].Defined)
	assert.True(t, returns[1].Defined)
	assert.InDelta(t, 50, returns[1].Percent, 1e-9)

	// 2020 is missing, so 2021 is compared against 2019.
	assert.Equal(t, 2021, returns[2].Season)
	assert.InDelta(t, 33.333333, returns[2].Percent, 1e-6)
}

func TestYearOnYear_ZeroBase(t *testing.T) {
	returns := YearOnYear([]Point{{Season: 2019, Points: 0}, {Season: 2020, Points: 100}, {Season: 2021, Points: 0}})

	assert.False(t, returns[0].Defined)
	assert.False(t, returns[1].Defined)
	assert.True(t, returns[2].Defined)
	assert.InDelta(t, -100, returns[2].Percent, 1e-9)
}

func TestCAGR_UsesDistinctSeasons(t *testing.T) {
	// n is the number of seasons, not the number of intervals between them.
	cagr := CAGR([]Point{{Season: 2000, Points: 1}, {Season: 2001, Points: 8}, {Season: 2002, Points: 8}})

	assert.InDelta(t, 100, cagr, 1e-9)
}
