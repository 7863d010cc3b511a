package dashboard

import (
	"testing"

	"github.com/JustaPenguin/race-results-dashboard/pkg/investment"
	"github.com/stretchr/testify/assert"
)

func entrant(name string, riskAdjusted float64) ComparisonEntrant {
	return ComparisonEntrant{Name: name, Metrics: investment.Metrics{RiskAdjusted: riskAdjusted}}
}

func TestWinner(t *testing.T) {
	assert.Equal(t, "A", winner(entrant("A", 2.20), entrant("B", 1.50)))
	assert.Equal(t, "B", winner(entrant("A", -1), entrant("B", 0)))
	assert.Equal(t, "", winner(entrant("A", 1.5), entrant("B", 1.5)))
}

func TestCompare(t *testing.T) {
	records := loadTestResults(t)

	c := Compare(records, EntityDriver, "Sebastian Vettel", "Lewis Hamilton")

	assert.Equal(t, EntityDriver, c.Kind)
	assert.Equal(t, "Lewis Hamilton", c.Winner)
	assert.True(t, c.HasWinner())

	assert.InDelta(t, 12.624788, c.Second.Metrics.CAGR, 1e-6)
	assert.InDelta(t, 42.814024, c.Second.Metrics.Volatility, 1e-6)
	assert.InDelta(t, 0.294875, c.Second.Metrics.RiskAdjusted, 1e-6)

	assert.InDelta(t, -100, c.First.Metrics.CAGR, 1e-6)
	assert.InDelta(t, 14.142136, c.First.Metrics.Volatility, 1e-6)
	assert.InDelta(t, -7.071068, c.First.Metrics.RiskAdjusted, 1e-6)

	better, worse := c.Entrants()
	assert.Equal(t, "Lewis Hamilton", better.Name)
	assert.Equal(t, "Sebastian Vettel", worse.Name)

	assert.Equal(t, "Lewis Hamilton is the better investment choice with a higher Risk-Adjusted Return (0.29 vs -7.07).", c.Recommendation())

	assert.Equal(t, []int{2018, 2019, 2020}, c.Chart.Seasons)
	assert.Len(t, c.Chart.Series, 2)

	t.Run("constructors", func(t *testing.T) {
		c := Compare(records, EntityConstructor, "Ferrari", "Mercedes")

		assert.Equal(t, "Mercedes", c.Winner)
		assert.InDelta(t, -1.855328, c.First.Metrics.RiskAdjusted, 1e-6)
	})

	t.Run("no clear winner", func(t *testing.T) {
		c := Compare(records, EntityDriver, "Charles Leclerc", "Nobody")

		assert.False(t, c.HasWinner())
		assert.Equal(t, "Both have similar Risk-Adjusted Returns, no clear winner.", c.Recommendation())
		assert.Empty(t, c.Second.Trend.Points)
	})

	t.Run("comparing an entity with itself", func(t *testing.T) {
		c := Compare(records, EntityDriver, "Lewis Hamilton", "Lewis Hamilton")

		assert.False(t, c.HasWinner())
		assert.Equal(t, c.First, c.Second)
	})
}
