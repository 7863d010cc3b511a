package dashboard

import (
	"fmt"

	"github.com/JustaPenguin/race-results-dashboard/pkg/investment"
)

// ComparisonEntrant is one side of a Comparison.
type ComparisonEntrant struct {
	Name    string             `json:"name"`
	Trend   Trend              `json:"trend"`
	Metrics investment.Metrics `json:"metrics"`
}

func newComparisonEntrant(trend Trend) ComparisonEntrant {
	return ComparisonEntrant{
		Name:    trend.Entity,
		Trend:   trend,
		Metrics: trend.Metrics(),
	}
}

// A Comparison weighs up two drivers, or two constructors, as if they were investments.
type Comparison struct {
	Kind   EntityKind        `json:"kind"`
	First  ComparisonEntrant `json:"first"`
	Second ComparisonEntrant `json:"second"`

	// Winner is the name of the entrant with the higher risk-adjusted return, or empty
	// if neither is higher.
	Winner string `json:"winner"`

	Chart SeriesTable `json:"chart"`
}

// Compare builds a Comparison between first and second. Names that don't appear in
// records get an empty Trend, and so zero Metrics.
func Compare(records []ResultRecord, kind EntityKind, first, second string) *Comparison {
	groups := GroupPoints(records, kind)
	trends := trendsFromGroups(groups, []string{first, second})

	c := &Comparison{
		Kind:   kind,
		First:  newComparisonEntrant(trends[first]),
		Second: newComparisonEntrant(trends[second]),
		Chart:  Pivot(groups, first, second),
	}

	c.Winner = winner(c.First, c.Second)

	return c
}

func winner(first, second ComparisonEntrant) string {
	switch {
	case first.Metrics.RiskAdjusted > second.Metrics.RiskAdjusted:
		return first.Name
	case second.Metrics.RiskAdjusted > first.Metrics.RiskAdjusted:
		return second.Name
	default:
		return ""
	}
}

func (c *Comparison) HasWinner() bool {
	return c.Winner != ""
}

// Entrants returns the winner first, if there is one.
func (c *Comparison) Entrants() (ComparisonEntrant, ComparisonEntrant) {
	if c.Winner != "" && c.Winner == c.Second.Name {
		return c.Second, c.First
	}

	return c.First, c.Second
}

// Recommendation describes the outcome of the Comparison.
func (c *Comparison) Recommendation() string {
	if !c.HasWinner() {
		return "Both have similar Risk-Adjusted Returns, no clear winner."
	}

	better, worse := c.Entrants()

	return fmt.Sprintf(
		"%s is the better investment choice with a higher Risk-Adjusted Return (%.2f vs %.2f).",
		better.Name, better.Metrics.RiskAdjusted, worse.Metrics.RiskAdjusted,
	)
}
