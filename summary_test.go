package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateKeyMetrics(t *testing.T) {
	records := loadTestResults(t)

	assert.Equal(t, KeyMetrics{
		TotalRaces:         4,
		UniqueDrivers:      3,
		UniqueConstructors: 2,
		TotalPoints:        204,
	}, CalculateKeyMetrics(records))

	assert.Equal(t, KeyMetrics{}, CalculateKeyMetrics(nil))

	t.Run("points are truncated", func(t *testing.T) {
		assert.Equal(t, int64(2), CalculateKeyMetrics([]ResultRecord{{Points: 1.5}, {Points: 1.25}}).TotalPoints)
	})
}

func TestBuildSummary(t *testing.T) {
	records := loadTestResults(t)

	t.Run("unfiltered", func(t *testing.T) {
		s := BuildSummary(records, Filter{}, SummaryOptions{TopN: 2, TopTrendDrivers: 1})

		assert.Equal(t, len(records), s.NumRecords)
		assert.Len(t, s.TopDrivers, 2)
		assert.Len(t, s.TopConstructors, 2)
		assert.Len(t, s.DriversByNationality, 3)

		if assert.Len(t, s.DriverTrends.Series, 1) {
			assert.Equal(t, "Lewis Hamilton", s.DriverTrends.Series[0].Name)
		}

		assert.Len(t, s.ConstructorTrends.Series, 2)
		assert.Len(t, s.NationalityTrends.Series, 3)
	})

	t.Run("filtered", func(t *testing.T) {
		s := BuildSummary(records, Filter{Seasons: []int{2020}}, DefaultSummaryOptions)

		assert.Equal(t, 5, s.NumRecords)
		assert.Equal(t, 2, s.KeyMetrics.TotalRaces)
		assert.Equal(t, []int{2020}, s.ConstructorTrends.Seasons)

		// options come from every record, not the filtered ones
		assert.Equal(t, []int{2018, 2019, 2020}, s.Options.Seasons)
	})

	t.Run("filter matching nothing", func(t *testing.T) {
		s := BuildSummary(records, Filter{Drivers: []string{"Nobody"}}, DefaultSummaryOptions)

		assert.Equal(t, 0, s.NumRecords)
		assert.Empty(t, s.TopDrivers)
		assert.True(t, s.DriverTrends.IsEmpty())
		assert.True(t, s.ConstructorTrends.IsEmpty())
	})

	t.Run("unset options use the defaults", func(t *testing.T) {
		s := BuildSummary(records, Filter{}, SummaryOptions{})

		assert.Len(t, s.TopDrivers, 3)
		assert.Len(t, s.DriverTrends.Series, 3)
	})
}
