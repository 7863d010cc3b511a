package dashboard

import (
	"math"
)

// KeyMetrics are the headline numbers of a set of results.
type KeyMetrics struct {
	TotalRaces         int   `json:"total_races"`
	UniqueDrivers      int   `json:"unique_drivers"`
	UniqueConstructors int   `json:"unique_constructors"`
	TotalPoints        int64 `json:"total_points"`
}

// CalculateKeyMetrics counts races by name, drivers and constructors by ID.
// TotalPoints is truncated to a whole number.
func CalculateKeyMetrics(records []ResultRecord) KeyMetrics {
	races := make(map[string]bool)
	drivers := make(map[string]bool)
	constructors := make(map[string]bool)

	var points float64

	for _, record := range records {
		races[record.RaceName] = true
		drivers[record.DriverID] = true
		constructors[record.ConstructorID] = true
		points += record.Points
	}

	return KeyMetrics{
		TotalRaces:         len(races),
		UniqueDrivers:      len(drivers),
		UniqueConstructors: len(constructors),
		TotalPoints:        int64(math.Trunc(points)),
	}
}

type SummaryOptions struct {
	// TopN is the number of drivers and constructors in the top charts.
	TopN int

	// TopTrendDrivers is the number of the top drivers charted over time.
	TopTrendDrivers int
}

var DefaultSummaryOptions = SummaryOptions{
	TopN:            10,
	TopTrendDrivers: 5,
}

// Summary is everything shown on the summary dashboard. Each view is calculated
// independently from the filtered records.
type Summary struct {
	Filter  Filter        `json:"filter"`
	Options FilterOptions `json:"options"`

	NumRecords int        `json:"num_records"`
	KeyMetrics KeyMetrics `json:"key_metrics"`

	TopDrivers           []EntityTotal `json:"top_drivers"`
	TopConstructors      []EntityTotal `json:"top_constructors"`
	DriversByNationality []EntityCount `json:"drivers_by_nationality"`

	ConstructorTrends SeriesTable `json:"constructor_trends"`
	DriverTrends      SeriesTable `json:"driver_trends"`
	NationalityTrends SeriesTable `json:"nationality_trends"`
}

// BuildSummary filters records and calculates the Summary views over them. Filter
// options are taken from the unfiltered records.
func BuildSummary(records []ResultRecord, filter Filter, opts SummaryOptions) *Summary {
	if opts.TopN <= 0 {
		opts.TopN = DefaultSummaryOptions.TopN
	}

	if opts.TopTrendDrivers <= 0 {
		opts.TopTrendDrivers = DefaultSummaryOptions.TopTrendDrivers
	}

	filtered := filter.Apply(records)

	s := &Summary{
		Filter:     filter,
		Options:    FilterOptionsFor(records),
		NumRecords: len(filtered),
		KeyMetrics: CalculateKeyMetrics(filtered),

		TopDrivers:           TopTotals(filtered, EntityDriver, opts.TopN),
		TopConstructors:      TopTotals(filtered, EntityConstructor, opts.TopN),
		DriversByNationality: DriversByNationality(filtered),

		ConstructorTrends: Pivot(GroupPoints(filtered, EntityConstructor)),
		NationalityTrends: Pivot(GroupPoints(filtered, EntityNationality)),
	}

	var topDriverNames []string

	for i, driver := range s.TopDrivers {
		if i >= opts.TopTrendDrivers {
			break
		}

		topDriverNames = append(topDriverNames, driver.Entity)
	}

	if len(topDriverNames) > 0 {
		s.DriverTrends = Pivot(GroupPoints(filtered, EntityDriver), topDriverNames...)
	}

	return s
}
