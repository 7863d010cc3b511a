package dashboard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilter(t *testing.T) {
	values := url.Values{
		"season":      {"2019", "twenty", " 2020 "},
		"driver":      {"Lewis Hamilton", ""},
		"constructor": {"Ferrari"},
	}

	f := ParseFilter(values)

	assert.Equal(t, []int{2019, 2020}, f.Seasons)
	assert.Equal(t, []string{"Lewis Hamilton"}, f.Drivers)
	assert.Equal(t, []string{"Ferrari"}, f.Constructors)
	assert.False(t, f.IsEmpty())

	assert.Equal(t, f, ParseFilter(f.Query()))
	assert.True(t, ParseFilter(url.Values{}).IsEmpty())
}

func TestFilter_Apply(t *testing.T) {
	records := loadTestResults(t)

	t.Run("empty filter keeps everything", func(t *testing.T) {
		assert.Equal(t, records, Filter{}.Apply(records))
	})

	t.Run("empty selection is the same as no selection", func(t *testing.T) {
		seasons := []int{2019}

		assert.Equal(t, Filter{Seasons: seasons}.Apply(records), Filter{Seasons: seasons, Drivers: []string{}}.Apply(records))
		assert.Equal(t, Filter{Seasons: seasons}.Apply(records), Filter{Seasons: seasons, Constructors: []string{}}.Apply(records))
		assert.Equal(t, Filter{Drivers: []string{"Charles Leclerc"}}.Apply(records), Filter{Seasons: []int{}, Drivers: []string{"Charles Leclerc"}}.Apply(records))
		assert.Len(t, Filter{Seasons: seasons, Drivers: []string{}}.Apply(records), 4)
	})

	t.Run("season", func(t *testing.T) {
		filtered := Filter{Seasons: []int{2019}}.Apply(records)

		assert.Len(t, filtered, 4)

		for _, record := range filtered {
			assert.Equal(t, 2019, record.Season)
		}
	})

	t.Run("driver is matched by full name", func(t *testing.T) {
		assert.Len(t, Filter{Drivers: []string{"Charles Leclerc"}}.Apply(records), 2)
		assert.Empty(t, Filter{Drivers: []string{"leclerc"}}.Apply(records))
	})

	t.Run("dimensions are combined", func(t *testing.T) {
		filtered := Filter{Seasons: []int{2018, 2020}, Constructors: []string{"Ferrari"}}.Apply(records)

		assert.Len(t, filtered, 5)

		for _, record := range filtered {
			assert.Equal(t, "Ferrari", record.ConstructorName)
			assert.NotEqual(t, 2019, record.Season)
		}
	})

	t.Run("values within a dimension are alternatives", func(t *testing.T) {
		assert.Len(t, Filter{Drivers: []string{"Charles Leclerc", "Sebastian Vettel"}}.Apply(records), 7)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Filter{Seasons: []int{1950}}.Apply(records))
	})

	t.Run("order is kept", func(t *testing.T) {
		filtered := Filter{Drivers: []string{"Lewis Hamilton"}}.Apply(records)

		for i := 1; i < len(filtered); i++ {
			assert.True(t, filtered[i-1].Season <= filtered[i].Season)
		}
	})
}

func TestFilterOptionsFor(t *testing.T) {
	opts := FilterOptionsFor(loadTestResults(t))

	assert.Equal(t, []int{2018, 2019, 2020}, opts.Seasons)
	assert.Equal(t, []string{"Charles Leclerc", "Lewis Hamilton", "Sebastian Vettel"}, opts.Drivers)
	assert.Equal(t, []string{"Ferrari", "Mercedes"}, opts.Constructors)
}
