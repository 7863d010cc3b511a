package dashboard

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filter restricts a set of ResultRecords by season, driver and constructor. An empty
// selection for a dimension places no restriction on it.
type Filter struct {
	Seasons      []int    `json:"seasons"`
	Drivers      []string `json:"drivers"`
	Constructors []string `json:"constructors"`
}

// ParseFilter reads a Filter from repeated "season", "driver" and "constructor" query
// values. Seasons that aren't numbers are ignored.
func ParseFilter(values url.Values) Filter {
	var f Filter

	for _, s := range values["season"] {
		season, err := strconv.Atoi(strings.TrimSpace(s))

		if err != nil {
			continue
		}

		f.Seasons = append(f.Seasons, season)
	}

	for _, driver := range values["driver"] {
		if driver != "" {
			f.Drivers = append(f.Drivers, driver)
		}
	}

	for _, constructor := range values["constructor"] {
		if constructor != "" {
			f.Constructors = append(f.Constructors, constructor)
		}
	}

	return f
}

// Query is the inverse of ParseFilter.
func (f Filter) Query() url.Values {
	values := make(url.Values)

	for _, season := range f.Seasons {
		values.Add("season", strconv.Itoa(season))
	}

	for _, driver := range f.Drivers {
		values.Add("driver", driver)
	}

	for _, constructor := range f.Constructors {
		values.Add("constructor", constructor)
	}

	return values
}

func (f Filter) IsEmpty() bool {
	return len(f.Seasons) == 0 && len(f.Drivers) == 0 && len(f.Constructors) == 0
}

func (f Filter) HasSeason(season int) bool {
	for _, s := range f.Seasons {
		if s == season {
			return true
		}
	}

	return false
}

func (f Filter) HasDriver(name string) bool {
	return containsString(f.Drivers, name)
}

func (f Filter) HasConstructor(name string) bool {
	return containsString(f.Constructors, name)
}

// Apply returns the records matching the Filter, in their original order.
func (f Filter) Apply(records []ResultRecord) []ResultRecord {
	if f.IsEmpty() {
		return records
	}

	seasons := make(map[int]bool, len(f.Seasons))

	for _, season := range f.Seasons {
		seasons[season] = true
	}

	drivers := stringSet(f.Drivers)
	constructors := stringSet(f.Constructors)

	var out []ResultRecord

	for _, record := range records {
		if len(seasons) > 0 && !seasons[record.Season] {
			continue
		}

		if len(drivers) > 0 && !drivers[record.DriverName()] {
			continue
		}

		if len(constructors) > 0 && !constructors[record.ConstructorName] {
			continue
		}

		out = append(out, record)
	}

	return out
}

// FilterOptions are the values a Filter can select from.
type FilterOptions struct {
	Seasons      []int    `json:"seasons"`
	Drivers      []string `json:"drivers"`
	Constructors []string `json:"constructors"`
}

// FilterOptionsFor lists the sorted, unique seasons, drivers and constructors in records.
func FilterOptionsFor(records []ResultRecord) FilterOptions {
	seasons := make(map[int]bool)

	for _, record := range records {
		seasons[record.Season] = true
	}

	opts := FilterOptions{
		Drivers:      Entities(records, EntityDriver),
		Constructors: Entities(records, EntityConstructor),
	}

	for season := range seasons {
		opts.Seasons = append(opts.Seasons, season)
	}

	sort.Ints(opts.Seasons)

	return opts
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))

	for _, v := range values {
		set[v] = true
	}

	return set
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}

	return false
}
