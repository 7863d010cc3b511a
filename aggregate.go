package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JustaPenguin/race-results-dashboard/pkg/investment"
)

// EntityKind is what ResultRecords are grouped by.
type EntityKind int

const (
	EntityDriver EntityKind = iota
	EntityConstructor
	EntityNationality
)

func (k EntityKind) String() string {
	switch k {
	case EntityDriver:
		return "driver"
	case EntityConstructor:
		return "constructor"
	case EntityNationality:
		return "nationality"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// Title is the String of the EntityKind with its first letter in upper case.
func (k EntityKind) Title() string {
	s := k.String()

	return strings.ToUpper(s[:1]) + s[1:]
}

// Key is the name a record is grouped under for this EntityKind.
func (k EntityKind) Key(record ResultRecord) string {
	switch k {
	case EntityConstructor:
		return record.ConstructorName
	case EntityNationality:
		return record.DriverNationality
	default:
		return record.DriverName()
	}
}

func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EntityKind) UnmarshalText(text []byte) error {
	kind, err := ParseEntityKind(string(text))

	if err != nil {
		return err
	}

	*k = kind

	return nil
}

// ErrUnknownEntityKind is returned by ParseEntityKind.
type ErrUnknownEntityKind string

func (e ErrUnknownEntityKind) Error() string {
	return fmt.Sprintf("dashboard: unknown entity kind %q", string(e))
}

func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "driver", "drivers":
		return EntityDriver, nil
	case "constructor", "constructors":
		return EntityConstructor, nil
	case "nationality", "nationalities":
		return EntityNationality, nil
	default:
		return EntityDriver, ErrUnknownEntityKind(s)
	}
}

// GroupTotal is the points an entity scored in a season.
type GroupTotal struct {
	Season int     `json:"season"`
	Entity string  `json:"entity"`
	Points float64 `json:"points"`
}

type groupKey struct {
	season int
	entity string
}

// GroupPoints sums points by season and entity. Results are sorted by season, then
// entity name.
func GroupPoints(records []ResultRecord, kind EntityKind) []GroupTotal {
	totals := make(map[groupKey]float64)

	for _, record := range records {
		totals[groupKey{season: record.Season, entity: kind.Key(record)}] += record.Points
	}

	out := make([]GroupTotal, 0, len(totals))

	for key, points := range totals {
		out = append(out, GroupTotal{Season: key.season, Entity: key.entity, Points: points})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season == out[j].Season {
			return out[i].Entity < out[j].Entity
		}

		return out[i].Season < out[j].Season
	})

	return out
}

// Trend is the points an entity scored in each season it appears in, in season order.
type Trend struct {
	Entity string             `json:"entity"`
	Points []investment.Point `json:"points"`
}

// Metrics treats the Trend as an investment.
func (t Trend) Metrics() investment.Metrics {
	return investment.Compute(t.Points)
}

// Seasons in the Trend.
func (t Trend) Seasons() []int {
	seasons := make([]int, len(t.Points))

	for i, p := range t.Points {
		seasons[i] = p.Season
	}

	return seasons
}

// Regroup sums the Trend's points by season again. Seasons in a Trend are already
// unique, so this gives back an equal Trend.
func (t Trend) Regroup() Trend {
	totals := make(map[int]float64)
	var seasons []int

	for _, p := range t.Points {
		if _, ok := totals[p.Season]; !ok {
			seasons = append(seasons, p.Season)
		}

		totals[p.Season] += p.Points
	}

	sort.Ints(seasons)

	out := Trend{Entity: t.Entity, Points: make([]investment.Point, 0, len(seasons))}

	for _, season := range seasons {
		out.Points = append(out.Points, investment.Point{Season: season, Points: totals[season]})
	}

	return out
}

// TrendFor returns the Trend of a single entity.
func TrendFor(records []ResultRecord, kind EntityKind, entity string) Trend {
	return Trends(records, kind, entity)[entity]
}

// Trends returns the Trend of each entity given. Entities without any records get an
// empty Trend.
func Trends(records []ResultRecord, kind EntityKind, entities ...string) map[string]Trend {
	return trendsFromGroups(GroupPoints(records, kind), entities)
}

func trendsFromGroups(groups []GroupTotal, entities []string) map[string]Trend {
	out := make(map[string]Trend, len(entities))

	for _, entity := range entities {
		out[entity] = Trend{Entity: entity, Points: []investment.Point{}}
	}

	for _, group := range groups {
		trend, ok := out[group.Entity]

		if !ok {
			continue
		}

		trend.Points = append(trend.Points, investment.Point{Season: group.Season, Points: group.Points})
		out[group.Entity] = trend
	}

	return out
}

// EntityTotal is the points an entity scored across every season.
type EntityTotal struct {
	Entity string  `json:"entity"`
	Points float64 `json:"points"`
}

// Totals sums points by entity, highest first. Entities level on points are sorted by name.
func Totals(records []ResultRecord, kind EntityKind) []EntityTotal {
	totals := make(map[string]float64)

	for _, record := range records {
		totals[kind.Key(record)] += record.Points
	}

	out := make([]EntityTotal, 0, len(totals))

	for entity, points := range totals {
		out = append(out, EntityTotal{Entity: entity, Points: points})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Points == out[j].Points {
			return out[i].Entity < out[j].Entity
		}

		return out[i].Points > out[j].Points
	})

	return out
}

// TopTotals returns at most n of the highest Totals.
func TopTotals(records []ResultRecord, kind EntityKind, n int) []EntityTotal {
	totals := Totals(records, kind)

	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}

	return totals
}

// EntityCount is a count of distinct values for an entity.
type EntityCount struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// DriversByNationality counts unique driver IDs per nationality, most drivers first.
func DriversByNationality(records []ResultRecord) []EntityCount {
	drivers := make(map[string]map[string]bool)

	for _, record := range records {
		if _, ok := drivers[record.DriverNationality]; !ok {
			drivers[record.DriverNationality] = make(map[string]bool)
		}

		drivers[record.DriverNationality][record.DriverID] = true
	}

	out := make([]EntityCount, 0, len(drivers))

	for nationality, ids := range drivers {
		out = append(out, EntityCount{Entity: nationality, Count: len(ids)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Entity < out[j].Entity
		}

		return out[i].Count > out[j].Count
	})

	return out
}

// Entities lists the unique entity names in records, sorted.
func Entities(records []ResultRecord, kind EntityKind) []string {
	seen := make(map[string]bool)
	var out []string

	for _, record := range records {
		key := kind.Key(record)

		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, key)
	}

	sort.Strings(out)

	return out
}

// Series is one column of a SeriesTable. Values line up with the table's Seasons, a
// nil value is a season the entity has no points in.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// SeriesTable is grouped points pivoted to one row per season and one Series per
// entity, ready to be charted.
type SeriesTable struct {
	Seasons []int    `json:"seasons"`
	Series  []Series `json:"series"`
}

func (st SeriesTable) IsEmpty() bool {
	return len(st.Seasons) == 0 || len(st.Series) == 0
}

// Pivot builds a SeriesTable from groups. If entities are given, only those entities
// are included. Seasons are those in which any included entity scored; series are
// sorted by name.
func Pivot(groups []GroupTotal, entities ...string) SeriesTable {
	var include map[string]bool

	if len(entities) > 0 {
		include = stringSet(entities)
	}

	cells := make(map[groupKey]float64)
	seasonSet := make(map[int]bool)
	entitySet := make(map[string]bool)

	for _, group := range groups {
		if include != nil && !include[group.Entity] {
			continue
		}

		cells[groupKey{season: group.Season, entity: group.Entity}] += group.Points
		seasonSet[group.Season] = true
		entitySet[group.Entity] = true
	}

	var table SeriesTable

	for season := range seasonSet {
		table.Seasons = append(table.Seasons, season)
	}

	sort.Ints(table.Seasons)

	var names []string

	for entity := range entitySet {
		names = append(names, entity)
	}

	sort.Strings(names)

	for _, name := range names {
		series := Series{Name: name, Values: make([]*float64, len(table.Seasons))}

		for i, season := range table.Seasons {
			if points, ok := cells[groupKey{season: season, entity: name}]; ok {
				p := points
				series.Values[i] = &p
			}
		}

		table.Series = append(table.Series, series)
	}

	return table
}
