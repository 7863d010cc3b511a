package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ResultsColumns are the columns a results CSV must contain. Extra columns are ignored.
var ResultsColumns = []string{
	"season",
	"race_name",
	"driver_id",
	"driver_given_name",
	"driver_family_name",
	"driver_nationality",
	"constructor_id",
	"constructor_name",
	"points",
}

// ResultRecord is a single driver's result in a single race.
type ResultRecord struct {
	Season            int     `json:"season"`
	RaceName          string  `json:"race_name"`
	DriverID          string  `json:"driver_id"`
	DriverGivenName   string  `json:"driver_given_name"`
	DriverFamilyName  string  `json:"driver_family_name"`
	DriverNationality string  `json:"driver_nationality"`
	ConstructorID     string  `json:"constructor_id"`
	ConstructorName   string  `json:"constructor_name"`
	Points            float64 `json:"points"`
}

// DriverName is the name drivers are grouped and selected by. Two drivers sharing a
// full name are treated as one.
func (r ResultRecord) DriverName() string {
	return r.DriverGivenName + " " + r.DriverFamilyName
}

func (r ResultRecord) csvRow() []string {
	return []string{
		strconv.Itoa(r.Season),
		r.RaceName,
		r.DriverID,
		r.DriverGivenName,
		r.DriverFamilyName,
		r.DriverNationality,
		r.ConstructorID,
		r.ConstructorName,
		strconv.FormatFloat(r.Points, 'f', -1, 64),
	}
}

// LoadError is returned when a results file cannot be opened or read. It is fatal to
// whoever asked for the load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dashboard: could not load results from %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// RowError describes a value that could not be read while loading. Depending on the
// column the row is either dropped or kept with a default.
type RowError struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %s", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// LoadReport summarises a load. Dropped rows are not errors, they are only reported.
// Warnings are rows that were kept with a defaulted value.
type LoadReport struct {
	RowsRead  int         `json:"rows_read"`
	RowsKept  int         `json:"rows_kept"`
	Discarded []*RowError `json:"discarded"`
	Warnings  []*RowError `json:"warnings"`
}

func (lr *LoadReport) discard(rowErr *RowError) {
	rowErr.setReason()
	lr.Discarded = append(lr.Discarded, rowErr)
}

func (lr *LoadReport) warn(rowErr *RowError) {
	rowErr.setReason()
	lr.Warnings = append(lr.Warnings, rowErr)
}

func (e *RowError) setReason() {
	if e.Err != nil {
		e.Reason = e.Err.Error()
	}
}

// LoadResults opens the CSV at path and reads every ResultRecord from it.
func LoadResults(path string) ([]ResultRecord, *LoadReport, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}

	defer f.Close()

	records, report, err := ReadResults(f)

	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}

	if len(report.Discarded) > 0 {
		logrus.WithField("path", path).Warnf("Discarded %d of %d result rows", len(report.Discarded), report.RowsRead)

		for _, rowErr := range report.Discarded {
			logrus.WithField("path", path).Debug(rowErr.Error())
		}
	}

	if len(report.Warnings) > 0 {
		logrus.WithField("path", path).Warnf("Read %d result rows with unreadable points as 0 points", len(report.Warnings))

		for _, rowErr := range report.Warnings {
			logrus.WithField("path", path).Debug(rowErr.Error())
		}
	}

	return records, report, nil
}

// ReadResults reads ResultRecords from CSV data with a header row. Rows with a season
// that can't be parsed are dropped and listed in the LoadReport. Points that can't be
// parsed count as 0 and the row is listed as a warning.
func ReadResults(r io.Reader) ([]ResultRecord, *LoadReport, error) {
	reader := csv.NewReader(utfbom.SkipOnly(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()

	if err == io.EOF {
		return nil, nil, errors.New("results file is empty")
	} else if err != nil {
		return nil, nil, errors.Wrap(err, "could not read header")
	}

	columns := make(map[string]int)

	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, name := range ResultsColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, errors.Errorf("missing column %q", name)
		}
	}

	report := &LoadReport{}
	var records []ResultRecord

	for {
		row, err := reader.Read()

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, errors.Wrap(err, "could not read row")
		}

		report.RowsRead++
		line, _ := reader.FieldPos(0)

		get := func(name string) string {
			i := columns[name]

			if i >= len(row) {
				return ""
			}

			return row[i]
		}

		season, err := parseSeason(get("season"))

		if err != nil {
			report.discard(&RowError{Line: line, Column: "season", Value: get("season"), Err: err})
			continue
		}

		points, err := parsePoints(get("points"))

		if err != nil {
			report.warn(&RowError{Line: line, Column: "points", Value: get("points"), Err: err})
			points = 0
		}

		records = append(records, ResultRecord{
			Season:            season,
			RaceName:          get("race_name"),
			DriverID:          get("driver_id"),
			DriverGivenName:   get("driver_given_name"),
			DriverFamilyName:  get("driver_family_name"),
			DriverNationality: get("driver_nationality"),
			ConstructorID:     get("constructor_id"),
			ConstructorName:   get("constructor_name"),
			Points:            points,
		})
	}

	report.RowsKept = len(records)

	return records, report, nil
}

// WriteResults writes records as CSV in the ResultsColumns layout.
func WriteResults(w io.Writer, records []ResultRecord) error {
	wr := csv.NewWriter(w)

	if err := wr.Write(ResultsColumns); err != nil {
		return err
	}

	for _, record := range records {
		if err := wr.Write(record.csvRow()); err != nil {
			return err
		}
	}

	wr.Flush()

	return wr.Error()
}

var (
	errNotFinite  = errors.New("value is not finite")
	errOutOfRange = errors.New("value is out of range")
)

// parseSeason accepts integers and integral-looking numbers such as "2019.0". Other
// finite numbers are truncated, as long as they fit in an int.
func parseSeason(s string) (int, error) {
	s = strings.TrimSpace(s)

	if season, err := strconv.Atoi(s); err == nil {
		return season, nil
	}

	f, err := strconv.ParseFloat(s, 64)

	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}

	if f < float64(math.MinInt) || f >= float64(math.MaxInt) {
		return 0, errOutOfRange
	}

	return int(f), nil
}

func parsePoints(s string) (float64, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, nil
	}

	points, err := strconv.ParseFloat(s, 64)

	if err != nil {
		return 0, err
	}

	if math.IsNaN(points) || math.IsInf(points, 0) {
		return 0, errNotFinite
	}

	return points, nil
}
