package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/JustaPenguin/race-results-dashboard"
)

var (
	csvPath string

	seasons, drivers, constructors string
	topN                           int

	compareKind   string
	first, second string
)

func init() {
	flag.StringVar(&csvPath, "csv", "results.csv", "results csv to report on")
	flag.StringVar(&seasons, "season", "", "comma separated seasons to include")
	flag.StringVar(&drivers, "driver", "", "comma separated drivers to include")
	flag.StringVar(&constructors, "constructor", "", "comma separated constructors to include")
	flag.IntVar(&topN, "top", dashboard.DefaultSummaryOptions.TopN, "number of drivers and constructors to list")
	flag.StringVar(&compareKind, "compare", "", "compare two drivers or two constructors (driver|constructor)")
	flag.StringVar(&first, "a", "", "first driver or constructor to compare")
	flag.StringVar(&second, "b", "", "second driver or constructor to compare")
	flag.Parse()
}

func main() {
	records, report, err := dashboard.LoadResults(csvPath)
	checkError(err)

	if len(report.Discarded) > 0 {
		color.Yellow("%d of %d rows could not be read and were skipped\n\n", len(report.Discarded), report.RowsRead)
	}

	if len(report.Warnings) > 0 {
		color.Yellow("%d rows had unreadable points and were counted as 0 points\n\n", len(report.Warnings))
	}

	filter := dashboard.ParseFilter(url.Values{
		"season":      splitList(seasons),
		"driver":      splitList(drivers),
		"constructor": splitList(constructors),
	})

	if compareKind != "" {
		kind, err := dashboard.ParseEntityKind(compareKind)
		checkError(err)

		if kind == dashboard.EntityNationality || first == "" || second == "" {
			logrus.Fatal("-compare needs to be driver or constructor, with two names given by -a and -b")
		}

		printComparison(dashboard.Compare(filter.Apply(records), kind, first, second))
		return
	}

	printSummary(dashboard.BuildSummary(records, filter, dashboard.SummaryOptions{TopN: topN}))
}

func printSummary(summary *dashboard.Summary) {
	if summary.NumRecords == 0 {
		color.Yellow("No results match the selected filters.")
		return
	}

	bold := color.New(color.Bold)

	_, _ = bold.Println("Key metrics")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Append([]string{"Total races", humanize.Comma(int64(summary.KeyMetrics.TotalRaces))})
	table.Append([]string{"Unique drivers", humanize.Comma(int64(summary.KeyMetrics.UniqueDrivers))})
	table.Append([]string{"Unique constructors", humanize.Comma(int64(summary.KeyMetrics.UniqueConstructors))})
	table.Append([]string{"Total points", humanize.Comma(summary.KeyMetrics.TotalPoints)})
	table.Render()

	fmt.Println()
	_, _ = bold.Println("Top drivers")
	printTotals("Driver", summary.TopDrivers)

	fmt.Println()
	_, _ = bold.Println("Top constructors")
	printTotals("Constructor", summary.TopConstructors)

	fmt.Println()
	_, _ = bold.Println("Drivers by nationality")

	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Nationality", "Drivers"})

	for _, count := range summary.DriversByNationality {
		table.Append([]string{count.Entity, humanize.Comma(int64(count.Count))})
	}

	table.Render()
}

func printTotals(title string, totals []dashboard.EntityTotal) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", title, "Points"})

	for i, total := range totals {
		table.Append([]string{fmt.Sprint(i + 1), total.Entity, humanize.Commaf(total.Points)})
	}

	table.Render()
}

func printComparison(c *dashboard.Comparison) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{c.Kind.Title(), "CAGR", "Volatility", "Risk-Adjusted Return", "Seasons"})

	for _, entrant := range []dashboard.ComparisonEntrant{c.First, c.Second} {
		name := entrant.Name

		if name == c.Winner {
			name = color.GreenString(name)
		}

		table.Append([]string{
			name,
			fmt.Sprintf("%.2f%%", entrant.Metrics.CAGR),
			fmt.Sprintf("%.2f%%", entrant.Metrics.Volatility),
			fmt.Sprintf("%.2f", entrant.Metrics.RiskAdjusted),
			fmt.Sprint(len(entrant.Trend.Points)),
		})
	}

	table.Render()
	fmt.Println()

	recommendation := wordwrap.WrapString(c.Recommendation(), 80)

	if c.HasWinner() {
		color.Green(recommendation)
	} else {
		color.Yellow(recommendation)
	}
}

func splitList(s string) []string {
	var out []string

	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

func checkError(err error) {
	if err != nil {
		logrus.Fatal(err)
	}
}
