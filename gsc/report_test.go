package gsc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []Row {
	return []Row{
		{Keys: []string{"2025-11-01"}, Clicks: 10, Impressions: 100, CTR: 0.05, Position: 3},
		{Keys: []string{"2025-11-02"}, Clicks: 20, Impressions: 200, CTR: 0.10, Position: 5},
		{Keys: []string{"2025-11-03"}, Clicks: 30, Impressions: 300, CTR: 0.15, Position: 7},
	}
}

func TestAggregate(t *testing.T) {
	totals := Aggregate(testRows())

	assert.Equal(t, int64(60), totals.Clicks)
	assert.Equal(t, int64(600), totals.Impressions)
	assert.InDelta(t, 10.0, totals.AvgCTR, 1e-9)
	assert.InDelta(t, 5.0, totals.AvgPosition, 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)

	assert.Zero(t, totals.Clicks)
	assert.Zero(t, totals.Impressions)
	assert.Zero(t, totals.AvgCTR)
	assert.Zero(t, totals.AvgPosition)
}

func TestFormatReport(t *testing.T) {
	q := &Query{
		StartDate:  "2025-11-01",
		EndDate:    "2025-11-03",
		Dimensions: []string{"date"},
		RowLimit:   25,
	}

	report := FormatReport(testRows(), "show me daily clicks", q, testNow)

	assert.Contains(t, report, "### Search Console Data ###")
	assert.Contains(t, report, "2025-11-03 12:00:00")
	assert.Contains(t, report, "for the date range 2025-11-01 to 2025-11-03")
	assert.Contains(t, report, "show me daily clicks")

	// Summary block
	assert.Contains(t, report, "Total Impressions: 600")
	assert.Contains(t, report, "Total Clicks: 60")
	assert.Contains(t, report, "Average CTR: 10.00%")
	assert.Contains(t, report, "Average Rank: 5.00")

	// The echoed API payload
	assert.Contains(t, report, `"startDate":"2025-11-01"`)
	assert.Contains(t, report, `"dimensions":["date"]`)

	// Table rows show the first key column with trimmed decimals.
	assert.Contains(t, report, "Date | Clicks | Impressions | CTR (%) | Average Position")
	assert.Contains(t, report, "2025-11-01 | 10 | 100 | 5% | 3")
	assert.Contains(t, report, "2025-11-02 | 20 | 200 | 10% | 5")
	assert.Contains(t, report, "2025-11-03 | 30 | 300 | 15% | 7")
}

func TestFormatReportFirstKeyOnly(t *testing.T) {
	rows := []Row{
		{Keys: []string{"ai tools", "USA"}, Clicks: 5, Impressions: 50, CTR: 0.1, Position: 2.4},
	}
	q := &Query{
		StartDate:  "2025-10-01",
		EndDate:    "2025-10-31",
		Dimensions: []string{"query", "country"},
	}

	report := FormatReport(rows, "queries by country", q, testNow)

	// Only the first dimension key appears in the table, even for
	// multi-dimension queries.
	assert.Contains(t, report, "ai tools | 5 | 50 | 10% | 2.4")
	assert.NotContains(t, report, "ai tools, USA")
	assert.NotContains(t, report, "| USA |")
}

func TestFormatReportDeterministic(t *testing.T) {
	q := &Query{StartDate: "2025-11-01", EndDate: "2025-11-03", Dimensions: []string{"date"}}

	first := FormatReport(testRows(), "daily clicks", q, testNow)
	second := FormatReport(testRows(), "daily clicks", q, testNow)
	require.Equal(t, first, second)

	// With a different timestamp only the generation time line changes.
	third := FormatReport(testRows(), "daily clicks", q, testNow.Add(time.Hour))
	assert.NotEqual(t, first, third)
	assert.Equal(t, 1, diffLines(first, third))
}

func diffLines(a, b string) int {
	al := strings.Split(a, "\n")
	bl := strings.Split(b, "\n")
	if len(al) != len(bl) {
		return -1
	}
	n := 0
	for i := range al {
		if al[i] != bl[i] {
			n++
		}
	}
	return n
}
