package gsc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Totals holds the aggregate metrics for one row set. Click and impression
// totals are exact integer sums; the averages are arithmetic means, with
// CTR expressed as a percentage.
type Totals struct {
	Clicks      int64
	Impressions int64
	AvgCTR      float64
	AvgPosition float64
}

// Aggregate computes totals and means over a row set. An empty row set
// yields zero totals; the mean divisions are guarded so callers that fail
// to short-circuit the no-results case don't fault.
func Aggregate(rows []Row) Totals {
	var t Totals
	if len(rows) == 0 {
		return t
	}
	var ctrSum, posSum float64
	for _, row := range rows {
		t.Clicks += row.Clicks
		t.Impressions += row.Impressions
		ctrSum += row.CTR
		posSum += row.Position
	}
	n := float64(len(rows))
	t.AvgCTR = ctrSum / n * 100
	t.AvgPosition = posSum / n
	return t
}

// FormatReport renders the narrative report for a row set: a contextual
// preamble, the echoed user request and API payload, a summary block, and
// a pipe-separated table with one line per row. The table shows only the
// first key column even when multiple dimensions were requested; that is
// deliberate and matched by downstream consumers.
//
// Pure function of its inputs; now is embedded in the output as the report
// generation timestamp.
func FormatReport(rows []Row, userQuery string, q *Query, now time.Time) string {
	totals := Aggregate(rows)

	summary := fmt.Sprintf(
		"Summary of metrics across selected period:\n"+
			"  - Total Impressions: %d\n"+
			"  - Total Clicks: %d\n"+
			"  - Average CTR: %.2f%%\n"+
			"  - Average Rank: %.2f\n",
		totals.Impressions, totals.Clicks, totals.AvgCTR, totals.AvgPosition,
	)

	header := "Date | Clicks | Impressions | CTR (%) | Average Position"
	divider := strings.Repeat("-", len(header))

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		key := ""
		if len(row.Keys) > 0 {
			key = row.Keys[0]
		}
		lines = append(lines, fmt.Sprintf("%s | %d | %d | %s%% | %s",
			key, row.Clicks, row.Impressions,
			trimFloat(row.CTR*100), trimFloat(row.Position)))
	}

	payload, err := json.Marshal(q)
	if err != nil {
		payload = []byte(fmt.Sprintf("%+v", q))
	}

	return fmt.Sprintf(`
### Search Console Data ###

This data set helps businesses understand how they are showing up on Google Search.

GSC data typically contains information about the following metrics:
- Search Impressions
- Search Clicks
- CTR (Click-Through Rate)
- Average Rank (Search Position)

and can be segmented across the following dimensions:
- Date
- Country
- Page
- Query
- Device

The following query has been requested by the user on %s for the date range %s to %s:
%s

The data presented below has been pulled to help answer the user's question using this API payload object:
%s

Please review this data in detail and finalize the user's request with an analysis of the facts presented below:

%s

%s
%s
%s
`,
		now.Format("2006-01-02 15:04:05"), q.StartDate, q.EndDate,
		userQuery,
		payload,
		summary,
		header,
		divider,
		strings.Join(lines, "\n"),
	)
}

// trimFloat renders a value rounded to 2 decimal places without trailing
// zeros, so 3.50 displays as "3.5" and 12.00 as "12".
func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
