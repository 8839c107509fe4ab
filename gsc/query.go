package gsc

import (
	"fmt"
	"strings"
	"time"
)

// Dimensions recognized by the searchanalytics.query endpoint.
const (
	DimensionQuery            = "query"
	DimensionPage             = "page"
	DimensionDate             = "date"
	DimensionCountry          = "country"
	DimensionDevice           = "device"
	DimensionSearchAppearance = "searchAppearance"
)

// Defaults applied during normalization when the model omits a field.
const (
	DefaultRowLimit        = 25
	DefaultSearchType      = "web"
	DefaultAggregationType = "auto"
	DefaultDateWindowDays  = 28
)

// DateFormat is the calendar date layout used throughout the Search
// Console API.
const DateFormat = "2006-01-02"

var validDimensions = map[string]bool{
	DimensionQuery:            true,
	DimensionPage:             true,
	DimensionDate:             true,
	DimensionCountry:          true,
	DimensionDevice:           true,
	DimensionSearchAppearance: true,
}

// Query is the request body for the searchanalytics.query endpoint. Field
// names and JSON tags follow the API wire format, which is also the shape
// the model is instructed to emit.
type Query struct {
	StartDate             string        `json:"startDate"`
	EndDate               string        `json:"endDate"`
	Dimensions            []string      `json:"dimensions,omitempty"`
	SearchType            string        `json:"type,omitempty"`
	DimensionFilterGroups []FilterGroup `json:"dimensionFilterGroups,omitempty"`
	AggregationType       string        `json:"aggregationType,omitempty"`
	RowLimit              int64         `json:"rowLimit,omitempty"`
	StartRow              int64         `json:"startRow"`
}

// FilterGroup is a set of filters combined with a group type.
type FilterGroup struct {
	GroupType string   `json:"groupType,omitempty"`
	Filters   []Filter `json:"filters"`
}

// Filter narrows results along one dimension without grouping by it.
type Filter struct {
	Dimension  string `json:"dimension"`
	Operator   string `json:"operator,omitempty"`
	Expression string `json:"expression"`
}

// Normalize fills in defaults and enforces the postconditions the model is
// instructed to honor but cannot be trusted to: the date-trend row limit
// and page-filter URL rewriting. It is applied to every synthesized query,
// including ones the model already got right.
//
// propertyURL is the absolute URL of the property being analyzed, without
// a trailing slash (e.g. "https://www.example.ai").
func (q *Query) Normalize(now time.Time, propertyURL string) error {
	if q.StartDate == "" || q.EndDate == "" {
		q.EndDate = now.Format(DateFormat)
		q.StartDate = now.AddDate(0, 0, -DefaultDateWindowDays).Format(DateFormat)
	}

	start, err := time.Parse(DateFormat, q.StartDate)
	if err != nil {
		return fmt.Errorf("invalid startDate %q: %w", q.StartDate, err)
	}
	end, err := time.Parse(DateFormat, q.EndDate)
	if err != nil {
		return fmt.Errorf("invalid endDate %q: %w", q.EndDate, err)
	}
	if start.After(end) {
		return fmt.Errorf("startDate %s is after endDate %s", q.StartDate, q.EndDate)
	}

	if len(q.Dimensions) == 0 {
		q.Dimensions = []string{DimensionQuery}
	}
	for _, d := range q.Dimensions {
		if !validDimensions[d] {
			return fmt.Errorf("unknown dimension %q", d)
		}
	}

	if q.SearchType == "" {
		q.SearchType = DefaultSearchType
	}
	if q.AggregationType == "" {
		q.AggregationType = DefaultAggregationType
	}
	if q.RowLimit <= 0 {
		q.RowLimit = DefaultRowLimit
	}
	if q.StartRow < 0 {
		return fmt.Errorf("negative startRow %d", q.StartRow)
	}

	// Date trends need one row per calendar day or the trailing days are
	// silently truncated.
	if q.HasDimension(DimensionDate) {
		if days := inclusiveDays(start, end); q.RowLimit < days {
			q.RowLimit = days
		}
	}

	for gi := range q.DimensionFilterGroups {
		group := &q.DimensionFilterGroups[gi]
		for fi := range group.Filters {
			f := &group.Filters[fi]
			if f.Operator == "" {
				f.Operator = "equals"
			}
			if f.Dimension == DimensionPage && f.Operator == "equals" {
				f.Expression = absolutePageURL(f.Expression, propertyURL)
			}
		}
	}

	return nil
}

// HasDimension reports whether dim is one of the grouping dimensions.
func (q *Query) HasDimension(dim string) bool {
	for _, d := range q.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// inclusiveDays counts the calendar days spanned by [start, end], counting
// both endpoints. A 90-day lookback covers 91 data points.
func inclusiveDays(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours()/24) + 1
}

// absolutePageURL rewrites a bare path into a full URL under the property
// domain. Expressions that already carry a scheme pass through verbatim.
func absolutePageURL(expr, propertyURL string) string {
	if strings.HasPrefix(expr, "http://") || strings.HasPrefix(expr, "https://") {
		return expr
	}
	return strings.TrimRight(propertyURL, "/") + "/" + strings.TrimLeft(expr, "/")
}
