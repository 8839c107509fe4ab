package gsc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

const testProperty = "https://www.example.ai"

func TestNormalizeDefaults(t *testing.T) {
	q := &Query{}
	require.NoError(t, q.Normalize(testNow, testProperty))

	assert.Equal(t, "2025-10-06", q.StartDate)
	assert.Equal(t, "2025-11-03", q.EndDate)
	assert.Equal(t, []string{"query"}, q.Dimensions)
	assert.Equal(t, "web", q.SearchType)
	assert.Equal(t, "auto", q.AggregationType)
	assert.Equal(t, int64(25), q.RowLimit)
	assert.Equal(t, int64(0), q.StartRow)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	q := &Query{
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-30",
		Dimensions:      []string{"page", "country"},
		SearchType:      "image",
		AggregationType: "byPage",
		RowLimit:        100,
		StartRow:        50,
	}
	require.NoError(t, q.Normalize(testNow, testProperty))

	assert.Equal(t, "2025-09-01", q.StartDate)
	assert.Equal(t, "2025-09-30", q.EndDate)
	assert.Equal(t, []string{"page", "country"}, q.Dimensions)
	assert.Equal(t, "image", q.SearchType)
	assert.Equal(t, "byPage", q.AggregationType)
	assert.Equal(t, int64(100), q.RowLimit)
	assert.Equal(t, int64(50), q.StartRow)
}

func TestNormalizeTrendRule(t *testing.T) {
	tests := []struct {
		name         string
		query        Query
		wantRowLimit int64
	}{
		{
			name: "90 day trend covers 91 data points",
			query: Query{
				StartDate:  "2025-08-05",
				EndDate:    "2025-11-03",
				Dimensions: []string{"date"},
				RowLimit:   25,
			},
			wantRowLimit: 91,
		},
		{
			name: "higher explicit limit is kept",
			query: Query{
				StartDate:  "2025-08-05",
				EndDate:    "2025-11-03",
				Dimensions: []string{"date"},
				RowLimit:   200,
			},
			wantRowLimit: 200,
		},
		{
			name: "single day trend",
			query: Query{
				StartDate:  "2025-11-03",
				EndDate:    "2025-11-03",
				Dimensions: []string{"date"},
			},
			wantRowLimit: 25,
		},
		{
			name: "no date dimension leaves limit alone",
			query: Query{
				StartDate:  "2025-08-05",
				EndDate:    "2025-11-03",
				Dimensions: []string{"query"},
			},
			wantRowLimit: 25,
		},
		{
			name: "date among several dimensions",
			query: Query{
				StartDate:  "2025-10-01",
				EndDate:    "2025-10-31",
				Dimensions: []string{"date", "device"},
			},
			wantRowLimit: 31,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			require.NoError(t, q.Normalize(testNow, testProperty))
			assert.Equal(t, tt.wantRowLimit, q.RowLimit)
		})
	}
}

func TestNormalizePageFilters(t *testing.T) {
	q := &Query{
		StartDate:  "2025-10-01",
		EndDate:    "2025-10-31",
		Dimensions: []string{"query"},
		DimensionFilterGroups: []FilterGroup{
			{
				GroupType: "and",
				Filters: []Filter{
					{Dimension: "page", Expression: "/dashboards"},
					{Dimension: "page", Expression: "blog/my-post"},
					{Dimension: "page", Operator: "equals", Expression: "https://other.example.com/page"},
					{Dimension: "page", Operator: "contains", Expression: "/products"},
					{Dimension: "query", Expression: "ai assistant"},
				},
			},
		},
	}
	require.NoError(t, q.Normalize(testNow, testProperty))

	filters := q.DimensionFilterGroups[0].Filters

	// Bare paths with an equality condition become absolute URLs under
	// the property domain; the missing operator defaults to equals.
	assert.Equal(t, "equals", filters[0].Operator)
	assert.Equal(t, "https://www.example.ai/dashboards", filters[0].Expression)
	assert.Equal(t, "https://www.example.ai/blog/my-post", filters[1].Expression)

	// Full URLs pass through verbatim.
	assert.Equal(t, "https://other.example.com/page", filters[2].Expression)

	// Non-equality page filters are left alone.
	assert.Equal(t, "/products", filters[3].Expression)

	// Non-page filters only get the operator default.
	assert.Equal(t, "equals", filters[4].Operator)
	assert.Equal(t, "ai assistant", filters[4].Expression)
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{"bad start date", Query{StartDate: "last month", EndDate: "2025-11-03"}},
		{"bad end date", Query{StartDate: "2025-11-01", EndDate: "tomorrow"}},
		{"start after end", Query{StartDate: "2025-11-03", EndDate: "2025-11-01"}},
		{"unknown dimension", Query{StartDate: "2025-11-01", EndDate: "2025-11-03", Dimensions: []string{"keyword"}}},
		{"negative start row", Query{StartDate: "2025-11-01", EndDate: "2025-11-03", StartRow: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			assert.Error(t, q.Normalize(testNow, testProperty))
		})
	}
}

func TestHasDimension(t *testing.T) {
	q := &Query{Dimensions: []string{"date", "query"}}
	assert.True(t, q.HasDimension("date"))
	assert.False(t, q.HasDimension("country"))
}
