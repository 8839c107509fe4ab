package gsc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// ToolName is the single tool this server exposes.
const ToolName = "search_console_query"

// ToolDescription is the natural-language description shown in tools/list.
const ToolDescription = "a tool that helps translate natural language user requests into Google Search Console API requests"

// Invocation statuses.
const (
	StatusSuccess   = "success"
	StatusNoResults = "no_results"
)

// QuerySynthesizer turns natural language into a search analytics query.
type QuerySynthesizer interface {
	Synthesize(ctx context.Context, naturalQuery string) (*Query, error)
}

// QueryExecutor runs a search analytics query against the property.
type QueryExecutor interface {
	Query(ctx context.Context, q *Query) (*QueryResponse, error)
}

// Result is the outcome of one tool invocation. Field names follow the
// envelope the calling agent sees.
type Result struct {
	Status    string `json:"status"`
	Report    string `json:"api_response,omitempty"`
	APIQuery  *Query `json:"api_query,omitempty"`
	UserQuery string `json:"user_query"`
}

// Tool is the query-translation pipeline: natural language in, formatted
// report out. Each Run is independent; Tool holds no per-request state.
type Tool struct {
	synthesizer QuerySynthesizer
	executor    QueryExecutor
	logger      *slog.Logger
	now         func() time.Time
}

// ToolOption configures a Tool.
type ToolOption func(*Tool)

// WithToolLogger sets the logger.
func WithToolLogger(logger *slog.Logger) ToolOption {
	return func(t *Tool) { t.logger = logger }
}

// WithToolClock overrides the time source used for report timestamps.
func WithToolClock(now func() time.Time) ToolOption {
	return func(t *Tool) { t.now = now }
}

// NewTool wires a synthesizer and an executor into a pipeline.
func NewTool(s QuerySynthesizer, e QueryExecutor, opts ...ToolOption) *Tool {
	t := &Tool{
		synthesizer: s,
		executor:    e,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes the full pipeline for one natural-language request. Errors
// carry the taxonomy types from errors.go; a zero-row result is not an
// error but a Result with StatusNoResults and no report table.
func (t *Tool) Run(ctx context.Context, userQuery string) (Result, error) {
	if strings.TrimSpace(userQuery) == "" {
		return Result{}, &InputError{Reason: "query is required"}
	}

	q, err := t.synthesizer.Synthesize(ctx, userQuery)
	if err != nil {
		return Result{}, err
	}

	t.logger.Info("running search analytics query",
		slog.String("range", q.StartDate+".."+q.EndDate),
		slog.Any("dimensions", q.Dimensions),
	)

	resp, err := t.executor.Query(ctx, q)
	if errors.Is(err, ErrNoResults) {
		t.logger.Info("query matched no rows")
		return Result{
			Status:    StatusNoResults,
			Report:    "No results found for the requested date range and filters.",
			APIQuery:  q,
			UserQuery: userQuery,
		}, nil
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Status:    StatusSuccess,
		Report:    FormatReport(resp.Rows, userQuery, q, t.now()),
		APIQuery:  q,
		UserQuery: userQuery,
	}, nil
}
