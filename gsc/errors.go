package gsc

import (
	"errors"
	"fmt"
)

// ErrNoResults reports a query that matched zero rows. It is a valid (if
// unhelpful) outcome rather than a failure; the pipeline maps it to the
// "no_results" status instead of an error-shaped tool result.
var ErrNoResults = errors.New("no rows matched the query")

// InputError reports a missing or invalid tool argument.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// TranslationError reports model output that could not be parsed as a
// search analytics query.
type TranslationError struct {
	Output string // raw model output, kept for diagnostics
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translating query: %v", e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a transport failure or non-success response from
// one of the upstream APIs.
type UpstreamError struct {
	API        string // "gemini" or "search console"
	StatusCode int    // zero when the request never completed
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error (status %d): %v", e.API, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s API request failed: %v", e.API, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
