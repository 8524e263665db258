package insight

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandymist/pfinance/internal/domain"
)

// TimeWindow is an inclusive calendar-date range extracted from a free-text
// query. Both bounds are strict YYYY-MM-DD strings.
type TimeWindow struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// Bounds returns the window as timestamps, the end extended to end-of-day.
func (w TimeWindow) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse(domain.ISODate, w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.FormatError{Reason: "start_date is not YYYY-MM-DD"}
	}
	end, err := time.Parse(domain.ISODate, w.End)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.FormatError{Reason: "end_date is not YYYY-MM-DD"}
	}
	return domain.StartOfDay(start), domain.EndOfDay(end), nil
}

// WindowExtractor turns a free-text query into a TimeWindow via the
// completion service. Malformed service output is reported as a FormatError,
// never silently defaulted.
type WindowExtractor struct {
	client CompletionClient
	log    zerolog.Logger
	now    func() time.Time
}

// NewWindowExtractor creates an extractor over the given completion client.
func NewWindowExtractor(client CompletionClient, log zerolog.Logger) *WindowExtractor {
	return &WindowExtractor{client: client, log: log, now: time.Now}
}

// Extract asks the completion service for the query's date range. The service
// is instructed to default vague queries to the last 30 days; this side only
// validates, it never guesses.
func (e *WindowExtractor) Extract(ctx context.Context, query string) (*TimeWindow, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Field: "query", Msg: "query is required"}
	}

	raw, err := e.client.Complete(ctx, CompletionRequest{
		System:       windowSystemPrompt(e.now()),
		User:         windowUserPrompt(query),
		Temperature:  0,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "extract time window", Err: err}
	}

	window, err := parseWindow(cleanModelJSON(raw))
	if err != nil {
		e.log.Warn().Str("query", query).Str("reply", truncate(raw, 200)).Err(err).
			Msg("Time-window extraction returned malformed output")
		return nil, err
	}
	return window, nil
}

// parseWindow validates the structural contract: a JSON object carrying both
// keys as valid YYYY-MM-DD strings.
func parseWindow(clean string) (*TimeWindow, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return nil, &domain.FormatError{Reason: "response is not a JSON object"}
	}
	if fields == nil {
		return nil, &domain.FormatError{Reason: "response is not a JSON object"}
	}

	var window TimeWindow
	for key, dst := range map[string]*string{
		"start_date": &window.Start,
		"end_date":   &window.End,
	} {
		raw, ok := fields[key]
		if !ok {
			return nil, &domain.FormatError{Reason: "missing key " + key}
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, &domain.FormatError{Reason: key + " is not a string"}
		}
		if _, err := time.Parse(domain.ISODate, *dst); err != nil {
			return nil, &domain.FormatError{Reason: key + " is not YYYY-MM-DD"}
		}
	}
	return &window, nil
}
