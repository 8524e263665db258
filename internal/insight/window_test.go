package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandymist/pfinance/internal/domain"
	"github.com/sandymist/pfinance/internal/logger"
)

func newTestExtractor(client CompletionClient) *WindowExtractor {
	e := NewWindowExtractor(client, logger.NewWithWriter(&strings.Builder{}))
	e.now = func() time.Time { return time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestExtract_WellFormed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain object", `{"start_date": "2025-01-01", "end_date": "2025-01-31"}`},
		{"fenced object", "```json\n{\"start_date\": \"2025-01-01\", \"end_date\": \"2025-01-31\"}\n```"},
		{"object with prose around it", "Here you go: {\"start_date\": \"2025-01-01\", \"end_date\": \"2025-01-31\"} hope that helps"},
		{"extra keys tolerated", `{"start_date": "2025-01-01", "end_date": "2025-01-31", "confidence": 0.9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(&fakeClient{reply: tt.reply})

			got, err := e.Extract(context.Background(), "spending last month")
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if got.Start != "2025-01-01" || got.End != "2025-01-31" {
				t.Errorf("window = %+v, want exact pair from response", got)
			}
		})
	}
}

func TestExtract_MalformedIsFormatError(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "sometime in January"},
		{"json array", `["2025-01-01", "2025-01-31"]`},
		{"json null", `null`},
		{"missing end_date", `{"start_date": "2025-01-01"}`},
		{"missing start_date", `{"end_date": "2025-01-31"}`},
		{"start_date not a string", `{"start_date": 20250101, "end_date": "2025-01-31"}`},
		{"bad date format", `{"start_date": "01/01/2025", "end_date": "2025-01-31"}`},
		{"empty dates", `{"start_date": "", "end_date": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(&fakeClient{reply: tt.reply})

			got, err := e.Extract(context.Background(), "spending last month")
			if got != nil {
				t.Fatalf("Extract returned partial result %+v, want failure", got)
			}
			var ferr *domain.FormatError
			if !errors.As(err, &ferr) {
				t.Errorf("error = %v, want FormatError", err)
			}
		})
	}
}

func TestExtract_EmptyQuery(t *testing.T) {
	e := newTestExtractor(&fakeClient{reply: `{"start_date": "2025-01-01", "end_date": "2025-01-31"}`})

	_, err := e.Extract(context.Background(), "  ")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Field != "query" {
		t.Errorf("Field = %q, want query", verr.Field)
	}
}

func TestExtract_UpstreamError(t *testing.T) {
	e := newTestExtractor(&fakeClient{err: errors.New("timeout")})

	_, err := e.Extract(context.Background(), "spending last month")
	var uerr *domain.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
}

func TestExtract_RequestShape(t *testing.T) {
	client := &fakeClient{reply: `{"start_date": "2025-05-22", "end_date": "2025-06-21"}`}
	e := newTestExtractor(client)

	if _, err := e.Extract(context.Background(), "how much did I spend?"); err != nil {
		t.Fatal(err)
	}

	req := client.last
	if req.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", req.Temperature)
	}
	if !req.JSONResponse {
		t.Error("expected JSON-mode request")
	}
	if !strings.Contains(req.System, "2025-06-21") {
		t.Errorf("system prompt missing current date: %q", req.System)
	}
	if !strings.Contains(req.System, "last 30 days") {
		t.Errorf("system prompt missing vague-query default: %q", req.System)
	}
}

func TestTimeWindowBounds(t *testing.T) {
	w := TimeWindow{Start: "2025-01-01", End: "2025-01-31"}
	start, end, err := w.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("end = %v, want end-of-day", end)
	}

	if _, _, err := (TimeWindow{Start: "bad", End: "2025-01-31"}).Bounds(); err == nil {
		t.Error("expected error for malformed start date")
	}
}
