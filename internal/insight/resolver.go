package insight

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sandymist/pfinance/internal/domain"
)

// Resolver answers a free-text query over a bounded set of matching records
// by delegating the analysis to the completion service.
type Resolver struct {
	client CompletionClient
	log    zerolog.Logger
}

// NewResolver creates a resolver over the given completion client.
func NewResolver(client CompletionClient, log zerolog.Logger) *Resolver {
	return &Resolver{client: client, log: log}
}

// Resolve sends the query and the serialized records to the completion
// service and returns its JSON answer verbatim. Malformed output is replaced
// by a fallback document; this step only fails hard on transport errors.
func (r *Resolver) Resolve(ctx context.Context, query string, records []*domain.Transaction) (json.RawMessage, error) {
	recordsJSON, err := json.Marshal(domain.WireAll(records))
	if err != nil {
		return nil, &domain.UpstreamError{Op: "serialize records", Err: err}
	}

	raw, err := r.client.Complete(ctx, CompletionRequest{
		System:       insightsSystemPrompt(),
		User:         insightsUserPrompt(query, string(recordsJSON)),
		Temperature:  0,
		JSONResponse: true,
	})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "resolve insights", Err: err}
	}

	clean := cleanModelJSON(raw)
	if isJSONObject(clean) {
		return json.RawMessage(clean), nil
	}

	r.log.Warn().Str("query", query).Str("reply", truncate(raw, 200)).
		Msg("Insights response was not a JSON object, returning fallback")
	return fallbackInsight(query, len(records)), nil
}

// fallbackInsight is the safe substitute for malformed model output.
func fallbackInsight(query string, count int) json.RawMessage {
	fb, _ := json.Marshal(map[string]interface{}{
		"error":             "the insights service returned an unreadable answer",
		"query":             query,
		"transaction_count": count,
	})
	return fb
}

func isJSONObject(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var m map[string]json.RawMessage
	return json.Unmarshal([]byte(trimmed), &m) == nil
}
