package insight

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sandymist/pfinance/internal/domain"
)

const (
	classifierTemperature = 0.3
	classifierMaxTokens   = 50

	// mistakeLengthLimit flags responses too long to be a bare category name.
	mistakeLengthLimit = 50
)

// mistakeTokens mark responses that look like refusals or errors rather than
// category names. Best-effort heuristic; a hit is logged, never acted on
// beyond the coercion that set membership already applied.
var mistakeTokens = []string{"sorry", "cannot", "unable", "error", "unclear"}

// Suggestion is the classifier's answer for one merchant.
type Suggestion struct {
	Merchant          string          `json:"merchant"`
	SuggestedCategory domain.Category `json:"suggested_category"`
}

// Classifier assigns one category from the closed set to a merchant string.
type Classifier struct {
	client CompletionClient
	log    zerolog.Logger
}

// NewClassifier creates a classifier over the given completion client.
func NewClassifier(client CompletionClient, log zerolog.Logger) *Classifier {
	return &Classifier{client: client, log: log}
}

// Classify sends the merchant to the completion service and normalizes the
// answer to a member of the category set. Out-of-set answers coerce to Other.
// Past input validation it never fails with anything more specific than a
// generic categorization failure.
func (c *Classifier) Classify(ctx context.Context, merchant string) (*Suggestion, error) {
	if strings.TrimSpace(merchant) == "" {
		return nil, &domain.ValidationError{Field: "merchant", Msg: "merchant is required"}
	}

	raw, err := c.client.Complete(ctx, CompletionRequest{
		System:          classifierSystemPrompt(),
		User:            classifierUserPrompt(merchant),
		Temperature:     classifierTemperature,
		MaxOutputTokens: classifierMaxTokens,
	})
	if err != nil {
		return nil, &domain.UpstreamError{Op: "classify merchant", Err: err}
	}

	reply := strings.TrimSpace(raw)

	category, inSet := domain.ParseCategory(reply)
	if !inSet {
		c.log.Warn().
			Str("merchant", merchant).
			Str("reply", truncate(reply, 120)).
			Msg("Classifier reply not in category set, coerced to Other")
	}

	if suspect := suspectReply(reply); suspect != "" {
		c.log.Warn().
			Str("merchant", merchant).
			Str("heuristic", suspect).
			Msg("Classifier reply flagged as mistake")
	}

	return &Suggestion{Merchant: merchant, SuggestedCategory: category}, nil
}

// suspectReply applies the mistake heuristics, returning the name of the one
// that fired or "" when the reply looks clean.
func suspectReply(reply string) string {
	if len(reply) > mistakeLengthLimit {
		return "length"
	}
	lower := strings.ToLower(reply)
	for _, tok := range mistakeTokens {
		if strings.Contains(lower, tok) {
			return "keyword:" + tok
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
