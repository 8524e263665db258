package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandymist/pfinance/internal/domain"
	"github.com/sandymist/pfinance/internal/logger"
)

// fakeClient replays a canned reply or error and records the last request.
type fakeClient struct {
	reply string
	err   error
	last  *CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.last = &req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  domain.Category
	}{
		{"in-set label", "Meals", domain.CategoryMeals},
		{"label with whitespace", "  Travel\n", domain.CategoryTravel},
		{"out-of-set label", "Groceries", domain.CategoryOther},
		{"lowercase label", "meals", domain.CategoryOther},
		{"refusal text", "I'm sorry, I cannot categorize this merchant.", domain.CategoryOther},
		{"long rambling answer", strings.Repeat("Office supplies and equipment ", 4), domain.CategoryOther},
		{"other", "Other", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{reply: tt.reply}
			c := NewClassifier(client, logger.NewWithWriter(&strings.Builder{}))

			got, err := c.Classify(context.Background(), "Acme Corp")
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if got.SuggestedCategory != tt.want {
				t.Errorf("category = %q, want %q", got.SuggestedCategory, tt.want)
			}
			if got.Merchant != "Acme Corp" {
				t.Errorf("merchant = %q, want original string", got.Merchant)
			}

			// Whatever the service said, the result is a set member.
			if _, ok := domain.ParseCategory(string(got.SuggestedCategory)); !ok {
				t.Errorf("category %q is not in the closed set", got.SuggestedCategory)
			}
		})
	}
}

func TestClassify_EmptyMerchant(t *testing.T) {
	c := NewClassifier(&fakeClient{reply: "Meals"}, logger.NewWithWriter(&strings.Builder{}))

	for _, merchant := range []string{"", "   "} {
		_, err := c.Classify(context.Background(), merchant)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Classify(%q) error = %v, want ValidationError", merchant, err)
		}
		if verr.Field != "merchant" {
			t.Errorf("Field = %q, want merchant", verr.Field)
		}
	}
}

func TestClassify_UpstreamFailureIsGeneric(t *testing.T) {
	client := &fakeClient{err: errors.New("connection reset")}
	c := NewClassifier(client, logger.NewWithWriter(&strings.Builder{}))

	_, err := c.Classify(context.Background(), "Acme")
	var uerr *domain.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
}

func TestClassify_RequestShape(t *testing.T) {
	client := &fakeClient{reply: "Office"}
	c := NewClassifier(client, logger.NewWithWriter(&strings.Builder{}))

	if _, err := c.Classify(context.Background(), "Staples"); err != nil {
		t.Fatal(err)
	}

	req := client.last
	if req.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", req.Temperature)
	}
	if req.MaxOutputTokens != 50 {
		t.Errorf("max tokens = %d, want 50", req.MaxOutputTokens)
	}
	if !strings.Contains(req.System, "Payroll") || !strings.Contains(req.System, "ONLY the category name") {
		t.Errorf("system prompt missing category list or instruction: %q", req.System)
	}
	if !strings.Contains(req.User, "Staples") {
		t.Errorf("user prompt missing merchant: %q", req.User)
	}
}

func TestSuspectReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"clean label", "Meals", ""},
		{"exactly at limit", strings.Repeat("x", 50), ""},
		{"over limit", strings.Repeat("x", 51), "length"},
		{"keyword lower", "sorry, no idea", "keyword:sorry"},
		{"keyword mixed case", "I am Unable to help", "keyword:unable"},
		{"keyword inside word still fires", "terror", "keyword:error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suspectReply(tt.reply); got != tt.want {
				t.Errorf("suspectReply(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}
