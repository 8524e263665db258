// Package insight holds the completion-service pipeline: merchant
// categorization, free-text time-window extraction and spending insights.
// Each component is a stateless request/response transform over a
// CompletionClient; one call per step, no retries.
package insight

import "context"

// CompletionRequest describes a single completion-service call.
type CompletionRequest struct {
	// System is the instruction prompt establishing the task.
	System string
	// User is the per-request input.
	User string
	// Temperature controls sampling; the pipeline uses low or zero values.
	Temperature float32
	// MaxOutputTokens caps the response length when > 0.
	MaxOutputTokens int32
	// JSONResponse asks the service for JSON-formatted output.
	JSONResponse bool
}

// CompletionClient is the contract toward the external natural-language
// completion service. Implementations make exactly one call per request;
// timeouts and transport retries are the client library's concern.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
