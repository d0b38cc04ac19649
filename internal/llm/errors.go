package llm

import "errors"

// Sentinel errors classifying generation-collaborator failures. Callers
// distinguish them with errors.Is; anything else is a generic provider
// error surfaced with its raw message.
var (
	// ErrRateLimited marks HTTP 429 responses. Retryable by the caller;
	// never retried internally beyond the single repair cycle.
	ErrRateLimited = errors.New("rate limited by generation provider")

	// ErrAuth marks authentication or configuration failures. Fatal, not
	// retryable; the wrapping error carries remediation guidance.
	ErrAuth = errors.New("generation provider authentication failed")
)
