package contract

import "errors"

// Domain error taxonomy. Callers branch on these with errors.Is to pick the
// right user-facing message: validation errors are never retried, rate limits
// get a retry-later message, not-found gets a specific message, and anything
// else is surfaced generically.
var (
	// ErrInvalidSource marks a malformed source locator. Raised before any
	// network call is made.
	ErrInvalidSource = errors.New("invalid source locator")

	// ErrRepoNotFound marks a repository or resource that does not exist
	// (or is private and invisible to us).
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRateLimited marks a rate-limit response from the remote host.
	// Retryable after a wait; distinct from generic failure.
	ErrRateLimited = errors.New("rate limited by remote host")
)
