package domain

import "errors"

// Error taxonomy for the scoring pipeline. Components match on kind with
// errors.Is and only suppress the kinds declared recoverable; anything else
// is still rendered as a safe fallback for the caller but logged distinctly.
var (
	// ErrSourceUnavailable: a required source table is missing or unreadable.
	// Extractors propagate it so the aggregator can fail closed.
	ErrSourceUnavailable = errors.New("source table unavailable")

	// ErrIncompleteCoverage: at least one domain extractor produced an empty
	// result, so the aggregator refuses to emit a partial vector.
	ErrIncompleteCoverage = errors.New("incomplete domain coverage")

	// ErrLLMUnavailable: the LLM service could not be reached or refused the
	// request. Always recoverable via the deterministic fallback.
	ErrLLMUnavailable = errors.New("llm service unavailable")

	// ErrLLMMalformedResponse: the LLM replied but the payload could not be
	// decoded or contained no content. Recoverable via fallback.
	ErrLLMMalformedResponse = errors.New("malformed llm response")

	// ErrNoUserMatch: name resolution found no case-insensitive substring
	// match. A normal outcome, reported as a plain response to the caller.
	ErrNoUserMatch = errors.New("no matching user")

	// ErrInvalidCredentials: admin login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
