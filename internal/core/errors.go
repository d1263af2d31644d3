package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for missing or foreign entities. These are client errors at
// the API boundary.
var (
	ErrModelNotFound   = errors.New("model not found")
	ErrProfileNotFound = errors.New("user profile not found")
	ErrTopicNotFound   = errors.New("topic not found or doesn't belong to user")
	ErrPostNotFound    = errors.New("post not found")
	ErrShareNotFound   = errors.New("share not found")
)

// MissingCredentialError indicates the user has no stored API key for the
// provider a model requires. It is raised before any network call is made so
// the caller can prompt for key entry.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("no API key found for %s", e.Provider)
}

// ProviderAPIError carries a non-2xx response from an upstream LLM provider.
// It is never retried automatically.
type ProviderAPIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// ParseError indicates LLM output failed JSON parsing even after
// sanitization. Stage names which prompt misbehaved: "topics", "posts",
// "reasoning" or "scores".
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response as JSON: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
