package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrEmptyURL indicates no URL was entered
	ErrEmptyURL = errors.New("no URL provided")

	// ErrInvalidURL indicates the URL does not look like a supported video URL
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrServerOffline indicates the download service is unreachable
	ErrServerOffline = errors.New("download service is unreachable")

	// ErrNoDownload indicates there is no download in flight
	ErrNoDownload = errors.New("no download in progress")

	// ErrStoreClosed indicates the local store was used after Close
	ErrStoreClosed = errors.New("local store is closed")
)

// APIError is a failure reported by the download service
type APIError struct {
	Status  int    // HTTP status code
	Message string // server-provided error text, may be empty

	RetryAfter string // rate-limit hint from a 429 reply, as reported
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status code: %d", e.Status)
}

// UserMessage returns the text shown to the user for err. Server-provided
// messages, rate-limit hints and validation errors are shown verbatim;
// everything else falls back to the generic message.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := fallback
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
		if apiErr.RetryAfter != "" {
			msg += " (" + apiErr.RetryAfter + ")"
		}
		return msg
	}
	switch {
	case errors.Is(err, ErrEmptyURL):
		return "Please enter a YouTube URL"
	case errors.Is(err, ErrInvalidURL):
		return "Please enter a valid YouTube URL"
	case errors.Is(err, ErrServerOffline):
		return "Download service is unreachable"
	}
	if fallback == "" {
		return err.Error()
	}
	return fallback
}
