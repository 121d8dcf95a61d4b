// ABOUTME: Embedding provider contract and the typed error every adapter returns
// ABOUTME: Error kinds let callers tell retryable failures from configuration mistakes
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Provider turns text into a fixed-length embedding vector
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension is the expected vector length, or 0 when unknown
	Dimension() int
}

// Kind classifies an embedding failure
type Kind int

const (
	KindRateLimited Kind = iota + 1
	KindInvalidKey
	KindNetworkError
	KindBadResponse
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidKey:
		return "invalid key"
	case KindNetworkError:
		return "network error"
	case KindBadResponse:
		return "bad response"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every adapter
type Error struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s embedding: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var embErr *Error
	return errors.As(err, &embErr) && embErr.Kind == kind
}

// IsRetryable reports whether err is worth retrying (rate limit or network failure)
func IsRetryable(err error) bool {
	return IsKind(err, KindRateLimited) || IsKind(err, KindNetworkError)
}

// classifyStatus maps an HTTP status code to an error kind
func classifyStatus(code int) Kind {
	switch {
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindInvalidKey
	case code >= 500:
		return KindNetworkError
	default:
		return KindBadResponse
	}
}

func statusError(provider string, code int, body string) *Error {
	body = strings.TrimSpace(body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}

	var err error
	if body != "" {
		err = errors.New(body)
	}

	return &Error{Kind: classifyStatus(code), Provider: provider, StatusCode: code, Err: err}
}

func networkError(provider string, err error) *Error {
	return &Error{Kind: KindNetworkError, Provider: provider, Err: err}
}

func badResponse(provider string, err error) *Error {
	return &Error{Kind: KindBadResponse, Provider: provider, Err: err}
}

// checkVector rejects empty vectors
func checkVector(provider string, vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, badResponse(provider, errors.New("empty embedding returned"))
	}
	return vec, nil
}
