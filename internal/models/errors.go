package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind names a class of failure surfaced to callers
type ErrorKind string

const (
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindProviderRateLimited ErrorKind = "provider_rate_limited"
	KindProviderForbidden   ErrorKind = "provider_forbidden"
	KindProviderSchema      ErrorKind = "provider_schema_error"
	KindProviderEmpty       ErrorKind = "provider_empty"
	KindSparseData          ErrorKind = "sparse_data"
	KindInvalidOdd          ErrorKind = "invalid_odd"
	KindInvalidInput        ErrorKind = "invalid_input"
	KindCancelled           ErrorKind = "cancelled"
	KindTimeout             ErrorKind = "timeout"
	KindInternal            ErrorKind = "internal"
)

var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderRateLimited = errors.New("provider rate limited")
	ErrProviderForbidden   = errors.New("provider forbidden")
	ErrProviderSchema      = errors.New("provider schema error")
	ErrProviderEmpty       = errors.New("provider returned no data")
	ErrSparseData          = errors.New("sparse team data")
	ErrInvalidOdd          = errors.New("invalid odd")
	ErrInvalidInput        = errors.New("invalid input")

	// ErrCacheMiss is returned by caches when a key is absent
	ErrCacheMiss = errors.New("cache miss")
)

var kindSentinels = []struct {
	kind ErrorKind
	err  error
}{
	{KindProviderForbidden, ErrProviderForbidden},
	{KindProviderRateLimited, ErrProviderRateLimited},
	{KindProviderUnavailable, ErrProviderUnavailable},
	{KindProviderSchema, ErrProviderSchema},
	{KindProviderEmpty, ErrProviderEmpty},
	{KindSparseData, ErrSparseData},
	{KindInvalidOdd, ErrInvalidOdd},
	{KindInvalidInput, ErrInvalidInput},
}

// KindOf classifies an error chain. Unrecognised errors are KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	}
	return KindInternal
}

// IsProviderOutage reports whether err means the provider cannot serve
// requests at all (as opposed to a bad or empty response)
func IsProviderOutage(err error) bool {
	switch KindOf(err) {
	case KindProviderUnavailable, KindProviderForbidden, KindProviderRateLimited:
		return true
	}
	return false
}

// InvalidInputf builds an ErrInvalidInput with a message
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
