package entity

import (
	"errors"
	"fmt"
)

// ErrNoData is returned once every fetch attempt for a wallet has failed.
var ErrNoData = errors.New("no balance data")

// FetchErrorKind classifies a single failed fetch attempt.
type FetchErrorKind int

const (
	// FetchRetryable covers timeouts, transport errors, non-2xx statuses and unusable bodies.
	FetchRetryable FetchErrorKind = iota
	// FetchRateLimited is an HTTP 429 answer.
	FetchRateLimited
	// FetchFatal stops retrying: cancelled context or a request that cannot be built.
	FetchFatal
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchRetryable:
		return "retryable"
	case FetchRateLimited:
		return "rate_limited"
	case FetchFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// FetchError is the tagged error of one fetch attempt.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchErrorKindOf returns the kind of a FetchError in err's chain. Untagged errors are retryable.
func FetchErrorKindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FetchRetryable
}
