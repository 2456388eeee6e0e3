// Package provider retrieves POIs around a point from spatial data sources.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// Provider fetches the POIs inside a search area.
// It returns either the complete collection, possibly empty, or a *ProviderError.
type Provider interface {
	Name() string
	FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error)
}

// FailureKind why a provider could not produce POIs
type FailureKind string

const (
	KindUnavailable       FailureKind = "unavailable"
	KindNoCoverage        FailureKind = "no_coverage"
	KindMalformedResponse FailureKind = "malformed_response"
	KindRateLimited       FailureKind = "rate_limited"
	KindCircuitOpen       FailureKind = "circuit_open"
	KindInvalidRequest    FailureKind = "invalid_request"
	// KindIncomplete the source holds more POIs than it can return
	KindIncomplete        FailureKind = "incomplete"
)

// ErrProviderFailure matches every *ProviderError with errors.Is
var ErrProviderFailure = errors.New("poi provider failure")

// errThrottled the local rate limiter refused to wait
var errThrottled = errors.New("local rate limit")

// ProviderError a failed POI fetch
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is reports ErrProviderFailure as a match
func (e *ProviderError) Is(target error) bool { return target == ErrProviderFailure }

// Fail builds a ProviderError
func Fail(provider string, kind FailureKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// KindOf returns the failure kind of err, "" when it is not a provider failure
func KindOf(err error) FailureKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// asProviderError keeps an existing ProviderError or wraps err with kind
func asProviderError(provider string, kind FailureKind, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return Fail(provider, kind, err)
}
