package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// Fallback tries providers in order and returns the first success.
// Results are never merged, so the score always comes from one source.
type Fallback struct {
	providers []Provider
}

// NewFallback chains providers; a single provider is returned unchanged
func NewFallback(providers ...Provider) Provider {
	if len(providers) == 1 {
		return providers[0]
	}
	return &Fallback{providers: providers}
}

// Name joined provider names
func (f *Fallback) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ">")
}

// FetchPOIs returns the first successful result, or the last failure
func (f *Fallback) FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error) {
	var lastErr error
	for _, p := range f.providers {
		pois, err := p.FetchPOIs(ctx, area)
		if err == nil {
			return pois, nil
		}
		lastErr = err

		// the same request would be rejected by every source
		if KindOf(err) == KindInvalidRequest || errors.Is(err, context.Canceled) {
			break
		}
		log.Warn().Err(err).Str("provider", p.Name()).Msg("poi provider failed, trying next")
	}
	if lastErr == nil {
		return nil, Fail(f.Name(), KindUnavailable, errors.New("no providers configured"))
	}
	return nil, asProviderError(f.Name(), KindUnavailable, lastErr)
}
