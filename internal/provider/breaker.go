package provider

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// Breaker stops calling a failing provider until its timeout passes
type Breaker struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next with a circuit breaker
func NewBreaker(next Provider, cfg config.BreakerConfig) *Breaker {
	name := next.Name()
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// rejected requests, uncovered areas, local throttling and callers that gave up say nothing about provider health
		IsSuccessful: func(err error) bool {
			var aborted *callerAborted
			kind := KindOf(err)
			return err == nil || kind == KindInvalidRequest || kind == KindNoCoverage ||
				errors.Is(err, errThrottled) || errors.As(err, &aborted)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Name of the wrapped provider
func (b *Breaker) Name() string { return b.next.Name() }

// State current breaker state
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// FetchPOIs calls the wrapped provider unless the circuit is open
func (b *Breaker) FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		pois, err := b.next.FetchPOIs(ctx, area)
		if err != nil && ctx.Err() != nil {
			return nil, &callerAborted{err: err}
		}
		return pois, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, Fail(b.Name(), KindCircuitOpen, err)
		}
		var aborted *callerAborted
		if errors.As(err, &aborted) {
			err = aborted.err
		}
		return nil, asProviderError(b.Name(), KindUnavailable, err)
	}
	return out.([]model.POIRecord), nil
}

// callerAborted a failure caused by the caller's context ending
type callerAborted struct {
	err error
}

func (e *callerAborted) Error() string { return e.err.Error() }

func (e *callerAborted) Unwrap() error { return e.err }
