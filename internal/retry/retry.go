package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// Source is a decorator that retries transient failures with exponential
// backoff and jitter before delegating to the wrapped model.Source.
type Source struct {
	inner      model.Source
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

var _ model.Source = (*Source)(nil)

// Wrap decorates a source with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func Wrap(inner model.Source, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Source {
	return &Source{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Name returns the wrapped source's name.
func (s *Source) Name() string { return s.inner.Name() }

// Search attempts the wrapped search, retrying on transient errors.
func (s *Source) Search(ctx context.Context, spec model.SearchSpec) ([]model.JobRecord, error) {
	jobs, err := s.inner.Search(ctx, spec)
	if err == nil {
		return jobs, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt, lastErr)

		s.logger.Warn("retrying source after transient error",
			"source", s.inner.Name(),
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		jobs, err = s.inner.Search(ctx, spec)
		if err == nil {
			return jobs, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (s *Source) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) are worth retrying.
	return true
}
