package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryProvider wraps a Provider with exponential backoff on transient
// failures. Non-transient errors (bad request, malformed response) are
// surfaced immediately and never retried.
type RetryProvider struct {
	inner    Provider
	maxTries uint
}

func NewRetryProvider(inner Provider, maxTries uint) Provider {
	if maxTries == 0 {
		maxTries = 3
	}
	return &RetryProvider{
		inner:    inner,
		maxTries: maxTries,
	}
}

func (p *RetryProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	return backoff.Retry(ctx, func() ([]float32, error) {
		vec, err := p.inner.Generate(ctx, text, taskType)
		if err != nil && !errors.Is(err, ErrProviderUnavailable) {
			return nil, backoff.Permanent(err)
		}
		return vec, err
	}, p.options()...)
}

func (p *RetryProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	return backoff.Retry(ctx, func() ([][]float32, error) {
		vectors, err := p.inner.GenerateBatch(ctx, texts, taskType)
		if err != nil && !errors.Is(err, ErrProviderUnavailable) {
			return nil, backoff.Permanent(err)
		}
		return vectors, err
	}, p.options()...)
}

func (p *RetryProvider) options() []backoff.RetryOption {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	return []backoff.RetryOption{
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(p.maxTries),
	}
}
