package registry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kevinfinalboss/replicator/pkg/types"
)

const (
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 4 * time.Second
	DefaultMaxElapsedTime  = 10 * time.Second
	DefaultMultiplier      = 2.0
)

// RetryPolicy wraps a control-plane call in exponential backoff bounded by
// MaxElapsedTime. Errors rejected by Retryable are returned immediately.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Multiplier      float64
	Retryable       func(error) bool
	Notify          func(err error, wait time.Duration)
}

func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		MaxElapsedTime:  DefaultMaxElapsedTime,
		Multiplier:      DefaultMultiplier,
		Retryable:       IsRetryable,
	}
}

func NewRetryPolicy(cfg types.RetryConfig) *RetryPolicy {
	policy := DefaultRetryPolicy()
	if cfg.InitialInterval > 0 {
		policy.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		policy.MaxInterval = cfg.MaxInterval
	}
	if cfg.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = cfg.MaxElapsedTime
	}
	if cfg.Multiplier >= 1 {
		policy.Multiplier = cfg.Multiplier
	}
	return policy
}

// IsRetryable treats every control-plane error as transient except absence
// conditions, permanent request faults and cancellation.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case isRepositoryNotFound(err), isImageNotFound(err):
		return false
	case isRepositoryAlreadyExists(err), isInvalidParameter(err):
		return false
	}
	return true
}

func (p *RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxElapsedTime
	b.Multiplier = p.Multiplier
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// Do runs op until it succeeds, fails with a non-retryable error or the
// elapsed-time budget runs out. The last error is returned unwrapped.
func (p *RetryPolicy) Do(ctx context.Context, op func() error) error {
	operation := func() error {
		err := op()
		if err != nil && !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var notify backoff.Notify
	if p.Notify != nil {
		notify = backoff.Notify(p.Notify)
	}

	return backoff.RetryNotify(operation, p.backOff(ctx), notify)
}

func (p *RetryPolicy) retryable(err error) bool {
	if p.Retryable == nil {
		return IsRetryable(err)
	}
	return p.Retryable(err)
}
