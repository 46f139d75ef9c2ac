package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecrTypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/kevinfinalboss/replicator/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "generic error", err: errors.New("connection reset"), expected: true},
		{name: "throttling", err: throttling(), expected: true},
		{name: "canceled", err: context.Canceled, expected: false},
		{name: "deadline", err: context.DeadlineExceeded, expected: false},
		{name: "repository not found", err: &ecrTypes.RepositoryNotFoundException{Message: aws.String("x")}, expected: false},
		{name: "image not found", err: &ecrTypes.ImageNotFoundException{Message: aws.String("x")}, expected: false},
		{name: "already exists", err: &ecrTypes.RepositoryAlreadyExistsException{Message: aws.String("x")}, expected: false},
		{name: "invalid parameter", err: &ecrTypes.InvalidParameterException{Message: aws.String("x")}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestRetryPolicy_Do(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := fastRetryPolicy().Do(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("unavailable")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		attempts := 0
		permanent := &ecrTypes.InvalidParameterException{Message: aws.String("bad")}
		err := fastRetryPolicy().Do(context.Background(), func() error {
			attempts++
			return permanent
		})

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, attempts)
	})

	t.Run("budget exhausted returns last error", func(t *testing.T) {
		last := errors.New("still unavailable")
		start := time.Now()
		err := fastRetryPolicy().Do(context.Background(), func() error {
			return last
		})

		assert.ErrorIs(t, err, last)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("canceled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		attempts := 0
		err := fastRetryPolicy().Do(ctx, func() error {
			attempts++
			return errors.New("unavailable")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("notify sees each retry", func(t *testing.T) {
		policy := fastRetryPolicy()
		notified := 0
		policy.Notify = func(err error, wait time.Duration) {
			notified++
		}

		attempts := 0
		_ = policy.Do(context.Background(), func() error {
			attempts++
			if attempts < 2 {
				return errors.New("unavailable")
			}
			return nil
		})

		assert.Equal(t, 1, notified)
	})
}

func TestNewRetryPolicy(t *testing.T) {
	policy := NewRetryPolicy(types.RetryConfig{MaxElapsedTime: 30 * time.Second})
	assert.Equal(t, 30*time.Second, policy.MaxElapsedTime)
	assert.Equal(t, DefaultInitialInterval, policy.InitialInterval)
	assert.Equal(t, DefaultMultiplier, policy.Multiplier)

	defaults := NewRetryPolicy(types.RetryConfig{})
	assert.Equal(t, DefaultMaxElapsedTime, defaults.MaxElapsedTime)
}
