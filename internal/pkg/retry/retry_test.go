package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	errTest   = errors.New("test error")
	logger, _ = zap.NewDevelopment()
)

type validationErr struct{}

func (validationErr) Error() string    { return "bad input" }
func (validationErr) Validation() bool { return true }

type statusErr struct{ retry bool }

func (e statusErr) Error() string   { return fmt.Sprintf("status retry=%v", e.retry) }
func (e statusErr) Retryable() bool { return e.retry }

func TestRetrier_Do(t *testing.T) {
	tests := []struct {
		name          string
		operation     Operation
		opts          []Option
		cancel        bool
		expectedError error
		expectedCalls int
		expectedAt    int
	}{
		{
			name:          "success on first attempt",
			operation:     func(ctx context.Context) error { return nil },
			expectedCalls: 1,
		},
		{
			name: "success after retry",
			operation: func() Operation {
				attempts := 0
				return func(ctx context.Context) error {
					attempts++
					if attempts < 2 {
						return errTest
					}
					return nil
				}
			}(),
			expectedCalls: 2,
		},
		{
			name:          "max attempts reached",
			operation:     func(ctx context.Context) error { return errTest },
			expectedError: errTest,
			expectedCalls: 3,
			expectedAt:    3,
		},
		{
			name: "context cancelled",
			operation: func(ctx context.Context) error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errTest
			},
			cancel:        true,
			expectedError: context.Canceled,
			expectedCalls: 1,
		},
		{
			name:          "error outside retryable list",
			operation:     func(ctx context.Context) error { return errors.New("non-retryable") },
			opts:          []Option{WithRetryableErrors([]error{errTest})},
			expectedError: &RetryError{},
			expectedCalls: 1,
			expectedAt:    1,
		},
		{
			name:          "validation error is never retried",
			operation:     func(ctx context.Context) error { return validationErr{} },
			expectedError: validationErr{},
			expectedCalls: 1,
			expectedAt:    1,
		},
		{
			name:          "classifier stops retries",
			operation:     func(ctx context.Context) error { return statusErr{retry: false} },
			opts:          []Option{WithClassifier(ShouldRetry)},
			expectedError: statusErr{retry: false},
			expectedCalls: 1,
			expectedAt:    1,
		},
		{
			name:          "classifier allows retries",
			operation:     func(ctx context.Context) error { return statusErr{retry: true} },
			opts:          []Option{WithClassifier(ShouldRetry)},
			expectedError: statusErr{retry: true},
			expectedCalls: 3,
			expectedAt:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			wrappedOp := func(ctx context.Context) error {
				calls++
				return tt.operation(ctx)
			}

			opts := append([]Option{WithMaxAttempts(3), WithInitialDelay(time.Millisecond)}, tt.opts...)
			r := New("test", logger, opts...)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}

			err := r.Do(ctx, wrappedOp)
			assert.Equal(t, tt.expectedCalls, calls, "unexpected number of calls")

			if tt.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.expectedAt == 0 {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			var retryErr *RetryError
			require.True(t, errors.As(err, &retryErr))
			assert.Equal(t, tt.expectedAt, retryErr.Attempt)
			if _, ok := tt.expectedError.(*RetryError); !ok {
				assert.ErrorIs(t, err, tt.expectedError)
			}
		})
	}
}

func TestRetrier_Delay(t *testing.T) {
	tests := []struct {
		name          string
		initialDelay  time.Duration
		maxDelay      time.Duration
		backoffFactor float64
		attempt       int
		expected      time.Duration
	}{
		{"first attempt", 100 * time.Millisecond, time.Second, 2.0, 1, 100 * time.Millisecond},
		{"second attempt", 100 * time.Millisecond, time.Second, 2.0, 2, 200 * time.Millisecond},
		{"max delay reached", 100 * time.Millisecond, 300 * time.Millisecond, 2.0, 3, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("test", logger,
				WithInitialDelay(tt.initialDelay),
				WithMaxDelay(tt.maxDelay),
				WithBackoffFactor(tt.backoffFactor),
			)
			assert.Equal(t, tt.expected, r.calculateDelay(tt.attempt))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		cfg      *Config
		expected bool
	}{
		{"nil error", nil, DefaultConfig(), false},
		{"empty list retries everything", errTest, DefaultConfig(), true},
		{"listed error", errTest, &Config{RetryableErrors: []error{errTest}}, true},
		{"unlisted error", errors.New("other"), &Config{RetryableErrors: []error{errTest}}, false},
		{"validation error", fmt.Errorf("wrapped: %w", validationErr{}), DefaultConfig(), false},
		{"classifier wins over list", errTest, &Config{RetryableErrors: []error{errTest}, Classifier: func(error) bool { return false }}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err, tt.cfg))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
	assert.False(t, ShouldRetry(context.Canceled))
	assert.True(t, ShouldRetry(context.DeadlineExceeded))
	assert.True(t, ShouldRetry(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	assert.True(t, ShouldRetry(fmt.Errorf("send: %w", syscall.ECONNRESET)))
	assert.False(t, ShouldRetry(validationErr{}))
	assert.True(t, ShouldRetry(statusErr{retry: true}))
	assert.False(t, ShouldRetry(errTest))
}
