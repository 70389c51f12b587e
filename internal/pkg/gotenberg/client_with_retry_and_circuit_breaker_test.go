package gotenberg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"certificate-service-go/internal/config"
	"certificate-service-go/internal/pkg/circuitbreaker"
	"certificate-service-go/internal/pkg/connpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) (config.Gotenberg, config.CircuitBreaker) {
	return config.Gotenberg{
			URL:     url,
			Timeout: time.Second,
			Retry: config.Retry{
				MaxAttempts:   3,
				InitialDelay:  time.Millisecond,
				MaxDelay:      5 * time.Millisecond,
				BackoffFactor: 2,
			},
		}, config.CircuitBreaker{
			FailureThreshold: 2,
			ResetTimeout:     time.Minute,
			HalfOpenMaxCalls: 1,
			SuccessThreshold: 1,
		}
}

func countingServer(t *testing.T, handler func(n int32, w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(atomic.AddInt32(&calls, 1), w)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestResilientClient_RetriesServerErrors(t *testing.T) {
	srv, calls := countingServer(t, func(n int32, w http.ResponseWriter) {
		if n < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("PNG"))
	})

	c := NewClientWithRetryAndCircuitBreaker(testConfig(srv.URL))
	out, err := c.Screenshot(context.Background(), []byte("<p/>"), nil, ScreenshotOptions{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(out))
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Equal(t, circuitbreaker.StateClosed, c.State())
}

func TestResilientClient_DoesNotRetryBadRequest(t *testing.T) {
	srv, calls := countingServer(t, func(n int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
	})

	c := NewClientWithRetryAndCircuitBreaker(testConfig(srv.URL))
	for i := 0; i < 3; i++ {
		_, err := c.ConvertHTML(context.Background(), []byte("<p/>"), nil, PDFOptions{})
		var se *StatusError
		require.ErrorAs(t, err, &se)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls), "one call per request")
	assert.Equal(t, circuitbreaker.StateClosed, c.State(), "client errors do not trip the breaker")
}

func TestResilientClient_OpensCircuit(t *testing.T) {
	srv, calls := countingServer(t, func(n int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := NewClientWithRetryAndCircuitBreaker(testConfig(srv.URL))
	_, err := c.Screenshot(context.Background(), []byte("<p/>"), nil, ScreenshotOptions{})
	require.Error(t, err)
	assert.Equal(t, circuitbreaker.StateOpen, c.State())
	assert.False(t, c.IsHealthy())

	before := atomic.LoadInt32(calls)
	_, err = c.Screenshot(context.Background(), []byte("<p/>"), nil, ScreenshotOptions{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, before, atomic.LoadInt32(calls), "open circuit fails fast")
}

func TestResilientClient_HealthCheckBypassesBreaker(t *testing.T) {
	srv, _ := countingServer(t, func(n int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
	})
	c := NewClientWithRetryAndCircuitBreaker(testConfig(srv.URL))
	assert.NoError(t, c.HealthCheck(context.Background()))
}

func TestResilientClient_PoolLimitsConcurrency(t *testing.T) {
	unblock := make(chan struct{})
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-unblock
		_, _ = w.Write([]byte("PNG"))
	}))
	t.Cleanup(srv.Close)

	gc, cbc := testConfig(srv.URL)
	gc.Timeout = 5 * time.Second
	gc.Pool = config.Pool{MaxConns: 1, WaitTimeout: 20 * time.Millisecond}
	c := NewClientWithRetryAndCircuitBreaker(gc, cbc)
	t.Cleanup(func() { _ = c.Close() })

	first := make(chan error, 1)
	go func() {
		_, err := c.Screenshot(context.Background(), []byte("<p/>"), nil, ScreenshotOptions{})
		first <- err
	}()
	<-started
	assert.Equal(t, 1, c.PoolStats().Active)

	_, err := c.Screenshot(context.Background(), []byte("<p/>"), nil, ScreenshotOptions{})
	assert.ErrorIs(t, err, connpool.ErrPoolExhausted)
	assert.Equal(t, circuitbreaker.StateClosed, c.State(), "pool exhaustion is not an upstream failure")

	close(unblock)
	require.NoError(t, <-first)
	assert.Equal(t, 0, c.PoolStats().Active)
}
