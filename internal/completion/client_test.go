// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Deterministic, fast backoff in tests.
	jitterMax = 0
	os.Exit(m.Run())
}

func testClient(ts *httptest.Server) *OpenAIClient {
	return &OpenAIClient{
		APIKey:         "test-key",
		Model:          "test-model",
		HTTPClient:     ts.Client(),
		Timeout:        2 * time.Second,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	}
}

// withEndpoint points the package at a test server for the test's duration.
func withEndpoint(t *testing.T, ts *httptest.Server) {
	t.Helper()
	prev := completionsURL
	completionsURL = ts.URL
	t.Cleanup(func() { completionsURL = prev })
}

func TestCompleteSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hallo!"}}],"usage":{"total_tokens":42}}`))
	}))
	defer ts.Close()
	withEndpoint(t, ts)

	result, err := testClient(ts).Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hallo!", result.Content)
	assert.Equal(t, 42, result.TokensUsed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompleteRetriesExhausted(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	withEndpoint(t, ts)

	_, err := testClient(ts).Complete(context.Background(), Request{})
	require.Error(t, err)
	// maxRetries=2 means exactly 3 attempts, then the last error propagates.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.True(t, IsRetryable(err))
}

func TestCompleteRetriesThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}],"usage":{"total_tokens":1}}`))
	}))
	defer ts.Close()
	withEndpoint(t, ts)

	result, err := testClient(ts).Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCompleteFatalStatusAbortsImmediately(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer ts.Close()
	withEndpoint(t, ts)

	_, err := testClient(ts).Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "fatal errors must not consume retries")
	assert.False(t, IsRetryable(err))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestCompleteAttemptTimeoutIsRetryable(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()
	withEndpoint(t, ts)

	c := testClient(ts)
	c.Timeout = 20 * time.Millisecond
	c.MaxRetries = 1

	_, err := c.Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "timeout is retryable")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCompleteParentCancellationStopsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	withEndpoint(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(ts)
	c.InitialBackoff = time.Hour // would hang if cancellation were ignored

	done := make(chan error, 1)
	go func() {
		_, err := c.Complete(ctx, Request{})
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Complete did not observe cancellation")
	}
}

func TestIsRetryableClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &StatusError{StatusCode: 429}, true},
		{"500", &StatusError{StatusCode: 500}, true},
		{"503", &StatusError{StatusCode: 503}, true},
		{"401", &StatusError{StatusCode: 401}, false},
		{"400", &StatusError{StatusCode: 400}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"generic", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestJSONModeSetsResponseFormat(t *testing.T) {
	c := &OpenAIClient{Model: "m"}
	wire := c.buildWireRequest(Request{JSONMode: true})
	require.NotNil(t, wire.ResponseFormat)
	assert.Equal(t, "json_object", wire.ResponseFormat.Type)

	wire = c.buildWireRequest(Request{})
	assert.Nil(t, wire.ResponseFormat)
}
