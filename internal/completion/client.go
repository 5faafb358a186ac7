// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion calls the external chat-completion endpoint with
// bounded attempts. Each attempt runs under its own deadline; transient
// failures are retried with exponential backoff and jitter, fatal failures
// abort immediately. The package never substitutes fallback content; that
// is the caller's decision.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// completionsURL is the chat completions endpoint. Declared as a var so
// tests can substitute an httptest server.
var completionsURL = "https://api.openai.com/v1/chat/completions"

// jitterMax bounds the random slice added to each backoff wait. Tests
// override this to zero for deterministic timing.
var jitterMax = 100 * time.Millisecond

const (
	defaultTimeout        = 15 * time.Second
	defaultMaxRetries     = 2
	defaultInitialBackoff = 500 * time.Millisecond
)

// Message is one turn sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64

	// Timeout overrides the client's per-attempt deadline when positive.
	Timeout time.Duration

	// JSONMode asks the endpoint to emit a single JSON object.
	JSONMode bool
}

// Result is a successful completion.
type Result struct {
	Content    string
	TokensUsed int
}

// Client abstracts the completion endpoint so handlers can substitute a
// mock in tests.
type Client interface {
	Complete(ctx context.Context, req Request) (Result, error)
}

// OpenAIClient is the production Client speaking the OpenAI chat
// completions protocol.
type OpenAIClient struct {
	APIKey         string
	Model          string
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration

	// Pacer throttles outbound attempts across all concurrent requests.
	// Nil disables pacing.
	Pacer *rate.Limiter
}

// NewOpenAIClient builds a client from config. Zero-valued settings get
// defaults; pacing is enabled when cfg.UpstreamRPS is positive.
func NewOpenAIClient(cfg types.AIConfig) *OpenAIClient {
	c := &OpenAIClient{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if cfg.UpstreamRPS > 0 {
		burst := cfg.UpstreamBurst
		if burst <= 0 {
			burst = 1
		}
		c.Pacer = rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), burst)
	}
	return c
}

// wire structures for the chat completions protocol.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Message Message `json:"message"`
}

type chatUsage struct {
	TotalTokens int `json:"total_tokens"`
}

// Complete implements Client. Total attempts are MaxRetries+1; attempt i
// waits InitialBackoff*2^(i-1) plus jitter before running. After the last
// failed attempt the last error is propagated unchanged in meaning.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Result, error) {
	maxRetries := c.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	initialBackoff := c.InitialBackoff
	if initialBackoff <= 0 {
		initialBackoff = defaultInitialBackoff
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.Timeout
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	body, err := json.Marshal(c.buildWireRequest(req))
	if err != nil {
		return Result{}, fmt.Errorf("marshaling completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * initialBackoff
			if jitterMax > 0 {
				backoff += time.Duration(rand.Int63n(int64(jitterMax)))
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return Result{}, err
			}
		}

		if c.Pacer != nil {
			if err := c.Pacer.Wait(ctx); err != nil {
				return Result{}, err
			}
		}

		result, err := c.attempt(ctx, body, timeout)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || ctx.Err() != nil {
			return Result{}, err
		}
		lastErr = err
	}
	return Result{}, fmt.Errorf("after %d attempts: %w", maxRetries+1, lastErr)
}

func (c *OpenAIClient) buildWireRequest(req Request) chatRequest {
	wire := chatRequest{
		Model:       c.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONMode {
		wire.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return wire
}

// attempt runs one bounded call. The attempt context is always cancelled
// before returning so its timer never leaks into the next attempt.
func (c *OpenAIClient) attempt(ctx context.Context, body []byte, timeout time.Duration) (Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, completionsURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("completion attempt timed out after %v: %w", timeout, context.DeadlineExceeded)
		}
		return Result{}, fmt.Errorf("calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Result{}, fmt.Errorf("decoding completion response: %w", err)
	}

	result := Result{TokensUsed: cr.Usage.TotalTokens}
	if len(cr.Choices) > 0 {
		result.Content = cr.Choices[0].Message.Content
	}
	return result, nil
}

// sleepCtx waits for d or until ctx is done, releasing the timer on both
// paths.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
