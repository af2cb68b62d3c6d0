// Package relay replays a captured voice lead as a scripted text
// conversation against the helpdesk chat backend, which files the ticket and
// the CRM lead on its side.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edgard/robornet/internal/resilience"
)

// DefaultURL is the helpdesk chat endpoint.
const DefaultURL = "https://aida.smit34.ru/chat"

// ErrEmptyReply is returned when the backend answers without a response text.
var ErrEmptyReply = errors.New("relay backend returned an empty response")

// Client posts chat messages to the helpdesk backend.
type Client struct {
	URL        string
	HTTPClient *http.Client
	// Breaker, when set, fails posts fast while the backend keeps erroring.
	Breaker *resilience.CircuitBreaker
}

// NewClient creates a client for url with a 30s request timeout.
func NewClient(url string, opts ...func(*Client)) *Client {
	c := &Client{
		URL:        DefaultURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	if strings.TrimSpace(url) != "" {
		c.URL = url
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) func(*Client) {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithBreaker routes every post through cb.
func WithBreaker(cb *resilience.CircuitBreaker) func(*Client) {
	return func(c *Client) { c.Breaker = cb }
}

// NewBreaker creates the breaker used for the helpdesk backend. Empty
// replies and cancelled requests do not count as failures.
func NewBreaker(maxFailures int, cooldown time.Duration, log *slog.Logger) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "relay_backend",
		MaxFailures: maxFailures,
		Cooldown:    cooldown,
		Logger:      log,
		IsFailure: func(err error) bool {
			return !errors.Is(err, ErrEmptyReply) && !errors.Is(err, context.Canceled)
		},
	})
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Post sends one message in the given session and returns the backend reply.
func (c *Client) Post(ctx context.Context, sessionID, message string) (string, error) {
	if c == nil {
		return "", errors.New("relay client is nil")
	}
	if c.Breaker == nil {
		return c.post(ctx, sessionID, message)
	}

	var reply string
	err := c.Breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		reply, err = c.post(ctx, sessionID, message)
		return err
	})
	return reply, err
}

func (c *Client) post(ctx context.Context, sessionID, message string) (string, error) {
	body, err := json.Marshal(chatRequest{SessionID: sessionID, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("relay backend non-2xx: %d: %s", resp.StatusCode, string(snippet))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode relay response: %w", err)
	}
	if out.Response == "" {
		return "", ErrEmptyReply
	}
	return out.Response, nil
}
