// Package backend talks to the remote auth and payment-method services over
// HTTP. Every call goes through one circuit breaker so a dead backend fails
// fast instead of stalling each screen for the full timeout.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

const maxBodySize = 1 << 20

// Observer receives one call per backend round trip. outcome is "ok",
// "client_error", "server_error", "transport_error" or "rejected".
type Observer func(endpoint, outcome string, elapsed time.Duration)

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Observe is optional.
	Observe Observer
}

// Client is the shared HTTP transport of AuthClient and PaymentMethodClient.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	observe Observer
	log     zerolog.Logger
}

// envelope is the success body of the payment-method backend. Auth
// endpoints may answer with the bare payload instead.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewClient builds a Client. A zero Timeout defaults to 10s.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	observe := cfg.Observe
	if observe == nil {
		observe = func(string, string, time.Duration) {}
	}
	log = log.With().Str("component", "backend").Logger()

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: newBreaker("backend", log),
		observe: observe,
		log:     log,
	}
}

// Ready reports ErrBackendUnavailable while the circuit breaker is open.
func (c *Client) Ready(context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit open", domain.ErrBackendUnavailable)
	}
	return nil
}

func newBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// Only transport failures and 5xx count against the backend.
		IsSuccessful: func(err error) bool {
			var be *domain.BackendError
			if errors.As(err, &be) {
				return be.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// do sends one request and decodes the payload into out, which may be nil.
// The payload is the envelope's data when the body is an envelope, and the
// whole body otherwise.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	endpoint := method + " " + routeOf(path)
	start := time.Now()

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, token, in)
	})
	elapsed := time.Since(start)

	if err != nil {
		var be *domain.BackendError
		switch {
		case errors.As(err, &be) && be.Status >= http.StatusInternalServerError:
			c.observe(endpoint, "server_error", elapsed)
			return err
		case errors.As(err, &be):
			c.observe(endpoint, "client_error", elapsed)
			return err
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.observe(endpoint, "rejected", elapsed)
			return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
		default:
			c.observe(endpoint, "transport_error", elapsed)
			c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("backend request failed")
			return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
		}
	}
	c.observe(endpoint, "ok", elapsed)

	if out == nil {
		return nil
	}
	return decodePayload(raw.([]byte), out)
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendError(resp.StatusCode, data)
	}
	return data, nil
}

// backendError folds a non-2xx body into a single message.
func backendError(status int, data []byte) *domain.BackendError {
	be := &domain.BackendError{Status: status}
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		be.Code = body.Code
		be.Message = body.Message
		if be.Message == "" {
			be.Message = body.Error
		}
	}
	return be
}

func decodePayload(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		if _, ok := fields["data"]; ok {
			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				return fmt.Errorf("decode envelope: %w", err)
			}
			data = env.Data
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// routeOf strips ids and query strings so metrics stay low-cardinality.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if strings.HasPrefix(path, "/payment-methods/") {
		return "/payment-methods/:id"
	}
	return path
}
