package handshake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"orgbridge/internal/config"
	"orgbridge/internal/state"
)

// DefaultTimeout bounds the single handshake round trip.
const DefaultTimeout = 8 * time.Second

// TimeoutError means the remote did not answer within the deadline. It is
// distinct from a rejection: the secret was never judged.
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("handshake with %s timed out after %s", e.Endpoint, e.Timeout)
}

// RejectedError means the remote answered and refused the secret.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("handshake rejected (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("handshake rejected (status %d)", e.StatusCode)
}

// Validator gates server readiness behind a one-time remote login check.
// Once validated, later calls are no-ops; concurrent first calls share a
// single network round trip.
type Validator struct {
	endpoint string
	secret   string
	bypass   bool
	timeout  time.Duration
	client   *http.Client
	state    *state.State
	logger   *slog.Logger
	group    singleflight.Group
}

type Option func(*Validator)

func WithTimeout(timeout time.Duration) Option {
	return func(v *Validator) { v.timeout = timeout }
}

func WithHTTPClient(client *http.Client) Option {
	return func(v *Validator) { v.client = client }
}

func New(cfg config.Config, st *state.State, logger *slog.Logger, opts ...Option) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		endpoint: cfg.LoginURL,
		secret:   cfg.Secret,
		bypass:   cfg.BypassHandshake,
		timeout:  DefaultTimeout,
		client:   &http.Client{},
		state:    st,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate performs the handshake. Misconfiguration fails fast with a
// ConfigurationError; a slow remote fails with a TimeoutError; a refusal
// fails with a RejectedError. None of these are retried here — a failed
// handshake is fatal for this process start.
func (v *Validator) Validate(ctx context.Context) error {
	if v.state.HandshakeValidated() {
		return nil
	}
	if v.bypass {
		// Explicit, logged opt-in; never a silent default.
		v.logger.Warn("handshake bypass enabled, skipping remote validation")
		v.state.MarkHandshakeValidated()
		return nil
	}
	if v.endpoint == "" {
		return &config.ConfigurationError{Setting: "login_url", Reason: "no handshake endpoint configured"}
	}
	if v.secret == "" {
		return &config.ConfigurationError{Setting: "secret", Reason: "no secret provided"}
	}

	_, err, _ := v.group.Do("handshake", func() (any, error) {
		if v.state.HandshakeValidated() {
			return nil, nil
		}
		if err := v.exchange(ctx); err != nil {
			return nil, err
		}
		v.state.MarkHandshakeValidated()
		return nil, nil
	})
	return err
}

func (v *Validator) exchange(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"password": v.secret})
	if err != nil {
		return fmt.Errorf("encode handshake body: %w", err)
	}
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build handshake request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Endpoint: v.endpoint, Timeout: v.timeout}
		}
		return fmt.Errorf("handshake request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{StatusCode: resp.StatusCode, Message: payload.Message}
	}
	if payload.Success == nil || !*payload.Success {
		return &RejectedError{StatusCode: resp.StatusCode, Message: payload.Message}
	}
	return nil
}
