// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/agentwire/a2a"
	"github.com/agentwire/a2a/internal/pool"
)

// PushSender delivers task snapshots to the webhooks registered for a task.
type PushSender interface {
	// SendTaskUpdate notifies every registered webhook of the task's
	// current state. Delivery failures are logged, not returned: push
	// notification is best effort and never fails the protocol operation
	// that triggered it.
	SendTaskUpdate(ctx context.Context, task *a2a.Task)
}

// HTTPPushSender posts task snapshots over HTTP. When configured with a
// signing key it attaches an HMAC-signed JWT binding the payload to this
// agent, so the receiving webhook can verify both origin and integrity.
type HTTPPushSender struct {
	client     *http.Client
	configs    PushConfigStore
	logger     *slog.Logger
	signingKey []byte
	issuer     string
}

var _ PushSender = (*HTTPPushSender)(nil)

// HTTPPushSenderOption configures an [HTTPPushSender].
type HTTPPushSenderOption func(*HTTPPushSender)

// WithHTTPClient sets the HTTP client used for webhook deliveries.
func WithHTTPClient(client *http.Client) HTTPPushSenderOption {
	return func(s *HTTPPushSender) { s.client = client }
}

// WithSigningKey enables JWT signing of webhook deliveries. The issuer
// names this agent in the token's iss claim.
func WithSigningKey(key []byte, issuer string) HTTPPushSenderOption {
	return func(s *HTTPPushSender) {
		s.signingKey = key
		s.issuer = issuer
	}
}

// WithPushLogger sets the logger for delivery outcomes.
func WithPushLogger(logger *slog.Logger) HTTPPushSenderOption {
	return func(s *HTTPPushSender) { s.logger = logger }
}

// NewHTTPPushSender creates an HTTPPushSender reading webhook registrations
// from the given store.
func NewHTTPPushSender(configs PushConfigStore, opts ...HTTPPushSenderOption) *HTTPPushSender {
	s := &HTTPPushSender{
		client:  &http.Client{Timeout: 30 * time.Second},
		configs: configs,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendTaskUpdate notifies every registered webhook of the task's state.
func (s *HTTPPushSender) SendTaskUpdate(ctx context.Context, task *a2a.Task) {
	if task == nil {
		return
	}
	configs, err := s.configs.List(ctx, task.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "loading push notification configs",
			slog.String("taskId", task.ID),
			slog.String("error", err.Error()))
		return
	}

	var wg sync.WaitGroup
	for _, config := range configs {
		wg.Add(1)
		go func(config *a2a.PushNotificationConfig) {
			defer wg.Done()
			if err := s.deliver(ctx, task, config); err != nil {
				s.logger.WarnContext(ctx, "push notification delivery failed",
					slog.String("taskId", task.ID),
					slog.String("configId", config.ID),
					slog.String("url", config.URL),
					slog.String("error", err.Error()))
				return
			}
			s.logger.DebugContext(ctx, "push notification delivered",
				slog.String("taskId", task.ID),
				slog.String("configId", config.ID))
		}(config)
	}
	wg.Wait()
}

func (s *HTTPPushSender) deliver(ctx context.Context, task *a2a.Task, config *a2a.PushNotificationConfig) error {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)
	if err := json.MarshalWrite(buf, task); err != nil {
		return fmt.Errorf("encoding task: %w", err)
	}
	body := buf.Bytes()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if config.Token != "" {
		req.Header.Set("X-A2A-Notification-Token", config.Token)
	}

	if s.signingKey != nil {
		token, err := s.signPayload(body)
		if err != nil {
			return fmt.Errorf("signing payload: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

// signPayload builds a JWT whose request_body_sha256 claim binds the token
// to the exact bytes being delivered.
func (s *HTTPPushSender) signPayload(body []byte) (string, error) {
	digest := sha256.Sum256(body)

	token, err := jwt.NewBuilder().
		Issuer(s.issuer).
		IssuedAt(time.Now()).
		Claim("request_body_sha256", hex.EncodeToString(digest[:])).
		Build()
	if err != nil {
		return "", err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.signingKey))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}
