// Package idsource obtains task identifiers from the identifier service and
// falls back to locally generated ones whenever the service cannot answer.
package idsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const Path = "/api/identifier"

var ErrEmptyIdentifier = errors.New("idsource: empty identifier")

// Source never fails: the returned string is always usable as a task id.
type Source interface {
	Acquire(ctx context.Context) string
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context) string

func (f Func) Acquire(ctx context.Context) string { return f(ctx) }

type HTTPSource struct {
	baseURL  string
	client   *http.Client
	timeout  time.Duration
	fallback func() string
	logger   *zap.Logger
}

// NewHTTPSource builds a source against baseURL. An empty baseURL disables
// the network entirely.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPSource{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
		fallback: uuid.NewString,
		logger:   logger,
	}
}

type identifierResponse struct {
	ID    string `json:"id"`
	KSUID string `json:"ksuid"`
}

func (s *HTTPSource) Acquire(ctx context.Context) string {
	if s.baseURL == "" {
		return s.fallback()
	}
	id, err := s.fetch(ctx)
	if err != nil {
		fallback := s.fallback()
		s.logger.Warn("identifier service unavailable, using local id",
			zap.String("url", s.baseURL+Path),
			zap.String("fallback_id", fallback),
			zap.Error(err))
		return fallback
	}
	return id
}

func (s *HTTPSource) fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+Path, nil)
	if err != nil {
		return "", fmt.Errorf("idsource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("idsource: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("idsource: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("idsource: read body: %w", err)
	}
	var payload identifierResponse
	if err := sonic.ConfigStd.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("idsource: decode body: %w", err)
	}
	id := strings.TrimSpace(payload.ID)
	if id == "" {
		id = strings.TrimSpace(payload.KSUID)
	}
	if id == "" {
		return "", ErrEmptyIdentifier
	}
	return id, nil
}
