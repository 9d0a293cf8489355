package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Result carries the backend's relayed status and body
type Result struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Forwarder relays requests verbatim to the backend API. It is a plain
// pass-through: no retries, no response rewriting.
type Forwarder struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewForwarder creates a forwarder for the given backend base URL
func NewForwarder(baseURL string, timeout time.Duration, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Forward sends the request to {base}/{path} with the same method, query
// string and body, and returns the backend's status and body unchanged.
func (f *Forwarder) Forward(ctx context.Context, method, path, rawQuery string, body io.Reader) (*Result, error) {
	url := f.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Error("Proxy request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy response: %w", err)
	}

	f.logger.Info("Proxied request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	return &Result{
		StatusCode:  resp.StatusCode,
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
