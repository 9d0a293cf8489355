package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// Client calls the analysis backend's document upload endpoint and
// normalizes its response. Any failure along the way degrades to the
// fixed mock result -- claim submission must never be blocked by an
// unreachable backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an analysis client for the given backend base URL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Analyze uploads a document for analysis and returns the normalized
// result. It never returns an error: failures yield the mock fallback
// with Source set to "fallback".
func (c *Client) Analyze(ctx context.Context, filename string, content []byte, claimType string) *models.AnalysisResult {
	resp, err := c.upload(ctx, filename, content, claimType)
	if err != nil {
		c.logger.Warn("Analysis backend unavailable, using mock result",
			zap.String("filename", filename),
			zap.Error(err))
		return MockResult()
	}

	result := Normalize(resp)
	c.logger.Info("Document analyzed",
		zap.String("filename", filename),
		zap.String("status", result.Status),
		zap.Float64("confidence", result.Confidence))
	return result
}

// upload performs the multipart POST to the backend
func (c *Client) upload(ctx context.Context, filename string, content []byte, claimType string) (*models.BackendAnalysisResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.WriteField("claim_type", claimType); err != nil {
		return nil, fmt.Errorf("failed to write claim_type field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := c.baseURL + "/api/claims/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("backend returned status %d", httpResp.StatusCode)
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp models.BackendAnalysisResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &resp, nil
}
