package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/tubegrab/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "tubegrab/1.0"

	// maxBodySize caps how much of a response is read
	maxBodySize = 4 << 20
)

// Client implements domain.DownloadAPI and domain.ServiceStatusAPI over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.RWMutex
	clientID string
}

// NewClient creates a new download service client. clientID is sent as
// X-Client-ID so the service can attribute rate limits to an install.
func NewClient(baseURL, clientID string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SetClientID replaces the install identifier sent with later requests
func (c *Client) SetClientID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientID = id
}

func (c *Client) currentClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// BaseURL returns the service root, used to link the terms and privacy pages
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest sends a JSON request and returns the status code and raw body
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	reqURL := c.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := c.currentClientID(); id != "" {
		req.Header.Set("X-Client-ID", id)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		c.logger.Error("api request failed", "url", reqURL, "error", err)
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// apiError builds the error for a non-2xx reply, keeping the server's text if any
func (c *Client) apiError(status int, body []byte) error {
	apiErr := &domain.APIError{Status: status}
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.RetryAfter = string(payload.RetryAfter)
	}
	c.logger.Error("api request error", "status", status, "message", apiErr.Message)
	return apiErr
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// getJSON runs a request and decodes a 2xx body into out
func (c *Client) getJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	status, body, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return c.apiError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetInfo fetches metadata for a URL
func (c *Client) GetInfo(ctx context.Context, videoURL string) (*domain.VideoInfo, error) {
	var resp InfoResponse
	if err := c.getJSON(ctx, http.MethodPost, "/api/info", infoRequest{URL: videoURL}, &resp); err != nil {
		return nil, err
	}
	return MapVideoInfo(videoURL, &resp), nil
}

// StartDownload asks the service to start a download and returns its id
func (c *Client) StartDownload(ctx context.Context, req domain.DownloadRequest) (string, error) {
	payload := downloadRequest{
		URL:         req.URL,
		Format:      req.Format.String(),
		Quality:     req.Quality,
		AudioFormat: req.AudioFormat,
	}

	var resp downloadResponse
	if err := c.getJSON(ctx, http.MethodPost, "/api/download", payload, &resp); err != nil {
		return "", err
	}
	if resp.DownloadID == "" {
		return "", fmt.Errorf("failed to parse response: missing download_id")
	}

	c.logger.Info("download started", "download_id", resp.DownloadID, "message", resp.Message)
	return resp.DownloadID, nil
}

// GetProgress returns the current status of a download. A body carrying a
// status is used even on a non-2xx reply.
func (c *Client) GetProgress(ctx context.Context, downloadID string) (*domain.Progress, error) {
	path := "/api/progress/" + url.PathEscape(downloadID)
	status, body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp ProgressResponse
	decodeErr := json.Unmarshal(body, &resp)
	if decodeErr == nil && resp.Status != "" {
		return MapProgress(&resp), nil
	}
	if !isSuccess(status) {
		return nil, c.apiError(status, body)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to parse response: %w", decodeErr)
	}
	return MapProgress(&resp), nil
}

// GetStats returns the service's download counters
func (c *Client) GetStats(ctx context.Context) (*domain.Stats, error) {
	var resp StatsResponse
	if err := c.getJSON(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return nil, err
	}
	return MapStats(&resp), nil
}

// GetHealth returns the service's liveness report
func (c *Client) GetHealth(ctx context.Context) (*domain.Health, error) {
	var resp HealthResponse
	if err := c.getJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return MapHealth(&resp), nil
}

var (
	_ domain.DownloadAPI      = (*Client)(nil)
	_ domain.ServiceStatusAPI = (*Client)(nil)
)
