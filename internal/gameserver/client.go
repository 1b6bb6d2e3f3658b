package gameserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/reelflow/internal/domain"
)

// HTTPClient talks to a remote game server with one JSON POST per round path.
// Round requests are not idempotent, so nothing is retried.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
	log     *slog.Logger
}

// NewHTTPClient creates a client. A zero timeout uses DefaultClientTimeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		APIKey:  apiKey,
		log:     log,
	}
}

// Request posts body to BaseURL/path. Non-2xx answers carrying an error body
// come back as *domain.APIError; everything else wraps domain.ErrServerUnavailable.
func (c *HTTPClient) Request(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s", c.BaseURL, strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	if c.APIKey != "" {
		req.Header.Set(HeaderAPIKey, c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		c.log.Warn(LogMsgRequestFailed, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrServerUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return json.RawMessage(data), nil
	}

	var apiErr domain.APIError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.Status = resp.StatusCode
		return nil, &apiErr
	}
	c.log.Warn(LogMsgUnexpectedReply, "path", path, "status", resp.StatusCode)
	return nil, fmt.Errorf("%w: status %d", domain.ErrServerUnavailable, resp.StatusCode)
}
