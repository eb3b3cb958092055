// Package api is a thin client for the external ParcelPoint REST API.
package api

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
)

const API_KEY_HEADER = "X-API-Key"

type Config struct {
	BaseURL string
	APIKey  string
	Version string
	Timeout time.Duration
}

type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The configured timeout is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Version == "" {
		cfg.Version = "v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the absolute URL for an endpoint path such as "/devices/overview".
func (c *Client) URL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return fmt.Sprintf("%s/api/%s%s", c.config.BaseURL, c.config.Version, endpoint)
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.request(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, data any, out any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.request(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) request(ctx context.Context, method, endpoint string, body []byte, out any) error {
	url := c.URL(endpoint)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(API_KEY_HEADER, c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed", "method", method, "endpoint", endpoint, "error", err)
		return newTransportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API request", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Tolerate bodies that are not JSON, same as an empty object
		var errorData struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		_ = json.Unmarshal(raw, &errorData)

		apiErr := newStatusError(resp.StatusCode, errorData.Error)
		c.logger.Debug("API returned error", "endpoint", endpoint, "status", resp.StatusCode, "kind", apiErr.Kind, "message", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:       KindTransient,
			StatusCode: resp.StatusCode,
			Message:    "API returned a malformed response",
			Err:        err,
		}
	}
	return nil
}
