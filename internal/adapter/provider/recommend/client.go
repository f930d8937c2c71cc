// Package recommend mirrors cooking events to the recommendation service.
// Everything here is best-effort: failures are logged and never surfaced.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/momsflavor/backend/internal/config"
)

// Client posts interaction events to the recommendation service.
type Client struct {
	serviceURL string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client. An empty service URL disables mirroring entirely.
func New(cfg config.RecommendConfig, logger *slog.Logger) *Client {
	return &Client{
		serviceURL: cfg.ServiceURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "recommend"),
	}
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool { return c.serviceURL != "" }

// Notify posts the event as JSON. A non-2xx response is an error so the
// caller can log it, but callers never propagate it further.
func (c *Client) Notify(ctx context.Context, event any) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("recommend: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("recommend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recommend: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("recommend: unexpected status %d", resp.StatusCode)
	}

	c.log.DebugContext(ctx, "recommend event mirrored", slog.Int("bytes", len(body)))
	return nil
}
