// Package analytics wraps the PostHog client so callers never have to care
// whether tracking is configured. With no API key every method is a no-op.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// NewClient initializes a PostHog-backed analytics client. An empty API key
// returns a disabled client rather than an error.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Analytics API key is empty, event tracking disabled.")
		return &Client{}
	}
	c := &Client{logger: logger}
	c.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	return c
}

func (c *Client) IsEnabled() bool {
	return c.posthogClient != nil
}

// Enqueue sends one event keyed by the acting user. Failures are swallowed;
// tracking must never affect a billing operation.
func (c *Client) Enqueue(actorID string, event string, properties map[string]any) {
	if c.posthogClient == nil {
		return
	}
	_ = c.posthogClient.Enqueue(posthog.Capture{
		DistinctId: actorID,
		Event:      event,
		Properties: properties,
	})
}

func (c *Client) Close() {
	if c.posthogClient == nil {
		return
	}
	if err := c.posthogClient.Close(); err != nil && c.logger != nil {
		c.logger.Error("Failed to close analytics client", slog.String("error", err.Error()))
	}
}
