package apiclient

import (
	"context"

	"github.com/marmos91/helocheck/pkg/scan"
)

// Health is the payload of the health endpoints.
type Health struct {
	Service string `json:"service,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Live checks that the server is up.
func (c *Client) Live(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Ready checks that the device under test answers its health check.
func (c *Client) Ready(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/health/ready", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Progress returns the progress of the scan in flight, or of the last one.
// It fails with an error satisfying IsNotFound before the first scan.
func (c *Client) Progress(ctx context.Context) (*scan.Progress, error) {
	var p scan.Progress
	if err := c.get(ctx, "/progress", &p); err != nil {
		return nil, err
	}
	return &p, nil
}
