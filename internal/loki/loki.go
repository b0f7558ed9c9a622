package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/logtap/logtap/internal/ship"
)

// pushTimeout bounds a single push attempt end to end.
const pushTimeout = 2000 * time.Millisecond

type Client struct {
	url        string
	tenantID   string
	authToken  string
	httpClient *http.Client
}

type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type Payload struct {
	Streams []Stream `json:"streams"`
}

func NewClient(url, tenantID, authToken string) *Client {
	return &Client{
		url:       url,
		tenantID:  tenantID,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: pushTimeout,
		},
	}
}

// Send pushes one batch as a single stream. One attempt, no retries: the
// shipper's delivery policy is best-effort and a failed batch is never
// re-buffered.
func (c *Client) Send(ctx context.Context, labels map[string]string, entries []ship.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	body, err := json.Marshal(createPayload(labels, entries))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Scope-OrgID", c.tenantID)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// No response body is consumed, but the connection should be reusable.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

func createPayload(labels map[string]string, entries []ship.Entry) Payload {
	values := make([][2]string, 0, len(entries))
	for _, entry := range entries {
		timestamp := strconv.FormatInt(entry.Timestamp.UnixNano(), 10)
		values = append(values, [2]string{timestamp, entry.Line})
	}

	return Payload{
		Streams: []Stream{
			{
				Stream: labels,
				Values: values,
			},
		},
	}
}
