// Package solr is a minimal client for the Solr JSON update API,
// covering what the export pipeline needs: add documents, delete by
// id, and commit.
package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client talks to one Solr core's update endpoint.
type Client struct {
	baseURL    string
	core       string
	httpClient *http.Client
}

// NewClient creates a Solr client for the given core. baseURL is the
// Solr root, e.g. "http://localhost:8983/solr".
func NewClient(baseURL, core string) *Client {
	return &Client{
		baseURL: baseURL,
		core:    core,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Core returns the core this client writes to.
func (c *Client) Core() string {
	return c.core
}

// Add sends documents to the update endpoint. With commit true the
// documents become visible immediately; batch callers leave it false
// and commit once at the end.
func (c *Client) Add(ctx context.Context, docs []map[string]any, commit bool) error {
	if len(docs) == 0 {
		return nil
	}
	return c.update(ctx, docs, commit)
}

// Delete removes documents by id. Deleting ids that are not in the
// index is not an error.
func (c *Client) Delete(ctx context.Context, ids []string, commit bool) error {
	if len(ids) == 0 {
		return nil
	}
	return c.update(ctx, map[string]any{"delete": ids}, commit)
}

// Commit makes all pending updates visible.
func (c *Client) Commit(ctx context.Context) error {
	return c.update(ctx, map[string]any{"commit": map[string]any{}}, false)
}

func (c *Client) update(ctx context.Context, body any, commit bool) error {
	u, err := url.Parse(fmt.Sprintf("%s/%s/update", c.baseURL, c.core))
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if commit {
		q := u.Query()
		q.Set("commit", "true")
		u.RawQuery = q.Encode()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &UpdateError{Core: c.core, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
