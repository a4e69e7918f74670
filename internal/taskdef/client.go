package taskdef

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// QueueClient fetches task definitions from the queue service's REST API.
type QueueClient struct {
	rootURL string
	httpc   *http.Client
}

// NewQueueClient creates a client for the queue service at rootURL.
func NewQueueClient(rootURL string) *QueueClient {
	return &QueueClient{
		rootURL: strings.TrimRight(rootURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTask retrieves the definition for taskID. Transport failures and
// non-200 responses (including not-found) surface as errors.
func (c *QueueClient) FetchTask(ctx context.Context, taskID string) (*Definition, error) {
	u := fmt.Sprintf("%s/api/queue/v1/task/%s", c.rootURL, url.PathEscape(taskID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch task %s: %w", taskID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch task %s: queue returned %s", taskID, resp.Status)
	}
	var def Definition
	if err := json.NewDecoder(resp.Body).Decode(&def); err != nil {
		return nil, fmt.Errorf("fetch task %s: decode definition: %w", taskID, err)
	}
	return &def, nil
}
