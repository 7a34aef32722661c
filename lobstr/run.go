package lobstr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RunStats reports the progress of a run.
type RunStats struct {
	PercentDone float64 `json:"percent_done"`
	IsDone      bool    `json:"is_done"`
}

// Result is a single scraped record. The schema varies by crawler, so
// records stay untyped and are re-encoded verbatim on export.
type Result map[string]any

// AddTasks submits URLs as tasks to a squid and returns the number added.
func (c *Client) AddTasks(ctx context.Context, squidID string, urls []string) (int, error) {
	if len(urls) == 0 {
		return 0, nil
	}

	c.logger.InfoContext(ctx, "adding tasks", "squid", squidID, "count", len(urls))

	tasks := make([]map[string]string, 0, len(urls))
	for _, u := range urls {
		tasks = append(tasks, map[string]string{"url": u})
	}
	payload := map[string]any{"tasks": tasks, "squid": squidID}
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, payload, nil); err != nil {
		return 0, fmt.Errorf("add tasks to squid %s: %w", squidID, err)
	}
	return len(urls), nil
}

// StartRun starts a run for a squid and returns the run ID.
func (c *Client) StartRun(ctx context.Context, squidID string) (string, error) {
	c.logger.InfoContext(ctx, "starting run", "squid", squidID)

	var started struct {
		ID string `json:"id"`
	}
	payload := map[string]string{"squid": squidID}
	if err := c.do(ctx, http.MethodPost, "/runs", nil, payload, &started); err != nil {
		return "", fmt.Errorf("start run for squid %s: %w", squidID, err)
	}
	if started.ID == "" {
		return "", errors.New("start run: response contained no ID")
	}

	c.logger.InfoContext(ctx, "run started", "run", started.ID)
	return started.ID, nil
}

// RunStats returns the current progress of a run.
func (c *Client) RunStats(ctx context.Context, runID string) (*RunStats, error) {
	var stats RunStats
	if err := c.do(ctx, http.MethodGet, "/runs/"+runID+"/stats", nil, nil, &stats); err != nil {
		return nil, fmt.Errorf("stats for run %s: %w", runID, err)
	}
	return &stats, nil
}

// AbortRun aborts a running squid execution.
func (c *Client) AbortRun(ctx context.Context, runID string) error {
	c.logger.InfoContext(ctx, "aborting run", "run", runID)

	if err := c.do(ctx, http.MethodPost, "/runs/"+runID+"/abort", nil, nil, nil); err != nil {
		return fmt.Errorf("abort run %s: %w", runID, err)
	}
	return nil
}

// Results fetches all scraped records for a run.
func (c *Client) Results(ctx context.Context, runID string) ([]Result, error) {
	c.logger.InfoContext(ctx, "fetching results", "run", runID)

	var results []Result
	query := url.Values{"run": {runID}}
	if err := c.do(ctx, http.MethodGet, "/results", query, nil, &results); err != nil {
		return nil, fmt.Errorf("results for run %s: %w", runID, err)
	}

	c.logger.InfoContext(ctx, "fetched results", "run", runID, "count", len(results))
	return results, nil
}

// ExportURL asks the vendor to generate a CSV export for a run and returns
// the S3 URL it will be served from. The file is generated asynchronously,
// so the URL may not be fetchable immediately.
func (c *Client) ExportURL(ctx context.Context, runID string) (string, error) {
	var export struct {
		S3 string `json:"s3"`
	}
	if err := c.do(ctx, http.MethodGet, "/runs/"+runID+"/download", nil, nil, &export); err != nil {
		return "", fmt.Errorf("export URL for run %s: %w", runID, err)
	}
	if export.S3 == "" {
		return "", fmt.Errorf("no S3 URL returned for run %s", runID)
	}
	return export.S3, nil
}

// Download fetches a raw file from a pre-signed URL. No Authorization header
// is sent; S3 rejects requests carrying foreign credentials.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}
	return io.ReadAll(resp.Body)
}
