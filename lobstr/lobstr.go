// Package lobstr is a typed client for the Lobstr.io v1 scraping API.
//
// Basic usage:
//
//	client, err := lobstr.New(ctx, lobstr.WithAPIKey(key))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	squidID, err := client.CreateSquid(ctx, lobstr.LinkedInProfileCrawler)
package lobstr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	// DefaultBaseURL is the production Lobstr.io API endpoint.
	DefaultBaseURL = "https://api.lobstr.io/v1"

	// LinkedInProfileCrawler is the vendor's crawler ID for LinkedIn profile scraping.
	LinkedInProfileCrawler = "5c11752d8687df2332c08247c4fb655a"

	// AccountTypeLinkedIn is the account type of LinkedIn sync accounts.
	AccountTypeLinkedIn = "linkedin-sync"
)

// ErrMissingAPIKey is returned by New when no API key was provided.
var ErrMissingAPIKey = errors.New("missing Lobstr API key")

// HTTPError represents a non-2xx API response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Client handles authenticated requests against the Lobstr.io API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// WithAPIKey sets the API key sent as the Authorization token.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithBaseURL overrides the API endpoint. Useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) { c.httpClient = httpClient }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a Lobstr.io API client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	cfg.logger.InfoContext(ctx, "lobstr client created", "base_url", cfg.baseURL)

	return &Client{
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		baseURL:    cfg.baseURL,
		apiKey:     cfg.apiKey,
	}, nil
}

// do executes one API call with retries and decodes the response into out.
// The request is rebuilt on every attempt so POST bodies survive retries.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			var rd io.Reader = http.NoBody
			if data != nil {
				rd = bytes.NewReader(data)
			}
			req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
			if err != nil {
				return nil, fmt.Errorf("request creation failed: %w", err)
			}
			req.Header.Set("Authorization", "Token "+c.apiKey)
			req.Header.Set("Accept", "application/json")
			if data != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
				return nil, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
			}

			return io.ReadAll(resp.Body)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxJitter(250*time.Millisecond),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WarnContext(ctx, "retrying API request",
				"attempt", n+1, "method", method, "url", endpoint, "error", err)
		}),
	)
	if err != nil {
		return err
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
	}
	return nil
}

// isRetryableError returns true for transient errors that should be retried.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false // other 4xx errors are permanent
		}
	}
	// Network errors, timeouts, etc. are retryable
	return true
}
