package seedrapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production Seedr.cc REST endpoint.
const DefaultBaseURL = "https://www.seedr.cc/rest"

// Backoff parameters (spec.md §4.1: base 1s, factor 2, cap 30s).
const (
	baseBackoff    = 1 * time.Second
	maxBackoff     = 30 * time.Second
	backoffFactor  = 2.0
	jitterFraction = 0.25
	userAgent      = "seedr-adapter/0.1"
)

// Retry attempt counts per spec.md §4.1: idempotent list/delete calls default
// to no retry, file downloads get a couple of attempts. Non-idempotent
// mutating calls (AddMagnet, AddTorrentFile) are never retried regardless of
// the value passed in.
const (
	RetriesNone     = 0
	RetriesDownload = 2
)

// Client is an HTTP client for the Seedr.cc REST API. It handles request
// construction, Basic auth, retry with exponential backoff, and error
// classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	email      string
	password   string
	logger     *slog.Logger

	// sleepFunc waits between retries. Tests override it to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Seedr API client authenticating with email/password
// over HTTP Basic auth.
func NewClient(baseURL, email, password string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		email:      email,
		password:   password,
		logger:     logger,
		sleepFunc:  timeSleep,
	}
}

// requestBody carries either a form-encoded or multipart body along with its
// Content-Type, so doRetry can rewind it on retry without the caller
// re-encoding.
type requestBody struct {
	contentType string
	bytes       []byte
}

// do executes an authenticated request with up to maxAttempts retries on
// transient failures (network errors, 429, 5xx). maxAttempts is additional
// attempts beyond the first — 0 means "try once, no retry".
func (c *Client) do(ctx context.Context, method, path string, body *requestBody, maxAttempts int) (*http.Response, error) {
	reqURL := c.baseURL + path

	var attempt int
	for {
		resp, err := c.doOnce(ctx, method, reqURL, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("seedrapi: request canceled: %w", ctx.Err())
			}

			if attempt < maxAttempts {
				backoff := c.calcBackoff(attempt)
				c.logger.Warn("retrying after network error",
					slog.String("method", method), slog.String("path", path),
					slog.Int("attempt", attempt+1), slog.Duration("backoff", backoff),
					slog.String("error", err.Error()))

				if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
					return nil, fmt.Errorf("seedrapi: request canceled: %w", sleepErr)
				}

				attempt++

				continue
			}

			return nil, &APIError{Message: err.Error(), Err: ErrTransport}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
			backoff := c.retryBackoff(resp, attempt)
			c.logger.Warn("retrying after HTTP error",
				slog.String("method", method), slog.String("path", path),
				slog.Int("status", resp.StatusCode), slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff))

			if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
				return nil, fmt.Errorf("seedrapi: request canceled: %w", sleepErr)
			}

			attempt++

			continue
		}

		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(errBody), Err: classifyStatus(resp.StatusCode)}
	}
}

func (c *Client) doOnce(ctx context.Context, method, reqURL string, body *requestBody) (*http.Response, error) {
	var reader io.Reader

	if body != nil {
		reader = bytes.NewReader(body.bytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(c.email, c.password)
	req.Header.Set("User-Agent", userAgent)

	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("HTTP request failed", slog.String("method", method), slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.Debug("HTTP response received",
		slog.String("method", method), slog.Int("status", resp.StatusCode))

	return resp, nil
}

// retryBackoff honors a Retry-After header on 429 responses, falling back to
// calculated backoff otherwise.
func (c *Client) retryBackoff(resp *http.Response, attempt int) time.Duration {
	if resp.StatusCode == 429 {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}

	return c.calcBackoff(attempt)
}

// calcBackoff computes exponential backoff with ±25% jitter, capped at
// maxBackoff.
func (c *Client) calcBackoff(attempt int) time.Duration {
	backoff := float64(baseBackoff) * math.Pow(backoffFactor, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	jitter := backoff * jitterFraction * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto rand
	backoff += jitter

	return time.Duration(backoff)
}

func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// formBody builds a application/x-www-form-urlencoded requestBody.
func formBody(values url.Values) *requestBody {
	return &requestBody{
		contentType: "application/x-www-form-urlencoded",
		bytes:       []byte(values.Encode()),
	}
}
