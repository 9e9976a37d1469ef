package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/ratelimit"
)

// Job boards serve different markup to obvious bots.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client is the HTTP plumbing shared by all sources: per-host pacing,
// browser-like headers, and status checking. Pacing between successive calls
// is the source layer's responsibility, not the orchestrator's.
type Client struct {
	hc        *http.Client
	limiter   *ratelimit.HostLimiter
	userAgent string
}

// NewClient wraps an http.Client with the shared host limiter.
func NewClient(hc *http.Client, limiter *ratelimit.HostLimiter) *Client {
	return &Client{
		hc:        hc,
		limiter:   limiter,
		userAgent: defaultUserAgent,
	}
}

// get performs a paced GET and returns the response, translating non-success
// statuses into *model.HTTPError. Callers own closing the body on success.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		resp.Body.Close()
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter,
			Err:        fmt.Errorf("get %s", url),
		}
	}
	return resp, nil
}

// Document fetches url and parses the body as HTML.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", url, err)
	}
	return doc, nil
}

// JSON fetches url and decodes the body into v.
func (c *Client) JSON(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode json from %s: %w", url, err)
	}
	return nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
