package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"youbuddy/internal/metrics"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// MaxPerCall is the upstream cap for maxResults and for ids per videos.list call.
const MaxPerCall = 50

var (
	// ErrMissingAPIKey is returned when the client has no API key configured.
	ErrMissingAPIKey = errors.New("youtube: API key is not configured")
	// ErrNotFound is returned when a playlist is empty, private or missing.
	ErrNotFound = errors.New("youtube: not found")
	// ErrBatchTooLarge is returned when more than MaxPerCall ids are requested at once.
	ErrBatchTooLarge = errors.New("youtube: too many ids in one batch")
	// ErrUnreachable wraps transport and decode failures talking to the API.
	ErrUnreachable = errors.New("youtube: upstream unreachable")
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration // per outbound call
	QPS     float64       // 0 disables pacing
	Metrics *metrics.Metrics
}

// Client is a minimal YouTube Data API v3 client.
// Docs: https://developers.google.com/youtube/v3/docs
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// NewClient creates a client. An empty BaseURL defaults to the public endpoint.
func NewClient(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  &http.Client{Timeout: timeout},
		metrics: cfg.Metrics,
	}
	if cfg.QPS > 0 {
		burst := int(cfg.QPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.QPS), burst)
	}
	return c
}

// get issues one GET against endpoint and decodes the JSON body into out.
// Non-2xx responses come back as *googleapi.Error wrapped with the endpoint.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("youtube %s: %w", endpoint, err)
		}
	}
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream("youtube", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return fmt.Errorf("youtube %s: %w", endpoint, ctx.Err())
		}
		return fmt.Errorf("youtube %s: %w: %w", endpoint, ErrUnreachable, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream("youtube", endpoint, resp.StatusCode, time.Since(start))

	if err := googleapi.CheckResponse(resp); err != nil {
		slog.Warn("youtube: upstream error", "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("youtube %s: %w", endpoint, err)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("youtube %s: %w: decode: %w", endpoint, ErrUnreachable, err)
	}
	return nil
}

// StatusCode returns the upstream HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	return 0, false
}

// UpstreamMessage returns the upstream error message carried by err, if any.
func UpstreamMessage(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Message != "" {
			return gerr.Message
		}
		return gerr.Body
	}
	return ""
}
