// Package coingecko enriches analyses with community sentiment data
// from the CoinGecko API. Most new Solana tokens are not listed there,
// so callers treat this source as best-effort.
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"solana-token-analyst/internal/datasource"
	"solana-token-analyst/internal/observability"
)

// Default configuration values. The free tier allows roughly 10
// requests per minute.
const (
	DefaultBaseURL    = "https://api.coingecko.com/api/v3"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 2 * time.Second
	DefaultMaxDelay   = 15 * time.Second

	DefaultRateLimit = rate.Limit(10.0 / 60.0)
	DefaultRateBurst = 2
)

const sourceLabel = "coingecko"

// Client is a CoinGecko API client.
type Client struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
	now        func() time.Time
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithAPIKey sets a Pro API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRateLimiter replaces the default request limiter.
func WithRateLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new CoinGecko client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		client:     &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(DefaultRateLimit, DefaultRateBurst),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// coinResponse is the subset of /coins/solana/contract/{address} the
// community score needs.
type coinResponse struct {
	SentimentVotesUpPct   *float64 `json:"sentiment_votes_up_percentage"`
	SentimentVotesDownPct *float64 `json:"sentiment_votes_down_percentage"`
	CommunityScore        *float64 `json:"community_score"`
	PublicInterestScore   *float64 `json:"public_interest_score"`
}

// FetchCommunityScore implements datasource.CommunitySource. The score
// starts from the sentiment vote split and is averaged with the 0-10
// community and public interest ratings scaled to 0-100.
func (c *Client) FetchCommunityScore(ctx context.Context, address string) (float64, error) {
	started := c.now()

	var coin coinResponse
	err := c.get(ctx, "/coins/solana/contract/"+url.PathEscape(address), &coin)
	observability.RecordFetch(sourceLabel, c.now().Sub(started).Seconds(), err, errorKind(err))
	if err != nil {
		return 0, err
	}

	score := 50.0
	if coin.SentimentVotesUpPct != nil && coin.SentimentVotesDownPct != nil {
		score = *coin.SentimentVotesUpPct
	}
	if coin.CommunityScore != nil && *coin.CommunityScore > 0 {
		score = (score + *coin.CommunityScore*10) / 2
	}
	if coin.PublicInterestScore != nil && *coin.PublicInterestScore > 0 {
		score = (score + *coin.PublicInterestScore*10) / 2
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

// get performs a GET request with retries and exponential backoff.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-cg-pro-api-key", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return datasource.ErrDataUnavailable
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = datasource.ErrRateLimited
			continue
		case resp.StatusCode != http.StatusOK:
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, datasource.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, datasource.ErrDataUnavailable):
		return "not_found"
	default:
		return "http"
	}
}
