package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solana-token-analyst/internal/domain"
)

// Default client configuration.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "gpt-4o"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 2 * time.Second
	defaultMaxTokens  = 1000
)

// OpenAIClient implements Provider against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// Option configures OpenAIClient.
type Option func(*OpenAIClient)

// WithBaseURL points the client at a different OpenAI-compatible server.
func WithBaseURL(url string) Option {
	return func(c *OpenAIClient) {
		c.baseURL = url
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *OpenAIClient) {
		c.model = model
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *OpenAIClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) Option {
	return func(c *OpenAIClient) {
		c.maxRetries = n
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAIClient) {
		c.client = client
	}
}

// NewOpenAIClient creates a narrative client.
func NewOpenAIClient(apiKey string, opts ...Option) *OpenAIClient {
	c := &OpenAIClient{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      DefaultModel,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate renders the numeric result into a prompt, calls the model in
// JSON mode and decodes the reply. All failure modes wrap
// ErrNarrativeUnavailable.
func (c *OpenAIClient) Generate(ctx context.Context, result *domain.AnalysisResult) (*domain.Narrative, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(result)},
		},
		Temperature: 0.7,
		MaxTokens:   defaultMaxTokens,
	}
	reqBody.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrNarrativeUnavailable, err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrNarrativeUnavailable, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: create request: %v", ErrNarrativeUnavailable, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d: %s", ErrNarrativeUnavailable, resp.StatusCode, string(respBody))
		}

		var chat chatResponse
		if err := json.Unmarshal(respBody, &chat); err != nil {
			return nil, fmt.Errorf("%w: unmarshal response: %v", ErrNarrativeUnavailable, err)
		}
		if chat.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrNarrativeUnavailable, chat.Error.Message)
		}
		if len(chat.Choices) == 0 {
			return nil, fmt.Errorf("%w: empty choices", ErrNarrativeUnavailable)
		}

		return decodeNarrative(chat.Choices[0].Message.Content)
	}

	return nil, fmt.Errorf("%w: max retries exceeded: %v", ErrNarrativeUnavailable, lastErr)
}

// decodeNarrative parses the model's JSON reply. A non-JSON reply is
// degraded to a summary-only narrative rather than failing.
func decodeNarrative(content string) (*domain.Narrative, error) {
	var n domain.Narrative
	if err := json.Unmarshal([]byte(content), &n); err != nil {
		if content == "" {
			return nil, fmt.Errorf("%w: empty completion", ErrNarrativeUnavailable)
		}
		return &domain.Narrative{Summary: content}, nil
	}
	return &n, nil
}
