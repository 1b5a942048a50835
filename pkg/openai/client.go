package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4-turbo-preview"
	defaultTimeout = 60 * time.Second

	chatCompletionsEndpoint = "/chat/completions"
)

// Message is a single chat message sent to the completions endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion call. Zero values fall back to the
// client's defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Usage reports token consumption as returned by the API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the outcome of a completion call. Upstream failures are folded
// into Success=false with a message; this layer never returns an error value,
// callers must branch on the flag.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Config holds OpenAI client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the OpenAI chat completions API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates a new OpenAI client. A missing API key is not an error
// here; it surfaces as a failed Result on the first call.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ChatCompletion sends the messages to the completions endpoint and returns
// the first choice's content.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, opts Options) Result {
	if c.apiKey == "" {
		return Result{Success: false, Error: "OPENAI_API_KEY is not configured"}
	}

	model := opts.Model
	if model == "" {
		model = c.model
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("failed to encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+chatCompletionsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("completion request failed: %v", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("failed to read response: %v", err)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{Success: false, Error: fmt.Sprintf("invalid response from OpenAI: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return Result{Success: false, Error: parsed.Error.Message}
		}
		return Result{Success: false, Error: fmt.Sprintf("completion failed: HTTP %d", resp.StatusCode)}
	}

	if len(parsed.Choices) == 0 {
		return Result{Success: false, Error: "completion returned no choices"}
	}

	return Result{
		Success: true,
		Content: parsed.Choices[0].Message.Content,
		Usage:   parsed.Usage,
	}
}
