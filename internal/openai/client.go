package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client talks to an OpenAI compatible chat-completions endpoint. OpenRouter
// and OpenAI are both reachable by changing BaseURL.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	referer    string
	appName    string
	httpClient *http.Client
}

type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Referer string
	AppName string
	Timeout time.Duration
}

type ImageURL struct {
	URL string `json:"url"`
}

type ContentItem struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentItem `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrMalformedResponse marks a 200 reply whose envelope could not be decoded.
var ErrMalformedResponse = errors.New("malformed gateway response")

// APIError is returned when the gateway answers with a non-200 status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned non-200 status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, e.Message)
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("vision gateway API key is not set")
	}
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("vision gateway base URL is not set")
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    opts.BaseURL,
		model:      opts.Model,
		referer:    opts.Referer,
		appName:    opts.AppName,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}, nil
}

// DescribeImage sends one user message made of a text prompt and an inline
// image, and returns the raw text of the first choice. An empty string with
// a nil error means the gateway answered without content.
func (c *Client) DescribeImage(ctx context.Context, prompt, imageDataURI string, maxTokens int) (string, TokenUsage, error) {
	req := ChatCompletionRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{
				Role: "user",
				Content: []ContentItem{
					{
						Type: "text",
						Text: prompt,
					},
					{
						Type:     "image_url",
						ImageURL: &ImageURL{URL: imageDataURI},
					},
				},
			},
		},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	}

	result, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", TokenUsage{}, err
	}

	if len(result.Choices) == 0 {
		return "", result.Usage, nil
	}

	return result.Choices[0].Message.Content, result.Usage, nil
}

func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	if c.referer != "" {
		request.Header.Set("HTTP-Referer", c.referer)
	}
	if c.appName != "" {
		request.Header.Set("X-Title", c.appName)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		var errorResponse struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(response.Body).Decode(&errorResponse); err != nil {
			return nil, &APIError{StatusCode: response.StatusCode}
		}
		return nil, &APIError{StatusCode: response.StatusCode, Message: errorResponse.Error.Message}
	}

	var result ChatCompletionResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &result, nil
}
