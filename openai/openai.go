package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"visibility-scan-pipeline/llm"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// answerSystem keeps the provider in its consumer-assistant register: scan
// queries must see the same answers a real user would get.
const answerSystem = `You are a helpful assistant. Answer the user's question the way you would answer any consumer asking for advice or recommendations. Be concrete and name specific companies, products, or services where relevant.`

// extractSystem is used for verification calls, which must return bare JSON.
const extractSystem = `You are a precise information extraction engine. Respond with a single valid JSON object and nothing else. No markdown fences, no commentary.`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client represents an OpenAI API client
type Client struct {
	apiKey      string
	model       string
	client      *http.Client
	callTimeout time.Duration
}

// NewClient creates a new OpenAI client
func NewClient(apiKey, model string, callTimeout time.Duration) *Client {
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		client:      &http.Client{},
		callTimeout: callTimeout,
	}
}

// SourceName identifies this provider in saved analyses
func (c *Client) SourceName() string {
	return "ChatGPT"
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Answer poses a scan query. Answers use a mild temperature so responses
// resemble what real users see.
func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	return llm.Do(ctx, time.Second, func(ctx context.Context) (string, error) {
		return c.complete(ctx, answerSystem, question, 0.7)
	})
}

// Extract runs a verification prompt at temperature zero.
func (c *Client) Extract(ctx context.Context, prompt string) (string, error) {
	return llm.Do(ctx, time.Second, func(ctx context.Context) (string, error) {
		return c.complete(ctx, extractSystem, prompt, 0)
	})
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if !c.Configured() {
		return "", llm.ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	reqBody := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openAIEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return "", &llm.ProviderError{Provider: c.SourceName(), Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: %s", llm.ErrRateLimited, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return "", &llm.ProviderError{Provider: c.SourceName(), StatusCode: resp.StatusCode, Message: string(body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", &llm.ProviderError{Provider: c.SourceName(), Message: "no choices in response"}
	}

	return chatResp.Choices[0].Message.Content, nil
}
