package gemini

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

const answerPreamble = `Answer the question below the way you would for any user asking for advice or recommendations. Be concrete and name specific companies, products, or services where relevant.

`

const extractPreamble = `Respond with a single valid JSON object and nothing else. No markdown fences, no commentary.

`

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMimeType string   `json:"response_mime_type,omitempty"`
}

type geminiRequest struct {
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
	Contents         []content        `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	apiKey      string
	model       string
	http        *http.Client
	callTimeout time.Duration
}

func NewClient(apiKey, model string, callTimeout time.Duration) *Client {
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		http:        &http.Client{},
		callTimeout: callTimeout,
	}
}

func (c *Client) SourceName() string {
	return "Gemini"
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	return llm.Do(ctx, time.Second, func(ctx context.Context) (string, error) {
		reqBody := geminiRequest{
			Contents: []content{
				{Role: "user", Parts: []part{{Text: answerPreamble + question}}},
			},
		}
		return c.generateContent(ctx, reqBody)
	})
}

func (c *Client) Extract(ctx context.Context, prompt string) (string, error) {
	zero := 0.0
	return llm.Do(ctx, time.Second, func(ctx context.Context) (string, error) {
		reqBody := geminiRequest{
			GenerationConfig: generationConfig{
				Temperature:      &zero,
				ResponseMimeType: "application/json",
			},
			Contents: []content{
				{Role: "user", Parts: []part{{Text: extractPreamble + prompt}}},
			},
		}
		return c.generateContent(ctx, reqBody)
	})
}

func (c *Client) generateContent(ctx context.Context, body geminiRequest) (string, error) {
	if !c.Configured() {
		return "", llm.ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	// try v1beta first, then v1
	endpoints := []string{
		fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", c.model, c.apiKey),
		fmt.Sprintf("https://generativelanguage.googleapis.com/v1/models/%s:generateContent?key=%s", c.model, c.apiKey),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for _, ep := range endpoints {
		req, err := http.NewRequestWithContext(ctx, "POST", ep, bytes.NewBuffer(data))
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %v", llm.ErrTimeout, err)
			}
			lastErr = &llm.ProviderError{Provider: c.SourceName(), Message: err.Error()}
			continue
		}
		bodyBytes, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", llm.ErrRateLimited, string(bodyBytes))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = &llm.ProviderError{Provider: c.SourceName(), StatusCode: resp.StatusCode, Message: string(bodyBytes)}
			// retry next endpoint if available
			continue
		}
		var gr geminiResponse
		if err := json.Unmarshal(bodyBytes, &gr); err != nil {
			lastErr = fmt.Errorf("failed to parse response: %w", err)
			continue
		}
		if len(gr.Candidates) == 0 {
			lastErr = &llm.ProviderError{Provider: c.SourceName(), Message: "no candidates in response"}
			continue
		}
		// find first text part
		for _, p := range gr.Candidates[0].Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
		lastErr = &llm.ProviderError{Provider: c.SourceName(), Message: "no text part in response"}
	}
	return "", lastErr
}
