package stubllm

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"visibility-scan-pipeline/matcher"
)

// Client is a deterministic, no-network LLM stub intended for CI and local
// end-to-end tests. Answers are keyed off a sha256 of the question so the
// pipeline is stable across runs, and Extract returns schema-valid
// verification JSON so downstream parsing exercises the full path.
type Client struct {
	// Source overrides the provider label. Defaults to "Stub".
	Source string
	// Brand is woven into generated answers when MentionRate hits.
	Brand string
	// MentionRate is the percentage of questions whose answer mentions
	// Brand. TopRate is the percentage ranked first. Both keyed off the
	// question hash, so identical questions always behave identically.
	MentionRate int
	TopRate     int
	// Answers maps exact question text to a canned answer, bypassing the
	// generated ones.
	Answers map[string]string
	// Err, when set, fails every call with that error.
	Err error
}

func NewClient() *Client { return &Client{} }

func (c *Client) SourceName() string {
	if c.Source != "" {
		return c.Source
	}
	return "Stub"
}

func (c *Client) Configured() bool { return true }

func (c *Client) Answer(_ context.Context, question string) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	if canned, ok := c.Answers[question]; ok {
		return canned, nil
	}

	h := hash(question)
	if c.Brand != "" && int(h%100) < c.MentionRate {
		if int(h%100) < c.TopRate {
			return fmt.Sprintf("Here are the top options:\n1. %s\n2. Northwind\n3. Contoso\n\n%s is widely recommended for its reliability and support.", c.Brand, c.Brand), nil
		}
		return fmt.Sprintf("Popular choices include Northwind, Contoso, Fabrikam, and %s. Each has its strengths depending on your needs.", c.Brand), nil
	}
	return "Popular choices include Northwind, Contoso, and Fabrikam. Each has its strengths depending on your needs.", nil
}

// Extract reads the brand and response text back out of the verification
// prompt and answers with JSON consistent with what the response contains.
func (c *Client) Extract(_ context.Context, prompt string) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}

	brand := between(prompt, `Brand: "`, `"`)
	response := between(prompt, `"""`+"\n", "\n"+`"""`)

	mentioned := brand != "" && matcher.IsMatch(response, brand)
	position := "not_found"
	description := ""
	if mentioned {
		position = "mentioned"
		if off := matcher.FindPosition(response, brand); off >= 0 && off < 150 {
			position = "top_3"
		}
		description = fmt.Sprintf("%s appears in the response as one of the named options.", brand)
	}
	sentiment := "neutral"
	if mentioned && strings.Contains(strings.ToLower(response), "recommend") {
		sentiment = "recommended"
	}

	out := map[string]any{
		"mentioned":             mentioned,
		"position":              position,
		"sentiment":             sentiment,
		"description":           description,
		"competitors_mentioned": namesIn(response, []string{"Northwind", "Contoso", "Fabrikam"}),
		"competitors_top_three": []string{},
		"other_brands":          []string{},
		"response_type":         "list",
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func hash(s string) uint64 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return ""
	}
	return rest[:j]
}

func namesIn(text string, names []string) []string {
	found := []string{}
	for _, n := range names {
		if matcher.IsMatch(text, n) {
			found = append(found, n)
		}
	}
	return found
}
