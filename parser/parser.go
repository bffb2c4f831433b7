package parser

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Verification is the structured verdict returned by a provider when asked
// to re-read an answer and report whether a brand was mentioned. It is the
// ground truth for nuance (sentiment, rank, description) but not for
// presence; the analyzer reconciles it against the deterministic matcher.
type Verification struct {
	Mentioned            bool     `json:"mentioned"`
	Position             string   `json:"position"`
	ExactPosition        *int     `json:"exact_position"`
	Sentiment            string   `json:"sentiment"`
	Description          string   `json:"description"`
	CompetitorsMentioned []string `json:"competitors_mentioned"`
	CompetitorsTopThree  []string `json:"competitors_top_three"`
	OtherBrands          []string `json:"other_brands"`
	ResponseType         string   `json:"response_type"`
}

// ExtractJSONFromMarkdown extracts JSON from markdown code blocks.
func ExtractJSONFromMarkdown(response string) string {
	startMarker := "```"
	endMarker := "```"

	startIdx := strings.Index(response, startMarker)
	if startIdx == -1 {
		// No code block found, try to find a JSON object directly
		startIdx = strings.Index(response, "{")
		if startIdx == -1 {
			return response
		}
		endIdx := strings.LastIndex(response, "}")
		if endIdx == -1 {
			return response
		}
		return strings.TrimSpace(response[startIdx : endIdx+1])
	}

	endIdx := strings.Index(response[startIdx+len(startMarker):], endMarker)
	if endIdx == -1 {
		return response
	}
	endIdx += startIdx + len(startMarker)

	content := response[startIdx+len(startMarker) : endIdx]

	// Remove the language identifier if present (e.g., "json")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 0 && (strings.TrimSpace(lines[0]) == "json" || strings.TrimSpace(lines[0]) == "") {
		content = strings.Join(lines[1:], "\n")
	}

	return strings.TrimSpace(content)
}

var validPositions = map[string]bool{
	"top_3":     true,
	"mentioned": true,
	"not_found": true,
}

var validSentiments = map[string]bool{
	"":            true,
	"recommended": true,
	"neutral":     true,
	"negative":    true,
}

// ParseVerification parses a provider's verification response. A failure
// here is never fatal; the caller falls back to heuristic analysis.
func ParseVerification(response string) (*Verification, error) {
	cleaned := strings.TrimSpace(response)
	jsonContent := ExtractJSONFromMarkdown(cleaned)

	var result Verification
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return nil, errors.New("failed to parse verification JSON: " + err.Error())
	}

	result.Position = strings.ToLower(strings.TrimSpace(result.Position))
	result.Sentiment = strings.ToLower(strings.TrimSpace(result.Sentiment))
	result.ResponseType = strings.ToLower(strings.TrimSpace(result.ResponseType))

	if result.Position == "" {
		if result.Mentioned {
			result.Position = "mentioned"
		} else {
			result.Position = "not_found"
		}
	}
	if !validPositions[result.Position] {
		return nil, errors.New("invalid position value: " + result.Position)
	}
	if !validSentiments[result.Sentiment] {
		// Unknown sentiment labels degrade to neutral rather than
		// failing the whole verdict.
		result.Sentiment = "neutral"
	}
	if result.ExactPosition != nil && *result.ExactPosition < 1 {
		result.ExactPosition = nil
	}
	// An unmentioned verdict carries no rank, whatever else the model
	// returned alongside it.
	if !result.Mentioned {
		result.ExactPosition = nil
		result.Position = "not_found"
	}
	// Keep exact_position consistent with the position bucket.
	if result.ExactPosition != nil {
		if *result.ExactPosition <= 3 {
			result.Position = "top_3"
		} else if result.Position == "top_3" {
			result.Position = "mentioned"
		}
	}

	return &result, nil
}

var (
	linkRe        = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headerRe      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	listMarkerRe  = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+[.)])\s+`)
	codeFenceRe   = regexp.MustCompile("```[a-zA-Z]*")
	inlineCodeRe  = regexp.MustCompile("`([^`]*)`")
	blockquoteRe  = regexp.MustCompile(`(?m)^>\s?`)
	boldItalicRe  = regexp.MustCompile(`\*{1,3}|_{2,3}`)
	extraSpacesRe = regexp.MustCompile(`[ \t]{2,}`)
)

// StripMarkdown removes markdown formatting so that name matching runs
// against plain prose: "**Zylo**" must match "Zylo", and list markers must
// not end up glued to brand names.
func StripMarkdown(text string) string {
	out := linkRe.ReplaceAllString(text, "$1")
	out = codeFenceRe.ReplaceAllString(out, "")
	out = inlineCodeRe.ReplaceAllString(out, "$1")
	out = headerRe.ReplaceAllString(out, "")
	out = listMarkerRe.ReplaceAllString(out, "")
	out = blockquoteRe.ReplaceAllString(out, "")
	out = boldItalicRe.ReplaceAllString(out, "")
	out = extraSpacesRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
