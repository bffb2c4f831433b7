package parser

import (
	"testing"
)

func TestParseVerification(t *testing.T) {
	three := 3
	tests := []struct {
		name     string
		response string
		wantErr  bool
		expected *Verification
	}{
		{
			name: "valid JSON response",
			response: `{
				"mentioned": true,
				"position": "top_3",
				"exact_position": 3,
				"sentiment": "recommended",
				"description": "A modern project management platform.",
				"competitors_mentioned": ["Asana", "Trello"],
				"competitors_top_three": ["Asana"],
				"other_brands": ["Notion"],
				"response_type": "list"
			}`,
			wantErr: false,
			expected: &Verification{
				Mentioned:            true,
				Position:             "top_3",
				ExactPosition:        &three,
				Sentiment:            "recommended",
				Description:          "A modern project management platform.",
				CompetitorsMentioned: []string{"Asana", "Trello"},
				CompetitorsTopThree:  []string{"Asana"},
				OtherBrands:          []string{"Notion"},
				ResponseType:         "list",
			},
		},
		{
			name: "markdown wrapped JSON",
			response: "Here is the verdict:\n\n```json\n" + `{
				"mentioned": false,
				"position": "not_found",
				"sentiment": null,
				"response_type": "direct_answer"
			}` + "\n```\n",
			wantErr: false,
			expected: &Verification{
				Mentioned:    false,
				Position:     "not_found",
				ResponseType: "direct_answer",
			},
		},
		{
			name: "missing position derived from mentioned",
			response: `{
				"mentioned": true,
				"sentiment": "neutral"
			}`,
			wantErr: false,
			expected: &Verification{
				Mentioned: true,
				Position:  "mentioned",
				Sentiment: "neutral",
			},
		},
		{
			name: "unknown sentiment degrades to neutral",
			response: `{
				"mentioned": true,
				"position": "mentioned",
				"sentiment": "enthusiastic"
			}`,
			wantErr: false,
			expected: &Verification{
				Mentioned: true,
				Position:  "mentioned",
				Sentiment: "neutral",
			},
		},
		{
			name: "exact position forces top_3 bucket",
			response: `{
				"mentioned": true,
				"position": "mentioned",
				"exact_position": 3
			}`,
			wantErr: false,
			expected: &Verification{
				Mentioned:     true,
				Position:      "top_3",
				ExactPosition: &three,
			},
		},
		{
			name: "not mentioned clears exact position",
			response: `{
				"mentioned": false,
				"position": "not_found",
				"exact_position": 2
			}`,
			wantErr: false,
			expected: &Verification{
				Mentioned: false,
				Position:  "not_found",
			},
		},
		{
			name: "not mentioned forces not_found over claimed rank",
			response: `{
				"mentioned": false,
				"position": "top_3",
				"exact_position": 2
			}`,
			wantErr: false,
			expected: &Verification{
				Mentioned: false,
				Position:  "not_found",
			},
		},
		{
			name:     "invalid JSON",
			response: `{"mentioned": tru`,
			wantErr:  true,
		},
		{
			name: "invalid position value",
			response: `{
				"mentioned": true,
				"position": "somewhere"
			}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseVerification(tt.response)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseVerification() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseVerification() unexpected error: %v", err)
				return
			}

			if result.Mentioned != tt.expected.Mentioned {
				t.Errorf("mentioned = %v, want %v", result.Mentioned, tt.expected.Mentioned)
			}
			if result.Position != tt.expected.Position {
				t.Errorf("position = %v, want %v", result.Position, tt.expected.Position)
			}
			if (result.ExactPosition == nil) != (tt.expected.ExactPosition == nil) {
				t.Errorf("exact_position = %v, want %v", result.ExactPosition, tt.expected.ExactPosition)
			} else if result.ExactPosition != nil && *result.ExactPosition != *tt.expected.ExactPosition {
				t.Errorf("exact_position = %d, want %d", *result.ExactPosition, *tt.expected.ExactPosition)
			}
			if result.Sentiment != tt.expected.Sentiment {
				t.Errorf("sentiment = %v, want %v", result.Sentiment, tt.expected.Sentiment)
			}
			if result.Description != tt.expected.Description {
				t.Errorf("description = %v, want %v", result.Description, tt.expected.Description)
			}
			if len(result.CompetitorsMentioned) != len(tt.expected.CompetitorsMentioned) {
				t.Errorf("competitors_mentioned = %v, want %v", result.CompetitorsMentioned, tt.expected.CompetitorsMentioned)
			}
			if result.ResponseType != tt.expected.ResponseType {
				t.Errorf("response_type = %v, want %v", result.ResponseType, tt.expected.ResponseType)
			}
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bold brand name",
			in:   "I recommend **Zylo** for small teams.",
			want: "I recommend Zylo for small teams.",
		},
		{
			name: "numbered list",
			in:   "1. Zylo\n2. Asana\n3. Trello",
			want: "Zylo\nAsana\nTrello",
		},
		{
			name: "link keeps anchor text",
			in:   "Check out [Zylo](https://zylo.example) today.",
			want: "Check out Zylo today.",
		},
		{
			name: "header and blockquote",
			in:   "## Top picks\n> Zylo leads the pack.",
			want: "Top picks\nZylo leads the pack.",
		},
		{
			name: "inline code",
			in:   "Install with `zylo init`.",
			want: "Install with zylo init.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdown(tt.in); got != tt.want {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
