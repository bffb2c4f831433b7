package matcher

import (
	"testing"
)

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		brand string
		want bool
	}{
		{
			name:  "standalone word",
			text:  "I recommend Zylo for project management.",
			brand: "Zylo",
			want:  true,
		},
		{
			name:  "case insensitive",
			text:  "ZYLO is a solid choice.",
			brand: "Zylo",
			want:  true,
		},
		{
			name:  "substring of longer word",
			text:  "Use a calendar app to stay organized.",
			brand: "Cale",
			want:  false,
		},
		{
			name:  "domain name matched as full domain",
			text:  "Cal.com is a scheduling platform.",
			brand: "Cal.com",
			want:  true,
		},
		{
			name:  "domain base name as standalone word",
			text:  "Cal has a generous free tier.",
			brand: "Cal.com",
			want:  true,
		},
		{
			name:  "domain base must not match inside longer word",
			text:  "Calendly is the most popular scheduling tool.",
			brand: "Cal.com",
			want:  false,
		},
		{
			name:  "camel case brand matched with space",
			text:  "Pay Fast handles card payments well.",
			brand: "PayFast",
			want:  true,
		},
		{
			name:  "camel case brand matched with hyphen",
			text:  "Many stores integrate Pay-Fast at checkout.",
			brand: "PayFast",
			want:  true,
		},
		{
			name:  "spaced brand matched without separator",
			text:  "I switched to PayFast last year.",
			brand: "Pay Fast",
			want:  true,
		},
		{
			name:  "stripped form must respect boundaries",
			text:  "The sprocket assembly failed.",
			brand: "rocket",
			want:  false,
		},
		{
			name:  "brand with apostrophe matched stripped",
			text:  "McDonalds is everywhere.",
			brand: "McDonald's",
			want:  true,
		},
		{
			name:  "brand followed by punctuation",
			text:  "Have you tried Zylo?",
			brand: "Zylo",
			want:  true,
		},
		{
			name:  "empty text",
			text:  "",
			brand: "Zylo",
			want:  false,
		},
		{
			name:  "empty brand",
			text:  "Anything at all.",
			brand: "",
			want:  false,
		},
		{
			name:  "short name inside longer word",
			text:  "The calibration takes a minute.",
			brand: "Cal",
			want:  false,
		},
		{
			name:  "short name standalone",
			text:  "Cal keeps my meetings organized.",
			brand: "Cal",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatch(tt.text, tt.brand); got != tt.want {
				t.Errorf("IsMatch(%q, %q) = %v, want %v", tt.text, tt.brand, got, tt.want)
			}
		})
	}
}

func TestFindPosition(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		brand string
		want  int
	}{
		{
			name:  "at start",
			text:  "Zylo is my top pick.",
			brand: "Zylo",
			want:  0,
		},
		{
			name:  "mid sentence",
			text:  "Try Zylo today.",
			brand: "Zylo",
			want:  4,
		},
		{
			name:  "not present",
			text:  "Nothing relevant here.",
			brand: "Zylo",
			want:  -1,
		},
		{
			name:  "skips embedded occurrence",
			text:  "Calibrate first, then open Cal.",
			brand: "Cal",
			want:  27,
		},
		{
			name:  "domain position",
			text:  "See cal.com for pricing.",
			brand: "Cal.com",
			want:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPosition(tt.text, tt.brand); got != tt.want {
				t.Errorf("FindPosition(%q, %q) = %d, want %d", tt.text, tt.brand, got, tt.want)
			}
		})
	}
}

func TestCountMatches(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		brand string
		want  int
	}{
		{
			name:  "multiple mentions",
			text:  "Zylo is great. Zylo beats most tools, and zylo keeps improving.",
			brand: "Zylo",
			want:  3,
		},
		{
			name:  "embedded occurrences ignored",
			text:  "The calendar and calculator apps both ship with Cal.",
			brand: "Cal",
			want:  1,
		},
		{
			name:  "no mentions",
			text:  "Plenty of alternatives exist.",
			brand: "Zylo",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountMatches(tt.text, tt.brand); got != tt.want {
				t.Errorf("CountMatches(%q, %q) = %d, want %d", tt.text, tt.brand, got, tt.want)
			}
		})
	}
}
