package analyzer

import (
	"context"
	"errors"
	"testing"

	"visibility-scan-pipeline/models"
	"visibility-scan-pipeline/stubllm"
)

type fakeVerifier struct {
	resp string
	err  error
}

func (f *fakeVerifier) Answer(_ context.Context, _ string) (string, error)  { return "", f.err }
func (f *fakeVerifier) Extract(_ context.Context, _ string) (string, error) { return f.resp, f.err }
func (f *fakeVerifier) SourceName() string                                  { return "Fake" }
func (f *fakeVerifier) Configured() bool                                    { return true }

func TestAnalyzeHeuristicOnly(t *testing.T) {
	a := New(nil)

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?",
		"For project management software I would start with Zylo, then look at Asana.",
		"Zylo", []string{"Asana", "Trello"})

	if !result.Mentioned {
		t.Fatal("expected a mention")
	}
	if result.Position != models.PositionTopThree {
		t.Errorf("position = %q, want top_3", result.Position)
	}
	if result.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", result.Confidence)
	}
	if len(result.CompetitorsMentioned) != 1 || result.CompetitorsMentioned[0] != "Asana" {
		t.Errorf("competitors = %v, want [Asana]", result.CompetitorsMentioned)
	}
}

func TestAnalyzeHeuristicLateMention(t *testing.T) {
	a := New(nil)
	long := "There are a number of strong project management options on the market today, " +
		"and the right one depends heavily on team size, budget, and workflow style. " +
		"After those considerations, Zylo is also worth a look."

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?", long, "Zylo", nil)

	if !result.Mentioned {
		t.Fatal("expected a mention")
	}
	if result.Position != models.PositionMentioned {
		t.Errorf("position = %q, want mentioned", result.Position)
	}
}

func TestAnalyzeBrandOnlyInLinkURL(t *testing.T) {
	// The brand name appears only inside a markdown link URL, which the
	// stripped text loses entirely. Detection must still fire off the raw
	// answer.
	a := New(nil)

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best scheduling tool?",
		"For scheduling, try [this tool](https://cal.com/signup) and compare a few alternatives before committing.",
		"Cal.com", nil)

	if !result.Mentioned {
		t.Fatal("brand inside a link URL must count as a mention")
	}
	if result.Position != models.PositionMentioned {
		t.Errorf("position = %q, want mentioned", result.Position)
	}
	if result.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", result.Confidence)
	}
}

func TestAnalyzeDeflectionShortCircuit(t *testing.T) {
	// The verifier errors on every call, so a 0.95 confidence proves the
	// deflection path never reached it.
	a := New(&fakeVerifier{err: errors.New("should not be called")})

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?",
		"As an AI, I don't have access to real-time information about vendors.",
		"Zylo", nil)

	if result.Mentioned {
		t.Fatal("expected no mention")
	}
	if !result.Quality.IsDeflection {
		t.Error("expected deflection flag")
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", result.Confidence)
	}
	if result.ResponseType != models.ResponseDeflection {
		t.Errorf("response type = %q, want deflection", result.ResponseType)
	}
}

func TestAnalyzeVerifiedMention(t *testing.T) {
	a := New(stubllm.NewClient())

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?",
		"Here are the top picks:\n1. Zylo\n2. Northwind\n3. Contoso\n\nZylo is widely recommended for project management software teams.",
		"Zylo", []string{"Northwind"})

	if !result.Mentioned {
		t.Fatal("expected a mention")
	}
	if result.Position != models.PositionTopThree {
		t.Errorf("position = %q, want top_3", result.Position)
	}
	if result.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", result.Confidence)
	}
	if result.Sentiment != models.SentimentRecommended {
		t.Errorf("sentiment = %q, want recommended", result.Sentiment)
	}
}

func TestAnalyzeMatcherOverridesVerifier(t *testing.T) {
	// Verifier denies the mention but the matcher sees the brand.
	a := New(&fakeVerifier{resp: `{"mentioned": false, "position": "not_found"}`})

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?",
		"Zylo leads most project management software comparisons this year.",
		"Zylo", nil)

	if !result.Mentioned {
		t.Fatal("matcher hit must override the verifier")
	}
	if result.Position != models.PositionTopThree {
		t.Errorf("position = %q, want top_3", result.Position)
	}
	if result.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", result.Confidence)
	}
}

func TestAnalyzeUnverifiableClaimRejected(t *testing.T) {
	// Verifier claims a mention with no description to back it.
	a := New(&fakeVerifier{resp: `{"mentioned": true, "position": "mentioned", "description": ""}`})

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?",
		"Asana and Trello dominate the project management software market.",
		"Zylo", []string{"Asana"})

	if result.Mentioned {
		t.Fatal("unbacked claim must be rejected")
	}
	if result.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", result.Confidence)
	}
}

func TestAnalyzeBackedClaimAccepted(t *testing.T) {
	a := New(&fakeVerifier{resp: `{"mentioned": true, "position": "mentioned", "description": "A project management platform for distributed teams."}`})

	result := a.Analyze(context.Background(), "ChatGPT",
		"What is the best project management software?",
		"The platform from the Dutch company Zylow handles project management software needs well. Many teams weigh it against Asana.",
		"Zylo", []string{"Asana"})

	if !result.Mentioned {
		t.Fatal("described claim should be accepted")
	}
	if result.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", result.Confidence)
	}
}

func TestAssessQuality(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		query     string
		wantIssue models.QualityIssue
		wantScore int
	}{
		{
			name:      "clean listed answer",
			answer:    "For project management software:\n1. Zylo\n2. Asana\n3. Trello",
			query:     "best project management software",
			wantIssue: models.IssueNone,
			wantScore: 100,
		},
		{
			name:      "refusal",
			answer:    "I can't help with that request about project management software.",
			query:     "best project management software",
			wantIssue: models.IssueRefusal,
			wantScore: 50,
		},
		{
			name:      "generic advice without names",
			answer:    "It depends on your needs. There are many options available for project management software, so weigh them carefully.",
			query:     "best project management software",
			wantIssue: models.IssueGeneric,
			wantScore: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessQuality(tt.answer, tt.query)
			if got.Issue != tt.wantIssue {
				t.Errorf("issue = %q, want %q", got.Issue, tt.wantIssue)
			}
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
		})
	}
}

func TestCheckDescriptionAccuracy(t *testing.T) {
	a := New(nil)
	ctx := context.Background()
	reference := "Cloud accounting software for small businesses and freelancers in Europe"

	tests := []struct {
		name      string
		candidate string
		want      models.DescriptionAccuracy
	}{
		{"empty candidate", "", models.DescriptionNotMentioned},
		{"accurate", "Cloud accounting software for small businesses and freelancers", models.DescriptionAccurate},
		{"partial", "Zylo makes accounting software aimed at freelancers", models.DescriptionPartial},
		{"inaccurate", "A ride hailing app", models.DescriptionInaccurate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.CheckDescriptionAccuracy(ctx, reference, tt.candidate); got != tt.want {
				t.Errorf("accuracy = %q, want %q", got, tt.want)
			}
		})
	}
}
