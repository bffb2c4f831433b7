package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"visibility-scan-pipeline/llm"
	"visibility-scan-pipeline/models"
	"visibility-scan-pipeline/stubllm"
)

func newTestService(brand string, mentionRate, topRate int) *Service {
	chat := &stubllm.Client{Source: "ChatGPT", Brand: brand, MentionRate: mentionRate, TopRate: topRate}
	gem := &stubllm.Client{Source: "Gemini", Brand: brand, MentionRate: mentionRate, TopRate: topRate}
	return New(Options{
		Clients:  []llm.Client{chat, gem},
		Verifier: stubllm.NewClient(),
	})
}

func TestRunScanEmptyBrand(t *testing.T) {
	s := New(Options{})
	_, err := s.RunScan(context.Background(), "scan-1", models.ScanInput{BrandName: "   "}, nil)
	if err != ErrEmptyBrandName {
		t.Fatalf("err = %v, want ErrEmptyBrandName", err)
	}
}

func TestRunScanNeverMentioned(t *testing.T) {
	// Both providers answer with text that never contains the brand.
	s := newTestService("", 0, 0)

	input := models.ScanInput{
		BrandName:  "Zylo",
		Category:   "project management",
		QueryCount: 6,
	}
	result, err := s.RunScan(context.Background(), "scan-a", input, nil)
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}

	if result.Status != models.StatusNotMentioned {
		t.Errorf("status = %q, want not_mentioned", result.Status)
	}
	if result.Score.Overall != 0 {
		t.Errorf("overall = %d, want 0", result.Score.Overall)
	}
	if len(result.Queries) != 6 {
		t.Errorf("got %d queries, want 6", len(result.Queries))
	}
	if len(result.Actions) != 3 {
		t.Fatalf("got %d actions, want 3", len(result.Actions))
	}
	if result.Runs != 1 {
		t.Errorf("runs = %d, want 1", result.Runs)
	}

	// No competitors were supplied, so competitive position degrades to a
	// warning rather than an error.
	found := false
	for _, sig := range result.Signals {
		if sig.ID == "competitive_position" {
			found = true
			if sig.Status != models.SignalWarning {
				t.Errorf("competitive position = %q, want warning", sig.Status)
			}
		}
	}
	if !found {
		t.Error("competitive position signal missing")
	}

	if len(result.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(result.Sources))
	}
	for _, src := range result.Sources {
		if src.MentionCount != 0 || src.TopThreeCount != 0 {
			t.Errorf("source %s has nonzero counts: %+v", src.Provider, src)
		}
		if src.TotalQueries != 6 {
			t.Errorf("source %s total = %d, want 6", src.Provider, src.TotalQueries)
		}
	}
}

func TestRunScanAlwaysTopRanked(t *testing.T) {
	s := newTestService("Zylo", 100, 100)

	input := models.ScanInput{
		BrandName:   "Zylo",
		Category:    "project management software",
		Description: "Project management software for distributed teams.",
		Competitors: []string{"Northwind"},
		QueryCount:  6,
	}
	result, err := s.RunScan(context.Background(), "scan-b", input, nil)
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}

	if result.Status != models.StatusRecommended {
		t.Errorf("status = %q, want recommended", result.Status)
	}
	// Every answer carries a coarse top-three mention worth 80 points.
	if result.Score.Overall != 80 {
		t.Errorf("overall = %d, want 80", result.Score.Overall)
	}
	if result.Score.Breakdown.MentionRate != 1 {
		t.Errorf("mention rate = %v, want 1", result.Score.Breakdown.MentionRate)
	}
	if len(result.Competitors) != 1 || result.Competitors[0].Name != "Northwind" {
		t.Fatalf("competitors = %+v", result.Competitors)
	}
	if result.Competitors[0].MentionCount == 0 {
		t.Error("Northwind appears in every stub answer but was not counted")
	}
	if result.Competitors[0].OutranksUser {
		t.Error("Northwind never reaches the top three, it cannot outrank the brand")
	}
}

func TestRunScanElevatedConsensus(t *testing.T) {
	s := newTestService("Zylo", 100, 100)

	input := models.ScanInput{
		BrandName:  "Zylo",
		Category:   "project management software",
		QueryCount: 18,
	}
	result, err := s.RunScan(context.Background(), "scan-c", input, nil)
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}

	if result.Runs != 3 {
		t.Errorf("runs = %d, want 3", result.Runs)
	}
	if len(result.Queries) != 18 {
		t.Errorf("got %d queries, want 18", len(result.Queries))
	}
	// Deterministic stubs make every run identical, so the consensus must
	// be the single-run outcome unchanged.
	if result.Status != models.StatusRecommended {
		t.Errorf("status = %q, want recommended", result.Status)
	}
	if result.Score.Overall != 80 {
		t.Errorf("overall = %d, want 80", result.Score.Overall)
	}
}

func TestRunScanAborted(t *testing.T) {
	s := newTestService("Zylo", 100, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.RunScan(ctx, "scan-d", models.ScanInput{BrandName: "Zylo", Category: "x", QueryCount: 3}, nil)
	if err == nil {
		t.Fatal("expected an error from an aborted scan")
	}
}

func TestRunScanUnconfiguredProvidersSkipped(t *testing.T) {
	// No clients at all: the scan still completes with an empty result
	// rather than failing.
	s := New(Options{})
	result, err := s.RunScan(context.Background(), "scan-e", models.ScanInput{BrandName: "Zylo", Category: "x", QueryCount: 3}, nil)
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}
	if result.Status != models.StatusNotMentioned {
		t.Errorf("status = %q, want not_mentioned", result.Status)
	}
	if result.Score.Overall != 0 {
		t.Errorf("overall = %d, want 0", result.Score.Overall)
	}
	if len(result.Sources) != 0 {
		t.Errorf("sources = %+v, want none", result.Sources)
	}
}

func TestRunScanDeadProviderExcludedFromScore(t *testing.T) {
	// One provider fails every call while the other ranks the brand in the
	// top three on every query. The dead provider must not drag the overall
	// score down to a blend with zero.
	chat := &stubllm.Client{Source: "ChatGPT", Err: errors.New("connection refused")}
	gem := &stubllm.Client{Source: "Gemini", Brand: "Zylo", MentionRate: 100, TopRate: 100}
	s := New(Options{
		Clients:  []llm.Client{chat, gem},
		Verifier: stubllm.NewClient(),
	})

	input := models.ScanInput{
		BrandName:  "Zylo",
		Category:   "project management software",
		QueryCount: 6,
	}
	result, err := s.RunScan(context.Background(), "scan-f", input, nil)
	if err != nil {
		t.Fatalf("RunScan: %v", err)
	}

	if result.Score.Overall != 80 {
		t.Errorf("overall = %d, want 80 from the responsive provider alone", result.Score.Overall)
	}
	if result.Status != models.StatusRecommended {
		t.Errorf("status = %q, want recommended", result.Status)
	}
	if _, ok := result.Score.ByModel["ChatGPT"]; ok {
		t.Error("dead provider should not appear in per-model scores")
	}

	if len(result.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(result.Sources))
	}
	for _, src := range result.Sources {
		if src.TotalQueries != 6 {
			t.Errorf("source %s total = %d, want 6", src.Provider, src.TotalQueries)
		}
		if src.Provider == "ChatGPT" && src.MentionCount != 0 {
			t.Errorf("dead provider mention count = %d, want 0", src.MentionCount)
		}
		if src.Provider == "Gemini" && src.MentionCount != 6 {
			t.Errorf("live provider mention count = %d, want 6", src.MentionCount)
		}
	}
}

func TestDetermineStatus(t *testing.T) {
	mention := func(sent models.Sentiment, pos models.MentionPosition) models.MentionAnalysis {
		return models.MentionAnalysis{Mentioned: true, Sentiment: sent, Position: pos}
	}

	tests := []struct {
		name     string
		score    models.VisibilityScore
		analyses []models.MentionAnalysis
		want     models.ScanStatus
	}{
		{
			name:     "no mentions",
			score:    models.VisibilityScore{},
			analyses: []models.MentionAnalysis{{}},
			want:     models.StatusNotMentioned,
		},
		{
			name:     "high score",
			score:    models.VisibilityScore{Overall: 72},
			analyses: []models.MentionAnalysis{mention(models.SentimentNeutral, models.PositionTopThree)},
			want:     models.StatusRecommended,
		},
		{
			name: "strong top three with positive sentiment",
			score: models.VisibilityScore{
				Overall:   40,
				Breakdown: models.ScoreBreakdown{TopThreeRate: 0.4},
			},
			analyses: []models.MentionAnalysis{
				mention(models.SentimentRecommended, models.PositionTopThree),
				mention(models.SentimentRecommended, models.PositionTopThree),
				mention(models.SentimentNeutral, models.PositionMentioned),
			},
			want: models.StatusRecommended,
		},
		{
			name:     "weak mentions",
			score:    models.VisibilityScore{Overall: 25},
			analyses: []models.MentionAnalysis{mention(models.SentimentNeutral, models.PositionMentioned)},
			want:     models.StatusLowVisibility,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineStatus(tt.score, tt.analyses); got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeCompetitors(t *testing.T) {
	input := models.ScanInput{
		BrandName:   "Zylo",
		Competitors: []string{"Asana", " asana ", "Zylo", ""},
	}
	enrichment := &models.EnrichedContext{
		DiscoveredCompetitors: []string{"Trello", "ASANA"},
	}

	got := mergeCompetitors(input, enrichment)
	if len(got) != 2 {
		t.Fatalf("got %d competitors, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Asana" || got[0].Discovered {
		t.Errorf("first = %+v, want user-supplied Asana", got[0])
	}
	if got[1].Name != "Trello" || !got[1].Discovered {
		t.Errorf("second = %+v, want discovered Trello", got[1])
	}
}

func TestStartScanLifecycle(t *testing.T) {
	s := newTestService("Zylo", 100, 100)

	id, err := s.StartScan(models.ScanRequest{
		Input: models.ScanInput{BrandName: "Zylo", Category: "project management software", QueryCount: 3},
	})
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}

	state, ok := s.GetScan(id)
	if !ok {
		t.Fatal("scan not registered")
	}
	if state.BrandName != "Zylo" {
		t.Errorf("brand = %q", state.BrandName)
	}

	// The scan runs on its own goroutine; poll until it reaches a
	// terminal phase.
	for i := 0; i < 500; i++ {
		st, _ := s.GetScan(id)
		if st.Phase == models.PhaseComplete || st.Phase == models.PhaseFailed || st.Phase == models.PhaseAborted {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	st, _ := s.GetScan(id)
	if st.Phase != models.PhaseComplete {
		t.Fatalf("phase = %q, error = %q", st.Phase, st.Error)
	}
	if st.Result == nil || st.Result.ScanID != id {
		t.Errorf("result = %+v", st.Result)
	}

	if _, ok := s.GetScan("missing"); ok {
		t.Error("unknown scan id should not be found")
	}
}

func TestGetScanSnapshotServedWhileRunning(t *testing.T) {
	// Status polls serialize the state concurrently with the scan
	// goroutine's phase updates; the snapshot must stay safe to marshal
	// at every point of the scan's lifetime.
	s := newTestService("Zylo", 100, 100)

	id, err := s.StartScan(models.ScanRequest{
		Input: models.ScanInput{BrandName: "Zylo", Category: "project management software", QueryCount: 6},
	})
	if err != nil {
		t.Fatalf("StartScan: %v", err)
	}

	var last ScanState
	for i := 0; i < 500; i++ {
		st, ok := s.GetScan(id)
		if !ok {
			t.Fatal("scan disappeared mid-run")
		}
		if _, err := json.Marshal(st); err != nil {
			t.Fatalf("marshal snapshot: %v", err)
		}
		last = st
		if st.Phase == models.PhaseComplete || st.Phase == models.PhaseFailed || st.Phase == models.PhaseAborted {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	if last.Phase != models.PhaseComplete {
		t.Fatalf("phase = %q, error = %q", last.Phase, last.Error)
	}
}
