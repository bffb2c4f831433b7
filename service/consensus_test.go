package service

import (
	"testing"

	"visibility-scan-pipeline/models"
)

func sampleOutcome(status models.ScanStatus) *runOutcome {
	return &runOutcome{
		result: &models.ScanResult{
			Status: status,
			Score: models.VisibilityScore{
				Overall: 64,
				Breakdown: models.ScoreBreakdown{
					MentionRate:      0.75,
					AvgPosition:      2.5,
					TopThreeRate:     0.5,
					ModelConsistency: 1,
				},
				ByModel: map[string]int{"ChatGPT": 70, "Gemini": 58},
				ByDimension: []models.DimensionScore{
					{Dimension: models.DimGeneral, Score: 80, QueryCount: 2},
				},
			},
			Sources: []models.SourceResult{
				{Provider: "ChatGPT", MentionCount: 2, TopThreeCount: 1, TotalQueries: 2, BestDescription: "A platform.", DescriptionAccuracy: models.DescriptionAccurate},
			},
			Signals: []models.Signal{{ID: "brand_recognition", Status: models.SignalSuccess}},
			Actions: []models.Action{{ID: "action-1", Priority: 1, Title: "t", Why: "w", What: "h", Category: "c"}},
			Competitors: []models.CompetitorResult{
				{Name: "Asana", MentionCount: 3, TopThreeCount: 1, VisibilityLevel: "medium"},
			},
			Runs: 1,
		},
		analyses: []models.MentionAnalysis{
			{Provider: "ChatGPT", Query: "q1", Mentioned: true, Position: models.PositionTopThree},
			{Provider: "ChatGPT", Query: "q2", Mentioned: true, Position: models.PositionMentioned},
		},
	}
}

func TestMergeIdenticalRunsIsIdentity(t *testing.T) {
	runs := []*runOutcome{
		sampleOutcome(models.StatusRecommended),
		sampleOutcome(models.StatusRecommended),
		sampleOutcome(models.StatusRecommended),
	}

	merged := mergeRuns(runs)
	want := runs[0].result

	if merged.Status != want.Status {
		t.Errorf("status = %q, want %q", merged.Status, want.Status)
	}
	if merged.Score.Overall != want.Score.Overall {
		t.Errorf("overall = %d, want %d", merged.Score.Overall, want.Score.Overall)
	}
	if merged.Score.Breakdown != want.Score.Breakdown {
		t.Errorf("breakdown = %+v, want %+v", merged.Score.Breakdown, want.Score.Breakdown)
	}
	for provider, score := range want.Score.ByModel {
		if merged.Score.ByModel[provider] != score {
			t.Errorf("%s = %d, want %d", provider, merged.Score.ByModel[provider], score)
		}
	}
	if len(merged.Sources) != 1 || merged.Sources[0] != want.Sources[0] {
		t.Errorf("sources = %+v, want %+v", merged.Sources, want.Sources)
	}
	if len(merged.Competitors) != 1 || merged.Competitors[0] != want.Competitors[0] {
		t.Errorf("competitors = %+v, want %+v", merged.Competitors, want.Competitors)
	}
	if merged.Runs != 3 {
		t.Errorf("runs = %d, want 3", merged.Runs)
	}
}

func TestMergeMajorityStatus(t *testing.T) {
	runs := []*runOutcome{
		sampleOutcome(models.StatusRecommended),
		sampleOutcome(models.StatusRecommended),
		sampleOutcome(models.StatusNotMentioned),
	}
	if got := mergeRuns(runs).Status; got != models.StatusRecommended {
		t.Errorf("status = %q, want recommended", got)
	}
}

func TestMergeTieBreaksToFirstRun(t *testing.T) {
	runs := []*runOutcome{
		sampleOutcome(models.StatusLowVisibility),
		sampleOutcome(models.StatusRecommended),
		sampleOutcome(models.StatusNotMentioned),
	}
	if got := mergeRuns(runs).Status; got != models.StatusLowVisibility {
		t.Errorf("status = %q, want the first run's status on a tie", got)
	}
}

func TestMergeMentionVotes(t *testing.T) {
	flip := sampleOutcome(models.StatusRecommended)
	// One noisy run loses the q2 mention; two of three still see it.
	flip.analyses[1].Mentioned = false

	runs := []*runOutcome{
		sampleOutcome(models.StatusRecommended),
		sampleOutcome(models.StatusRecommended),
		flip,
	}

	merged := mergeRuns(runs)
	if merged.Sources[0].MentionCount != 2 {
		t.Errorf("mention count = %d, want 2 (majority keeps q2)", merged.Sources[0].MentionCount)
	}

	// Now two runs lose it; the vote flips.
	flip2 := sampleOutcome(models.StatusRecommended)
	flip2.analyses[1].Mentioned = false
	runs = []*runOutcome{sampleOutcome(models.StatusRecommended), flip, flip2}

	merged = mergeRuns(runs)
	if merged.Sources[0].MentionCount != 1 {
		t.Errorf("mention count = %d, want 1 (majority drops q2)", merged.Sources[0].MentionCount)
	}
}
