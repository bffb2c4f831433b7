package actions

import (
	"strings"
	"testing"

	"visibility-scan-pipeline/models"
)

func assertShape(t *testing.T, got []models.Action) {
	t.Helper()
	if len(got) != 3 {
		t.Fatalf("got %d actions, want 3", len(got))
	}
	ids := make(map[string]bool)
	priorities := make(map[int]bool)
	for _, a := range got {
		if ids[a.ID] {
			t.Errorf("duplicate id %q", a.ID)
		}
		ids[a.ID] = true
		priorities[a.Priority] = true
		if a.Title == "" || a.Why == "" || a.What == "" || a.Category == "" {
			t.Errorf("incomplete action: %+v", a)
		}
	}
	for p := 1; p <= 3; p++ {
		if !priorities[p] {
			t.Errorf("priority %d missing", p)
		}
	}
}

func TestGenerateShapeForEveryStatus(t *testing.T) {
	for _, status := range []models.ScanStatus{
		models.StatusNotMentioned,
		models.StatusLowVisibility,
		models.StatusRecommended,
	} {
		t.Run(string(status), func(t *testing.T) {
			assertShape(t, Generate(nil, status, nil, nil))
		})
	}
}

func TestGenerateNamesTopCompetitor(t *testing.T) {
	competitors := []models.CompetitorResult{
		{Name: "Asana", MentionCount: 8, TopThreeCount: 5},
		{Name: "Trello", MentionCount: 9, TopThreeCount: 2},
	}

	got := Generate(nil, models.StatusNotMentioned, competitors, nil)
	assertShape(t, got)

	found := false
	for _, a := range got {
		if strings.Contains(a.Title, "Asana") {
			found = true
		}
		if strings.Contains(a.Title, "Trello") {
			t.Errorf("weaker competitor named: %q", a.Title)
		}
	}
	if !found {
		t.Error("top competitor Asana not named in any action")
	}
}

func TestGenerateLowVisibilityConsistency(t *testing.T) {
	signals := []models.Signal{
		{ID: "source_consistency", Status: models.SignalError},
	}
	got := Generate(signals, models.StatusLowVisibility, nil, nil)
	assertShape(t, got)

	found := false
	for _, a := range got {
		if a.Category == "consistency" {
			found = true
		}
	}
	if !found {
		t.Error("inconsistent sources should produce a consistency action")
	}
}

func TestGenerateRecommendedAccuracyFix(t *testing.T) {
	signals := []models.Signal{
		{ID: "description_accuracy", Status: models.SignalWarning},
	}
	got := Generate(signals, models.StatusRecommended, nil, []string{"A project management platform."})
	assertShape(t, got)

	if got[0].Category != "accuracy" {
		t.Errorf("first action category = %q, want accuracy", got[0].Category)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	competitors := []models.CompetitorResult{{Name: "Asana", MentionCount: 3, TopThreeCount: 1}}
	a := Generate(nil, models.StatusLowVisibility, competitors, nil)
	b := Generate(nil, models.StatusLowVisibility, competitors, nil)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("action %d differs between runs", i)
		}
	}
}
