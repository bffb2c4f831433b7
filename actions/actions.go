// Package actions turns a scan verdict into exactly three prioritized
// recommendations. Generation is deterministic: the same status, signals,
// and competitor set always produce the same actions.
package actions

import (
	"fmt"

	"visibility-scan-pipeline/models"
)

// Generate returns exactly three actions for the scan outcome. Each status
// selects a template family; families produce up to three context-filled
// actions and status defaults pad the remainder. IDs and priorities are
// reassigned sequentially at the end, so they are always unique and cover
// 1 through 3.
func Generate(signals []models.Signal, status models.ScanStatus, competitors []models.CompetitorResult, descriptions []string) []models.Action {
	var out []models.Action

	switch status {
	case models.StatusNotMentioned:
		out = notMentionedActions(competitors)
	case models.StatusLowVisibility:
		out = lowVisibilityActions(signals, competitors)
	default:
		out = recommendedActions(signals, descriptions)
	}

	for _, def := range defaultsFor(status) {
		if len(out) >= 3 {
			break
		}
		if !containsTitle(out, def.Title) {
			out = append(out, def)
		}
	}
	out = out[:3]

	for i := range out {
		out[i].ID = fmt.Sprintf("action-%d", i+1)
		out[i].Priority = i + 1
	}
	return out
}

func notMentionedActions(competitors []models.CompetitorResult) []models.Action {
	out := []models.Action{
		{
			Title:    "Publish authoritative category content",
			Why:      "AI sources have no material connecting your brand to its category, so they never surface it.",
			What:     "Create in-depth pages that state plainly what your brand does, which category it belongs to, and who it serves.",
			Category: "content",
		},
	}

	if top := topCompetitor(competitors); top != "" {
		out = append(out, models.Action{
			Title:    fmt.Sprintf("Create a comparison page against %s", top),
			Why:      fmt.Sprintf("AI sources already recommend %s for the same questions; a direct comparison gives them material that includes you.", top),
			What:     fmt.Sprintf("Publish an honest, detailed comparison of your brand and %s covering pricing, features, and ideal use cases.", top),
			Category: "content",
		})
	}

	out = append(out, models.Action{
		Title:    "Get listed in category directories and review sites",
		Why:      "AI answers lean heavily on well-known directories and review aggregators when naming options.",
		What:     "Claim and complete profiles on the major directories and review platforms for your category.",
		Category: "presence",
	})
	return out
}

func lowVisibilityActions(signals []models.Signal, competitors []models.CompetitorResult) []models.Action {
	var out []models.Action

	if top := topCompetitor(competitors); top != "" {
		out = append(out, models.Action{
			Title:    fmt.Sprintf("Close the gap with %s", top),
			Why:      fmt.Sprintf("%s outranks you in AI answers for the questions your customers ask.", top),
			What:     fmt.Sprintf("Study which questions surface %s and publish stronger, more specific content answering those same questions.", top),
			Category: "competitive",
		})
	}

	if byID(signals, "source_consistency").Status == models.SignalError {
		out = append(out, models.Action{
			Title:    "Unify your brand story across the web",
			Why:      "AI sources disagree about your brand, which usually reflects inconsistent information across your online presence.",
			What:     "Align your site, directories, and social profiles on one consistent description, category, and set of claims.",
			Category: "consistency",
		})
	}

	out = append(out, models.Action{
		Title:    "Strengthen your top-three positioning",
		Why:      "Your brand is mentioned but rarely ranked among the leading options, which is where AI answers concentrate attention.",
		What:     "Earn citations in best-of lists and industry roundups that rank vendors, not just mention them.",
		Category: "authority",
	})
	return out
}

func recommendedActions(signals []models.Signal, descriptions []string) []models.Action {
	var out []models.Action

	if byID(signals, "description_accuracy").Status == models.SignalError ||
		byID(signals, "description_accuracy").Status == models.SignalWarning {
		out = append(out, models.Action{
			Title:    "Correct how AI sources describe you",
			Why:      "You are recommended, but the descriptions AI sources attach to your brand are partly wrong.",
			What:     "Publish a clear, canonical company description and press materials so future AI answers describe you accurately.",
			Category: "accuracy",
		})
	}

	out = append(out, models.Action{
		Title:    "Defend your current position",
		Why:      "AI sources already recommend your brand; positions shift as competitors publish new material.",
		What:     "Keep category content fresh and monitor which questions still surface competitors ahead of you.",
		Category: "maintenance",
	})

	if len(descriptions) > 0 {
		out = append(out, models.Action{
			Title:    "Amplify the strengths AI already cites",
			Why:      "AI answers repeat specific strengths about your brand; reinforcing them compounds the advantage.",
			What:     "Build case studies and proof points around the strengths AI sources already mention.",
			Category: "content",
		})
	}
	return out
}

func defaultsFor(status models.ScanStatus) []models.Action {
	switch status {
	case models.StatusNotMentioned:
		return []models.Action{
			{
				Title:    "Publish authoritative category content",
				Why:      "AI sources have no material connecting your brand to its category, so they never surface it.",
				What:     "Create in-depth pages that state plainly what your brand does, which category it belongs to, and who it serves.",
				Category: "content",
			},
			{
				Title:    "Get listed in category directories and review sites",
				Why:      "AI answers lean heavily on well-known directories and review aggregators when naming options.",
				What:     "Claim and complete profiles on the major directories and review platforms for your category.",
				Category: "presence",
			},
			{
				Title:    "Build third-party mentions of your brand",
				Why:      "Brands that appear in independent articles and lists are far more likely to be surfaced by AI.",
				What:     "Pursue guest articles, interviews, and inclusion in industry roundups that name your brand explicitly.",
				Category: "authority",
			},
		}
	case models.StatusLowVisibility:
		return []models.Action{
			{
				Title:    "Strengthen your top-three positioning",
				Why:      "Your brand is mentioned but rarely ranked among the leading options.",
				What:     "Earn citations in best-of lists and industry roundups that rank vendors, not just mention them.",
				Category: "authority",
			},
			{
				Title:    "Expand coverage of buyer questions",
				Why:      "You appear for some questions but not others, leaving visibility gaps competitors fill.",
				What:     "Map the questions your buyers ask and publish content answering each one directly.",
				Category: "content",
			},
			{
				Title:    "Unify your brand story across the web",
				Why:      "Inconsistent descriptions across your online presence dilute how AI sources summarize you.",
				What:     "Align your site, directories, and social profiles on one consistent description and category.",
				Category: "consistency",
			},
		}
	default:
		return []models.Action{
			{
				Title:    "Defend your current position",
				Why:      "AI sources already recommend your brand; positions shift as competitors publish new material.",
				What:     "Keep category content fresh and monitor which questions still surface competitors ahead of you.",
				Category: "maintenance",
			},
			{
				Title:    "Amplify the strengths AI already cites",
				Why:      "AI answers repeat specific strengths about your brand; reinforcing them compounds the advantage.",
				What:     "Build case studies and proof points around the strengths AI sources already mention.",
				Category: "content",
			},
			{
				Title:    "Expand into adjacent questions",
				Why:      "Being recommended in your core category opens the door to adjacent, higher-volume questions.",
				What:     "Identify neighboring categories and use cases and publish content positioning your brand there.",
				Category: "growth",
			},
		}
	}
}

// topCompetitor returns the competitor with the most top-three placements,
// falling back to the most mentioned.
func topCompetitor(competitors []models.CompetitorResult) string {
	best := ""
	bestTop, bestMentions := -1, -1
	for _, c := range competitors {
		if c.TopThreeCount > bestTop || (c.TopThreeCount == bestTop && c.MentionCount > bestMentions) {
			best = c.Name
			bestTop = c.TopThreeCount
			bestMentions = c.MentionCount
		}
	}
	if bestTop <= 0 && bestMentions <= 0 {
		return ""
	}
	return best
}

func byID(signals []models.Signal, id string) models.Signal {
	for _, s := range signals {
		if s.ID == id {
			return s
		}
	}
	return models.Signal{}
}

func containsTitle(actions []models.Action, title string) bool {
	for _, a := range actions {
		if a.Title == title {
			return true
		}
	}
	return false
}
