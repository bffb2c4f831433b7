package service

import (
	"math"
	"sort"

	"visibility-scan-pipeline/models"
)

// consensusRuns is how many full pipeline passes an elevated-tier scan runs.
const consensusRuns = 3

// mergeRuns reduces three pipeline outcomes to one result. Numeric fields
// are averaged and rounded, the overall status is a majority vote that
// defaults to the first run on a tie, and per-query mention flags take a
// two-of-three vote. Competitor and dimension lists are unioned with their
// counts averaged. Merging identical runs returns that run unchanged.
func mergeRuns(outcomes []*runOutcome) *models.ScanResult {
	if len(outcomes) == 0 {
		return &models.ScanResult{}
	}
	if len(outcomes) == 1 {
		out := outcomes[0].result
		out.Runs = 1
		return out
	}

	status := majorityStatus(outcomes)
	lead := leadRun(outcomes, status)

	merged := &models.ScanResult{
		Status:       status,
		Score:        mergeScores(outcomes),
		Sources:      mergeSources(outcomes),
		Signals:      lead.result.Signals,
		Actions:      lead.result.Actions,
		Competitors:  mergeCompetitorResults(outcomes),
		RawResponses: lead.result.RawResponses,
		Runs:         len(outcomes),
	}
	return merged
}

// majorityStatus votes across runs, breaking ties in favor of the first run.
func majorityStatus(outcomes []*runOutcome) models.ScanStatus {
	counts := make(map[models.ScanStatus]int)
	for _, o := range outcomes {
		counts[o.result.Status]++
	}
	best := outcomes[0].result.Status
	for status, n := range counts {
		if n > counts[best] {
			best = status
		}
	}
	return best
}

// leadRun is the first run that produced the winning status; its signals,
// actions, and raw responses represent the consensus outcome.
func leadRun(outcomes []*runOutcome, status models.ScanStatus) *runOutcome {
	for _, o := range outcomes {
		if o.result.Status == status {
			return o
		}
	}
	return outcomes[0]
}

func mergeScores(outcomes []*runOutcome) models.VisibilityScore {
	n := float64(len(outcomes))

	merged := models.VisibilityScore{ByModel: make(map[string]int)}

	overall := 0.0
	var breakdown models.ScoreBreakdown
	modelSums := make(map[string]int)
	modelCounts := make(map[string]int)
	dimSums := make(map[models.Dimension]int)
	dimCounts := make(map[models.Dimension]int)
	dimQueries := make(map[models.Dimension]int)

	for _, o := range outcomes {
		s := o.result.Score
		overall += float64(s.Overall)
		breakdown.MentionRate += s.Breakdown.MentionRate
		breakdown.AvgPosition += s.Breakdown.AvgPosition
		breakdown.TopThreeRate += s.Breakdown.TopThreeRate
		breakdown.ModelConsistency += s.Breakdown.ModelConsistency
		for provider, score := range s.ByModel {
			modelSums[provider] += score
			modelCounts[provider]++
		}
		for _, d := range s.ByDimension {
			dimSums[d.Dimension] += d.Score
			dimCounts[d.Dimension]++
			if d.QueryCount > dimQueries[d.Dimension] {
				dimQueries[d.Dimension] = d.QueryCount
			}
		}
	}

	merged.Overall = int(math.Round(overall / n))
	merged.Breakdown = models.ScoreBreakdown{
		MentionRate:      breakdown.MentionRate / n,
		AvgPosition:      math.Round(breakdown.AvgPosition/n*10) / 10,
		TopThreeRate:     breakdown.TopThreeRate / n,
		ModelConsistency: breakdown.ModelConsistency / n,
	}
	for provider, sum := range modelSums {
		merged.ByModel[provider] = int(math.Round(float64(sum) / float64(modelCounts[provider])))
	}

	var dims []models.Dimension
	for dim := range dimSums {
		dims = append(dims, dim)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	for _, dim := range dims {
		merged.ByDimension = append(merged.ByDimension, models.DimensionScore{
			Dimension:  dim,
			Score:      int(math.Round(float64(dimSums[dim]) / float64(dimCounts[dim]))),
			QueryCount: dimQueries[dim],
		})
	}
	return merged
}

// mergeSources rebuilds the per-provider roll-up from majority-voted
// per-query mention flags, so one noisy run cannot flip a source's counts.
func mergeSources(outcomes []*runOutcome) []models.SourceResult {
	type key struct{ provider, query string }

	votes := make(map[key]int)
	topVotes := make(map[key]int)
	runsSeen := make(map[key]int)
	order := []key{}

	for _, o := range outcomes {
		for _, a := range o.analyses {
			k := key{a.Provider, a.Query}
			if runsSeen[k] == 0 {
				order = append(order, k)
			}
			runsSeen[k]++
			if a.Mentioned {
				votes[k]++
				if a.Position == models.PositionTopThree {
					topVotes[k]++
				}
			}
		}
	}

	majority := len(outcomes)/2 + 1

	byProvider := make(map[string]*models.SourceResult)
	var providers []string
	for _, k := range order {
		sr := byProvider[k.provider]
		if sr == nil {
			sr = &models.SourceResult{Provider: k.provider}
			byProvider[k.provider] = sr
			providers = append(providers, k.provider)
		}
		sr.TotalQueries++
		if votes[k] >= majority {
			sr.MentionCount++
		}
		if topVotes[k] >= majority {
			sr.TopThreeCount++
		}
	}

	// Description detail comes from the first run that produced it.
	for _, first := range outcomes[0].result.Sources {
		if sr, ok := byProvider[first.Provider]; ok {
			sr.BestDescription = first.BestDescription
			sr.DescriptionAccuracy = first.DescriptionAccuracy
		}
	}

	out := make([]models.SourceResult, 0, len(providers))
	for _, p := range providers {
		out = append(out, *byProvider[p])
	}
	return out
}

// mergeCompetitorResults unions competitors across runs and averages their
// counts.
func mergeCompetitorResults(outcomes []*runOutcome) []models.CompetitorResult {
	type agg struct {
		mention, top, seen int
		result             models.CompetitorResult
	}

	byName := make(map[string]*agg)
	var names []string
	for _, o := range outcomes {
		for _, c := range o.result.Competitors {
			a := byName[c.Name]
			if a == nil {
				a = &agg{result: c}
				byName[c.Name] = a
				names = append(names, c.Name)
			}
			a.mention += c.MentionCount
			a.top += c.TopThreeCount
			a.seen++
		}
	}
	if len(names) == 0 {
		return nil
	}

	out := make([]models.CompetitorResult, 0, len(names))
	for _, name := range names {
		a := byName[name]
		r := a.result
		r.MentionCount = int(math.Round(float64(a.mention) / float64(a.seen)))
		r.TopThreeCount = int(math.Round(float64(a.top) / float64(a.seen)))
		out = append(out, r)
	}
	return out
}
