// Package scoring converts the analysis set of a scan into the 0-100
// visibility score and its component rates. Scoring is position weighted:
// being ranked first is worth far more than a passing mention.
package scoring

import (
	"math"
	"sort"

	"visibility-scan-pipeline/models"
)

// points assigns the per-analysis score contribution.
func points(a models.MentionAnalysis) int {
	if !a.Mentioned {
		return 0
	}
	if a.ExactPosition != nil {
		switch rank := *a.ExactPosition; {
		case rank == 1:
			return 100
		case rank == 2:
			return 90
		case rank == 3:
			return 80
		case rank <= 5:
			return 60
		case rank <= 10:
			return 40
		default:
			return 30
		}
	}
	// No usable rank. A coarse top-three bucket still counts for a lot.
	if a.Position == models.PositionTopThree {
		return 80
	}
	return 30
}

// Score aggregates all per-query analyses into the scan's VisibilityScore.
// taggedQueries supplies the dimension tag per query text.
func Score(analyses []models.MentionAnalysis, taggedQueries []models.TaggedQuery) models.VisibilityScore {
	score := models.VisibilityScore{
		ByModel: make(map[string]int),
	}
	if len(analyses) == 0 {
		return score
	}

	total := 0
	mentions := 0
	topThree := 0
	rankSum := 0
	rankCount := 0

	providerSums := make(map[string]int)
	providerTotals := make(map[string]int)

	for _, a := range analyses {
		p := points(a)
		total += p
		providerSums[a.Provider] += p
		providerTotals[a.Provider]++

		if a.Mentioned {
			mentions++
			if a.Position == models.PositionTopThree {
				topThree++
			}
			if a.ExactPosition != nil {
				rankSum += *a.ExactPosition
				rankCount++
			}
		}
	}

	n := len(analyses)
	score.Overall = percentage(total, n)
	for provider, sum := range providerSums {
		score.ByModel[provider] = percentage(sum, providerTotals[provider])
	}

	score.Breakdown = models.ScoreBreakdown{
		MentionRate:      float64(mentions) / float64(n),
		TopThreeRate:     float64(topThree) / float64(n),
		ModelConsistency: modelConsistency(analyses),
	}
	if rankCount > 0 {
		score.Breakdown.AvgPosition = math.Round(float64(rankSum)/float64(rankCount)*10) / 10
	}

	score.ByDimension = dimensionScores(analyses, taggedQueries)
	return score
}

// percentage is sum-of-points over a perfect score, as a rounded integer.
func percentage(sum, queries int) int {
	if queries == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(queries*100) * 100))
}

// modelConsistency is the fraction of queries answered by more than one
// provider where all providers agree on mentioned versus not. Queries seen
// by a single provider cannot disagree and are excluded; with no
// multi-provider queries at all the score is 1.
func modelConsistency(analyses []models.MentionAnalysis) float64 {
	verdicts := make(map[string][]bool)
	for _, a := range analyses {
		verdicts[a.Query] = append(verdicts[a.Query], a.Mentioned)
	}

	paired := 0
	agreeing := 0
	for _, v := range verdicts {
		if len(v) < 2 {
			continue
		}
		paired++
		agree := true
		for _, m := range v[1:] {
			if m != v[0] {
				agree = false
				break
			}
		}
		if agree {
			agreeing++
		}
	}
	if paired == 0 {
		return 1
	}
	return float64(agreeing) / float64(paired)
}

// dimensionScores repeats the point formula per query dimension, across all
// providers. Dimensions with no queries are omitted.
func dimensionScores(analyses []models.MentionAnalysis, taggedQueries []models.TaggedQuery) []models.DimensionScore {
	dimOf := make(map[string]models.Dimension, len(taggedQueries))
	queryCount := make(map[models.Dimension]int)
	for _, q := range taggedQueries {
		dimOf[q.Text] = q.Dimension
		queryCount[q.Dimension]++
	}

	sums := make(map[models.Dimension]int)
	counts := make(map[models.Dimension]int)
	for _, a := range analyses {
		dim, ok := dimOf[a.Query]
		if !ok {
			continue
		}
		sums[dim] += points(a)
		counts[dim]++
	}

	var out []models.DimensionScore
	for dim, count := range counts {
		if count == 0 {
			continue
		}
		out = append(out, models.DimensionScore{
			Dimension:  dim,
			Score:      percentage(sums[dim], count),
			QueryCount: queryCount[dim],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dimension < out[j].Dimension })
	return out
}
