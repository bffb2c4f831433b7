// Package signals reduces the per-query analysis set into a fixed slate of
// human-readable visibility findings. Detection is a pure function of
// aggregated counts, so identical inputs always produce identical signals.
package signals

import (
	"fmt"
	"sort"
	"strings"

	"visibility-scan-pipeline/models"
)

// Detect returns the signal slate for one scan: seven signals, or six when
// no provider produced a brand description to judge (accuracy is
// DescriptionNotMentioned and no analysis carries a description).
func Detect(analyses []models.MentionAnalysis, competitors []models.CompetitorResult, brandName, userDescription string, accuracy models.DescriptionAccuracy) []models.Signal {
	agg := aggregate(analyses)

	out := []models.Signal{
		categoryAssociation(agg, brandName),
		competitivePosition(agg, competitors, brandName),
		sourceConsistency(agg),
		brandRecognition(agg, brandName),
	}

	if hasDescription(analyses) {
		out = append(out, descriptionAccuracy(accuracy, brandName))
	}

	out = append(out,
		sentiment(agg, brandName),
		thirdPartyCredibility(agg, brandName),
	)
	return out
}

type providerCounts struct {
	total    int
	mentions int
	topThree int
}

type aggregated struct {
	providers map[string]*providerCounts
	names     []string

	total       int
	mentions    int
	topThree    int
	recommended int
	negative    int
	citedAmong  int
}

func aggregate(analyses []models.MentionAnalysis) aggregated {
	agg := aggregated{providers: make(map[string]*providerCounts)}
	for _, a := range analyses {
		pc := agg.providers[a.Provider]
		if pc == nil {
			pc = &providerCounts{}
			agg.providers[a.Provider] = pc
			agg.names = append(agg.names, a.Provider)
		}
		pc.total++
		agg.total++
		if a.Mentioned {
			pc.mentions++
			agg.mentions++
			if a.Position == models.PositionTopThree {
				pc.topThree++
				agg.topThree++
			}
			switch a.Sentiment {
			case models.SentimentRecommended:
				agg.recommended++
			case models.SentimentNegative:
				agg.negative++
			}
			if a.ResponseType == models.ResponseList || a.ResponseType == models.ResponseComparison {
				agg.citedAmong++
			}
		}
	}
	sort.Strings(agg.names)
	return agg
}

func hasDescription(analyses []models.MentionAnalysis) bool {
	for _, a := range analyses {
		if a.Description != "" {
			return true
		}
	}
	return false
}

// categoryAssociation is success only when every provider both mentions the
// brand and ranks it top-three at least once.
func categoryAssociation(agg aggregated, brand string) models.Signal {
	s := models.Signal{
		ID:         "category_association",
		Name:       "Category Association",
		Confidence: models.ConfidenceObserved,
	}

	allMention := len(agg.providers) > 0
	allTopThree := len(agg.providers) > 0
	for _, pc := range agg.providers {
		if pc.mentions == 0 {
			allMention = false
		}
		if pc.topThree == 0 {
			allTopThree = false
		}
	}

	switch {
	case allMention && allTopThree:
		s.Status = models.SignalSuccess
		s.Explanation = fmt.Sprintf("Every AI source associates %s with its category and ranks it among the top options.", brand)
	case agg.mentions > 0:
		s.Status = models.SignalWarning
		s.Explanation = fmt.Sprintf("%s is associated with its category by some AI sources, but not consistently ranked near the top.", brand)
	default:
		s.Status = models.SignalError
		s.Explanation = fmt.Sprintf("No AI source associates %s with its category.", brand)
	}
	return s
}

func competitivePosition(agg aggregated, competitors []models.CompetitorResult, brand string) models.Signal {
	s := models.Signal{
		ID:         "competitive_position",
		Name:       "Competitive Position",
		Confidence: models.ConfidenceObserved,
	}

	if len(competitors) == 0 {
		s.Status = models.SignalWarning
		s.Confidence = models.ConfidenceLikely
		s.Explanation = "No competitor data was available, so the competitive position could not be assessed."
		return s
	}

	var outranking []string
	for _, c := range competitors {
		if c.TopThreeCount > 0 && agg.topThree == 0 {
			outranking = append(outranking, c.Name)
		}
	}

	switch {
	case len(outranking) > 0:
		s.Status = models.SignalError
		s.Explanation = fmt.Sprintf("Competitors (%s) are ranked in the top three while %s is not.", strings.Join(outranking, ", "), brand)
	case agg.topThree > 0:
		s.Status = models.SignalSuccess
		s.Explanation = fmt.Sprintf("%s reaches top-three rankings where its competitors do not consistently appear.", brand)
	default:
		s.Status = models.SignalWarning
		s.Explanation = fmt.Sprintf("Neither %s nor its competitors achieve top-three rankings in AI answers.", brand)
	}
	return s
}

// sourceConsistency bands the spread between per-provider mention rates:
// under 0.2 is success, under 0.5 warning, otherwise error.
func sourceConsistency(agg aggregated) models.Signal {
	s := models.Signal{
		ID:         "source_consistency",
		Name:       "Cross-Source Consistency",
		Confidence: models.ConfidenceObserved,
	}

	if len(agg.providers) < 2 {
		s.Status = models.SignalWarning
		s.Confidence = models.ConfidenceLikely
		s.Explanation = "Only one AI source responded, so consistency across sources could not be measured."
		return s
	}

	minRate, maxRate := 1.0, 0.0
	for _, name := range agg.names {
		pc := agg.providers[name]
		rate := 0.0
		if pc.total > 0 {
			rate = float64(pc.mentions) / float64(pc.total)
		}
		if rate < minRate {
			minRate = rate
		}
		if rate > maxRate {
			maxRate = rate
		}
	}
	spread := maxRate - minRate

	switch {
	case spread < 0.2:
		s.Status = models.SignalSuccess
		s.Explanation = "AI sources agree closely on how often the brand appears."
	case spread < 0.5:
		s.Status = models.SignalWarning
		s.Explanation = "AI sources differ noticeably in how often they surface the brand."
	default:
		s.Status = models.SignalError
		s.Explanation = "AI sources disagree strongly about the brand, which makes its visibility unpredictable."
	}
	s.Details = fmt.Sprintf("mention rate spread %.2f", spread)
	return s
}

func brandRecognition(agg aggregated, brand string) models.Signal {
	s := models.Signal{
		ID:         "brand_recognition",
		Name:       "Brand Recognition",
		Confidence: models.ConfidenceObserved,
	}

	rate := 0.0
	if agg.total > 0 {
		rate = float64(agg.mentions) / float64(agg.total)
	}

	switch {
	case rate >= 0.5:
		s.Status = models.SignalSuccess
		s.Explanation = fmt.Sprintf("AI sources recognize %s in most relevant questions.", brand)
	case rate > 0:
		s.Status = models.SignalWarning
		s.Explanation = fmt.Sprintf("AI sources recognize %s only occasionally.", brand)
	default:
		s.Status = models.SignalError
		s.Explanation = fmt.Sprintf("AI sources do not recognize %s at all.", brand)
	}
	s.Details = fmt.Sprintf("mentioned in %d of %d answers", agg.mentions, agg.total)
	return s
}

func descriptionAccuracy(accuracy models.DescriptionAccuracy, brand string) models.Signal {
	s := models.Signal{
		ID:         "description_accuracy",
		Name:       "Description Accuracy",
		Confidence: models.ConfidenceObserved,
	}

	switch accuracy {
	case models.DescriptionAccurate:
		s.Status = models.SignalSuccess
		s.Explanation = fmt.Sprintf("AI sources describe %s accurately.", brand)
	case models.DescriptionPartial:
		s.Status = models.SignalWarning
		s.Explanation = fmt.Sprintf("AI sources describe %s only partially correctly.", brand)
	default:
		s.Status = models.SignalError
		s.Explanation = fmt.Sprintf("AI sources describe %s incorrectly or not at all.", brand)
	}
	return s
}

func sentiment(agg aggregated, brand string) models.Signal {
	s := models.Signal{
		ID:         "sentiment",
		Name:       "Sentiment",
		Confidence: models.ConfidenceObserved,
	}

	switch {
	case agg.negative > 0 && agg.negative >= agg.recommended:
		s.Status = models.SignalError
		s.Explanation = fmt.Sprintf("AI sources speak negatively about %s.", brand)
	case agg.negative > 0:
		s.Status = models.SignalWarning
		s.Explanation = fmt.Sprintf("AI sources mostly recommend %s, but some negative framing appears.", brand)
	case agg.recommended > 0:
		s.Status = models.SignalSuccess
		s.Explanation = fmt.Sprintf("AI sources actively recommend %s.", brand)
	default:
		s.Status = models.SignalWarning
		s.Confidence = models.ConfidenceLikely
		s.Explanation = fmt.Sprintf("AI sources mention %s neutrally, without recommending it.", brand)
	}
	return s
}

// thirdPartyCredibility measures how often the brand is cited alongside
// named peers in list or comparison answers, a proxy for being part of the
// recognized competitive set.
func thirdPartyCredibility(agg aggregated, brand string) models.Signal {
	s := models.Signal{
		ID:         "third_party_credibility",
		Name:       "Third-Party Credibility",
		Confidence: models.ConfidenceLikely,
	}

	ratio := 0.0
	if agg.total > 0 {
		ratio = float64(agg.citedAmong) / float64(agg.total)
	}

	switch {
	case ratio >= 0.3:
		s.Status = models.SignalSuccess
		s.Explanation = fmt.Sprintf("%s is regularly cited alongside established names, which signals credibility.", brand)
	case ratio > 0:
		s.Status = models.SignalWarning
		s.Explanation = fmt.Sprintf("%s occasionally appears alongside established names.", brand)
	default:
		s.Status = models.SignalError
		s.Explanation = fmt.Sprintf("%s is never cited alongside established names in AI answers.", brand)
	}
	return s
}
