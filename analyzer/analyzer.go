package analyzer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"visibility-scan-pipeline/llm"
	"visibility-scan-pipeline/matcher"
	"visibility-scan-pipeline/models"
	"visibility-scan-pipeline/parser"
)

// topThreeWindow is how deep into an answer a brand mention can sit and
// still be treated as a top-three placement when no explicit rank is known.
const topThreeWindow = 150

// Analyzer turns one raw provider answer into a MentionAnalysis. Detection
// runs two passes: a deterministic matcher pass over the stripped text, and
// an optional generative verification pass whose output is reconciled
// against the matcher. The matcher always wins on presence.
type Analyzer struct {
	verifier llm.Client
}

// New returns an Analyzer. verifier may be nil, in which case analysis is
// purely deterministic.
func New(verifier llm.Client) *Analyzer {
	return &Analyzer{verifier: verifier}
}

// Analyze inspects one answer for the brand and its competitors.
func (a *Analyzer) Analyze(ctx context.Context, provider, query, answer, brand string, competitors []string) models.MentionAnalysis {
	plain := parser.StripMarkdown(answer)

	result := models.MentionAnalysis{
		Query:        query,
		Provider:     provider,
		Position:     models.PositionNotFound,
		Sentiment:    models.SentimentNeutral,
		ResponseType: classifyResponseShape(plain),
		Quality:      AssessQuality(plain, query),
	}

	// Check both the stripped and the raw text: markdown stripping can
	// mangle a name that only appears inside a link URL or formatting run.
	matcherHit := matcher.IsMatch(plain, brand) || matcher.IsMatch(answer, brand)
	result.CompetitorsMentioned = matchNames(plain, competitors)

	// Nothing in the answer resembles the brand or any competitor, so the
	// generative pass has nothing to add. Skip the expensive call.
	if !matcherHit && len(result.CompetitorsMentioned) == 0 {
		result.Confidence = 0.95
		return result
	}

	verification := a.verify(ctx, brand, query, plain)
	if verification == nil {
		a.applyHeuristic(&result, plain, brand, matcherHit)
		return result
	}

	a.reconcile(&result, verification, plain, brand, matcherHit)
	return result
}

// verify runs the generative pass. A nil return means the pass was
// unavailable or unusable and the caller should fall back to heuristics.
func (a *Analyzer) verify(ctx context.Context, brand, query, plain string) *parser.Verification {
	if a.verifier == nil || !a.verifier.Configured() {
		return nil
	}
	raw, err := a.verifier.Extract(ctx, buildVerificationPrompt(brand, query, plain))
	if err != nil {
		log.Printf("Verification call failed for %q: %v", query, err)
		return nil
	}
	v, err := parser.ParseVerification(raw)
	if err != nil {
		log.Printf("Verification parse failed for %q: %v", query, err)
		return nil
	}
	return v
}

// applyHeuristic fills in the matcher-only verdict.
func (a *Analyzer) applyHeuristic(result *models.MentionAnalysis, plain, brand string, matcherHit bool) {
	if !matcherHit {
		result.Confidence = 0.9
		return
	}
	result.Mentioned = true
	result.Position = positionFromOffset(plain, brand)
	result.Confidence = 0.5
}

// reconcile merges the generative verdict with the matcher verdict. The
// matcher is authoritative on presence; the verification supplies rank,
// sentiment, and competitor detail.
func (a *Analyzer) reconcile(result *models.MentionAnalysis, v *parser.Verification, plain, brand string, matcherHit bool) {
	result.Description = v.Description
	result.CompetitorsMentioned = union(result.CompetitorsMentioned, v.CompetitorsMentioned)
	result.CompetitorsTopThree = v.CompetitorsTopThree
	result.OtherBrands = v.OtherBrands
	if v.ResponseType != "" {
		result.ResponseType = models.ResponseType(v.ResponseType)
	}
	if v.Sentiment != "" {
		result.Sentiment = models.Sentiment(v.Sentiment)
	}

	switch {
	case v.Mentioned && matcherHit:
		result.Mentioned = true
		result.Position = models.MentionPosition(v.Position)
		result.ExactPosition = v.ExactPosition
		result.Confidence = 0.95

	case v.Mentioned && !matcherHit:
		// The model claims a mention the matcher cannot see. Accept only
		// when the model backs the claim with a substantive description,
		// which covers paraphrased or misspelled brand references.
		if len(strings.TrimSpace(v.Description)) > 10 {
			result.Mentioned = true
			result.Position = models.MentionPosition(v.Position)
			result.ExactPosition = v.ExactPosition
			result.Confidence = 0.6
		} else {
			result.Mentioned = false
			result.Position = models.PositionNotFound
			result.Description = ""
			result.Confidence = 0.7
		}

	case !v.Mentioned && matcherHit:
		result.Mentioned = true
		result.Position = positionFromOffset(plain, brand)
		result.Confidence = 0.7

	default:
		result.Mentioned = false
		result.Position = models.PositionNotFound
		result.Confidence = 0.95
	}

	if !result.Mentioned {
		result.ExactPosition = nil
		result.Sentiment = models.SentimentNeutral
	}
}

func positionFromOffset(plain, brand string) models.MentionPosition {
	if off := matcher.FindPosition(plain, brand); off >= 0 && off < topThreeWindow {
		return models.PositionTopThree
	}
	return models.PositionMentioned
}

// CheckDescriptionAccuracy judges a provider's description of the brand
// against the caller-supplied one. The generative judge is preferred; a
// term-overlap heuristic covers the fallback.
func (a *Analyzer) CheckDescriptionAccuracy(ctx context.Context, brandDescription, providerDescription string) models.DescriptionAccuracy {
	if strings.TrimSpace(providerDescription) == "" {
		return models.DescriptionNotMentioned
	}
	if strings.TrimSpace(brandDescription) == "" {
		return models.DescriptionPartial
	}

	if a.verifier != nil && a.verifier.Configured() {
		prompt := fmt.Sprintf(`Reference description: %q
Candidate description: %q

Does the candidate accurately describe the same business as the reference? Answer with exactly one word: accurate, partially_accurate, or inaccurate.`, brandDescription, providerDescription)
		raw, err := a.verifier.Extract(ctx, prompt)
		if err == nil {
			switch strings.ToLower(strings.TrimSpace(strings.Trim(raw, `"`))) {
			case "accurate":
				return models.DescriptionAccurate
			case "partially_accurate":
				return models.DescriptionPartial
			case "inaccurate":
				return models.DescriptionInaccurate
			}
		}
	}

	return overlapAccuracy(brandDescription, providerDescription)
}

// overlapAccuracy compares the distinctive terms of the two descriptions.
func overlapAccuracy(reference, candidate string) models.DescriptionAccuracy {
	refTerms := contentTerms(reference)
	if len(refTerms) == 0 {
		return models.DescriptionPartial
	}
	candLower := strings.ToLower(candidate)
	matched := 0
	for term := range refTerms {
		if strings.Contains(candLower, term) {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(refTerms))
	switch {
	case ratio >= 0.5:
		return models.DescriptionAccurate
	case ratio >= 0.25:
		return models.DescriptionPartial
	default:
		return models.DescriptionInaccurate
	}
}

func contentTerms(s string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if len(w) > 4 && !answerStopwords[w] {
			terms[w] = true
		}
	}
	return terms
}

func buildVerificationPrompt(brand, query, answer string) string {
	return fmt.Sprintf(`Brand: %q
Query: %q
Response:
"""
%s
"""

Determine whether the brand above is mentioned in the response. Consider misspellings and close paraphrases of the brand name, but never count different companies.

Return a JSON object with exactly these fields:
{
  "mentioned": <true | false>,
  "position": "<top_3 | mentioned | not_found>",
  "exact_position": <1-based rank in a ranked list, or null>,
  "sentiment": "<recommended | neutral | negative>",
  "description": "<how the response describes the brand, or empty>",
  "competitors_mentioned": ["<other company named in the response>"],
  "competitors_top_three": ["<company ranked in the top three>"],
  "other_brands": ["<named company that is neither the brand nor a known competitor>"],
  "response_type": "<direct_answer | list | comparison | deflection>"
}`, brand, query, answer)
}

// classifyResponseShape is the deterministic fallback for response_type.
func classifyResponseShape(plain string) models.ResponseType {
	lower := strings.ToLower(plain)
	switch {
	case containsAny(lower, deflectionPhrases) || containsAny(lower, refusalPhrases):
		return models.ResponseDeflection
	case hasListStructure(plain):
		return models.ResponseList
	case strings.Contains(lower, " vs ") || strings.Contains(lower, "compared to") || strings.Contains(lower, "on the other hand"):
		return models.ResponseComparison
	case strings.TrimSpace(plain) != "":
		return models.ResponseDirect
	default:
		return models.ResponseUnknown
	}
}

func matchNames(plain string, names []string) []string {
	var found []string
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if matcher.IsMatch(plain, n) {
			found = append(found, n)
		}
	}
	return found
}

func union(a, b []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
