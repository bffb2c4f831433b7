package analyzer

import (
	"strings"
	"unicode"

	"visibility-scan-pipeline/models"
)

// Phrase lexicons for the quality pass. Matching is case-insensitive over
// the markdown-stripped answer.
var deflectionPhrases = []string{
	"i don't have access to real-time",
	"i do not have access to real-time",
	"i cannot browse",
	"i can't browse",
	"my knowledge cutoff",
	"my training data",
	"as an ai",
	"as a language model",
	"i don't have current information",
	"i cannot provide real-time",
	"check their official website",
	"consult a professional",
	"i recommend checking recent reviews",
}

var refusalPhrases = []string{
	"i can't help with that",
	"i cannot help with that",
	"i'm not able to answer",
	"i am not able to answer",
	"i can't provide recommendations",
	"i cannot provide recommendations",
	"i won't be able to",
	"i must decline",
}

var genericPhrases = []string{
	"it depends on your needs",
	"it depends on your specific needs",
	"there are many options available",
	"do your own research",
	"consider factors such as",
	"everyone's needs are different",
	"the best choice depends on",
	"there is no one-size-fits-all",
}

var answerStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "what": true, "which": true, "who": true, "are": true,
	"is": true, "best": true, "top": true, "most": true, "your": true,
	"you": true, "should": true, "would": true, "can": true, "how": true,
	"about": true, "know": true, "there": true, "their": true,
	"options": true, "popular": true, "good": true, "better": true,
}

// AssessQuality scores how usable an answer is, independent of whether the
// brand appeared. Deflections and refusals still count toward mention rate
// denominators, but a brand absent from a refusal means little.
func AssessQuality(answer, query string) models.ResponseQuality {
	lower := strings.ToLower(answer)

	q := models.ResponseQuality{Score: 100, Issue: models.IssueNone}

	if containsAny(lower, refusalPhrases) {
		q.Score -= 50
		q.IsDeflection = true
		q.Issue = models.IssueRefusal
	} else if containsAny(lower, deflectionPhrases) {
		q.Score -= 40
		q.IsDeflection = true
		q.Issue = models.IssueDeflection
	}

	if containsAny(lower, genericPhrases) && countBrandLikeNames(answer) == 0 {
		q.Score -= 25
		q.IsGeneric = true
		if q.Issue == models.IssueNone {
			q.Issue = models.IssueGeneric
		}
	}

	if offTopic(lower, query) {
		q.Score -= 30
		q.IsOffTopic = true
		if q.Issue == models.IssueNone {
			q.Issue = models.IssueOffTopic
		}
	}

	if hasListStructure(answer) {
		q.Score += 5
	}
	if len(answer) > 400 {
		q.Score += 5
	}
	if countBrandLikeNames(answer) >= 3 {
		q.Score += 10
	}

	if q.Score > 100 {
		q.Score = 100
	}
	if q.Score < 0 {
		q.Score = 0
	}
	return q
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// offTopic reports whether none of the query's content words survive into
// the answer.
func offTopic(lowerAnswer, query string) bool {
	any := false
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if len(w) < 4 || answerStopwords[w] {
			continue
		}
		any = true
		if strings.Contains(lowerAnswer, w) {
			return false
		}
	}
	// A query with no content words cannot be judged off-topic.
	return any
}

func hasListStructure(answer string) bool {
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 2 {
			continue
		}
		if line[0] >= '1' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			return true
		}
		if (line[0] == '-' || line[0] == '*') && line[1] == ' ' {
			return true
		}
	}
	return false
}

// countBrandLikeNames counts capitalized word sequences that start
// mid-sentence, a cheap proxy for how many named companies an answer cites.
func countBrandLikeNames(answer string) int {
	count := 0
	for _, line := range strings.Split(answer, "\n") {
		words := strings.Fields(line)
		inName := false
		for i, w := range words {
			trimmed := strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
			if trimmed == "" {
				inName = false
				continue
			}
			r := []rune(trimmed)[0]
			capitalized := unicode.IsUpper(r)
			sentenceStart := i == 0 || strings.HasSuffix(words[i-1], ".") || strings.HasSuffix(words[i-1], ":")
			if capitalized && !sentenceStart && !inName {
				count++
				inName = true
			} else if !capitalized {
				inName = false
			}
		}
	}
	return count
}
