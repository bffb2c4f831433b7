package querygen

import (
	"strings"
	"unicode"
)

var interrogativeStarts = map[string]bool{
	"what": true, "which": true, "who": true, "whose": true, "where": true,
	"when": true, "why": true, "how": true, "is": true, "are": true,
	"can": true, "could": true, "should": true, "would": true, "will": true,
	"do": true, "does": true, "did": true,
}

var danglingPrepositions = map[string]bool{
	"in": true, "for": true, "of": true, "to": true, "at": true,
	"with": true, "from": true, "near": true, "on": true, "by": true,
}

// cleanQuery normalizes a generated query: collapse whitespace, drop
// duplicated adjacent words, strip prepositions left dangling before the
// final punctuation, enforce a trailing question mark on interrogatives,
// and capitalize the first letter.
func cleanQuery(q string) string {
	words := strings.Fields(q)
	if len(words) == 0 {
		return ""
	}

	// Drop duplicated adjacent words ("best best provider").
	deduped := words[:0:0]
	for i, w := range words {
		if i > 0 && strings.EqualFold(trimPunct(w), trimPunct(words[i-1])) && trimPunct(w) != "" {
			// Keep the later occurrence so terminal punctuation survives.
			deduped[len(deduped)-1] = w
			continue
		}
		deduped = append(deduped, w)
	}
	words = deduped

	// Detach terminal punctuation before inspecting the last word.
	last := words[len(words)-1]
	punct := ""
	for len(last) > 0 {
		r := rune(last[len(last)-1])
		if r == '?' || r == '.' || r == '!' || r == ',' {
			punct = string(r) + punct
			last = last[:len(last)-1]
		} else {
			break
		}
	}
	if last == "" {
		words = words[:len(words)-1]
	} else {
		words[len(words)-1] = last
	}

	// Strip dangling prepositions left at the end of the sentence.
	for len(words) > 1 && danglingPrepositions[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}

	sentence := strings.Join(words, " ")

	if interrogativeStarts[strings.ToLower(words[0])] {
		punct = "?"
	} else if punct == "" || punct == "," {
		punct = "."
	}
	sentence += string(punct[len(punct)-1])

	runes := []rune(sentence)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func trimPunct(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
