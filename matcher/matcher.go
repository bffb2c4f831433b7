// Package matcher implements exact, false-positive-resistant detection of a
// brand or competitor name inside free text. It is the ground truth for
// presence when reconciling generative verification verdicts: a short name
// like "Cal" must never match inside "Calendar", and "Cal.com" must match
// either as the full domain or as the base name with clean letter boundaries.
package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tldSuffixes are the domain endings that switch a name into domain matching
// mode ("brand.com" matches the full domain or the bare base name).
var tldSuffixes = []string{
	".com", ".net", ".org", ".io", ".ai", ".co", ".app", ".dev",
	".so", ".me", ".gg", ".tv", ".xyz", ".sh", ".fm",
}

// IsMatch reports whether name appears in text as a standalone mention.
func IsMatch(text, name string) bool {
	return FindPosition(text, name) >= 0
}

// FindPosition returns the byte offset of the first standalone mention of
// name in text, or -1 when the name does not appear.
func FindPosition(text, name string) int {
	t := strings.ToLower(text)
	n := normalizeName(name)
	if t == "" || n == "" {
		return -1
	}

	if base, ok := splitDomain(n); ok {
		// Full domain as a whole word wins over the bare base name.
		if idx := findBoundary(t, n, true); idx >= 0 {
			return idx
		}
		if base == "" {
			return -1
		}
		// Base name with letter-only lookaround: "cal" must not sit
		// against another letter ("Calendar"), but "cal9" is fine.
		return findBoundary(t, base, false)
	}

	for _, v := range nameVariants(name) {
		if idx := findBoundary(t, v, true); idx >= 0 {
			return idx
		}
	}

	if utf8.RuneCountInString(stripSeparatorsSimple(n)) >= 4 {
		return findStripped(text, n)
	}
	return -1
}

// CountMatches counts standalone mentions of name in text.
func CountMatches(text, name string) int {
	t := strings.ToLower(text)
	n := normalizeName(name)
	if t == "" || n == "" {
		return 0
	}

	if base, ok := splitDomain(n); ok {
		if c := countBoundary(t, n, true); c > 0 {
			return c
		}
		if base == "" {
			return 0
		}
		return countBoundary(t, base, false)
	}

	for _, v := range nameVariants(name) {
		if c := countBoundary(t, v, true); c > 0 {
			return c
		}
	}

	if utf8.RuneCountInString(stripSeparatorsSimple(n)) >= 4 {
		return countStripped(text, n)
	}
	return 0
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// splitDomain returns the base name and true when the (lowercased) name ends
// in a known TLD-like suffix.
func splitDomain(n string) (string, bool) {
	for _, suf := range tldSuffixes {
		if strings.HasSuffix(n, suf) && len(n) > len(suf) {
			return n[:len(n)-len(suf)], true
		}
	}
	return "", false
}

// nameVariants returns the lowercased name plus camel-case split forms
// ("PayFast" also matches "pay fast" and "pay-fast").
func nameVariants(name string) []string {
	n := normalizeName(name)
	variants := []string{n}
	parts := camelSplit(strings.TrimSpace(name))
	if len(parts) > 1 {
		joined := strings.ToLower(strings.Join(parts, " "))
		if joined != n {
			variants = append(variants, joined)
		}
		hyphened := strings.ToLower(strings.Join(parts, "-"))
		if hyphened != n {
			variants = append(variants, hyphened)
		}
	}
	return variants
}

// camelSplit splits at lower-to-upper transitions. Names that already
// contain spaces are left alone.
func camelSplit(name string) []string {
	if strings.ContainsAny(name, " -_") {
		return []string{name}
	}
	var parts []string
	runes := []rune(name)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

// findBoundary locates needle in t requiring clean boundaries on both sides.
// When rejectDigits is true, adjacent digits break the match too (whole-word
// mode); otherwise only adjacent letters do (domain base-name mode).
func findBoundary(t, needle string, rejectDigits bool) int {
	start := 0
	for {
		i := strings.Index(t[start:], needle)
		if i < 0 {
			return -1
		}
		i += start
		if boundaryOK(t, i, i+len(needle), rejectDigits) {
			return i
		}
		start = i + 1
	}
}

func countBoundary(t, needle string, rejectDigits bool) int {
	count := 0
	start := 0
	for {
		i := strings.Index(t[start:], needle)
		if i < 0 {
			return count
		}
		i += start
		if boundaryOK(t, i, i+len(needle), rejectDigits) {
			count++
		}
		start = i + len(needle)
	}
}

func boundaryOK(t string, lo, hi int, rejectDigits bool) bool {
	if lo > 0 {
		r, _ := utf8.DecodeLastRuneInString(t[:lo])
		if unicode.IsLetter(r) || (rejectDigits && unicode.IsDigit(r)) {
			return false
		}
	}
	if hi < len(t) {
		r, _ := utf8.DecodeRuneInString(t[hi:])
		if unicode.IsLetter(r) || (rejectDigits && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func stripSeparatorsSimple(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// stripWithIndex lowercases and removes everything that is not a letter or
// digit, keeping a map from stripped byte positions back to the original
// string so boundary checks can run against the original text.
func stripWithIndex(s string) (string, []int) {
	var b strings.Builder
	var idx []int
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			start := b.Len()
			b.WriteRune(unicode.ToLower(r))
			for j := start; j < b.Len(); j++ {
				idx = append(idx, i)
			}
		}
	}
	return b.String(), idx
}

// findStripped matches the separator-stripped name against the
// separator-stripped text, then re-validates boundaries in the original
// text so "rock" never matches inside "sprocket".
func findStripped(text, name string) int {
	needle := stripSeparatorsSimple(name)
	if needle == "" {
		return -1
	}
	hay, idx := stripWithIndex(text)
	start := 0
	for {
		i := strings.Index(hay[start:], needle)
		if i < 0 {
			return -1
		}
		i += start
		lo := idx[i]
		hi := idx[i+len(needle)-1]
		_, size := utf8.DecodeRuneInString(text[hi:])
		if boundaryOK(text, lo, hi+size, true) {
			return lo
		}
		start = i + 1
	}
}

func countStripped(text, name string) int {
	needle := stripSeparatorsSimple(name)
	if needle == "" {
		return 0
	}
	hay, idx := stripWithIndex(text)
	count := 0
	start := 0
	for {
		i := strings.Index(hay[start:], needle)
		if i < 0 {
			return count
		}
		i += start
		lo := idx[i]
		hi := idx[i+len(needle)-1]
		_, size := utf8.DecodeRuneInString(text[hi:])
		if boundaryOK(text, lo, hi+size, true) {
			count++
		}
		start = i + len(needle)
	}
}
