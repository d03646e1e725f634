// Package fuzzy provides edit-distance matching for CLI suggestions.
// Used by the dispatcher to attach "did you mean" hints to command-not-found
// errors.
package fuzzy

import "strings"

// Suggest returns the best candidate within maxDistance edits of input, or
// the empty string when nothing is close enough. Candidates sharing a prefix
// with the input win ties; very short inputs never produce suggestions since
// almost everything is within two edits of them.
func Suggest(input string, candidates []string, maxDistance int) string {
	const minLength = 2
	if len(input) < minLength {
		return ""
	}

	input = strings.ToLower(input)
	best := ""
	bestDistance := maxDistance + 1
	bestPrefix := false

	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == input {
			return candidate
		}

		d := distance(input, lower)
		if d > maxDistance {
			continue
		}
		prefix := strings.HasPrefix(lower, input[:1])
		if d < bestDistance || (d == bestDistance && prefix && !bestPrefix) {
			best = candidate
			bestDistance = d
			bestPrefix = prefix
		}
	}
	return best
}

// distance computes the Levenshtein distance between a and b using two
// rolling rows.
func distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
