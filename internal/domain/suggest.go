package domain

import (
	"sort"
	"strings"
)

const (
	scoreExact     = 100.0
	scorePrefix    = 75.0
	scoreSubstring = 50.0
	scoreFuzzy     = 25.0

	// minSimilarity is the share of query runes an alias must contain to
	// count as a fuzzy match.
	minSimilarity = 0.6
)

// Suggestion is an alias ranked against a query.
type Suggestion struct {
	Alias Alias
	Score float64
}

// SuggestAliases ranks aliases against query, best first, and returns at
// most limit of them (all when limit <= 0). Aliases that do not match at
// all are left out. Ties keep stored order.
func SuggestAliases(query string, aliases []Alias, limit int) []Suggestion {
	q := normalizeAlias(query)
	if q == "" {
		return nil
	}

	out := make([]Suggestion, 0, len(aliases))
	for _, a := range aliases {
		if s := scoreAlias(q, normalizeAlias(a.Name)); s > 0 {
			out = append(out, Suggestion{Alias: a, Score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func scoreAlias(query, alias string) float64 {
	if alias == "" {
		return 0
	}
	switch {
	case query == alias:
		return scoreExact
	case strings.HasPrefix(alias, query):
		return scorePrefix
	case strings.Contains(alias, query):
		// earlier substrings rank higher
		idx := strings.Index(alias, query)
		return scoreSubstring + 10*(1-float64(idx)/float64(len(alias)))
	}

	if sim := similarity(query, alias); sim >= minSimilarity {
		return scoreFuzzy * sim
	}
	return 0
}

// similarity is the share of runes of query found in alias, each alias rune
// used at most once.
func similarity(query, alias string) float64 {
	pool := make(map[rune]int, len(alias))
	for _, r := range alias {
		pool[r]++
	}

	total, matches := 0, 0
	for _, r := range query {
		total++
		if pool[r] > 0 {
			pool[r]--
			matches++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// normalizeAlias lowercases and drops separators so "Daily-Standup" and
// "daily_standup" compare equal.
func normalizeAlias(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '.', ' ', ':':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
