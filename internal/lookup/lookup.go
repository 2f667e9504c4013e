// Package lookup finds members by name, tolerating typos and punctuation.
package lookup

import (
	"cmp"
	"hoopstats/lib/textutil"
	"slices"

	"github.com/antzucaro/matchr"
)

// MinSimilarity is the lowest Jaro-Winkler similarity a suggestion can have.
const MinSimilarity = 0.75

type Match struct {
	Member     string
	Similarity float64
}

// Find returns the members matching query. A member whose normalized name
// equals the query's is an exact match and is returned alone with a
// similarity of 1. Otherwise up to limit suggestions are returned, most
// similar first.
func Find(query string, members []string, limit int) []Match {
	normalized := textutil.NormalizeName(query)
	if normalized == "" {
		return nil
	}

	var exact []Match
	for _, member := range members {
		if textutil.NormalizeName(member) == normalized {
			exact = append(exact, Match{Member: member, Similarity: 1})
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var suggestions []Match
	for _, member := range members {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(member), false)
		if similarity >= MinSimilarity {
			suggestions = append(suggestions, Match{Member: member, Similarity: similarity})
		}
	}
	slices.SortStableFunc(suggestions, func(a, b Match) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
