// Package names holds the case-insensitive name handling shared by
// categories and goals: normalization, equality and near-match suggestions.
package names

import (
	"sort"
	"strings"
	"unicode/utf8"
)

func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func Key(name string) string {
	return strings.ToLower(Normalize(name))
}

func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Suggest returns up to limit candidates close to name: containment either way
// or an edit distance of at most a third of the name length (minimum 1).
func Suggest(name string, candidates []string, limit int) []string {
	key := Key(name)
	if key == "" || limit <= 0 {
		return nil
	}

	maxDistance := utf8.RuneCountInString(key) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}

	type scored struct {
		name     string
		distance int
	}
	var matches []scored
	for _, candidate := range candidates {
		ck := Key(candidate)
		if ck == "" || ck == key {
			continue
		}
		d := distance(key, ck)
		if strings.Contains(ck, key) || strings.Contains(key, ck) {
			d = 0
		}
		if d <= maxDistance {
			matches = append(matches, scored{name: candidate, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, limit)
	for _, m := range matches {
		if len(result) == limit {
			break
		}
		result = append(result, m.name)
	}
	return result
}

func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
