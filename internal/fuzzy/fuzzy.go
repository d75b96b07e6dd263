// Package fuzzy provides 0-100 string similarity scores used to match free
// text against player names, series names and match labels.
package fuzzy

import (
	"slices"
	"strings"
)

// Ratio returns the normalized Indel similarity of a and b in [0, 100]:
// 200 * LCS(a, b) / (len(a) + len(b)), measured in runes.
// Two empty strings are identical and score 100.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and every
// window of the same length in the longer one. Windows that hang over either
// end of the longer string are clipped, so a needle that only partially
// overlaps the start or end still scores.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	m := len(short)
	best := 0.0
	for start := -(m - 1); start < len(long); start++ {
		lo := max(start, 0)
		hi := min(start+m, len(long))

		if r := ratioRunes(short, long[lo:hi]); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}

	return best
}

// TokenSortRatio compares a and b after sorting their whitespace separated
// tokens, so "sharma rohit" and "rohit sharma" score 100. Callers that want
// case-insensitive matching lowercase the inputs first.
func TokenSortRatio(a, b string) float64 {
	return Ratio(SortTokens(a), SortTokens(b))
}

// SortTokens splits s on whitespace, sorts the tokens and joins them with a
// single space.
func SortTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs computes the length of the longest common subsequence with two rows.
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for j := 1; j <= len(b); j++ {
		curr[0] = 0
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1] + 1
			} else {
				curr[i] = max(prev[i], curr[i-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
