package matching

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Scorer rates the similarity of two comparison keys on a 0..100 scale
type Scorer func(a, b string) int

// TokenSetRatio compares the word sets of a and b. It is symmetric, ignores
// word order and duplicates, and scores 100 when the words of one string are
// a subset of the other's. Empty input on either side scores 0.
//
// The score is the floor of the real-valued ratio, so integer threshold
// comparisons accept exactly what a real-valued comparison would.
func TokenSetRatio(a, b string) int {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			sect = append(sect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}

	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(sect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	ab := strings.Join(diffAB, " ")
	ba := strings.Join(diffBA, " ")

	sectLen := utf8.RuneCountInString(strings.Join(sect, " "))
	abLen := utf8.RuneCountInString(ab)
	baLen := utf8.RuneCountInString(ba)

	sep := 0
	if sectLen != 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	// "sect ab" vs "sect ba" differ only in their tails
	best := normalizedRatio(indelDistance(ab, ba), sectABLen+sectBALen)
	if sectLen == 0 {
		return best
	}

	// "sect" vs "sect ab": the distance is just the appended tail
	best = max(best, normalizedRatio(sep+abLen, sectLen+sectABLen))
	best = max(best, normalizedRatio(sep+baLen, sectLen+sectBALen))
	return best
}

// normalizedRatio is floor(100 - 100*dist/lensum) in integer arithmetic
func normalizedRatio(dist, lensum int) int {
	if lensum == 0 {
		return 100
	}
	return 100 * (lensum - dist) / lensum
}

// indelDistance is the insertion/deletion edit distance between a and b,
// counted in runes.
func indelDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	return len(ra) + len(rb) - 2*lcsLength(ra, rb)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
