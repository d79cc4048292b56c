package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/leapstack-labs/lineagesync/pkg/ident"
)

// Scorer computes name similarity on a 0-100 scale.
type Scorer struct {
	// Normalize compares ident.Normalize'd names; when false names are
	// compared exactly as given.
	Normalize bool
}

// Score returns the similarity of two names. Rules, first match wins:
//  1. either name empty: 0
//  2. names equal (after optional normalization): 100
//  3. one contains the other: 100 * len(shorter) / len(longer)
//  4. otherwise: 100 * (maxLen - levenshtein) / maxLen
//
// Lengths are counted in runes. Score is symmetric in its arguments.
func (s Scorer) Score(name1, name2 string) int {
	if name1 == "" || name2 == "" {
		return 0
	}

	if s.Normalize {
		name1 = ident.Normalize(name1)
		name2 = ident.Normalize(name2)
	}

	return similarity(name1, name2)
}

// ScoreEntities scores two entities, reusing their precomputed normalized
// names when normalization is on.
func (s Scorer) ScoreEntities(a, b core.Entity) int {
	if a.Name == "" || b.Name == "" {
		return 0
	}
	if s.Normalize {
		return similarity(a.Normalized, b.Normalized)
	}
	return similarity(a.Name, b.Name)
}

// Score scores two names with normalization enabled.
func Score(name1, name2 string) int {
	return Scorer{Normalize: true}.Score(name1, name2)
}

func similarity(a, b string) int {
	// Invalid UTF-8 (say Latin-1 headers) is compared byte by byte so that
	// distinct bytes never collapse into the same replacement rune.
	raw := !utf8.ValidString(a) || !utf8.ValidString(b)

	lenA, lenB := len(a), len(b)
	if !raw {
		lenA = utf8.RuneCountInString(a)
		lenB = utf8.RuneCountInString(b)
	}

	longer := max(lenA, lenB)
	// Names made only of symbols normalize to "".
	if longer == 0 {
		return 0
	}

	if a == b {
		return 100
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter := min(lenA, lenB)
		return 100 * shorter / longer
	}

	var distance int
	if raw {
		distance = byteDistance(a, b)
	} else {
		distance = levenshtein.ComputeDistance(a, b)
	}
	return 100 * (longer - distance) / longer
}

// byteDistance is the Levenshtein distance over bytes, two rows at a time.
func byteDistance(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
