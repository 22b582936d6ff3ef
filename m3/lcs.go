package m3

import (
	"github.com/golang/glog"
)

// LCSMatcher matches tokens along a longest common subsequence, computed by
// the textbook dynamic programming algorithm. It takes O(N·M) time and
// space, so it is only suitable for modest inputs, but unlike the other
// matchers its result always has the maximum possible number of matched
// tokens.
type LCSMatcher struct{}

func (LCSMatcher) MatchingBlocks(a, b []int) []Match {
	pairs := LongestCommonSubsequence(len(a), len(b), func(aIndex, bIndex int) bool {
		return a[aIndex] == b[bIndex]
	})
	matches := make([]Match, len(pairs))
	for n, pair := range pairs {
		matches[n] = Match{A: pair.AIndex, B: pair.BIndex, Size: 1}
	}
	result := finishMatches(matches, len(a), len(b))
	glog.V(2).Infof("LCSMatcher: %d blocks matching %d and %d tokens",
		len(result)-1, len(a), len(b))
	return result
}

// Dynamic programming solution to produce the LCS of two "strings" A and B
// of length aLength and bLength, respectively. Returns the matched index
// pairs in increasing order.
func LongestCommonSubsequence(aLength, bLength int, equal func(aIndex, bIndex int) bool) (
	result []IndexPair) {
	// table[i][j] is the length of the LCS of A[i:] and B[j:]. Filling it
	// from the ends lets the walk below run forwards, which prefers matching
	// early tokens of A with early tokens of B.
	table := make([][]int, aLength+1)
	for i := range table {
		table[i] = make([]int, bLength+1)
	}
	for aIndex := aLength - 1; aIndex >= 0; aIndex-- {
		for bIndex := bLength - 1; bIndex >= 0; bIndex-- {
			if equal(aIndex, bIndex) {
				table[aIndex][bIndex] = table[aIndex+1][bIndex+1] + 1
			} else {
				table[aIndex][bIndex] = MaxInt(table[aIndex+1][bIndex], table[aIndex][bIndex+1])
			}
		}
	}

	for a, b := 0, 0; a < aLength && b < bLength; {
		if equal(a, b) {
			result = append(result, IndexPair{a, b})
			a++
			b++
		} else if table[a+1][b] >= table[a][b+1] {
			a++
		} else {
			b++
		}
	}
	return result
}
