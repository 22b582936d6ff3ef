package m3

import (
	"github.com/golang/glog"
)

// Patience Diff, devised by Bram Cohen, focuses on the lines that are unique
// within the sequences, rather than diff(1) which can be confused by the
// potentially large number of identical lines (e.g. blank lines, lines
// containing "return" or "}"). This helps to identify coarse alignments, and
// then we can recurse in the gaps. See these sources for more info:
//
// https://bramcohen.livejournal.com/73318.html - Patience Diff Advantages
// https://alfedenzo.livejournal.com/170301.html - Patience Diff, a brief summary
// https://en.wikipedia.org/wiki/Patience_sorting
//
// Cohen's overview:
// 1) Match the first lines of both if they're identical, then match the
//    second, third, etc. until a pair doesn't match.
// 2) Match the last lines of both if they're identical, then match the next
//    to last, second to last, etc. until a pair doesn't match.
// 3) Find all lines which occur exactly once on both sides, then do longest
//    common subsequence on those lines, matching them up.
// 4) Do steps 1-2 on each section between matched lines.
//
// Step 3 is generalized slightly: a line is "rare" if it occurs the same
// number of times on both sides, and no more than MaxRareCount times; the
// k-th occurrence in a is paired with the k-th occurrence in b. Gaps with no
// rare lines are left unmatched (other than their common ends), which is
// what makes patience output differ from difflib's on repetitive input.
type PatienceMatcher struct {
	// Zero is treated as 1, i.e. classic patience diff.
	MaxRareCount int
}

func (p PatienceMatcher) MatchingBlocks(a, b []int) []Match {
	maxCount := MaxInt(1, p.MaxRareCount)
	var matches []Match
	patienceRecurse(a, b, 0, len(a), 0, len(b), maxCount, &matches)
	result := finishMatches(matches, len(a), len(b))
	glog.V(2).Infof("PatienceMatcher: %d blocks matching %d and %d tokens",
		len(result)-1, len(a), len(b))
	return result
}

// Appends to *matches the matches found within a[aLo:aHi] and b[bLo:bHi],
// in order.
func patienceRecurse(a, b []int, aLo, aHi, bLo, bHi, maxCount int, matches *[]Match) {
	if aLo >= aHi || bLo >= bHi {
		return
	}

	// Common prefix.
	length := 0
	for aLo+length < aHi && bLo+length < bHi && a[aLo+length] == b[bLo+length] {
		length++
	}
	if length > 0 {
		*matches = append(*matches, Match{A: aLo, B: bLo, Size: length})
		aLo += length
		bLo += length
	}

	// Common suffix; emitted after the middle has been matched.
	suffix := 0
	for aLo < aHi-suffix && bLo < bHi-suffix && a[aHi-suffix-1] == b[bHi-suffix-1] {
		suffix++
	}
	aHi -= suffix
	bHi -= suffix

	anchors := rareLineAnchors(a, b, aLo, aHi, bLo, bHi, maxCount)
	glog.V(3).Infof("patienceRecurse a[%d:%d] b[%d:%d]: prefix %d, suffix %d, %d anchors",
		aLo, aHi, bLo, bHi, length, suffix, len(anchors))

	// Match each anchor, recursing into the gap before it (and, after the
	// last one, into the gap after it).
	for _, anchor := range anchors {
		patienceRecurse(a, b, aLo, anchor.AIndex, bLo, anchor.BIndex, maxCount, matches)
		*matches = append(*matches, Match{A: anchor.AIndex, B: anchor.BIndex, Size: 1})
		aLo, bLo = anchor.AIndex+1, anchor.BIndex+1
	}
	if len(anchors) > 0 {
		patienceRecurse(a, b, aLo, aHi, bLo, bHi, maxCount, matches)
	}

	if suffix > 0 {
		*matches = append(*matches, Match{A: aHi, B: bHi, Size: suffix})
	}
}

type IndexPair struct {
	AIndex, BIndex int
}

// Determine which tokens are equally rare (with no more than maxCount
// occurrences) in a[aLo:aHi] and b[bLo:bHi], pair up their occurrences, and
// return the longest sequence of such pairs that is increasing in both a
// and b.
func rareLineAnchors(a, b []int, aLo, aHi, bLo, bHi, maxCount int) []IndexPair {
	if aLo >= aHi || bLo >= bHi {
		return nil
	}
	aCounts := countTokens(a[aLo:aHi])
	bCounts := countTokens(b[bLo:bHi])

	// Positions in a of each rare token, in order; popped as the
	// occurrences in b are paired with them.
	aPositions := make(map[int][]int)
	for n := aLo; n < aHi; n++ {
		t := a[n]
		if c := aCounts[t]; c <= maxCount && c == bCounts[t] {
			aPositions[t] = append(aPositions[t], n)
		}
	}
	if len(aPositions) == 0 {
		return nil
	}

	// The rare lines of a, in the order in which they appear in b.
	var pairs []IndexPair
	for n := bLo; n < bHi; n++ {
		positions, ok := aPositions[b[n]]
		if !ok {
			continue
		}
		if len(positions) == 0 {
			glog.Fatalf("rareLineAnchors: expected a line in a to match b[%d]", n)
		}
		pairs = append(pairs, IndexPair{positions[0], n})
		aPositions[b[n]] = positions[1:]
	}
	return longestIncreasingPairs(pairs)
}

func countTokens(tokens []int) map[int]int {
	counts := make(map[int]int)
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// Apply the patience sorting algorithm to find a longest subsequence of
// pairs (ordered by BIndex) whose AIndex values are increasing; note that we
// don't actually try to determine the full sort, just the first longest
// increasing subsequence.
func longestIncreasingPairs(pairs []IndexPair) []IndexPair {
	if len(pairs) == 0 {
		return nil
	}
	// Piles of indices into pairs; a pair may be placed on a pile only if
	// the pair on top of the pile has a larger AIndex. If there is no such
	// pile, the pair starts a new pile.
	var piles [][]int
	// For each pair, the index (into pairs) of the top of the previous pile
	// when the pair was placed.
	backPointers := make([]int, len(pairs))
	for n, pair := range pairs {
		addTo := 0
		for ; addTo < len(piles); addTo++ {
			top := piles[addTo][len(piles[addTo])-1]
			if pair.AIndex < pairs[top].AIndex {
				// We've found a pile we can place it on.
				break
			}
		}
		if addTo == len(piles) {
			piles = append(piles, nil)
		}
		piles[addTo] = append(piles[addTo], n)
		if addTo > 0 {
			prev := piles[addTo-1]
			backPointers[n] = prev[len(prev)-1]
		} else {
			backPointers[n] = -1
		}
	}

	// The longest increasing subsequence is of length len(piles); walk back
	// from the top of the last pile.
	result := make([]IndexPair, len(piles))
	n := piles[len(piles)-1][len(piles[len(piles)-1])-1]
	for i := len(piles) - 1; i >= 0; i-- {
		result[i] = pairs[n]
		n = backPointers[n]
	}
	return result
}
