package m3

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Match records that a[A:A+Size] equals b[B:B+Size].
type Match struct {
	A, B, Size int
}

func (m Match) String() string {
	return fmt.Sprintf("match(%d, %d, %d)", m.A, m.B, m.Size)
}

// Matcher finds the matching blocks of two token sequences. The merge
// interns elements before matching, so a Matcher only ever sees integer
// tokens, equal iff the elements are equal.
//
// The result must be sorted by position in both sequences, must not
// overlap, must be maximal (no two blocks are adjacent in both a and b), and
// must end with the zero-length block {len(a), len(b), 0}. Implementations
// may not carry state from one call to the next.
type Matcher interface {
	MatchingBlocks(a, b []int) []Match
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(a, b []int) []Match

func (f MatcherFunc) MatchingBlocks(a, b []int) []Match {
	return f(a, b)
}

// DefaultMatcher is the matcher used when Config.Matcher is nil.
func DefaultMatcher() Matcher {
	return DifflibMatcher{AutoJunk: true}
}

var matcherNames = []string{"difflib", "patience", "lcs"}

// MatcherNames lists the names accepted by MatcherByName.
func MatcherNames() []string {
	return append([]string(nil), matcherNames...)
}

// MatcherByName returns one of the matchers in this package, configured
// with its defaults.
func MatcherByName(name string) (Matcher, error) {
	switch name {
	case "", "difflib":
		return DefaultMatcher(), nil
	case "patience":
		return PatienceMatcher{MaxRareCount: 1}, nil
	case "lcs":
		return LCSMatcher{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownMatcher, "%q (want one of %v)", name, matcherNames)
}

////////////////////////////////////////////////////////////////////////////////

// DifflibMatcher uses the Ratcliff/Obershelp "gestalt pattern matching"
// algorithm of difflib.SequenceMatcher: find the longest matching block,
// then recurse on the pieces to either side of it.
//
// With AutoJunk set, tokens making up more than 1% of a sequence of at least
// 200 tokens are treated as junk, i.e. they can't start a match. This is
// difflib's default; it speeds up matching of large inputs with many
// repeated lines.
type DifflibMatcher struct {
	AutoJunk bool
}

func (p DifflibMatcher) MatchingBlocks(a, b []int) []Match {
	sm := difflib.NewMatcherWithJunk(tokenStrings(a), tokenStrings(b), p.AutoJunk, nil)
	blocks := sm.GetMatchingBlocks()
	result := make([]Match, len(blocks))
	for n, m := range blocks {
		result[n] = Match{A: m.A, B: m.B, Size: m.Size}
	}
	glog.V(2).Infof("DifflibMatcher: %d blocks matching %d and %d tokens",
		len(result)-1, len(a), len(b))
	return result
}

func tokenStrings(tokens []int) []string {
	result := make([]string, len(tokens))
	for n, t := range tokens {
		result[n] = strconv.Itoa(t)
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////

// Convert a sorted list of matches (possibly with zero-length or adjacent
// entries) into the form required of a Matcher result: adjacent blocks
// merged, zero-length blocks removed, and the sentinel appended.
func finishMatches(matches []Match, aLength, bLength int) []Match {
	var result []Match
	for _, m := range matches {
		if m.Size <= 0 {
			continue
		}
		if n := len(result); n > 0 {
			last := &result[n-1]
			if last.A+last.Size == m.A && last.B+last.Size == m.B {
				last.Size += m.Size
				continue
			}
		}
		result = append(result, m)
	}
	return append(result, Match{A: aLength, B: bLength})
}
