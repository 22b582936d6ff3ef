// Package m3 computes three-way merges of sequences, in the manner of diff3.
//
// Given a common ancestor (base) and two descendants (a and b), the merge
// partitions the three sequences into regions that are unchanged, changed
// identically on both sides, changed on one side only, or in conflict. The
// regions can then be rendered as text with conflict markers, as annotated
// debugging output, or as groups of lines.
//
// The algorithm works only with element equality; elements are otherwise
// opaque. They are conventionally lines of text (see Text and Bytes), but
// any comparable token type can be merged (see Tokens).
package m3

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
)

// Config controls how regions are computed. The zero value is a plain
// (symmetric) merge using DefaultMatcher.
type Config struct {
	// Merge as a cherry-pick of b onto a: content of b that still matches
	// base does not, by itself, make a conflict.
	Cherrypick bool

	// Finds matching blocks between two token sequences. Nil means
	// DefaultMatcher().
	Matcher Matcher
}

// Merge3 holds the inputs of one three-way merge. It is read-only once
// created, so its methods may be called from multiple goroutines.
type Merge3[E any] struct {
	Base, A, B []E

	kind       Kind[E]
	matcher    Matcher
	cherrypick bool

	// Interned forms of Base, A and B; equal elements have equal tokens.
	baseTokens, aTokens, bTokens []int
}

// New prepares a merge of base, a and b. It fails with
// ErrHeterogeneousInput if the elements are not all of one concrete type.
func New[E any](kind Kind[E], base, a, b []E, cfg Config) (*Merge3[E], error) {
	if err := kind.checkHomogeneous(base, a, b); err != nil {
		return nil, err
	}
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = DefaultMatcher()
	}
	intern := kind.newInterner()
	p := &Merge3[E]{
		Base:       base,
		A:          a,
		B:          b,
		kind:       kind,
		matcher:    matcher,
		cherrypick: cfg.Cherrypick,
		baseTokens: internAll(intern, base),
		aTokens:    internAll(intern, a),
		bTokens:    internAll(intern, b),
	}
	glog.V(1).Infof("New %s merge: %d base, %d a, %d b elements, cherrypick=%v",
		kind.name, len(base), len(a), len(b), cfg.Cherrypick)
	if glog.V(3) {
		glog.Infof("Merge config:\n%s", spew.Sdump(cfg))
	}
	return p, nil
}

// Kind returns the element kind the merge was created with.
func (p *Merge3[E]) Kind() Kind[E] {
	return p.kind
}

func internAll[E any](intern func(E) int, s []E) []int {
	tokens := make([]int, len(s))
	for n := range s {
		tokens[n] = intern(s[n])
	}
	return tokens
}

// Compare a[aStart:aEnd] with b[bStart:bEnd], without slicing.
func compareRange(a []int, aStart, aEnd int, b []int, bStart, bEnd int) bool {
	if aEnd-aStart != bEnd-bStart {
		return false
	}
	for ia, ib := aStart, bStart; ia < aEnd; ia, ib = ia+1, ib+1 {
		if a[ia] != b[ib] {
			return false
		}
	}
	return true
}
