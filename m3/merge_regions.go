package m3

import (
	"iter"

	"github.com/golang/glog"
)

// MergeRegions returns the sequence of merge regions. The sync regions (see
// FindSyncRegions) are unchanged in both a and b; each gap between
// consecutive sync regions is classified as changed identically on both
// sides (Same), changed on one side only (AOnly or BOnly), or changed
// differently on both sides (Conflict). Gaps that are empty in both a and b
// (base deleted on both sides, or nothing at all) produce no region.
//
// The regions are computed as the sequence is consumed; each range over the
// sequence recomputes them.
func (p *Merge3[E]) MergeRegions() iter.Seq[Region] {
	return func(yield func(Region) bool) {
		// Sections base[:iz], a[:ia] and b[:ib] have been disposed of.
		iz, ia, ib := 0, 0, 0
		for _, sr := range p.FindSyncRegions() {
			zMatch, aMatch, bMatch := sr.Base.Start, sr.A.Start, sr.B.Start
			if aMatch > ia || bMatch > ib {
				if !p.classifyGap(iz, zMatch, ia, aMatch, ib, bMatch, yield) {
					return
				}
				ia, ib = aMatch, bMatch
			}
			iz = zMatch

			if sr.Len() > 0 {
				if !yield(Unchanged{Base: sr.Base}) {
					return
				}
				iz, ia, ib = sr.Base.End, sr.A.End, sr.B.End
			}
		}
	}
}

// Emit the region(s) for the gap base[zStart:zEnd], a[aStart:aEnd],
// b[bStart:bEnd]. Returns false if the consumer stopped.
func (p *Merge3[E]) classifyGap(zStart, zEnd, aStart, aEnd, bStart, bEnd int,
	yield func(Region) bool) bool {
	if compareRange(p.aTokens, aStart, aEnd, p.bTokens, bStart, bEnd) {
		glog.V(3).Infof("gap a[%d:%d] b[%d:%d]: same", aStart, aEnd, bStart, bEnd)
		return yield(Same{A: Range{aStart, aEnd}})
	}
	equalA := compareRange(p.aTokens, aStart, aEnd, p.baseTokens, zStart, zEnd)
	equalB := compareRange(p.bTokens, bStart, bEnd, p.baseTokens, zStart, zEnd)
	switch {
	case equalA && !equalB:
		return yield(BOnly{B: Range{bStart, bEnd}})
	case equalB && !equalA:
		return yield(AOnly{A: Range{aStart, aEnd}})
	case !equalA && !equalB:
		if p.cherrypick {
			return p.refineCherrypickConflict(zStart, zEnd, aStart, aEnd, bStart, bEnd, yield)
		}
		return yield(newConflict(zStart, zEnd, aStart, aEnd, bStart, bEnd))
	}
	// a equals base and b equals base, yet a and b differ.
	glog.Fatalf("%v: a[%d:%d] and b[%d:%d] both equal base[%d:%d] but not each other",
		ErrInvalidRegion, aStart, aEnd, bStart, bEnd, zStart, zEnd)
	return false
}

// When cherry-picking b onto a, parts of the conflicting gap where b still
// matches base are not in conflict. Re-match base against b within the gap
// and emit a conflict only for each stretch of b that doesn't match base.
//
// Which conflict gets the a side is arbitrary; the first one gets all of
// a[aStart:aEnd], the rest get an empty range at aEnd. As a result the
// merge is not symmetric in a and b.
func (p *Merge3[E]) refineCherrypickConflict(zStart, zEnd, aStart, aEnd, bStart, bEnd int,
	yield func(Region) bool) bool {
	matches := p.matcher.MatchingBlocks(p.baseTokens[zStart:zEnd], p.bTokens[bStart:bEnd])
	glog.V(3).Infof("refineCherrypickConflict base[%d:%d] b[%d:%d]: %v",
		zStart, zEnd, bStart, bEnd, matches)

	yieldedA := false
	emit := func(baseLo, baseHi, bLo, bHi int) bool {
		c := newConflict(zStart+baseLo, zStart+baseHi, aEnd, aEnd, bStart+bLo, bStart+bHi)
		if !yieldedA {
			yieldedA = true
			c.A = Range{aStart, aEnd}
		}
		return yield(c)
	}

	lastBase, lastB := 0, 0
	for _, m := range matches {
		if m.B > lastB {
			if !emit(lastBase, m.A, lastB, m.B) {
				return false
			}
		}
		lastBase = m.A + m.Size
		lastB = m.B + m.Size
	}
	// The sentinel match consumes the remainder of both ranges; if a
	// matcher stopped short anyway, the remainder is one more conflict.
	if lastBase != zEnd-zStart || lastB != bEnd-bStart {
		if !emit(lastBase, zEnd-zStart, lastB, bEnd-bStart) {
			return false
		}
	}
	if !yieldedA {
		return yield(newConflict(zStart, zEnd, aStart, aEnd, bStart, bEnd))
	}
	return true
}
