package m3

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
)

// MatchingBlocks returns the blocks of base matched in a, and those matched
// in b, each ending with the zero-length sentinel.
func (p *Merge3[E]) MatchingBlocks() (aMatches, bMatches []Match) {
	aMatches = p.matcher.MatchingBlocks(p.baseTokens, p.aTokens)
	bMatches = p.matcher.MatchingBlocks(p.baseTokens, p.bTokens)
	return
}

// FindSyncRegions returns the regions where both a and b match base. These
// are found by matching each of a and b against base, and intersecting the
// base ranges of the two lists of matching blocks. The last entry is always
// a zero-length region at the end of all three sequences.
func (p *Merge3[E]) FindSyncRegions() []SyncRegion {
	aMatches, bMatches := p.MatchingBlocks()

	var result []SyncRegion
	ia, ib := 0, 0
	for ia < len(aMatches) && ib < len(bMatches) {
		am, bm := aMatches[ia], bMatches[ib]
		aBase := Range{am.A, am.A + am.Size}
		bBase := Range{bm.A, bm.A + bm.Size}

		// There is an unconflicted block where the two base ranges overlap;
		// it may be shorter than either match.
		if i, ok := intersect(aBase, bBase); ok {
			aStart := am.B + (i.Start - am.A)
			bStart := bm.B + (i.Start - bm.A)
			sr := SyncRegion{
				Base: i,
				A:    Range{aStart, aStart + i.Len()},
				B:    Range{bStart, bStart + i.Len()},
			}
			glog.V(3).Infof("FindSyncRegions: a match %v and b match %v give %v", am, bm, sr)
			result = append(result, sr)
		}

		// Advance whichever one ends first in base.
		if aBase.End < bBase.End {
			ia++
		} else {
			ib++
		}
	}

	baseLen, aLen, bLen := len(p.Base), len(p.A), len(p.B)
	result = append(result, SyncRegion{
		Base: Range{baseLen, baseLen},
		A:    Range{aLen, aLen},
		B:    Range{bLen, bLen},
	})
	if glog.V(2) {
		glog.Infof("FindSyncRegions: %d regions\n%s", len(result), spew.Sdump(result))
	}
	return result
}

// FindUnconflicted returns the ranges of base that neither a nor b changed.
func (p *Merge3[E]) FindUnconflicted() []Range {
	aMatches, bMatches := p.MatchingBlocks()

	var result []Range
	for len(aMatches) > 0 && len(bMatches) > 0 {
		am, bm := aMatches[0], bMatches[0]
		aBase := Range{am.A, am.A + am.Size}
		bBase := Range{bm.A, bm.A + bm.Size}
		if i, ok := intersect(aBase, bBase); ok {
			result = append(result, i)
		}
		if aBase.End < bBase.End {
			aMatches = aMatches[1:]
		} else {
			bMatches = bMatches[1:]
		}
	}
	glog.V(2).Infof("FindUnconflicted: %v", result)
	return result
}
