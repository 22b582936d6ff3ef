package m3

import (
	"iter"

	"github.com/golang/glog"
)

// ReprocessRegions shrinks each conflict in regions by removing the parts
// where a and b agree with each other (though not with base). The a and b
// sides of a conflict are matched against each other; each matching block
// becomes a Same region, and the unmatched stretches between them become
// smaller conflicts. Those don't correspond to a range of base, so they have
// HasBase false. Other regions pass through unchanged.
func (p *Merge3[E]) ReprocessRegions(regions iter.Seq[Region]) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		for region := range regions {
			c, ok := region.(Conflict)
			if !ok {
				if !yield(region) {
					return
				}
				continue
			}
			if !p.reprocessConflict(c, yield) {
				return
			}
		}
	}
}

func (p *Merge3[E]) reprocessConflict(c Conflict, yield func(Region) bool) bool {
	matches := p.matcher.MatchingBlocks(
		p.aTokens[c.A.Start:c.A.End], p.bTokens[c.B.Start:c.B.End])
	glog.V(3).Infof("reprocessConflict %v: %d matching blocks", c, len(matches)-1)

	nextA, nextB := c.A.Start, c.B.Start
	for _, m := range matches {
		if m.Size == 0 {
			// The sentinel.
			continue
		}
		regionA := c.A.Start + m.A
		regionB := c.B.Start + m.B
		if r, ok := mismatchRegion(nextA, regionA, nextB, regionB); ok {
			if !yield(r) {
				return false
			}
		}
		if !yield(Same{A: Range{regionA, regionA + m.Size}}) {
			return false
		}
		nextA = regionA + m.Size
		nextB = regionB + m.Size
	}
	if r, ok := mismatchRegion(nextA, c.A.End, nextB, c.B.End); ok {
		return yield(r)
	}
	return true
}

// The residual conflict between two matches, if either side is non-empty.
func mismatchRegion(nextA, regionA, nextB, regionB int) (Conflict, bool) {
	if nextA < regionA || nextB < regionB {
		return Conflict{A: Range{nextA, regionA}, B: Range{nextB, regionB}}, true
	}
	return Conflict{}, false
}
