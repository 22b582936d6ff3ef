package m3

import (
	"fmt"
)

// Range is the half-open interval [Start, End) of indices into a sequence.
type Range struct {
	Start, End int
}

func (r Range) Len() int      { return r.End - r.Start }
func (r Range) IsEmpty() bool { return r.End <= r.Start }

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// SyncRegion is a span present, identically, in all three sequences; the
// three ranges have the same length.
type SyncRegion struct {
	Base, A, B Range
}

func (s SyncRegion) Len() int { return s.Base.Len() }

func (s SyncRegion) String() string {
	return fmt.Sprintf("sync(%d, %d, %d, %d, %d, %d)",
		s.Base.Start, s.Base.End, s.A.Start, s.A.End, s.B.Start, s.B.End)
}

type RegionType int

const (
	UnchangedRegion RegionType = iota
	SameRegion
	AOnlyRegion
	BOnlyRegion
	ConflictRegion
)

var regionTypeNames = [...]string{
	UnchangedRegion: "unchanged",
	SameRegion:      "same",
	AOnlyRegion:     "a",
	BOnlyRegion:     "b",
	ConflictRegion:  "conflict",
}

func (t RegionType) String() string {
	if 0 <= t && int(t) < len(regionTypeNames) {
		return regionTypeNames[t]
	}
	return fmt.Sprintf("RegionType(%d)", int(t))
}

// Region is one entry of the stream produced by MergeRegions. The concrete
// types are Unchanged, Same, AOnly, BOnly and Conflict; no others can be
// defined outside this package.
type Region interface {
	Type() RegionType

	// Calls the visitor method for the concrete type, returning its result.
	Accept(v RegionVisitor) bool

	fmt.Stringer
	sealed()
}

// RegionVisitor has one method per kind of region, so that an
// implementation handles every kind. Methods return false to stop a walk.
type RegionVisitor interface {
	VisitUnchanged(r Unchanged) bool
	VisitSame(r Same) bool
	VisitAOnly(r AOnly) bool
	VisitBOnly(r BOnly) bool
	VisitConflict(r Conflict) bool
}

// Unchanged: take Base from base.
type Unchanged struct {
	Base Range
}

// Same: a and b made the same change; take A from a.
type Same struct {
	A Range
}

// AOnly: only a changed; take A from a.
type AOnly struct {
	A Range
}

// BOnly: only b changed; take B from b.
type BOnly struct {
	B Range
}

// Conflict: a and b both changed, differently. HasBase is false for the
// sub-conflicts produced by ReprocessRegions, which don't correspond to any
// range of base.
type Conflict struct {
	Base    Range
	HasBase bool
	A, B    Range
}

func (Unchanged) Type() RegionType { return UnchangedRegion }
func (Same) Type() RegionType      { return SameRegion }
func (AOnly) Type() RegionType     { return AOnlyRegion }
func (BOnly) Type() RegionType     { return BOnlyRegion }
func (Conflict) Type() RegionType  { return ConflictRegion }

func (r Unchanged) Accept(v RegionVisitor) bool { return v.VisitUnchanged(r) }
func (r Same) Accept(v RegionVisitor) bool      { return v.VisitSame(r) }
func (r AOnly) Accept(v RegionVisitor) bool     { return v.VisitAOnly(r) }
func (r BOnly) Accept(v RegionVisitor) bool     { return v.VisitBOnly(r) }
func (r Conflict) Accept(v RegionVisitor) bool  { return v.VisitConflict(r) }

func (Unchanged) sealed() {}
func (Same) sealed()      {}
func (AOnly) sealed()     {}
func (BOnly) sealed()     {}
func (Conflict) sealed()  {}

func (r Unchanged) String() string {
	return fmt.Sprintf("unchanged(%d, %d)", r.Base.Start, r.Base.End)
}
func (r Same) String() string {
	return fmt.Sprintf("same(%d, %d)", r.A.Start, r.A.End)
}
func (r AOnly) String() string {
	return fmt.Sprintf("a(%d, %d)", r.A.Start, r.A.End)
}
func (r BOnly) String() string {
	return fmt.Sprintf("b(%d, %d)", r.B.Start, r.B.End)
}
func (r Conflict) String() string {
	if !r.HasBase {
		return fmt.Sprintf("conflict(-, -, %d, %d, %d, %d)",
			r.A.Start, r.A.End, r.B.Start, r.B.End)
	}
	return fmt.Sprintf("conflict(%d, %d, %d, %d, %d, %d)",
		r.Base.Start, r.Base.End, r.A.Start, r.A.End, r.B.Start, r.B.End)
}

func newConflict(baseStart, baseEnd, aStart, aEnd, bStart, bEnd int) Conflict {
	return Conflict{
		Base:    Range{baseStart, baseEnd},
		HasBase: true,
		A:       Range{aStart, aEnd},
		B:       Range{bStart, bEnd},
	}
}
