package m3

import (
	"iter"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MergeLines returns the merged sequence with conflicts marked in the manner
// of diff3 and merge (cvs-like): the a side after the start marker, the b
// side after the mid marker, then the end marker. The newline of marker
// lines is that of the first element of a ("\r\n", "\r", or else "\n").
//
// The options are checked before anything is computed; an error means no
// sequence is returned.
func (p *Merge3[E]) MergeLines(opts LineOptions) (iter.Seq[E], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if p.kind.line == nil {
		return nil, errors.Wrapf(ErrNotRenderable, "kind %s", p.kind.name)
	}
	markers := opts.markers()
	newline := p.kind.detectNewline(p.A)
	glog.V(1).Infof("MergeLines: markers %q %q %q, reprocess=%v",
		markers.start, markers.mid, markers.end, opts.Reprocess)
	return func(yield func(E) bool) {
		regions := p.MergeRegions()
		if opts.Reprocess {
			regions = p.ReprocessRegions(regions)
		}
		r := &lineRenderer[E]{
			m:       p,
			yield:   yield,
			start:   p.kind.line(markers.start + newline),
			mid:     p.kind.line(markers.mid + newline),
			end:     p.kind.line(markers.end + newline),
			hasBase: markers.showBase,
		}
		if markers.showBase {
			r.base = p.kind.line(markers.base + newline)
		}
		for region := range regions {
			if !region.Accept(r) {
				return
			}
		}
	}, nil
}

// MergeAnnotated returns the merge with each line tagged by its origin:
// "u" for unchanged, "a" or "b" for a change taken from one side, and, in
// conflicts, "A" and "B" between "<<<<", "----" and ">>>>" lines. Mostly
// useful for debugging a merge.
func (p *Merge3[E]) MergeAnnotated() (iter.Seq[E], error) {
	if p.kind.line == nil || p.kind.tag == nil {
		return nil, errors.Wrapf(ErrNotRenderable, "kind %s", p.kind.name)
	}
	return func(yield func(E) bool) {
		r := &annotatedRenderer[E]{m: p, yield: yield}
		for region := range p.MergeRegions() {
			if !region.Accept(r) {
				return
			}
		}
	}, nil
}

// Group is one entry of MergeGroups. For conflicts, Base, A and B hold the
// lines of each side and Lines is nil; for the other types only Lines is
// set.
type Group[E any] struct {
	Type  RegionType
	Lines []E
	Base  []E
	A, B  []E
}

// MergeGroups returns the merge as one group of lines per region.
func (p *Merge3[E]) MergeGroups() iter.Seq[Group[E]] {
	return func(yield func(Group[E]) bool) {
		r := &groupRenderer[E]{m: p, yield: yield}
		for region := range p.MergeRegions() {
			if !region.Accept(r) {
				return
			}
		}
	}
}

////////////////////////////////////////////////////////////////////////////////

func yieldAll[E any](yield func(E) bool, s []E) bool {
	for n := range s {
		if !yield(s[n]) {
			return false
		}
	}
	return true
}

type lineRenderer[E any] struct {
	m                     *Merge3[E]
	yield                 func(E) bool
	start, mid, end, base E
	hasBase               bool
}

func (r *lineRenderer[E]) VisitUnchanged(u Unchanged) bool {
	return yieldAll(r.yield, r.m.Base[u.Base.Start:u.Base.End])
}

func (r *lineRenderer[E]) VisitSame(s Same) bool {
	return yieldAll(r.yield, r.m.A[s.A.Start:s.A.End])
}

func (r *lineRenderer[E]) VisitAOnly(a AOnly) bool {
	return yieldAll(r.yield, r.m.A[a.A.Start:a.A.End])
}

func (r *lineRenderer[E]) VisitBOnly(b BOnly) bool {
	return yieldAll(r.yield, r.m.B[b.B.Start:b.B.End])
}

func (r *lineRenderer[E]) VisitConflict(c Conflict) bool {
	if !r.yield(r.start) || !yieldAll(r.yield, r.m.A[c.A.Start:c.A.End]) {
		return false
	}
	if r.hasBase && c.HasBase {
		if !r.yield(r.base) || !yieldAll(r.yield, r.m.Base[c.Base.Start:c.Base.End]) {
			return false
		}
	}
	return r.yield(r.mid) &&
		yieldAll(r.yield, r.m.B[c.B.Start:c.B.End]) &&
		r.yield(r.end)
}

////////////////////////////////////////////////////////////////////////////////

const (
	annotationSeparator = " | "
	annotatedStart      = "<<<<\n"
	annotatedMid        = "----\n"
	annotatedEnd        = ">>>>\n"
)

type annotatedRenderer[E any] struct {
	m     *Merge3[E]
	yield func(E) bool
}

func (r *annotatedRenderer[E]) tagged(tag string, s []E) bool {
	prefix := tag + annotationSeparator
	for n := range s {
		if !r.yield(r.m.kind.tag(prefix, s[n])) {
			return false
		}
	}
	return true
}

func (r *annotatedRenderer[E]) VisitUnchanged(u Unchanged) bool {
	return r.tagged("u", r.m.Base[u.Base.Start:u.Base.End])
}

func (r *annotatedRenderer[E]) VisitSame(s Same) bool {
	return r.tagged("a", r.m.A[s.A.Start:s.A.End])
}

func (r *annotatedRenderer[E]) VisitAOnly(a AOnly) bool {
	return r.tagged("a", r.m.A[a.A.Start:a.A.End])
}

func (r *annotatedRenderer[E]) VisitBOnly(b BOnly) bool {
	return r.tagged("b", r.m.B[b.B.Start:b.B.End])
}

func (r *annotatedRenderer[E]) VisitConflict(c Conflict) bool {
	line := r.m.kind.line
	return r.yield(line(annotatedStart)) &&
		r.tagged("A", r.m.A[c.A.Start:c.A.End]) &&
		r.yield(line(annotatedMid)) &&
		r.tagged("B", r.m.B[c.B.Start:c.B.End]) &&
		r.yield(line(annotatedEnd))
}

////////////////////////////////////////////////////////////////////////////////

type groupRenderer[E any] struct {
	m     *Merge3[E]
	yield func(Group[E]) bool
}

func (r *groupRenderer[E]) VisitUnchanged(u Unchanged) bool {
	return r.yield(Group[E]{Type: UnchangedRegion, Lines: r.m.Base[u.Base.Start:u.Base.End]})
}

func (r *groupRenderer[E]) VisitSame(s Same) bool {
	return r.yield(Group[E]{Type: SameRegion, Lines: r.m.A[s.A.Start:s.A.End]})
}

func (r *groupRenderer[E]) VisitAOnly(a AOnly) bool {
	return r.yield(Group[E]{Type: AOnlyRegion, Lines: r.m.A[a.A.Start:a.A.End]})
}

func (r *groupRenderer[E]) VisitBOnly(b BOnly) bool {
	return r.yield(Group[E]{Type: BOnlyRegion, Lines: r.m.B[b.B.Start:b.B.End]})
}

func (r *groupRenderer[E]) VisitConflict(c Conflict) bool {
	g := Group[E]{
		Type: ConflictRegion,
		A:    r.m.A[c.A.Start:c.A.End],
		B:    r.m.B[c.B.Start:c.B.End],
	}
	if c.HasBase {
		g.Base = r.m.Base[c.Base.Start:c.Base.End]
	}
	return r.yield(g)
}
