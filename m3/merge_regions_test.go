package m3

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Returns a copy of base with a few random insertions, deletions and
// replacements.
func randomEdit(r *rand.Rand, base []string) []string {
	result := slices.Clone(base)
	for range r.IntN(4) {
		pos := r.IntN(len(result) + 1)
		line := fmt.Sprintf("%c\n", 'a'+r.IntN(6))
		switch r.IntN(3) {
		case 0:
			result = slices.Insert(result, pos, line)
		case 1:
			if pos < len(result) {
				result = slices.Delete(result, pos, pos+1)
			}
		default:
			if pos < len(result) {
				result[pos] = line
			}
		}
	}
	return result
}

func randomLines(r *rand.Rand, maxLen int) []string {
	lines := make([]string, r.IntN(maxLen+1))
	for n := range lines {
		lines[n] = fmt.Sprintf("%c\n", 'a'+r.IntN(4))
	}
	return lines
}

type randomCase struct {
	base, a, b []string
}

func randomCases(seed uint64, count int) []randomCase {
	r := rand.New(rand.NewPCG(seed, seed+1))
	cases := make([]randomCase, count)
	for n := range cases {
		base := randomLines(r, 12)
		cases[n] = randomCase{base, randomEdit(r, base), randomEdit(r, base)}
	}
	return cases
}

func hasConflict(regions []Region) bool {
	return slices.ContainsFunc(regions, func(r Region) bool {
		return r.Type() == ConflictRegion
	})
}

func linesOf(t *testing.T, m *Merge3[string], opts LineOptions) []string {
	t.Helper()
	lines, err := m.MergeLines(opts)
	require.NoError(t, err)
	return slices.Collect(lines)
}

func TestMergeIdentity(t *testing.T) {
	for name, matcher := range allMatchers(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range randomCases(3, 100) {
				m := newTextMerge(t, tc.base, tc.base, tc.base, Config{Matcher: matcher})
				regions := slices.Collect(m.MergeRegions())
				if len(tc.base) == 0 {
					assert.Empty(t, regions)
				} else {
					assert.Equal(t, []Region{unchanged(0, len(tc.base))}, regions)
				}
			}
		})
	}
}

func TestMergeOneSidedChanges(t *testing.T) {
	for name, matcher := range allMatchers(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range randomCases(4, 200) {
				cfg := Config{Matcher: matcher}

				m := newTextMerge(t, tc.base, tc.a, tc.base, cfg)
				assert.False(t, hasConflict(slices.Collect(m.MergeRegions())), "%+v", tc)
				assert.Equal(t, nilIfEmpty(tc.a), nilIfEmpty(linesOf(t, m, LineOptions{})), "%+v", tc)

				m = newTextMerge(t, tc.base, tc.base, tc.b, cfg)
				assert.False(t, hasConflict(slices.Collect(m.MergeRegions())), "%+v", tc)
				assert.Equal(t, nilIfEmpty(tc.b), nilIfEmpty(linesOf(t, m, LineOptions{})), "%+v", tc)
			}
		})
	}
}

func TestMergeAgreement(t *testing.T) {
	for name, matcher := range allMatchers(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range randomCases(5, 200) {
				m := newTextMerge(t, tc.base, tc.a, tc.a, Config{Matcher: matcher})
				regions := slices.Collect(m.MergeRegions())
				assert.False(t, hasConflict(regions), "%+v", tc)
				for _, r := range regions {
					assert.NotEqual(t, AOnlyRegion, r.Type())
					assert.NotEqual(t, BOnlyRegion, r.Type())
				}
				assert.Equal(t, nilIfEmpty(tc.a), nilIfEmpty(linesOf(t, m, LineOptions{})), "%+v", tc)
			}
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Regions are emitted in order: none starts before the end of an earlier
// region in the same sequence.
func TestMergeRegionsAreOrdered(t *testing.T) {
	for name, matcher := range allMatchers(t) {
		for _, cherrypick := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/cherrypick=%v", name, cherrypick), func(t *testing.T) {
				for _, tc := range randomCases(6, 200) {
					m := newTextMerge(t, tc.base, tc.a, tc.b,
						Config{Matcher: matcher, Cherrypick: cherrypick})
					var base, a, b int
					check := func(next *int, r Range, region Region) {
						require.LessOrEqual(t, *next, r.Start, "%v in %+v", region, tc)
						require.LessOrEqual(t, r.Start, r.End, "%v in %+v", region, tc)
						*next = r.End
					}
					for region := range m.MergeRegions() {
						switch r := region.(type) {
						case Unchanged:
							check(&base, r.Base, r)
						case Same:
							check(&a, r.A, r)
						case AOnly:
							check(&a, r.A, r)
						case BOnly:
							check(&b, r.B, r)
						case Conflict:
							require.True(t, r.HasBase)
							check(&base, r.Base, r)
							check(&a, r.A, r)
							check(&b, r.B, r)
						}
					}
					assert.LessOrEqual(t, base, len(tc.base))
					assert.LessOrEqual(t, a, len(tc.a))
					assert.LessOrEqual(t, b, len(tc.b))
				}
			})
		}
	}
}

// Walks the regions of a (non cherry-pick) merge, checking that they cover
// base, a and b in order, each index exactly once. Only conflicts carry all
// three ranges; the extent of base (and of the unchanged side) covered by a
// one-sided or agreed change is implied by where the next unchanged region
// starts.
func checkPartition(t *testing.T, tc randomCase, regions []Region) {
	t.Helper()
	var z, a, b int
	var pending Region
	flush := func(baseEnd int) {
		if pending == nil {
			z = baseEnd
			return
		}
		gap := baseEnd - z
		switch r := pending.(type) {
		case Same:
			require.Equal(t, a, r.A.Start, "%v in %+v", r, tc)
			a, b = r.A.End, b+r.A.Len()
		case AOnly:
			require.Equal(t, a, r.A.Start, "%v in %+v", r, tc)
			a, b = r.A.End, b+gap
		case BOnly:
			require.Equal(t, b, r.B.Start, "%v in %+v", r, tc)
			a, b = a+gap, r.B.End
		case Conflict:
			require.Equal(t, Range{z, baseEnd}, r.Base, "%v in %+v", r, tc)
			require.Equal(t, a, r.A.Start, "%v in %+v", r, tc)
			require.Equal(t, b, r.B.Start, "%v in %+v", r, tc)
			a, b = r.A.End, r.B.End
		}
		z = baseEnd
		pending = nil
	}
	for _, region := range regions {
		u, ok := region.(Unchanged)
		if !ok {
			require.Nil(t, pending, "two changes in a row: %v, %v", pending, region)
			pending = region
			continue
		}
		require.LessOrEqual(t, z, u.Base.Start)
		flush(u.Base.Start)
		require.Equal(t, tc.base[u.Base.Start:u.Base.End], tc.a[a:a+u.Base.Len()])
		require.Equal(t, tc.base[u.Base.Start:u.Base.End], tc.b[b:b+u.Base.Len()])
		z, a, b = u.Base.End, a+u.Base.Len(), b+u.Base.Len()
	}
	flush(len(tc.base))
	assert.Equal(t, len(tc.a), a, "%+v", tc)
	assert.Equal(t, len(tc.b), b, "%+v", tc)
}

func TestMergeRegionsPartition(t *testing.T) {
	for name, matcher := range allMatchers(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range randomCases(9, 300) {
				m := newTextMerge(t, tc.base, tc.a, tc.b, Config{Matcher: matcher})
				checkPartition(t, tc, slices.Collect(m.MergeRegions()))
			}
		})
	}
}

// Reprocessing a conflict splits it into pieces that exactly cover its a
// and b ranges.
func TestReprocessPartitionsConflicts(t *testing.T) {
	for name, matcher := range allMatchers(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range randomCases(7, 200) {
				m := newTextMerge(t, tc.base, tc.a, tc.b, Config{Matcher: matcher})
				for region := range m.MergeRegions() {
					c, ok := region.(Conflict)
					if !ok {
						continue
					}
					nextA, nextB := c.A.Start, c.B.Start
					for piece := range m.ReprocessRegions(slices.Values([]Region{c})) {
						switch p := piece.(type) {
						case Same:
							require.Equal(t, nextA, p.A.Start, "%v", c)
							n := p.A.Len()
							require.Positive(t, n)
							require.Equal(t, tc.a[p.A.Start:p.A.End], tc.b[nextB:nextB+n])
							nextA, nextB = p.A.End, nextB+n
						case Conflict:
							require.False(t, p.HasBase)
							require.Equal(t, nextA, p.A.Start, "%v", c)
							require.Equal(t, nextB, p.B.Start, "%v", c)
							require.False(t, p.A.IsEmpty() && p.B.IsEmpty(), "%v", c)
							nextA, nextB = p.A.End, p.B.End
						default:
							require.Fail(t, "unexpected region", "%v", p)
						}
					}
					assert.Equal(t, c.A.End, nextA, "%v", c)
					assert.Equal(t, c.B.End, nextB, "%v", c)
				}
			}
		})
	}
}

func TestReprocessPassesOtherRegionsThrough(t *testing.T) {
	m := newTextMerge(t, nil, nil, nil, Config{})
	in := []Region{unchanged(0, 2), same(1, 3), aOnly(3, 4), bOnly(2, 5)}
	assert.Equal(t, in, slices.Collect(m.ReprocessRegions(slices.Values(in))))
}

// The cherry-pick refinement only ever narrows the base and b sides of a
// conflict; without cherry-picking, the same inputs have conflicts in the
// same places.
func TestCherrypickRefinesConflicts(t *testing.T) {
	for _, tc := range randomCases(8, 200) {
		plain := slices.Collect(newTextMerge(t, tc.base, tc.a, tc.b, Config{}).MergeRegions())
		picked := slices.Collect(newTextMerge(t, tc.base, tc.a, tc.b,
			Config{Cherrypick: true}).MergeRegions())
		assert.Equal(t, hasConflict(plain), hasConflict(picked), "%+v", tc)

		var outer Conflict
		for _, r := range picked {
			c, ok := r.(Conflict)
			if !ok {
				continue
			}
			// Find the conflict of the plain merge that contains c.
			found := false
			for _, p := range plain {
				if pc, ok := p.(Conflict); ok && within(c.Base, pc.Base) && within(c.B, pc.B) {
					outer, found = pc, true
					break
				}
			}
			require.True(t, found, "%v not within a conflict of %v", c, plain)
			if c.A.Start == outer.A.Start {
				assert.Equal(t, outer.A, c.A)
			} else {
				assert.Equal(t, Range{outer.A.End, outer.A.End}, c.A)
			}
		}
	}
}

func within(inner, outer Range) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}

func TestRegionStrings(t *testing.T) {
	assert.Equal(t, "unchanged(0, 2)", unchanged(0, 2).String())
	assert.Equal(t, "same(1, 3)", same(1, 3).String())
	assert.Equal(t, "a(3, 4)", aOnly(3, 4).String())
	assert.Equal(t, "b(2, 5)", bOnly(2, 5).String())
	assert.Equal(t, "conflict(1, 1, 1, 2, 1, 2)", conflict(1, 1, 1, 2, 1, 2).String())
	assert.Equal(t, "conflict(-, -, 10, 11, 10, 10)",
		Conflict{A: Range{10, 11}, B: Range{10, 10}}.String())
	assert.Equal(t, "sync(0, 1, 2, 3, 0, 1)", sync(0, 1, 2, 3, 0, 1).String())
	assert.Equal(t, "[3, 5)", Range{3, 5}.String())

	assert.Equal(t, "conflict", ConflictRegion.String())
	assert.Equal(t, "b", BOnlyRegion.String())
	assert.Equal(t, "RegionType(9)", RegionType(9).String())
}

type countingVisitor struct {
	counts map[RegionType]int
	limit  int
}

func (v *countingVisitor) visit(t RegionType) bool {
	v.counts[t]++
	v.limit--
	return v.limit > 0
}

func (v *countingVisitor) VisitUnchanged(Unchanged) bool { return v.visit(UnchangedRegion) }
func (v *countingVisitor) VisitSame(Same) bool           { return v.visit(SameRegion) }
func (v *countingVisitor) VisitAOnly(AOnly) bool         { return v.visit(AOnlyRegion) }
func (v *countingVisitor) VisitBOnly(BOnly) bool         { return v.visit(BOnlyRegion) }
func (v *countingVisitor) VisitConflict(Conflict) bool   { return v.visit(ConflictRegion) }

func TestRegionVisitor(t *testing.T) {
	regions := []Region{unchanged(0, 1), same(0, 1), aOnly(0, 1), bOnly(0, 1), conflict(0, 1, 0, 1, 0, 1)}
	v := &countingVisitor{counts: make(map[RegionType]int), limit: 10}
	for _, r := range regions {
		assert.True(t, r.Accept(v))
	}
	for _, rt := range []RegionType{UnchangedRegion, SameRegion, AOnlyRegion, BOnlyRegion, ConflictRegion} {
		assert.Equal(t, 1, v.counts[rt], "%v", rt)
	}

	v.limit = 1
	assert.False(t, regions[0].Accept(v))
}
