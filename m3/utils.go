package m3

func MinInt(i, j int) int {
	if i < j {
		return i
	}
	return j
}

func MaxInt(i, j int) int {
	if i < j {
		return j
	}
	return i
}

// Given two ranges return the range where they intersect, and whether
// there is one; ranges that merely touch don't intersect.
func intersect(ra, rb Range) (Range, bool) {
	sa := MaxInt(ra.Start, rb.Start)
	sb := MinInt(ra.End, rb.End)
	if sa < sb {
		return Range{sa, sb}, true
	}
	return Range{}, false
}
