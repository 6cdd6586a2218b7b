package pattern

import "sort"

// RangeEnd records whether a surface range includes its upper bound.
type RangeEnd int

const (
	Included RangeEnd = iota
	Excluded
)

// IntRange is a non-empty range over the extended integer domain, stored
// half-open: Lo..Hi with Lo inclusive and Hi exclusive. Inclusive surface
// ranges are normalized at construction, which keeps intersection and
// splitting free of end-kind case analysis.
type IntRange struct {
	Lo, Hi MaybeInt
}

// NewRange builds a range from surface endpoints. Panics on an empty range;
// lowering only ever produces satisfiable ranges.
func NewRange(lo, hi MaybeInt, end RangeEnd) IntRange {
	if end == Included {
		hi = hi.PlusOne()
	}
	if lo.Cmp(hi) >= 0 {
		bug("empty integer range")
	}
	return IntRange{Lo: lo, Hi: hi}
}

// Singleton is the range holding exactly one value.
func Singleton(x MaybeInt) IntRange {
	return IntRange{Lo: x, Hi: x.PlusOne()}
}

// IsSingleton reports whether the range holds exactly one value.
func (r IntRange) IsSingleton() bool {
	return r.Lo.PlusOne().Cmp(r.Hi) == 0
}

// IsSubrange reports whether every value of r lies in o.
func (r IntRange) IsSubrange(o IntRange) bool {
	return o.Lo.Cmp(r.Lo) <= 0 && r.Hi.Cmp(o.Hi) <= 0
}

// Intersects reports whether r and o share at least one value.
func (r IntRange) Intersects(o IntRange) bool {
	lo, hi := r.Lo, r.Hi
	if o.Lo.Cmp(lo) > 0 {
		lo = o.Lo
	}
	if o.Hi.Cmp(hi) < 0 {
		hi = o.Hi
	}
	return lo.Cmp(hi) < 0
}

// Split partitions r at every boundary of the given ranges that falls
// inside r. Each returned piece is, for every seen range, either fully
// inside it or fully outside it, so the usefulness recursion never explores
// a branch that is partially covered.
func (r IntRange) Split(seen []IntRange) []IntRange {
	points := []MaybeInt{r.Lo, r.Hi}
	for _, s := range seen {
		if !s.Intersects(r) {
			continue
		}
		if s.Lo.Cmp(r.Lo) > 0 {
			points = append(points, s.Lo)
		}
		if s.Hi.Cmp(r.Hi) < 0 {
			points = append(points, s.Hi)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Cmp(points[j]) < 0 })

	var out []IntRange
	prev := points[0]
	for _, p := range points[1:] {
		if p.Cmp(prev) == 0 {
			continue
		}
		out = append(out, IntRange{Lo: prev, Hi: p})
		prev = p
	}
	return out
}

// CoveredByAny reports whether r is contained in one of the given ranges.
// Only meaningful for boundary-aligned pieces produced by Split.
func (r IntRange) CoveredByAny(seen []IntRange) bool {
	for _, s := range seen {
		if r.IsSubrange(s) {
			return true
		}
	}
	return false
}
