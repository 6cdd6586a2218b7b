package pattern

// FloatRange is a range over one floating-point width. Floats stay separate
// from the integer domain: NaN and signed zero make them non-enumerable, so
// the checker only ever asks containment questions about them. Endpoints use
// IEEE infinities for open bounds.
type FloatRange struct {
	Lo, Hi float64
	End    RangeEnd
}

// NewFloatRange builds a float range; a reversed range is a checker bug
// (lowering validates surface ranges first).
func NewFloatRange(lo, hi float64, end RangeEnd) FloatRange {
	if lo > hi || (lo == hi && end == Excluded) {
		bug("empty float range")
	}
	return FloatRange{Lo: lo, Hi: hi, End: end}
}

// FloatSingleton matches exactly one float value. NaN singletons compare
// unequal to everything including themselves, which conservatively makes a
// NaN literal pattern cover nothing.
func FloatSingleton(v float64) FloatRange {
	return FloatRange{Lo: v, Hi: v, End: Included}
}

// IsSubrange reports whether every value of r lies in o.
func (r FloatRange) IsSubrange(o FloatRange) bool {
	if r.Lo < o.Lo || r.Hi > o.Hi {
		return false
	}
	if r.Hi == o.Hi && o.End == Excluded && r.End == Included {
		return false
	}
	// NaN endpoints fail every comparison above via false arithmetic, but
	// guard explicitly: a NaN range covers and is covered by nothing.
	if r.Lo != r.Lo || o.Lo != o.Lo {
		return false
	}
	return true
}
