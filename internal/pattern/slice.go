package pattern

// SliceKind distinguishes fixed-length slice patterns from ones with a rest
// marker.
type SliceKind int

const (
	// FixedLen matches exactly Prefix elements (Suffix is zero).
	FixedLen SliceKind = iota
	// VarLen matches Prefix leading and Suffix trailing elements with any
	// number of elements in between.
	VarLen
)

// NoArrayLen marks a slice constructor over a type with no statically known
// length.
const NoArrayLen = -1

// Slice is the constructor payload for slice and array patterns.
type Slice struct {
	// ArrayLen is the known array length, or NoArrayLen for slice types.
	ArrayLen int
	Kind     SliceKind
	// Prefix and Suffix are element counts. For FixedLen, Prefix holds the
	// total length and Suffix is zero.
	Prefix, Suffix int
}

func NewFixedSlice(arrayLen, n int) Slice {
	return Slice{ArrayLen: arrayLen, Kind: FixedLen, Prefix: n}
}

func NewVarSlice(arrayLen, prefix, suffix int) Slice {
	return Slice{ArrayLen: arrayLen, Kind: VarLen, Prefix: prefix, Suffix: suffix}
}

// Arity is the number of sub-patterns the constructor carries: the total
// element count for FixedLen, prefix plus suffix for VarLen.
func (s Slice) Arity() int { return s.Prefix + s.Suffix }

// CoversLength reports whether the constructor matches values of the given
// element count.
func (s Slice) CoversLength(n int) bool {
	if s.Kind == FixedLen {
		return n == s.Prefix
	}
	return n >= s.Prefix+s.Suffix
}

// IsCoveredBy reports whether every value s matches is also matched by o.
func (s Slice) IsCoveredBy(o Slice) bool {
	switch {
	case s.Kind == FixedLen && o.Kind == FixedLen:
		return s.Prefix == o.Prefix
	case s.Kind == FixedLen:
		return o.CoversLength(s.Prefix)
	case o.Kind == FixedLen:
		// A variable-length pattern admits unboundedly many lengths unless
		// the array length pins it to exactly one.
		return s.ArrayLen != NoArrayLen && s.Arity() <= s.ArrayLen && o.Prefix == s.ArrayLen
	default:
		return s.Prefix >= o.Prefix && s.Suffix >= o.Suffix
	}
}

// Split reconciles a variable-length constructor against the other slice
// constructors in its column. Lengths shorter than the longest length any of
// them can distinguish become individual FixedLen pieces; one VarLen piece
// stands for every longer length, which all behave identically with respect
// to the seen constructors. Fixed-length constructors never need splitting.
func (s Slice) Split(seen []Slice) []Slice {
	if s.Kind == FixedLen {
		return []Slice{s}
	}
	if s.ArrayLen != NoArrayLen {
		// A known length leaves exactly one admissible element count.
		if s.Arity() <= s.ArrayLen {
			return []Slice{NewFixedSlice(s.ArrayLen, s.ArrayLen)}
		}
		return nil
	}
	// The variable-length piece must keep as many leading and trailing
	// elements as any seen rest pattern inspects, tracked independently so a
	// seen suffix still covers the piece.
	maxPrefix, maxSuffix := s.Prefix, s.Suffix
	maxFixed := 0
	for _, o := range seen {
		if o.Kind == FixedLen {
			if o.Prefix > maxFixed {
				maxFixed = o.Prefix
			}
			continue
		}
		if o.Prefix > maxPrefix {
			maxPrefix = o.Prefix
		}
		if o.Suffix > maxSuffix {
			maxSuffix = o.Suffix
		}
	}
	// Grow the prefix until the piece sits strictly beyond every seen fixed
	// length.
	if maxFixed+1 >= maxPrefix+maxSuffix {
		maxPrefix = maxFixed + 1 - maxSuffix
	}
	pieces := make([]Slice, 0, maxPrefix+maxSuffix-s.Arity()+1)
	for n := s.Arity(); n < maxPrefix+maxSuffix; n++ {
		pieces = append(pieces, NewFixedSlice(NoArrayLen, n))
	}
	pieces = append(pieces, NewVarSlice(NoArrayLen, maxPrefix, maxSuffix))
	return pieces
}
