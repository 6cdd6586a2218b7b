package pattern

import "math"

// maybeIntKind discriminates the extended integer domain used for range
// endpoints. The ordering of the constants is the ordering of the domain.
type maybeIntKind int8

const (
	negInfinity maybeIntKind = iota
	finite
	// justAfterMax is the value one past the largest representable finite
	// value. It arises when an inclusive range ending at the maximum is
	// converted to half-open form, and when pointer-sized integer splitting
	// walks past the unobservable maximum.
	justAfterMax
	posInfinity
)

// MaybeInt is an integer extended with infinities, used for range endpoints.
// Finite values are stored bias-encoded so that unsigned comparison orders
// signed and unsigned values alike: unsigned values are stored as-is, signed
// values have their sign bit flipped (see NewFiniteInt). "Value we cannot
// observe" stays distinct from "smallest/largest value we can observe".
type MaybeInt struct {
	kind maybeIntKind
	bits uint64
}

// NegInfinity is the endpoint below every finite value.
var NegInfinity = MaybeInt{kind: negInfinity}

// PosInfinity is the endpoint above every finite value.
var PosInfinity = MaybeInt{kind: posInfinity}

// NewFiniteUint wraps an unsigned value (also used for char scalar values).
func NewFiniteUint(v uint64) MaybeInt {
	return MaybeInt{kind: finite, bits: v}
}

// NewFiniteInt wraps the raw two's-complement bits of a signed value of the
// given width. The stored form is bias-encoded: flipping the sign bit maps
// the signed order onto the unsigned order of the stored bits.
func NewFiniteInt(bits uint64, size uint) MaybeInt {
	bias := uint64(1) << (size - 1)
	cleaned := bits & (math.MaxUint64 >> (64 - size))
	return MaybeInt{kind: finite, bits: cleaned ^ bias}
}

// IsFinite reports whether m holds an observable value.
func (m MaybeInt) IsFinite() bool { return m.kind == finite }

// FiniteUint returns the unsigned value. Panics unless IsFinite.
func (m MaybeInt) FiniteUint() uint64 {
	if m.kind != finite {
		bug("FiniteUint on non-finite endpoint")
	}
	return m.bits
}

// FiniteInt undoes the bias encoding, returning the raw two's-complement
// bits of a signed value of the given width. Panics unless IsFinite.
func (m MaybeInt) FiniteInt(size uint) uint64 {
	if m.kind != finite {
		bug("FiniteInt on non-finite endpoint")
	}
	bias := uint64(1) << (size - 1)
	return m.bits ^ bias
}

// Cmp orders two extended integers: -1, 0 or 1.
func (m MaybeInt) Cmp(o MaybeInt) int {
	switch {
	case m.kind < o.kind:
		return -1
	case m.kind > o.kind:
		return 1
	case m.kind != finite:
		return 0
	case m.bits < o.bits:
		return -1
	case m.bits > o.bits:
		return 1
	default:
		return 0
	}
}

// PlusOne steps upward. Stepping past the largest finite value yields the
// JustAfterMax sentinel; stepping from an infinity is a checker bug.
func (m MaybeInt) PlusOne() MaybeInt {
	switch m.kind {
	case finite:
		if m.bits == math.MaxUint64 {
			return MaybeInt{kind: justAfterMax}
		}
		return MaybeInt{kind: finite, bits: m.bits + 1}
	default:
		bug("PlusOne on infinite endpoint")
		return MaybeInt{}
	}
}

// MinusOne steps downward. Stepping below zero yields NegInfinity so
// half-open ranges at the domain minimum stay representable.
func (m MaybeInt) MinusOne() MaybeInt {
	switch m.kind {
	case finite:
		if m.bits == 0 {
			return NegInfinity
		}
		return MaybeInt{kind: finite, bits: m.bits - 1}
	case justAfterMax:
		return MaybeInt{kind: finite, bits: math.MaxUint64}
	default:
		bug("MinusOne on infinite endpoint")
		return MaybeInt{}
	}
}

// IsJustAfterMax reports the one-past-maximum sentinel; witness rendering
// special-cases it as an open-ended range.
func (m MaybeInt) IsJustAfterMax() bool { return m.kind == justAfterMax }
