package pattern

import (
	"fmt"

	"github.com/google/uuid"
)

// CtorKind enumerates every shape a pattern or value can take. The set is
// closed: each kind participates in a fixed set of branches of the engine,
// and every switch over it is exhaustive.
type CtorKind int

const (
	// Wildcard matches anything.
	Wildcard CtorKind = iota
	// Bool matches one boolean value.
	Bool
	// IntRangeK matches an integer or char sub-range.
	IntRangeK
	// F32RangeK and F64RangeK match float sub-ranges, one per width.
	F32RangeK
	F64RangeK
	// StrK matches one string literal.
	StrK
	// SliceK matches slices and arrays by length shape.
	SliceK
	// Struct is the single constructor of structs, tuples and box-like
	// indirections.
	Struct
	// Variant selects one enum variant by index.
	Variant
	// UnionField is the single constructor of union types.
	UnionField
	// Ref is single-field indirection.
	Ref
	// Or is a pseudo-constructor holding alternatives; it is expanded away
	// before the engine ever specializes a column.
	Or
	// Opaque is an atomic constant that cannot be inspected structurally.
	// Distinct Opaques never compare equal, which can only under-estimate
	// coverage, never unsoundly over-estimate it.
	Opaque
	// Missing is synthesized inside witnesses for constructors no arm
	// matched. Never valid as engine input.
	Missing
	// NonExhaustive stands for a constructor that an upstream extension of
	// the type may add later.
	NonExhaustive
	// Hidden stands for a constructor that exists but must not be surfaced
	// in diagnostics.
	Hidden
)

// Constructor is a tagged value describing the shape of a pattern or value.
// Exactly the payload for its kind is meaningful.
type Constructor struct {
	Kind   CtorKind
	B      bool       // Bool
	Range  IntRange   // IntRangeK
	FRange FloatRange // F32RangeK, F64RangeK
	Lit    string     // StrK
	Slice  Slice      // SliceK
	Index  int        // Variant
	ID     uuid.UUID  // Opaque
}

func WildcardCtor() Constructor             { return Constructor{Kind: Wildcard} }
func BoolCtor(b bool) Constructor           { return Constructor{Kind: Bool, B: b} }
func IntRangeCtor(r IntRange) Constructor   { return Constructor{Kind: IntRangeK, Range: r} }
func StrCtor(lit string) Constructor        { return Constructor{Kind: StrK, Lit: lit} }
func SliceCtor(s Slice) Constructor         { return Constructor{Kind: SliceK, Slice: s} }
func StructCtor() Constructor               { return Constructor{Kind: Struct} }
func VariantCtor(idx int) Constructor       { return Constructor{Kind: Variant, Index: idx} }
func UnionFieldCtor() Constructor           { return Constructor{Kind: UnionField} }
func RefCtor() Constructor                  { return Constructor{Kind: Ref} }
func OrCtor() Constructor                   { return Constructor{Kind: Or} }
func MissingCtor() Constructor              { return Constructor{Kind: Missing} }
func NonExhaustiveCtor() Constructor        { return Constructor{Kind: NonExhaustive} }
func HiddenCtor() Constructor               { return Constructor{Kind: Hidden} }

func FloatRangeCtor(r FloatRange, width int) Constructor {
	kind := F64RangeK
	if width == 32 {
		kind = F32RangeK
	}
	return Constructor{Kind: kind, FRange: r}
}

// FreshOpaque mints an Opaque constructor with a new identity. Two Opaques
// lowered from different source locations are never equal even when
// textually identical.
func FreshOpaque() Constructor {
	return Constructor{Kind: Opaque, ID: uuid.New()}
}

// IsCoveredBy reports whether every value matched by c is also matched by o.
// Callers must have range- and slice-split c first so that partial overlap
// cannot occur.
func (c Constructor) IsCoveredBy(o Constructor) bool {
	if o.Kind == Wildcard {
		return true
	}
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case Bool:
		return c.B == o.B
	case IntRangeK:
		return c.Range.IsSubrange(o.Range)
	case F32RangeK, F64RangeK:
		return c.FRange.IsSubrange(o.FRange)
	case StrK:
		return c.Lit == o.Lit
	case SliceK:
		return c.Slice.IsCoveredBy(o.Slice)
	case Struct, UnionField, Ref:
		return true
	case Variant:
		return c.Index == o.Index
	case Opaque:
		return c.ID == o.ID
	default:
		bug(fmt.Sprintf("coverage query on constructor kind %d", c.Kind))
		return false
	}
}

// Split reconciles c against the non-wildcard constructors already seen in
// its column, so that each returned piece is fully covered or fully
// uncovered by every one of them. Only ranges and variable-length slices
// ever produce more than one piece.
func (c Constructor) Split(seen []Constructor) []Constructor {
	switch c.Kind {
	case IntRangeK:
		var ranges []IntRange
		for _, s := range seen {
			if s.Kind == IntRangeK {
				ranges = append(ranges, s.Range)
			}
		}
		pieces := c.Range.Split(ranges)
		out := make([]Constructor, len(pieces))
		for i, p := range pieces {
			out[i] = IntRangeCtor(p)
		}
		return out
	case SliceK:
		var slices []Slice
		for _, s := range seen {
			if s.Kind == SliceK {
				slices = append(slices, s.Slice)
			}
		}
		pieces := c.Slice.Split(slices)
		out := make([]Constructor, len(pieces))
		for i, p := range pieces {
			out[i] = SliceCtor(p)
		}
		return out
	default:
		return []Constructor{c}
	}
}
