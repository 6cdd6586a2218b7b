package pattern

// SetKind discriminates ConstructorSet variants; exactly one applies per
// type.
type SetKind int

const (
	// SetBool: two constructors, true and false.
	SetBool SetKind = iota
	// SetIntegers: one or two disjoint integer ranges (two ranges model a
	// char type's valid Unicode bands).
	SetIntegers
	// SetSlice: lengths, optionally pinned by a known array length.
	SetSlice
	// SetVariants: an enumeration with per-variant visibility.
	SetVariants
	// SetStruct: a single product constructor.
	SetStruct
	// SetUnion: a single union-field constructor.
	SetUnion
	// SetRef: a single indirection constructor.
	SetRef
	// SetNoConstructors: an uninhabited type.
	SetNoConstructors
	// SetUnlistable: the value space cannot be enumerated; only a wildcard
	// covers such a type.
	SetUnlistable
)

// VariantVisibility classifies each variant of an enumeration from the
// checking context's point of view.
type VariantVisibility int

const (
	// VisVisible variants participate normally.
	VisVisible VariantVisibility = iota
	// VisHidden variants exist but are suppressed in diagnostics. They
	// still count when deciding exhaustiveness.
	VisHidden
	// VisEmpty variants are uninhabited; they never demand a witness.
	VisEmpty
)

// ConstructorSet is the per-type answer to "what are all the possible
// constructors". It is recomputed on demand per type and never cached across
// types by this package.
type ConstructorSet struct {
	Kind SetKind

	// SetIntegers
	Range1    IntRange
	Range2    IntRange
	HasRange2 bool

	// SetSlice
	ArrayLen     int // NoArrayLen when unknown
	SubtypeEmpty bool

	// SetVariants
	Variants      []VariantVisibility
	NonExhaustive bool

	// SetStruct
	StructEmpty bool
}

func BoolSet() ConstructorSet { return ConstructorSet{Kind: SetBool} }

func IntegersSet(r IntRange) ConstructorSet {
	return ConstructorSet{Kind: SetIntegers, Range1: r}
}

func TwoBandIntegersSet(r1, r2 IntRange) ConstructorSet {
	return ConstructorSet{Kind: SetIntegers, Range1: r1, Range2: r2, HasRange2: true}
}

func SliceSet(arrayLen int, subtypeEmpty bool) ConstructorSet {
	return ConstructorSet{Kind: SetSlice, ArrayLen: arrayLen, SubtypeEmpty: subtypeEmpty}
}

func VariantsSet(vis []VariantVisibility, nonExhaustive bool) ConstructorSet {
	return ConstructorSet{Kind: SetVariants, Variants: vis, NonExhaustive: nonExhaustive}
}

func StructSet(empty bool) ConstructorSet {
	return ConstructorSet{Kind: SetStruct, StructEmpty: empty}
}

func UnionSet() ConstructorSet          { return ConstructorSet{Kind: SetUnion} }
func RefSet() ConstructorSet            { return ConstructorSet{Kind: SetRef} }
func NoConstructorsSet() ConstructorSet { return ConstructorSet{Kind: SetNoConstructors} }
func UnlistableSet() ConstructorSet     { return ConstructorSet{Kind: SetUnlistable} }

// SplitConstructorSet is the result of reconciling a type's constructor
// universe with the constructors seen in one matrix column.
type SplitConstructorSet struct {
	// Present pieces are covered by at least one seen constructor.
	Present []Constructor
	// Missing pieces are inhabited but covered by nothing seen; any one of
	// them witnesses non-exhaustiveness of a wildcard row.
	Missing []Constructor
	// MissingEmpty pieces are unseen but uninhabited; they never force a
	// witness.
	MissingEmpty []Constructor
}

// Split partitions the constructor universe of the set against the
// non-wildcard constructors seen in a column. Constructor-set queries happen
// lazily per type, so this is the single place where "all possible shapes"
// is enumerated.
func (cs ConstructorSet) Split(seen []Constructor) SplitConstructorSet {
	var out SplitConstructorSet
	classify := func(c Constructor, inhabited bool) {
		switch {
		case c.IsCoveredByAny(seen):
			out.Present = append(out.Present, c)
		case inhabited:
			out.Missing = append(out.Missing, c)
		default:
			out.MissingEmpty = append(out.MissingEmpty, c)
		}
	}

	switch cs.Kind {
	case SetBool:
		classify(BoolCtor(false), true)
		classify(BoolCtor(true), true)

	case SetIntegers:
		var ranges []IntRange
		for _, s := range seen {
			if s.Kind == IntRangeK {
				ranges = append(ranges, s.Range)
			}
		}
		for _, piece := range cs.Range1.Split(ranges) {
			classify(IntRangeCtor(piece), true)
		}
		if cs.HasRange2 {
			for _, piece := range cs.Range2.Split(ranges) {
				classify(IntRangeCtor(piece), true)
			}
		}

	case SetSlice:
		var slices []Slice
		for _, s := range seen {
			if s.Kind == SliceK {
				slices = append(slices, s.Slice)
			}
		}
		universe := NewVarSlice(cs.ArrayLen, 0, 0)
		for _, piece := range universe.Split(slices) {
			inhabited := true
			if cs.SubtypeEmpty {
				// Without elements only the empty slice exists.
				inhabited = piece.Kind == FixedLen && piece.Prefix == 0
			}
			classify(SliceCtor(piece), inhabited)
		}

	case SetVariants:
		hiddenReported := false
		for idx, vis := range cs.Variants {
			c := VariantCtor(idx)
			if c.IsCoveredByAny(seen) {
				out.Present = append(out.Present, c)
				continue
			}
			switch vis {
			case VisVisible:
				out.Missing = append(out.Missing, c)
			case VisHidden:
				// One placeholder stands for all hidden variants.
				if !hiddenReported {
					out.Missing = append(out.Missing, HiddenCtor())
					hiddenReported = true
				}
			case VisEmpty:
				out.MissingEmpty = append(out.MissingEmpty, c)
			}
		}
		if cs.NonExhaustive {
			// The unlisted extra constructor an upstream extension may add.
			out.Missing = append(out.Missing, NonExhaustiveCtor())
		}

	case SetStruct:
		classify(StructCtor(), !cs.StructEmpty)

	case SetUnion:
		classify(UnionFieldCtor(), true)

	case SetRef:
		classify(RefCtor(), true)

	case SetNoConstructors:
		// Nothing to match; an empty match is exhaustive here.

	case SetUnlistable:
		// Values cannot be enumerated: whatever was seen, something else
		// may exist.
		for _, s := range seen {
			out.Present = append(out.Present, s)
		}
		out.Missing = append(out.Missing, NonExhaustiveCtor())

	default:
		bug("unknown constructor set kind")
	}
	return out
}

// IsCoveredByAny reports coverage of c by any of the seen constructors.
func (c Constructor) IsCoveredByAny(seen []Constructor) bool {
	for _, s := range seen {
		if c.IsCoveredBy(s) {
			return true
		}
	}
	return false
}
