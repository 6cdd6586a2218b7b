package typesystem

import (
	"math"

	"github.com/funvibe/matchck/internal/pattern"
)

// Cx is the Type Adapter: it answers constructor-universe, arity and
// field-type queries for the Usefulness Engine and the Pattern Decomposer,
// relative to one checking module (visibility and inhabitedness of a type
// can depend on where the match is written). All methods are pure; one Cx
// may serve concurrent match checks.
type Cx struct {
	Table *Table
	// Module is the module the match under analysis lives in.
	Module string
}

// NewCx builds an adapter for checks written in the given module.
func NewCx(table *Table, module string) *Cx {
	return &Cx{Table: table, Module: module}
}

func (cx *Cx) isLocal(d *Decl) bool { return d.Module == cx.Module }

func (cx *Cx) lookup(name string) *Decl {
	d, ok := cx.Table.Lookup(name)
	if !ok {
		pattern.Bug("unresolved type name " + name)
	}
	return d
}

// fieldVisible reports whether the checking module can observe a field.
// Enum variant fields are always observable.
func (cx *Cx) fieldVisible(d *Decl, f Field) bool {
	return d.Kind == EnumDecl || f.Public || cx.isLocal(d)
}

// IsForeignNonExhaustive reports a declaration open for extension from the
// checking module's point of view. Locally declared open types still list
// all their constructors.
func (cx *Cx) IsForeignNonExhaustive(d *Decl) bool {
	return d.NonExhaustive && !cx.isLocal(d)
}

// IsUninhabited reports whether a type has no constructible values, as
// observable from the checking module. Indirection is opaque to this
// question: a Ref is always inhabited here, which also keeps the recursion
// finite for self-referential declarations.
func (cx *Cx) IsUninhabited(t Type) bool {
	return cx.uninhabited(t, make(map[string]bool))
}

func (cx *Cx) uninhabited(t Type, visiting map[string]bool) bool {
	switch ty := t.(type) {
	case Never:
		return true
	case Tuple:
		for _, e := range ty.Elems {
			if cx.uninhabited(e, visiting) {
				return true
			}
		}
		return false
	case Array:
		return ty.Len > 0 && cx.uninhabited(ty.Elem, visiting)
	case Named:
		if visiting[ty.Name] {
			// A recursive occurrence cannot be the sole witness of
			// emptiness.
			return false
		}
		visiting[ty.Name] = true
		defer delete(visiting, ty.Name)
		d := cx.lookup(ty.Name)
		switch d.Kind {
		case UnionDecl:
			return false
		case StructDecl:
			return cx.variantUninhabited(d, &d.Variants[0], visiting)
		default:
			if cx.IsForeignNonExhaustive(d) {
				// An extension may add an inhabited variant later.
				return false
			}
			for i := range d.Variants {
				if !cx.variantUninhabited(d, &d.Variants[i], visiting) {
					return false
				}
			}
			return true
		}
	default:
		return false
	}
}

func (cx *Cx) variantUninhabited(d *Decl, v *Variant, visiting map[string]bool) bool {
	for _, f := range v.Fields {
		// A private uninhabited field must not leak emptiness across the
		// module boundary.
		if !cx.fieldVisible(d, f) {
			continue
		}
		if cx.uninhabited(f.Ty, visiting) {
			return true
		}
	}
	return false
}

// NonHiddenFieldIndices lists the declared indices of the fields a match
// must (and may) name for one variant: fields that are both uninhabited and
// unobservable are dropped from arity entirely, so exhaustiveness cannot
// leak a private uninhabited field.
func (cx *Cx) NonHiddenFieldIndices(d *Decl, variantIdx int) []int {
	v := &d.Variants[variantIdx]
	nonExhaustiveFields := cx.IsForeignNonExhaustive(d) && d.Kind != EnumDecl
	idxs := make([]int, 0, len(v.Fields))
	for i, f := range v.Fields {
		visible := cx.fieldVisible(d, f)
		if cx.IsUninhabited(f.Ty) && (!visible || nonExhaustiveFields) {
			continue
		}
		idxs = append(idxs, i)
	}
	return idxs
}

// VariantIndexForCtor maps a product constructor to a variant index of d.
func VariantIndexForCtor(c pattern.Constructor, d *Decl) int {
	switch c.Kind {
	case pattern.Variant:
		return c.Index
	case pattern.Struct, pattern.UnionField:
		if d.Kind == EnumDecl {
			pattern.Bug("struct constructor for enum " + d.Name)
		}
		return 0
	default:
		pattern.Bug("bad constructor for declared type " + d.Name)
		return 0
	}
}

func uintMax(bits uint) uint64 {
	return math.MaxUint64 >> (64 - bits)
}

func intRangeFor(t Int) pattern.IntRange {
	if t.PtrSized {
		// The extreme values of pointer-sized integers are not observable
		// on every target; they live with the unlisted extra constructor.
		if t.Signed {
			return pattern.IntRange{Lo: pattern.NegInfinity, Hi: pattern.PosInfinity}
		}
		return pattern.IntRange{Lo: pattern.NewFiniteUint(0), Hi: pattern.PosInfinity}
	}
	if t.Signed {
		minBits := uint64(1) << (t.Bits - 1)
		maxBits := minBits - 1
		return pattern.NewRange(
			pattern.NewFiniteInt(minBits, t.Bits),
			pattern.NewFiniteInt(maxBits, t.Bits),
			pattern.Included,
		)
	}
	return pattern.NewRange(
		pattern.NewFiniteUint(0),
		pattern.NewFiniteUint(uintMax(t.Bits)),
		pattern.Included,
	)
}

// charBands are the two valid Unicode scalar value ranges.
func charBands() (pattern.IntRange, pattern.IntRange) {
	band1 := pattern.NewRange(pattern.NewFiniteUint(0x0000), pattern.NewFiniteUint(0xD7FF), pattern.Included)
	band2 := pattern.NewRange(pattern.NewFiniteUint(0xE000), pattern.NewFiniteUint(0x10FFFF), pattern.Included)
	return band1, band2
}

// CtorsForType enumerates the universe of constructors for a type. It is a
// pure function of the type and the checking module, consulted lazily per
// column by the engine.
func (cx *Cx) CtorsForType(ty pattern.Ty) (pattern.ConstructorSet, error) {
	t, ok := ty.(Type)
	if !ok {
		pattern.Bug("foreign Ty reached the adapter")
	}
	switch tt := t.(type) {
	case ErrType:
		return pattern.ConstructorSet{}, &ErrorStateError{Ty: t}
	case Bool:
		return pattern.BoolSet(), nil
	case Char:
		b1, b2 := charBands()
		return pattern.TwoBandIntegersSet(b1, b2), nil
	case Int:
		return pattern.IntegersSet(intRangeFor(tt)), nil
	case List:
		return pattern.SliceSet(pattern.NoArrayLen, cx.IsUninhabited(tt.Elem)), nil
	case Array:
		return pattern.SliceSet(tt.Len, cx.IsUninhabited(tt.Elem)), nil
	case Named:
		d := cx.lookup(tt.Name)
		switch d.Kind {
		case UnionDecl:
			return pattern.UnionSet(), nil
		case StructDecl:
			return pattern.StructSet(cx.IsUninhabited(t)), nil
		default:
			nonExhaustive := cx.IsForeignNonExhaustive(d)
			if len(d.Variants) == 0 && !nonExhaustive {
				return pattern.NoConstructorsSet(), nil
			}
			vis := make([]pattern.VariantVisibility, len(d.Variants))
			for i := range d.Variants {
				v := &d.Variants[i]
				switch {
				case cx.variantUninhabited(d, v, make(map[string]bool)):
					vis[i] = pattern.VisEmpty
				case v.Unstable || (v.DocHidden && !cx.isLocal(d)):
					vis[i] = pattern.VisHidden
				default:
					vis[i] = pattern.VisVisible
				}
			}
			return pattern.VariantsSet(vis, nonExhaustive), nil
		}
	case Tuple:
		return pattern.StructSet(cx.IsUninhabited(t)), nil
	case Ref:
		return pattern.RefSet(), nil
	case Never:
		return pattern.NoConstructorsSet(), nil
	case Float, Str, Foreign:
		return pattern.UnlistableSet(), nil
	default:
		pattern.Bug("unexpected type in CtorsForType: " + t.String())
		return pattern.ConstructorSet{}, nil
	}
}

// CtorFieldTypes reports the field types of a constructor applied at a
// type; its length always equals CtorArity for the same arguments.
func (cx *Cx) CtorFieldTypes(c pattern.Constructor, ty pattern.Ty) []pattern.Ty {
	t, ok := ty.(Type)
	if !ok {
		pattern.Bug("foreign Ty reached the adapter")
	}
	switch c.Kind {
	case pattern.Struct, pattern.Variant, pattern.UnionField:
		switch tt := t.(type) {
		case Tuple:
			out := make([]pattern.Ty, len(tt.Elems))
			for i, e := range tt.Elems {
				out[i] = e
			}
			return out
		case Named:
			d := cx.lookup(tt.Name)
			vi := VariantIndexForCtor(c, d)
			idxs := cx.NonHiddenFieldIndices(d, vi)
			out := make([]pattern.Ty, len(idxs))
			for i, fi := range idxs {
				out[i] = d.Variants[vi].Fields[fi].Ty
			}
			return out
		default:
			pattern.Bug("product constructor for type " + t.String())
		}
	case pattern.Ref:
		rt, ok := t.(Ref)
		if !ok {
			pattern.Bug("Ref constructor for type " + t.String())
		}
		return []pattern.Ty{rt.Elem}
	case pattern.SliceK:
		var elem Type
		switch tt := t.(type) {
		case List:
			elem = tt.Elem
		case Array:
			elem = tt.Elem
		default:
			pattern.Bug("slice constructor for type " + t.String())
		}
		arity := c.Slice.Arity()
		out := make([]pattern.Ty, arity)
		for i := range out {
			out[i] = elem
		}
		return out
	case pattern.Or:
		pattern.Bug("field types requested for an Or constructor")
	}
	return nil
}

// CtorArity reports the number of sub-patterns a constructor carries at a
// type. All non-product, non-slice, non-ref constructors have arity zero.
func (cx *Cx) CtorArity(c pattern.Constructor, ty pattern.Ty) int {
	switch c.Kind {
	case pattern.Struct, pattern.Variant, pattern.UnionField:
		return len(cx.CtorFieldTypes(c, ty))
	case pattern.Ref:
		return 1
	case pattern.SliceK:
		return c.Slice.Arity()
	case pattern.Or:
		pattern.Bug("arity requested for an Or constructor")
		return 0
	default:
		return 0
	}
}
