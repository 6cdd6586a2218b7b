package analyzer

import (
	"math"

	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/pattern"
	"github.com/funvibe/matchck/internal/token"
	"github.com/funvibe/matchck/internal/typesystem"
)

// HoistWitness turns a reconstructed counterexample back into surface
// pattern form, the inverse of lowering: product constructors regain their
// declared field names, singleton ranges become literals, and the synthetic
// constructors all render as a placeholder. Constructor kinds that cannot
// occur in a witness abort the match analysis.
func HoistWitness(cx *typesystem.Cx, w *pattern.WitnessPat) ast.Pattern {
	t, ok := w.Ty.(typesystem.Type)
	if !ok {
		pattern.Bug("foreign Ty in a witness")
	}
	switch w.Ctor.Kind {
	case pattern.Wildcard, pattern.Missing, pattern.Hidden, pattern.NonExhaustive:
		return &ast.WildcardPattern{}

	case pattern.Bool:
		return &ast.LiteralPattern{Value: w.Ctor.B}

	case pattern.IntRangeK:
		return hoistIntRange(cx, t, w.Ctor.Range)

	case pattern.F32RangeK, pattern.F64RangeK:
		return hoistFloatRange(w.Ctor.FRange)

	case pattern.StrK:
		return &ast.LiteralPattern{Value: w.Ctor.Lit}

	case pattern.Ref:
		inner := w.Fields[0]
		// A reference to a string constant reads better as the plain
		// literal, matching how such literals lower in the first place.
		if inner.Ctor.Kind == pattern.StrK {
			return &ast.LiteralPattern{Value: inner.Ctor.Lit}
		}
		return &ast.RefPattern{Pattern: HoistWitness(cx, inner)}

	case pattern.SliceK:
		return hoistSlice(cx, w)

	case pattern.Struct, pattern.Variant, pattern.UnionField:
		return hoistProduct(cx, w, t)

	default:
		pattern.Bug("constructor kind cannot occur in a witness")
		return nil
	}
}

// hoistIntRange renders an integer or char range: the type's full span is a
// placeholder, a singleton is a literal, and anything else is a range
// pattern. The one-past-maximum sentinel renders as an open upper end
// rather than an out-of-domain literal.
func hoistIntRange(cx *typesystem.Cx, t typesystem.Type, r pattern.IntRange) ast.Pattern {
	set, err := cx.CtorsForType(t)
	if err != nil {
		pattern.Bug("integer range witness for an error-state type")
	}
	if !set.HasRange2 && r == set.Range1 {
		return &ast.WildcardPattern{}
	}
	// A range beginning past the largest observable value has no literal
	// form; it only arises for pointer-sized types. Render it anchored at
	// the largest value with an open upper end.
	if r.Lo.IsJustAfterMax() {
		return &ast.RangePattern{Lo: intLiteral(t, r.Lo.MinusOne()), Inclusive: false}
	}
	if r.IsSingleton() {
		return intLiteral(t, r.Lo)
	}
	rp := &ast.RangePattern{Inclusive: true}
	if r.Lo != pattern.NegInfinity {
		rp.Lo = intLiteral(t, r.Lo)
	}
	switch {
	case r.Hi == pattern.PosInfinity || r.Hi.IsJustAfterMax():
		rp.Inclusive = false
	default:
		rp.Hi = intLiteral(t, r.Hi.MinusOne())
	}
	return rp
}

// intLiteral decodes one extended-domain endpoint back into a literal of
// the given type, undoing the signed bias encoding.
func intLiteral(t typesystem.Type, x pattern.MaybeInt) *ast.LiteralPattern {
	switch tt := t.(type) {
	case typesystem.Char:
		return &ast.LiteralPattern{Value: int64(x.FiniteUint()), IsChar: true}
	case typesystem.Int:
		bits := tt.Bits
		if tt.PtrSized {
			bits = 64
		}
		if tt.Signed {
			raw := x.FiniteInt(bits)
			v := int64(raw<<(64-bits)) >> (64 - bits)
			return &ast.LiteralPattern{Value: v}
		}
		return &ast.LiteralPattern{Value: x.FiniteUint()}
	}
	pattern.Bug("integer endpoint for type " + t.String())
	return nil
}

func hoistFloatRange(r pattern.FloatRange) ast.Pattern {
	if r.Lo == r.Hi && r.End == pattern.Included {
		return &ast.LiteralPattern{Value: r.Lo}
	}
	rp := &ast.RangePattern{Inclusive: r.End == pattern.Included}
	if !math.IsInf(r.Lo, -1) {
		rp.Lo = &ast.LiteralPattern{Value: r.Lo}
	}
	if !math.IsInf(r.Hi, 1) {
		rp.Hi = &ast.LiteralPattern{Value: r.Hi}
	}
	return rp
}

// hoistSlice renders a slice witness. Variable-length witnesses keep their
// prefix and suffix around one rest marker; known-length array witnesses
// go through hoistArray.
func hoistSlice(cx *typesystem.Cx, w *pattern.WitnessPat) ast.Pattern {
	s := w.Ctor.Slice
	if s.Kind == pattern.FixedLen {
		if s.ArrayLen != pattern.NoArrayLen {
			return hoistArray(cx, w)
		}
		elems := make([]ast.Pattern, len(w.Fields))
		for i, f := range w.Fields {
			elems[i] = HoistWitness(cx, f)
		}
		return &ast.ListPattern{Elements: elems}
	}
	elems := make([]ast.Pattern, 0, len(w.Fields)+1)
	for _, f := range w.Fields[:s.Prefix] {
		elems = append(elems, HoistWitness(cx, f))
	}
	elems = append(elems, &ast.SpreadPattern{})
	for _, f := range w.Fields[s.Prefix:] {
		elems = append(elems, HoistWitness(cx, f))
	}
	return &ast.ListPattern{Elements: elems}
}

// hoistArray renders a known-length array witness. The type pins the
// element count, so a rest marker loses nothing: a witness that says
// nothing about any element collapses to a placeholder, and the longest
// wildcard run folds into a rest so the redundant elements around it drop.
func hoistArray(cx *typesystem.Cx, w *pattern.WitnessPat) ast.Pattern {
	run, runLen := 0, 0
	for i := 0; i < len(w.Fields); {
		if w.Fields[i].Ctor.Kind != pattern.Wildcard {
			i++
			continue
		}
		j := i
		for j < len(w.Fields) && w.Fields[j].Ctor.Kind == pattern.Wildcard {
			j++
		}
		if j-i > runLen {
			run, runLen = i, j-i
		}
		i = j
	}
	if runLen == len(w.Fields) {
		return &ast.WildcardPattern{}
	}
	if runLen < 2 {
		elems := make([]ast.Pattern, len(w.Fields))
		for i, f := range w.Fields {
			elems[i] = HoistWitness(cx, f)
		}
		return &ast.ListPattern{Elements: elems}
	}
	elems := make([]ast.Pattern, 0, len(w.Fields)-runLen+1)
	for _, f := range w.Fields[:run] {
		elems = append(elems, HoistWitness(cx, f))
	}
	elems = append(elems, &ast.SpreadPattern{})
	for _, f := range w.Fields[run+runLen:] {
		elems = append(elems, HoistWitness(cx, f))
	}
	return &ast.ListPattern{Elements: elems}
}

// hoistProduct renders tuple, struct, enum-variant and union witnesses,
// recovering declared field names from the adapter.
func hoistProduct(cx *typesystem.Cx, w *pattern.WitnessPat, t typesystem.Type) ast.Pattern {
	switch tt := t.(type) {
	case typesystem.Tuple:
		elems := make([]ast.Pattern, len(w.Fields))
		for i, f := range w.Fields {
			elems[i] = HoistWitness(cx, f)
		}
		return &ast.TuplePattern{Elements: elems}

	case typesystem.Named:
		d, ok := cx.Table.Lookup(tt.Name)
		if !ok {
			pattern.Bug("unresolved type name " + tt.Name)
		}
		vi := typesystem.VariantIndexForCtor(w.Ctor, d)
		v := &d.Variants[vi]
		idxs := cx.NonHiddenFieldIndices(d, vi)
		if len(idxs) != len(w.Fields) {
			pattern.Bug("witness field count does not match declaration")
		}
		var variantName string
		if d.Kind == typesystem.EnumDecl {
			variantName = v.Name
		}
		if len(idxs) == 0 {
			if variantName != "" {
				return &ast.ConstructorPattern{Name: variantName, Token: token.Token{Lexeme: variantName}}
			}
			return &ast.RecordPattern{TypeName: d.Name, Token: token.Token{Lexeme: d.Name}}
		}
		named := true
		for _, fi := range idxs {
			if v.Fields[fi].Name == "" {
				named = false
				break
			}
		}
		if named {
			fields := make([]ast.RecordFieldPattern, len(idxs))
			for k, fi := range idxs {
				fields[k] = ast.RecordFieldPattern{
					Name:    v.Fields[fi].Name,
					Pattern: HoistWitness(cx, w.Fields[k]),
				}
			}
			return &ast.RecordPattern{
				Token:       token.Token{Lexeme: d.Name},
				TypeName:    d.Name,
				VariantName: variantName,
				Fields:      fields,
			}
		}
		name := variantName
		if name == "" {
			name = d.Name
		}
		elems := make([]ast.Pattern, len(w.Fields))
		for i, f := range w.Fields {
			elems[i] = HoistWitness(cx, f)
		}
		return &ast.ConstructorPattern{
			Token:    token.Token{Lexeme: name},
			Name:     name,
			Elements: elems,
			Parens:   true,
		}

	default:
		pattern.Bug("product constructor witness for type " + t.String())
		return nil
	}
}
