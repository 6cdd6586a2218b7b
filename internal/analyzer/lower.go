package analyzer

import (
	"fmt"
	"math"

	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/pattern"
	"github.com/funvibe/matchck/internal/token"
	"github.com/funvibe/matchck/internal/typesystem"
)

// lowerer decomposes surface patterns into constructor form. One lowerer
// serves one match expression; its arena owns every node it produces.
type lowerer struct {
	cx    *typesystem.Cx
	arena *pattern.Arena
}

func lowerErrorf(tok token.Token, format string, args ...interface{}) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrM001, tok, fmt.Sprintf(format, args...))
}

// Lower converts a resolved surface pattern into a DeconstructedPat whose
// field count equals the adapter-reported arity of its constructor for ty.
func Lower(cx *typesystem.Cx, arena *pattern.Arena, p ast.Pattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	l := &lowerer{cx: cx, arena: arena}
	return l.lower(p, ty)
}

func (l *lowerer) lower(p ast.Pattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	tok := p.GetToken()
	switch pt := p.(type) {
	case *ast.WildcardPattern, *ast.IdentifierPattern:
		return l.arena.New(pattern.WildcardCtor(), nil, ty, tok), nil

	case *ast.AtPattern:
		// Bindings with a sub-pattern add no shape information.
		return l.lower(pt.Pattern, ty)

	case *ast.PinPattern:
		// The pinned value is not statically readable; treat it as an
		// atomic constant that covers nothing but itself.
		return l.arena.New(pattern.FreshOpaque(), nil, ty, tok), nil

	case *ast.ErrorPattern:
		return l.arena.New(pattern.FreshOpaque(), nil, ty, tok), nil

	case *ast.LiteralPattern:
		return l.lowerLiteral(pt, ty)

	case *ast.RangePattern:
		return l.lowerRange(pt, ty)

	case *ast.RefPattern:
		rt, ok := ty.(typesystem.Ref)
		if !ok {
			return nil, lowerErrorf(tok, "reference pattern for non-reference type %s", ty)
		}
		inner, err := l.lower(pt.Pattern, rt.Elem)
		if err != nil {
			return nil, err
		}
		return l.arena.New(pattern.RefCtor(), []*pattern.DeconstructedPat{inner}, ty, tok), nil

	case *ast.TuplePattern:
		tt, ok := ty.(typesystem.Tuple)
		if !ok {
			return nil, lowerErrorf(tok, "tuple pattern for non-tuple type %s", ty)
		}
		if len(pt.Elements) != len(tt.Elems) {
			return nil, lowerErrorf(tok, "tuple pattern has %d elements, type %s has %d", len(pt.Elements), ty, len(tt.Elems))
		}
		fields := make([]*pattern.DeconstructedPat, len(pt.Elements))
		for i, el := range pt.Elements {
			f, err := l.lower(el, tt.Elems[i])
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return l.arena.New(pattern.StructCtor(), fields, ty, tok), nil

	case *ast.ConstructorPattern:
		return l.lowerConstructor(pt, ty)

	case *ast.RecordPattern:
		return l.lowerRecord(pt, ty)

	case *ast.ListPattern:
		return l.lowerList(pt, ty)

	case *ast.OrPattern:
		alts := flattenOr(pt, nil)
		fields := make([]*pattern.DeconstructedPat, len(alts))
		for i, alt := range alts {
			f, err := l.lower(alt, ty)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return l.arena.New(pattern.OrCtor(), fields, ty, tok), nil

	default:
		return nil, lowerErrorf(tok, "unsupported pattern form")
	}
}

// flattenOr recursively expands nested disjunctions into one alternative
// list, preserving written order.
func flattenOr(p ast.Pattern, acc []ast.Pattern) []ast.Pattern {
	if op, ok := p.(*ast.OrPattern); ok {
		for _, alt := range op.Alternatives {
			acc = flattenOr(alt, acc)
		}
		return acc
	}
	return append(acc, p)
}

func (l *lowerer) lowerLiteral(p *ast.LiteralPattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	tok := p.GetToken()
	switch tt := ty.(type) {
	case typesystem.Bool:
		b, ok := p.Value.(bool)
		if !ok {
			return nil, lowerErrorf(tok, "non-boolean literal for type Bool")
		}
		return l.arena.New(pattern.BoolCtor(b), nil, ty, tok), nil

	case typesystem.Int, typesystem.Char:
		x, err := literalEndpoint(p, ty)
		if err != nil {
			return nil, err
		}
		return l.arena.New(pattern.IntRangeCtor(pattern.Singleton(x)), nil, ty, tok), nil

	case typesystem.Float:
		v, ok := floatValue(p.Value)
		if !ok {
			return nil, lowerErrorf(tok, "non-numeric literal for type %s", ty)
		}
		ctor := pattern.FloatRangeCtor(pattern.FloatSingleton(v), int(tt.Bits))
		return l.arena.New(ctor, nil, ty, tok), nil

	case typesystem.Ref:
		// A string literal behaves like indirection to a Str constant so
		// textual and indirection-based matching share one code path.
		s, ok := p.Value.(string)
		if !ok {
			return nil, lowerErrorf(tok, "literal pattern for reference type %s", ty)
		}
		if _, isStr := tt.Elem.(typesystem.Str); !isStr {
			return nil, lowerErrorf(tok, "string literal for type %s", ty)
		}
		inner := l.arena.New(pattern.StrCtor(s), nil, tt.Elem, tok)
		return l.arena.New(pattern.RefCtor(), []*pattern.DeconstructedPat{inner}, ty, tok), nil

	case typesystem.Str:
		s, ok := p.Value.(string)
		if !ok {
			return nil, lowerErrorf(tok, "non-string literal for type Str")
		}
		return l.arena.New(pattern.StrCtor(s), nil, ty, tok), nil

	default:
		// A constant whose value cannot be read structurally.
		return l.arena.New(pattern.FreshOpaque(), nil, ty, tok), nil
	}
}

// literalEndpoint reads an integer or char literal into the extended
// domain, bias-encoding signed values by the type's width.
func literalEndpoint(p *ast.LiteralPattern, ty typesystem.Type) (pattern.MaybeInt, error) {
	switch tt := ty.(type) {
	case typesystem.Char:
		switch v := p.Value.(type) {
		case int64:
			return pattern.NewFiniteUint(uint64(v)), nil
		case uint64:
			return pattern.NewFiniteUint(v), nil
		}
	case typesystem.Int:
		bits := tt.Bits
		if tt.PtrSized {
			bits = 64
		}
		switch v := p.Value.(type) {
		case int64:
			if tt.Signed {
				return pattern.NewFiniteInt(uint64(v), bits), nil
			}
			return pattern.NewFiniteUint(uint64(v)), nil
		case uint64:
			if tt.Signed {
				return pattern.NewFiniteInt(v, bits), nil
			}
			return pattern.NewFiniteUint(v), nil
		}
	}
	return pattern.MaybeInt{}, lowerErrorf(p.GetToken(), "non-integer literal for type %s", ty)
}

func floatValue(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func (l *lowerer) lowerRange(p *ast.RangePattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	tok := p.GetToken()
	switch tt := ty.(type) {
	case typesystem.Int, typesystem.Char:
		// Open bounds map to the infinities of the extended domain.
		lo := pattern.NegInfinity
		hi := pattern.PosInfinity
		end := pattern.Excluded
		var err error
		if p.Lo != nil {
			lo, err = literalEndpoint(p.Lo, ty)
			if err != nil {
				return nil, err
			}
		}
		if p.Hi != nil {
			hi, err = literalEndpoint(p.Hi, ty)
			if err != nil {
				return nil, err
			}
			if p.Inclusive {
				end = pattern.Included
			}
		}
		if p.Lo != nil && p.Hi != nil {
			c := lo.Cmp(hi)
			if c > 0 || (c == 0 && end == pattern.Excluded) {
				return nil, lowerErrorf(tok, "empty range pattern")
			}
		}
		return l.arena.New(pattern.IntRangeCtor(pattern.NewRange(lo, hi, end)), nil, ty, tok), nil

	case typesystem.Float:
		lo := math.Inf(-1)
		hi := math.Inf(1)
		if p.Lo != nil {
			v, ok := floatValue(p.Lo.Value)
			if !ok {
				return nil, lowerErrorf(tok, "non-numeric range endpoint for %s", ty)
			}
			lo = v
		}
		end := pattern.Excluded
		if p.Hi != nil {
			v, ok := floatValue(p.Hi.Value)
			if !ok {
				return nil, lowerErrorf(tok, "non-numeric range endpoint for %s", ty)
			}
			hi = v
			if p.Inclusive {
				end = pattern.Included
			}
		} else {
			end = pattern.Included
		}
		ctor := pattern.FloatRangeCtor(pattern.NewFloatRange(lo, hi, end), int(tt.Bits))
		return l.arena.New(ctor, nil, ty, tok), nil

	default:
		return nil, lowerErrorf(tok, "range pattern for non-numeric type %s", ty)
	}
}

func (l *lowerer) lowerConstructor(p *ast.ConstructorPattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	tok := p.GetToken()
	nt, ok := ty.(typesystem.Named)
	if !ok {
		return nil, lowerErrorf(tok, "constructor %s for non-declared type %s", p.Name, ty)
	}
	d, ok := l.cx.Table.Lookup(nt.Name)
	if !ok {
		return nil, lowerErrorf(tok, "unknown type %s", nt.Name)
	}
	if d.Kind != typesystem.EnumDecl {
		return nil, lowerErrorf(tok, "%s is not an enum", nt.Name)
	}
	vi, ok := d.VariantIndex(p.Name)
	if !ok {
		return nil, lowerErrorf(tok, "no variant %s in %s", p.Name, nt.Name)
	}
	variant := &d.Variants[vi]
	if len(p.Elements) > 0 && len(p.Elements) != len(variant.Fields) {
		return nil, lowerErrorf(tok, "variant %s has %d fields, pattern names %d", p.Name, len(variant.Fields), len(p.Elements))
	}
	ctor := pattern.VariantCtor(vi)
	fields, err := l.productFields(ctor, d, vi, ty, func(declIdx int) ast.Pattern {
		if declIdx < len(p.Elements) {
			return p.Elements[declIdx]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l.arena.New(ctor, fields, ty, tok), nil
}

func (l *lowerer) lowerRecord(p *ast.RecordPattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	tok := p.GetToken()
	nt, ok := ty.(typesystem.Named)
	if !ok {
		return nil, lowerErrorf(tok, "record pattern for non-declared type %s", ty)
	}
	d, ok := l.cx.Table.Lookup(nt.Name)
	if !ok {
		return nil, lowerErrorf(tok, "unknown type %s", nt.Name)
	}
	var ctor pattern.Constructor
	vi := 0
	switch d.Kind {
	case typesystem.UnionDecl:
		ctor = pattern.UnionFieldCtor()
	case typesystem.StructDecl:
		ctor = pattern.StructCtor()
	default:
		if p.VariantName == "" {
			return nil, lowerErrorf(tok, "record pattern for enum %s needs a variant name", nt.Name)
		}
		var found bool
		vi, found = d.VariantIndex(p.VariantName)
		if !found {
			return nil, lowerErrorf(tok, "no variant %s in %s", p.VariantName, nt.Name)
		}
		ctor = pattern.VariantCtor(vi)
	}
	variant := &d.Variants[vi]
	byName := make(map[string]ast.Pattern, len(p.Fields))
	for _, f := range p.Fields {
		if _, dup := byName[f.Name]; dup {
			return nil, lowerErrorf(tok, "field %s mentioned twice", f.Name)
		}
		if _, found := fieldIndex(variant, f.Name); !found {
			return nil, lowerErrorf(tok, "no field %s in %s", f.Name, variantDisplay(d, vi))
		}
		byName[f.Name] = f.Pattern
	}
	fields, err := l.productFields(ctor, d, vi, ty, func(declIdx int) ast.Pattern {
		return byName[variant.Fields[declIdx].Name]
	})
	if err != nil {
		return nil, err
	}
	return l.arena.New(ctor, fields, ty, tok), nil
}

// productFields builds one slot per non-hidden field of the chosen variant,
// defaulting unspecified slots to wildcards and overwriting named slots with
// their decomposed sub-pattern.
func (l *lowerer) productFields(ctor pattern.Constructor, d *typesystem.Decl, vi int, ty typesystem.Type, at func(declIdx int) ast.Pattern) ([]*pattern.DeconstructedPat, error) {
	idxs := l.cx.NonHiddenFieldIndices(d, vi)
	fields := make([]*pattern.DeconstructedPat, len(idxs))
	for slot, declIdx := range idxs {
		fieldTy := d.Variants[vi].Fields[declIdx].Ty
		sub := at(declIdx)
		if sub == nil {
			fields[slot] = l.arena.Wild(fieldTy)
			continue
		}
		f, err := l.lower(sub, fieldTy)
		if err != nil {
			return nil, err
		}
		fields[slot] = f
	}
	return fields, nil
}

func (l *lowerer) lowerList(p *ast.ListPattern, ty typesystem.Type) (*pattern.DeconstructedPat, error) {
	tok := p.GetToken()
	var elem typesystem.Type
	arrayLen := pattern.NoArrayLen
	switch tt := ty.(type) {
	case typesystem.List:
		elem = tt.Elem
	case typesystem.Array:
		elem = tt.Elem
		arrayLen = tt.Len
	default:
		return nil, lowerErrorf(tok, "list pattern for non-sequence type %s", ty)
	}

	spreadAt := -1
	for i, el := range p.Elements {
		if _, ok := el.(*ast.SpreadPattern); ok {
			if spreadAt >= 0 {
				return nil, lowerErrorf(tok, "more than one rest marker in list pattern")
			}
			spreadAt = i
		}
	}

	var slice pattern.Slice
	var elements []ast.Pattern
	if spreadAt >= 0 {
		prefix := p.Elements[:spreadAt]
		suffix := p.Elements[spreadAt+1:]
		slice = pattern.NewVarSlice(arrayLen, len(prefix), len(suffix))
		elements = append(append([]ast.Pattern{}, prefix...), suffix...)
	} else {
		slice = pattern.NewFixedSlice(arrayLen, len(p.Elements))
		elements = p.Elements
	}
	if arrayLen != pattern.NoArrayLen && !slice.CoversLength(arrayLen) {
		return nil, lowerErrorf(tok, "list pattern does not fit array length %d", arrayLen)
	}

	fields := make([]*pattern.DeconstructedPat, len(elements))
	for i, el := range elements {
		f, err := l.lower(el, elem)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return l.arena.New(pattern.SliceCtor(slice), fields, ty, tok), nil
}

func fieldIndex(v *typesystem.Variant, name string) (int, bool) {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

func variantDisplay(d *typesystem.Decl, vi int) string {
	if d.Kind == typesystem.EnumDecl {
		return d.Name + "." + d.Variants[vi].Name
	}
	return d.Name
}
