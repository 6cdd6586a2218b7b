package analyzer

import (
	"errors"

	"github.com/funvibe/matchck/internal/pattern"
)

// errTooComplex aborts one analysis when the recursion budget runs out.
// Reachability stays unknown for every arm; no valid warning is suppressed.
var errTooComplex = errors.New("match too complex to analyze")

// matrixRow is one row of the pattern matrix: one column per scrutinee
// position. All rows of a matrix agree column-wise on value type.
type matrixRow []*pattern.DeconstructedPat

// witness is a stack of reconstructed pattern values, one per matrix
// column, built bottom-up as the usefulness recursion unwinds.
type witness []*pattern.WitnessPat

func prependWitness(p *pattern.WitnessPat, w witness) witness {
	out := make(witness, 0, len(w)+1)
	out = append(out, p)
	return append(out, w...)
}

// uctx carries the per-check state of the engine: the type adapter, the
// pattern arena for wildcard expansion, and the recursion budget.
type uctx struct {
	cx    pattern.TypeCx
	arena *pattern.Arena
	steps int
	limit int
}

// expandOrRows replaces every row whose first column is a disjunction with
// one row per alternative, in written order. The engine never specializes
// an Or constructor.
func expandOrRows(rows []matrixRow) []matrixRow {
	expanded := false
	for _, r := range rows {
		if len(r) > 0 && r[0].Ctor.Kind == pattern.Or {
			expanded = true
			break
		}
	}
	if !expanded {
		return rows
	}
	out := make([]matrixRow, 0, len(rows))
	for _, r := range rows {
		if len(r) == 0 || r[0].Ctor.Kind != pattern.Or {
			out = append(out, r)
			continue
		}
		for _, alt := range r[0].Fields {
			nr := make(matrixRow, 0, len(r))
			nr = append(nr, alt)
			nr = append(nr, r[1:]...)
			out = append(out, nr)
		}
	}
	// Nested disjunctions surface as new first columns.
	return expandOrRows(out)
}

// headCtors collects the distinct non-wildcard constructors of a column.
func headCtors(rows []matrixRow) []pattern.Constructor {
	var out []pattern.Constructor
	for _, r := range rows {
		if r[0].Ctor.Kind != pattern.Wildcard {
			out = append(out, r[0].Ctor)
		}
	}
	return out
}

// specializeRow filters and rewrites one row under a constructor: the
// matched column is dropped and its resolved fields are spliced in front.
// Reports false when the row cannot match values shaped by ctor. The caller
// passes boundary-aligned constructors only, so partial overlap is
// impossible.
func (u *uctx) specializeRow(r matrixRow, ctor pattern.Constructor, fieldTys []pattern.Ty) (matrixRow, bool) {
	head := r[0]
	arity := len(fieldTys)
	var fields []*pattern.DeconstructedPat
	switch {
	case head.Ctor.Kind == pattern.Wildcard:
		fields = make([]*pattern.DeconstructedPat, arity)
		for i, ft := range fieldTys {
			fields[i] = u.arena.Wild(ft)
		}
	case !ctor.IsCoveredBy(head.Ctor):
		return nil, false
	case head.Ctor.Kind == pattern.SliceK && len(head.Fields) < arity:
		// A shorter variable-length pattern meets a longer arity: align the
		// prefix and suffix, pad the middle with wildcards.
		if head.Ctor.Slice.Kind != pattern.VarLen {
			pattern.Bug("fixed-length slice with mismatched arity")
		}
		prefix := head.Ctor.Slice.Prefix
		fields = make([]*pattern.DeconstructedPat, 0, arity)
		fields = append(fields, head.Fields[:prefix]...)
		for i := 0; i < arity-len(head.Fields); i++ {
			fields = append(fields, u.arena.Wild(fieldTys[prefix+i]))
		}
		fields = append(fields, head.Fields[prefix:]...)
	default:
		if len(head.Fields) != arity {
			pattern.Bug("constructor arity does not match field count")
		}
		fields = head.Fields
	}
	out := make(matrixRow, 0, arity+len(r)-1)
	out = append(out, fields...)
	return append(out, r[1:]...), true
}

// specializeAndRecurse runs one branch of the per-constructor exploration:
// both the prior rows and the candidate are specialized under ctor, and any
// witnesses coming back get ctor re-attached as their outer shape.
func (u *uctx) specializeAndRecurse(rows []matrixRow, v matrixRow, ctor pattern.Constructor, withWitness bool) (bool, []witness, error) {
	ty := v[0].Ty
	fieldTys := u.cx.CtorFieldTypes(ctor, ty)
	var sm []matrixRow
	for _, r := range rows {
		if sr, ok := u.specializeRow(r, ctor, fieldTys); ok {
			sm = append(sm, sr)
		}
	}
	sv, ok := u.specializeRow(v, ctor, fieldTys)
	if !ok {
		pattern.Bug("candidate row rejected by its own constructor")
	}
	useful, wits, err := u.isUseful(sm, sv, withWitness)
	if err != nil || !useful || !withWitness {
		return useful, nil, err
	}
	arity := len(fieldTys)
	out := make([]witness, len(wits))
	for i, w := range wits {
		wp := &pattern.WitnessPat{Ctor: ctor, Fields: w[:arity:arity], Ty: ty}
		out[i] = prependWitness(wp, w[arity:])
	}
	return true, out, nil
}

// missingWitness builds the outer shape of a counterexample for a
// constructor nothing matched: the constructor itself over wildcard fields.
// Hidden and NonExhaustive carry no fields and later render as a
// placeholder.
func (u *uctx) missingWitness(ctor pattern.Constructor, ty pattern.Ty) *pattern.WitnessPat {
	fieldTys := u.cx.CtorFieldTypes(ctor, ty)
	fields := make([]*pattern.WitnessPat, len(fieldTys))
	for i, ft := range fieldTys {
		fields[i] = pattern.WildWitness(ft)
	}
	return &pattern.WitnessPat{Ctor: ctor, Fields: fields, Ty: ty}
}

// isUseful decides whether the candidate row matches at least one value no
// prior row matches, recursing on column count. With withWitness set it
// also reconstructs example values, one stack entry per remaining column.
func (u *uctx) isUseful(rows []matrixRow, v matrixRow, withWitness bool) (bool, []witness, error) {
	u.steps++
	if u.steps > u.limit {
		return false, nil, errTooComplex
	}

	// No columns left: the value space is fully claimed iff anything
	// preceded the candidate.
	if len(v) == 0 {
		if len(rows) > 0 {
			return false, nil, nil
		}
		if withWitness {
			return true, []witness{{}}, nil
		}
		return true, nil, nil
	}

	rows = expandOrRows(rows)
	head := v[0]
	ty := head.Ty

	// A disjunction is useful iff any alternative is, tried in written
	// order; earlier alternatives' coverage is visible to later ones.
	if head.Ctor.Kind == pattern.Or {
		cur := rows[:len(rows):len(rows)]
		useful := false
		var wits []witness
		for _, alt := range head.Fields {
			altRow := make(matrixRow, 0, len(v))
			altRow = append(altRow, alt)
			altRow = append(altRow, v[1:]...)
			ok, w, err := u.isUseful(cur, altRow, withWitness)
			if err != nil {
				return false, nil, err
			}
			if ok {
				useful = true
				wits = append(wits, w...)
			}
			cur = append(cur, altRow)
		}
		return useful, wits, nil
	}

	seen := headCtors(rows)

	if head.Ctor.Kind == pattern.Wildcard {
		set, err := u.cx.CtorsForType(ty)
		if err != nil {
			return false, nil, err
		}
		split := set.Split(seen)

		if len(split.Missing) == 0 {
			// Every inhabited constructor is claimed by some prior row;
			// explore each one.
			useful := false
			var wits []witness
			for _, ctor := range split.Present {
				ok, w, err := u.specializeAndRecurse(rows, v, ctor, withWitness)
				if err != nil {
					return false, nil, err
				}
				if ok {
					useful = true
					wits = append(wits, w...)
				}
			}
			return useful, wits, nil
		}

		// Some constructor is matched by nothing: only rows that keep
		// matching regardless of the head constructor still count.
		var dm []matrixRow
		for _, r := range rows {
			if r[0].Ctor.Kind == pattern.Wildcard {
				dm = append(dm, r[1:])
			}
		}
		useful, wits, err := u.isUseful(dm, v[1:], withWitness)
		if err != nil || !useful || !withWitness {
			return useful, nil, err
		}
		var out []witness
		if len(seen) == 0 {
			// No information in this column at all; a bare placeholder
			// says more than an arbitrary constructor.
			for _, w := range wits {
				out = append(out, prependWitness(pattern.WildWitness(ty), w))
			}
		} else {
			for _, m := range split.Missing {
				mw := u.missingWitness(m, ty)
				for _, w := range wits {
					out = append(out, prependWitness(mw, w))
				}
			}
		}
		return true, out, nil
	}

	// A concrete constructor is exact: no alternatives are explored, but
	// ranges and variable-length slices are first split against the column
	// so each branch is fully covered or fully uncovered.
	useful := false
	var wits []witness
	for _, piece := range head.Ctor.Split(seen) {
		ok, w, err := u.specializeAndRecurse(rows, v, piece, withWitness)
		if err != nil {
			return false, nil, err
		}
		if ok {
			useful = true
			wits = append(wits, w...)
		}
	}
	return useful, wits, nil
}
