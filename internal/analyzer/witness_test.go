package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/pattern"
	"github.com/funvibe/matchck/internal/prettyprinter"
	"github.com/funvibe/matchck/internal/token"
	"github.com/funvibe/matchck/internal/typesystem"
)

func emptyCx(t *testing.T) *typesystem.Cx {
	t.Helper()
	return typesystem.NewCx(typesystem.NewTable(), "main")
}

func optCx(t *testing.T) *typesystem.Cx {
	t.Helper()
	table := typesystem.NewTable()
	err := table.Declare(&typesystem.Decl{
		Name:   "Opt",
		Module: "main",
		Kind:   typesystem.EnumDecl,
		Variants: []typesystem.Variant{
			{Name: "MySome", Fields: []typesystem.Field{{Name: "value", Ty: typesystem.Bool{}, Public: true}}},
			{Name: "MyNone"},
		},
	})
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	return typesystem.NewCx(table, "main")
}

func boolPat(arena *pattern.Arena, b bool) *pattern.DeconstructedPat {
	return arena.New(pattern.BoolCtor(b), nil, typesystem.Bool{}, token.Token{})
}

// Every reported witness, when used verbatim as an extra arm, must close the
// gap it names. Repeating that until no witnesses remain has to terminate in
// an exhaustive match for any listable scrutinee.
func TestWitnessClosesGap(t *testing.T) {
	u8 := typesystem.Int{Bits: 8}

	cases := []struct {
		name string
		cx   *typesystem.Cx
		ty   typesystem.Type
		arms func(arena *pattern.Arena) []Arm
	}{
		{
			name: "bool pair",
			cx:   emptyCx(t),
			ty:   typesystem.Tuple{Elems: []typesystem.Type{typesystem.Bool{}, typesystem.Bool{}}},
			arms: func(arena *pattern.Arena) []Arm {
				ty := typesystem.Tuple{Elems: []typesystem.Type{typesystem.Bool{}, typesystem.Bool{}}}
				fields := []*pattern.DeconstructedPat{boolPat(arena, true), arena.Wild(typesystem.Bool{})}
				return []Arm{{Pat: arena.New(pattern.StructCtor(), fields, ty, token.Token{})}}
			},
		},
		{
			name: "byte with a hole on each side",
			cx:   emptyCx(t),
			ty:   u8,
			arms: func(arena *pattern.Arena) []Arm {
				r := pattern.NewRange(pattern.NewFiniteUint(50), pattern.NewFiniteUint(99), pattern.Included)
				return []Arm{{Pat: arena.New(pattern.IntRangeCtor(r), nil, u8, token.Token{})}}
			},
		},
		{
			name: "enum missing a variant",
			cx:   optCx(t),
			ty:   typesystem.Named{Name: "Opt"},
			arms: func(arena *pattern.Arena) []Arm {
				ty := typesystem.Named{Name: "Opt"}
				return []Arm{{Pat: arena.New(pattern.VariantCtor(1), nil, ty, token.Token{})}}
			},
		},
		{
			name: "list covered only at length zero",
			cx:   emptyCx(t),
			ty:   typesystem.List{Elem: typesystem.Bool{}},
			arms: func(arena *pattern.Arena) []Arm {
				ty := typesystem.List{Elem: typesystem.Bool{}}
				ctor := pattern.SliceCtor(pattern.NewFixedSlice(pattern.NoArrayLen, 0))
				return []Arm{{Pat: arena.New(ctor, nil, ty, token.Token{})}}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			arena := pattern.NewArena()
			arms := tc.arms(arena)
			for round := 0; round < 32; round++ {
				report, err := CheckMatch(tc.cx, arena, tc.ty, arms)
				if err != nil {
					t.Fatalf("round %d: %v", round, err)
				}
				if report.TooComplex {
					t.Fatalf("round %d: analysis gave up", round)
				}
				if report.IsExhaustive() {
					if round == 0 {
						t.Fatal("initial arms were already exhaustive, nothing to test")
					}
					return
				}
				for _, w := range report.Witnesses {
					hoisted := HoistWitness(tc.cx, w)
					dp, lerr := Lower(tc.cx, arena, hoisted, tc.ty)
					if lerr != nil {
						t.Fatalf("round %d: witness does not lower back: %v", round, lerr)
					}
					arms = append(arms, Arm{Pat: dp})
				}
			}
			t.Fatal("witnesses did not close the match in 32 rounds")
		})
	}
}

// A constructor that cannot exist at the scrutinee type is an internal
// consistency violation. It must surface as an M005 error for this match
// only, never as a crash.
func TestInternalBugSurfacesAsError(t *testing.T) {
	cx := emptyCx(t)
	arena := pattern.NewArena()
	bad := arena.New(pattern.VariantCtor(0), nil, typesystem.Bool{}, token.Token{})

	report, err := CheckMatch(cx, arena, typesystem.Bool{}, []Arm{{Pat: bad}})
	if report != nil {
		t.Fatalf("expected no report, got %+v", report)
	}
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected a diagnostic error, got %v", err)
	}
	if de.Code != diagnostics.ErrM005 {
		t.Fatalf("expected %s, got %s", diagnostics.ErrM005, de.Code)
	}
}

func TestErrorStateTypePropagates(t *testing.T) {
	cx := emptyCx(t)
	arena := pattern.NewArena()
	arms := []Arm{{Pat: arena.Wild(typesystem.ErrType{})}}

	report, err := CheckMatch(cx, arena, typesystem.ErrType{}, arms)
	if report != nil {
		t.Fatalf("expected no report, got %+v", report)
	}
	var ese *typesystem.ErrorStateError
	if !errors.As(err, &ese) {
		t.Fatalf("expected an error-state error, got %v", err)
	}
}

// An error-state scrutinee means upstream already reported a type error.
// The whole match stays silent rather than cascading.
func TestErrorStateTypeIsSilent(t *testing.T) {
	cx := emptyCx(t)
	arms := []ast.MatchArm{{Pattern: &ast.WildcardPattern{}}}

	diags := CheckExhaustiveness(cx, token.Token{}, typesystem.ErrType{}, arms)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

// A known array length makes a rest marker lossless, so array witnesses
// fold their longest wildcard run into one instead of spelling every
// element.
func TestArrayWitnessFoldsWildcardRun(t *testing.T) {
	cx := emptyCx(t)
	boolW := func(b bool) *pattern.WitnessPat {
		return &pattern.WitnessPat{Ctor: pattern.BoolCtor(b), Ty: typesystem.Bool{}}
	}
	wildW := func() *pattern.WitnessPat { return pattern.WildWitness(typesystem.Bool{}) }
	arrayW := func(fields ...*pattern.WitnessPat) *pattern.WitnessPat {
		return &pattern.WitnessPat{
			Ctor:   pattern.SliceCtor(pattern.NewFixedSlice(len(fields), len(fields))),
			Fields: fields,
			Ty:     typesystem.Array{Elem: typesystem.Bool{}, Len: len(fields)},
		}
	}

	cases := []struct {
		name string
		w    *pattern.WitnessPat
		want string
	}{
		{
			name: "interior run folds between the pinned ends",
			w:    arrayW(boolW(true), wildW(), wildW(), wildW(), boolW(false)),
			want: "[true, .., false]",
		},
		{
			name: "trailing run folds",
			w:    arrayW(boolW(false), wildW(), wildW(), wildW()),
			want: "[false, ..]",
		},
		{
			name: "leading run folds",
			w:    arrayW(wildW(), wildW(), boolW(true)),
			want: "[.., true]",
		},
		{
			name: "a single wildcard stays in place",
			w:    arrayW(boolW(true), wildW(), boolW(false)),
			want: "[true, _, false]",
		},
		{
			name: "all wildcards collapse to a placeholder",
			w:    arrayW(wildW(), wildW(), wildW()),
			want: "_",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := prettyprinter.PrintPattern(HoistWitness(cx, tc.w))
			if got != tc.want {
				t.Errorf("rendered %q, want %q", got, tc.want)
			}
		})
	}
}

// Hoisting the same witness twice through a lower/re-analyze cycle must not
// change its rendering.
func TestWitnessRenderingStable(t *testing.T) {
	cx := emptyCx(t)
	u8 := typesystem.Int{Bits: 8}

	arena := pattern.NewArena()
	r := pattern.NewRange(pattern.NewFiniteUint(50), pattern.NewFiniteUint(99), pattern.Included)
	arms := []Arm{{Pat: arena.New(pattern.IntRangeCtor(r), nil, u8, token.Token{})}}

	report, err := CheckMatch(cx, arena, u8, arms)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(report.Witnesses) == 0 {
		t.Fatal("expected witnesses")
	}
	var rendered []string
	for _, w := range report.Witnesses {
		first := HoistWitness(cx, w)
		dp, lerr := Lower(cx, arena, first, u8)
		if lerr != nil {
			t.Fatalf("lower: %v", lerr)
		}
		if dp.Ctor.Kind != pattern.IntRangeK && dp.Ctor.Kind != pattern.Bool {
			t.Fatalf("unexpected lowered constructor %v", dp.Ctor.Kind)
		}
		rendered = append(rendered, prettyprinter.PrintPattern(first))
	}
	joined := strings.Join(rendered, ", ")
	if !strings.Contains(joined, "0..=49") || !strings.Contains(joined, "100..=255") {
		t.Fatalf("unexpected witness rendering %q", joined)
	}
}
