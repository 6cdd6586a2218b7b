package analyzer

import (
	"errors"
	"strings"

	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/config"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/pattern"
	"github.com/funvibe/matchck/internal/prettyprinter"
	"github.com/funvibe/matchck/internal/token"
	"github.com/funvibe/matchck/internal/typesystem"
)

// Usefulness is the per-arm verdict of one match analysis.
type Usefulness int

const (
	// ArmUnknown means the analysis gave up before reaching a verdict.
	ArmUnknown Usefulness = iota
	// ArmUseful means the arm matches at least one value no earlier arm does.
	ArmUseful
	// ArmRedundant means every value the arm matches is claimed earlier.
	ArmRedundant
)

func (u Usefulness) String() string {
	switch u {
	case ArmUseful:
		return "useful"
	case ArmRedundant:
		return "redundant"
	default:
		return "unknown"
	}
}

// Arm is one lowered match arm. Guarded arms never claim coverage and are
// never reported redundant, since their guard may fail at runtime.
type Arm struct {
	Pat      *pattern.DeconstructedPat
	HasGuard bool
	Tok      token.Token
}

// UsefulnessReport is the outcome of analyzing one match expression.
type UsefulnessReport struct {
	// Arms holds one verdict per input arm, in order.
	Arms []Usefulness
	// Witnesses lists example values no arm matches, capped at
	// config.MaxWitnesses. Empty means the match is exhaustive.
	Witnesses []*pattern.WitnessPat
	// TooComplex is set when the recursion budget ran out; all verdicts
	// are ArmUnknown and Witnesses is empty.
	TooComplex bool
}

// IsExhaustive reports whether the analysis proved every value covered.
func (r *UsefulnessReport) IsExhaustive() bool {
	return !r.TooComplex && len(r.Witnesses) == 0
}

// CheckMatch analyzes the arms of one match over a scrutinee type. Arms are
// processed top to bottom, each checked for usefulness against the unguarded
// arms above it; a final synthetic wildcard probes exhaustiveness and
// collects witnesses for anything left uncovered.
//
// A type in an error state surfaces as a plain error with no report.
// Internal consistency violations abort only this match.
func CheckMatch(cx pattern.TypeCx, arena *pattern.Arena, scrutTy pattern.Ty, arms []Arm) (report *UsefulnessReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(*pattern.BugError); ok {
				report = nil
				err = diagnostics.NewError(diagnostics.ErrM005, token.Token{}, b.Msg)
				return
			}
			panic(r)
		}
	}()

	u := &uctx{cx: cx, arena: arena, limit: config.MaxCheckDepth}
	report = &UsefulnessReport{Arms: make([]Usefulness, len(arms))}
	var matrix []matrixRow
	for i, a := range arms {
		v := matrixRow{a.Pat}
		if a.HasGuard {
			report.Arms[i] = ArmUseful
			continue
		}
		useful, _, uerr := u.isUseful(matrix, v, false)
		if uerr != nil {
			return report.fail(uerr)
		}
		if useful {
			report.Arms[i] = ArmUseful
		} else {
			report.Arms[i] = ArmRedundant
		}
		matrix = append(matrix, v)
	}

	probe := matrixRow{arena.Wild(scrutTy)}
	useful, wits, uerr := u.isUseful(matrix, probe, true)
	if uerr != nil {
		return report.fail(uerr)
	}
	if useful {
		for _, w := range wits {
			if len(w) != 1 {
				pattern.Bug("witness stack not fully unwound")
			}
			report.Witnesses = append(report.Witnesses, w[0])
			if len(report.Witnesses) >= config.MaxWitnesses {
				break
			}
		}
	}
	return report, nil
}

// fail converts an engine error into the report's failure shape: a budget
// overrun leaves every arm unknown, anything else propagates.
func (r *UsefulnessReport) fail(err error) (*UsefulnessReport, error) {
	if errors.Is(err, errTooComplex) {
		for i := range r.Arms {
			r.Arms[i] = ArmUnknown
		}
		r.Witnesses = nil
		r.TooComplex = true
		return r, nil
	}
	return nil, err
}

// CheckExhaustiveness is the front door for one surface match expression:
// it lowers the arm patterns against the scrutinee type, runs the analysis,
// and renders the verdicts as diagnostics. tok positions match-level
// diagnostics; per-arm diagnostics use each arm's own token.
func CheckExhaustiveness(cx *typesystem.Cx, tok token.Token, scrutTy typesystem.Type, arms []ast.MatchArm) []*diagnostics.DiagnosticError {
	arena := pattern.NewArena()
	var diags []*diagnostics.DiagnosticError
	lowered := make([]Arm, 0, len(arms))
	for _, a := range arms {
		dp, err := Lower(cx, arena, a.Pattern, scrutTy)
		if err != nil {
			var de *diagnostics.DiagnosticError
			if errors.As(err, &de) {
				diags = append(diags, de)
			} else {
				diags = append(diags, diagnostics.NewError(diagnostics.ErrM001, a.Pattern.GetToken(), err.Error()))
			}
			continue
		}
		lowered = append(lowered, Arm{Pat: dp, HasGuard: a.HasGuard, Tok: a.Pattern.GetToken()})
	}
	// Ill-typed arms: report those and skip the analysis rather than
	// cascade from a half-lowered matrix.
	if len(diags) > 0 {
		return diags
	}

	report, err := CheckMatch(cx, arena, scrutTy, lowered)
	if err != nil {
		var ese *typesystem.ErrorStateError
		if errors.As(err, &ese) {
			return nil
		}
		var de *diagnostics.DiagnosticError
		if errors.As(err, &de) {
			return []*diagnostics.DiagnosticError{de}
		}
		return []*diagnostics.DiagnosticError{diagnostics.NewError(diagnostics.ErrM005, tok, err.Error())}
	}
	if report.TooComplex {
		return []*diagnostics.DiagnosticError{diagnostics.NewError(diagnostics.ErrM002, tok, "")}
	}

	if len(report.Witnesses) > 0 {
		rendered := make([]string, len(report.Witnesses))
		for i, w := range report.Witnesses {
			rendered[i] = prettyprinter.PrintPattern(HoistWitness(cx, w))
		}
		detail := "uncovered values: " + strings.Join(rendered, ", ")
		diags = append(diags, diagnostics.NewError(diagnostics.ErrM003, tok, detail))
	}
	for i, verdict := range report.Arms {
		if verdict == ArmRedundant {
			diags = append(diags, diagnostics.NewError(diagnostics.ErrM004, lowered[i].Tok, ""))
		}
	}
	return diags
}
