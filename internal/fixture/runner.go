package fixture

import (
	"github.com/funvibe/matchck/internal/analyzer"
	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/token"
	"github.com/funvibe/matchck/internal/typesystem"
)

// MatchResult is the analysis outcome of one declared match.
type MatchResult struct {
	Name string
	// Diags is empty when the match is exhaustive with no unreachable arms.
	Diags []*diagnostics.DiagnosticError
}

// Run analyzes every match in the fixture. Declaration and notation errors
// abort the whole fixture; analysis diagnostics are collected per match.
func (f *Fixture) Run() ([]MatchResult, error) {
	table, err := f.BuildTable()
	if err != nil {
		return nil, err
	}
	cx := typesystem.NewCx(table, f.Module)

	results := make([]MatchResult, 0, len(f.Matches))
	for _, m := range f.Matches {
		ty, err := ParseType(m.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, len(m.Arms))
		for i, a := range m.Arms {
			pat, err := ParsePattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.MatchArm{Pattern: pat, HasGuard: a.Guard, ArmID: i}
		}
		// A match with no arms is legal; it is exhaustive only over an
		// uninhabited scrutinee.
		var tok token.Token
		if len(arms) > 0 {
			tok = arms[0].Pattern.GetToken()
		}
		diags := analyzer.CheckExhaustiveness(cx, tok, ty, arms)
		results = append(results, MatchResult{Name: m.Name, Diags: diags})
	}
	return results, nil
}
