package fixture

import (
	"errors"
	"testing"

	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/prettyprinter"
)

// Parsing then printing must reproduce the notation. Inputs are written in
// the printer's normal form so the comparison is exact.
func TestParsePatternRoundTrip(t *testing.T) {
	inputs := []string{
		"_",
		"x",
		"true",
		"false",
		"0",
		"-128",
		"18446744073709551615",
		"2.5",
		"'a'",
		`"hello"`,
		"1..=9",
		"0..255",
		"5..",
		"..=0",
		"'a'..='z'",
		"(true, _)",
		"(1, (2, 3))",
		"[]",
		"[_, ..]",
		"[a, .., z]",
		"&true",
		"&&x",
		"MyNone",
		"MySome(x)",
		"MySome(true | false)",
		"Point { x: 1, .. }",
		"Point {}",
		"Opt.MySome { value: _ }",
		"true | false",
		"n @ 1..=9",
		"^limit",
	}
	for _, in := range inputs {
		pat, err := ParsePattern(in)
		if err != nil {
			t.Errorf("ParsePattern(%q): %v", in, err)
			continue
		}
		if out := prettyprinter.PrintPattern(pat); out != in {
			t.Errorf("ParsePattern(%q) prints back as %q", in, out)
		}
	}
}

func TestParsePatternShapes(t *testing.T) {
	// ----
	// Parenthesized single pattern is grouping, not a 1-tuple.
	// ----
	pat, err := ParsePattern("(true)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := pat.(*ast.LiteralPattern); !ok {
		t.Fatalf("expected grouping to unwrap, got %T", pat)
	}

	// ----
	// Or alternatives are flattened left to right.
	// ----
	pat, err = ParsePattern("1 | 2 | 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	or, ok := pat.(*ast.OrPattern)
	if !ok {
		t.Fatalf("expected or-pattern, got %T", pat)
	}
	if len(or.Alternatives) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(or.Alternatives))
	}

	// ----
	// A named rest binding in a list keeps its name.
	// ----
	pat, err = ParsePattern("[first, ..mid, last]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	list, ok := pat.(*ast.ListPattern)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected 3-element list, got %#v", pat)
	}
	sp, ok := list.Elements[1].(*ast.SpreadPattern)
	if !ok || sp.Name != "mid" {
		t.Fatalf("expected named rest, got %#v", list.Elements[1])
	}

	// ----
	// A qualified variant with no body matches any of its fields.
	// ----
	pat, err = ParsePattern("Opt.MySome")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rec, ok := pat.(*ast.RecordPattern)
	if !ok || rec.TypeName != "Opt" || rec.VariantName != "MySome" || !rec.Rest {
		t.Fatalf("expected open record for the variant, got %#v", pat)
	}

	// ----
	// Column positions are byte offsets into the notation, 1-based.
	// ----
	pat, err = ParsePattern("  true")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tok := pat.GetToken(); tok.Line != 1 || tok.Column != 3 {
		t.Fatalf("expected position 1:3, got %d:%d", tok.Line, tok.Column)
	}
}

func TestParsePatternErrors(t *testing.T) {
	inputs := []string{
		"",
		"true |",
		"(true",
		"[a, b",
		"'a",
		`"abc`,
		"Point { x }",
		"Point { x: }",
		"^",
		"#",
		"true false",
	}
	for _, in := range inputs {
		_, err := ParsePattern(in)
		if err == nil {
			t.Errorf("ParsePattern(%q): expected error", in)
			continue
		}
		var de *diagnostics.DiagnosticError
		if !errors.As(err, &de) || de.Code != diagnostics.ErrF002 {
			t.Errorf("ParsePattern(%q): expected F002, got %v", in, err)
		}
	}
}
