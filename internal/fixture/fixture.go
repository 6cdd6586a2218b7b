// Package fixture loads match scenarios from YAML files. A fixture declares
// a set of types and a list of match expressions written in a compact
// pattern notation; the checker runs each match and reports its verdicts.
// Fixtures are the input format of the matchck command and of the golden
// tests.
package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/matchck/internal/config"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/token"
	"github.com/funvibe/matchck/internal/typesystem"
)

// Fixture is the top-level document of one fixture file.
type Fixture struct {
	// Module is the module the matches are checked from. Defaults to
	// config.LocalModule.
	Module string `yaml:"module,omitempty"`

	// Types declares the named types the matches refer to.
	Types []TypeDecl `yaml:"types,omitempty"`

	// Matches lists the match expressions to analyze.
	Matches []Match `yaml:"matches"`
}

// TypeDecl declares one named enum, struct or union type.
type TypeDecl struct {
	Name string `yaml:"name"`

	// Module the type is declared in. Defaults to the fixture's module;
	// a different module makes the type foreign to the checks.
	Module string `yaml:"module,omitempty"`

	// Kind is "enum", "struct" or "union". Defaults to "enum".
	Kind string `yaml:"kind,omitempty"`

	// NonExhaustive marks the type as open for extension; it only has an
	// effect when the type is foreign to the checking module.
	NonExhaustive bool `yaml:"non_exhaustive,omitempty"`

	// Variants of an enum. Struct and union declarations use Fields
	// directly instead.
	Variants []VariantDecl `yaml:"variants,omitempty"`

	// Fields of a struct or union declaration.
	Fields []FieldDecl `yaml:"fields,omitempty"`
}

// VariantDecl declares one enum variant.
type VariantDecl struct {
	Name      string      `yaml:"name"`
	Fields    []FieldDecl `yaml:"fields,omitempty"`
	Unstable  bool        `yaml:"unstable,omitempty"`
	DocHidden bool        `yaml:"doc_hidden,omitempty"`
}

// FieldDecl declares one field. Type uses the same notation as scrutinee
// types, e.g. "u8", "[bool]", "(char, Opt)".
type FieldDecl struct {
	Name   string `yaml:"name,omitempty"`
	Type   string `yaml:"type"`
	Public bool   `yaml:"public,omitempty"`
}

// Match is one match expression to analyze.
type Match struct {
	// Name identifies the match in reports and baselines.
	Name string `yaml:"name"`

	// Scrutinee is the matched type, in type notation.
	Scrutinee string `yaml:"scrutinee"`

	Arms []ArmDecl `yaml:"arms"`
}

// ArmDecl is one arm: a pattern in pattern notation plus a guard flag.
type ArmDecl struct {
	Pattern string `yaml:"pattern"`
	Guard   bool   `yaml:"guard,omitempty"`
}

// Load parses one fixture document.
func Load(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrF001, token.Token{}, err.Error())
	}
	if f.Module == "" {
		f.Module = config.LocalModule
	}
	if len(f.Matches) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrF001, token.Token{}, "fixture declares no matches")
	}
	for i := range f.Matches {
		m := &f.Matches[i]
		if m.Name == "" {
			m.Name = fmt.Sprintf("match-%d", i+1)
		}
		if m.Scrutinee == "" {
			return nil, diagnostics.NewError(diagnostics.ErrF001, token.Token{}, "match "+m.Name+" has no scrutinee type")
		}
	}
	return &f, nil
}

// BuildTable turns the fixture's type declarations into a declaration
// table, resolving field types in notation form.
func (f *Fixture) BuildTable() (*typesystem.Table, error) {
	table := typesystem.NewTable()
	for i := range f.Types {
		td := &f.Types[i]
		d, err := f.buildDecl(td)
		if err != nil {
			return nil, err
		}
		if err := table.Declare(d); err != nil {
			return nil, diagnostics.NewError(diagnostics.ErrF001, token.Token{}, err.Error())
		}
	}
	return table, nil
}

func (f *Fixture) buildDecl(td *TypeDecl) (*typesystem.Decl, error) {
	mod := td.Module
	if mod == "" {
		mod = f.Module
	}
	d := &typesystem.Decl{
		Name:          td.Name,
		Module:        mod,
		NonExhaustive: td.NonExhaustive,
	}
	switch td.Kind {
	case "", "enum":
		d.Kind = typesystem.EnumDecl
		for vi := range td.Variants {
			vd := &td.Variants[vi]
			fields, err := buildFields(vd.Fields)
			if err != nil {
				return nil, err
			}
			d.Variants = append(d.Variants, typesystem.Variant{
				Name:      vd.Name,
				Fields:    fields,
				Unstable:  vd.Unstable,
				DocHidden: vd.DocHidden,
			})
		}
	case "struct", "union":
		if td.Kind == "struct" {
			d.Kind = typesystem.StructDecl
		} else {
			d.Kind = typesystem.UnionDecl
		}
		fields, err := buildFields(td.Fields)
		if err != nil {
			return nil, err
		}
		d.Variants = []typesystem.Variant{{Name: td.Name, Fields: fields}}
	default:
		return nil, diagnostics.NewError(diagnostics.ErrF001, token.Token{}, "unknown type kind "+strconv.Quote(td.Kind))
	}
	return d, nil
}

func buildFields(decls []FieldDecl) ([]typesystem.Field, error) {
	fields := make([]typesystem.Field, len(decls))
	for i, fd := range decls {
		ty, err := ParseType(fd.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = typesystem.Field{Name: fd.Name, Ty: ty, Public: fd.Public}
	}
	return fields, nil
}

// ParseType reads the compact type notation: scalar names (bool, u8..u64,
// i8..i64, usize, isize, char, f32, f64, str, never), "[T]" lists,
// "[T; N]" arrays, "(A, B)" tuples, "&T" references, "!Name" foreign
// opaque types, and bare identifiers for declared names.
func ParseType(s string) (typesystem.Type, error) {
	t, rest, err := parseTypeInner(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, typeErr(s, "trailing input")
	}
	return t, nil
}

func typeErr(s, detail string) error {
	return diagnostics.NewError(diagnostics.ErrF001, token.Token{}, "type "+strconv.Quote(s)+": "+detail)
}

var scalarTypes = map[string]typesystem.Type{
	"bool":  typesystem.Bool{},
	"char":  typesystem.Char{},
	"str":   typesystem.Str{},
	"never": typesystem.Never{},
	"u8":    typesystem.U8,
	"u16":   typesystem.U16,
	"u32":   typesystem.U32,
	"u64":   typesystem.U64,
	"i8":    typesystem.I8,
	"i16":   typesystem.I16,
	"i32":   typesystem.I32,
	"i64":   typesystem.I64,
	"usize": typesystem.Usize,
	"isize": typesystem.Isize,
	"f32":   typesystem.Float{Bits: 32},
	"f64":   typesystem.Float{Bits: 64},
}

func parseTypeInner(s string) (typesystem.Type, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", typeErr(s, "empty type")
	}
	switch s[0] {
	case '&':
		elem, rest, err := parseTypeInner(s[1:])
		if err != nil {
			return nil, "", err
		}
		return typesystem.Ref{Elem: elem}, rest, nil

	case '!':
		name, rest := takeIdent(s[1:])
		if name == "" {
			return nil, "", typeErr(s, "foreign type needs a name")
		}
		return typesystem.Foreign{Name: name}, rest, nil

	case '[':
		elem, rest, err := parseTypeInner(s[1:])
		if err != nil {
			return nil, "", err
		}
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, ";") {
			rest = strings.TrimSpace(rest[1:])
			j := 0
			for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
				j++
			}
			if j == 0 {
				return nil, "", typeErr(s, "array length expected after ';'")
			}
			n, err := strconv.Atoi(rest[:j])
			if err != nil {
				return nil, "", typeErr(s, err.Error())
			}
			rest = strings.TrimSpace(rest[j:])
			if !strings.HasPrefix(rest, "]") {
				return nil, "", typeErr(s, "missing ']'")
			}
			return typesystem.Array{Elem: elem, Len: n}, rest[1:], nil
		}
		if !strings.HasPrefix(rest, "]") {
			return nil, "", typeErr(s, "missing ']'")
		}
		return typesystem.List{Elem: elem}, rest[1:], nil

	case '(':
		var elems []typesystem.Type
		rest := s[1:]
		for {
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, ")") {
				rest = rest[1:]
				break
			}
			var elem typesystem.Type
			var err error
			elem, rest, err = parseTypeInner(rest)
			if err != nil {
				return nil, "", err
			}
			elems = append(elems, elem)
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, ",") {
				rest = rest[1:]
			}
		}
		if len(elems) == 1 {
			return elems[0], rest, nil
		}
		return typesystem.Tuple{Elems: elems}, rest, nil
	}

	name, rest := takeIdent(s)
	if name == "" {
		return nil, "", typeErr(s, "unexpected character "+strconv.QuoteRune(rune(s[0])))
	}
	if t, ok := scalarTypes[name]; ok {
		return t, rest, nil
	}
	if name == "String" {
		return typesystem.StringTy, rest, nil
	}
	return typesystem.Named{Name: name}, rest, nil
}

func takeIdent(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}
