package typesystem

import "fmt"

// DeclKind classifies a type declaration.
type DeclKind int

const (
	EnumDecl DeclKind = iota
	StructDecl
	UnionDecl
)

// Field is one field of a variant, struct or union.
type Field struct {
	Name   string
	Ty     Type
	Public bool
}

// Variant is one constructor of an enum declaration. Structs and unions are
// modeled as a declaration with exactly one variant.
type Variant struct {
	Name   string
	Fields []Field
	// Unstable variants depend on a capability the checking context lacks.
	Unstable bool
	// DocHidden variants are suppressed in diagnostics when foreign.
	DocHidden bool
}

// Decl is a named type declaration.
type Decl struct {
	Name   string
	Module string
	Kind   DeclKind
	// NonExhaustive marks a declaration open for extension by upstream
	// modules: foreign matches must conservatively assume an unknown extra
	// constructor.
	NonExhaustive bool
	Variants      []Variant
}

// VariantIndex resolves a variant by name.
func (d *Decl) VariantIndex(name string) (int, bool) {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Table holds the type declarations visible to one checking session. It is
// populated up front and read-only afterwards, so concurrent checks may
// share it.
type Table struct {
	decls map[string]*Decl
}

// NewTable returns an empty declaration table.
func NewTable() *Table {
	return &Table{decls: make(map[string]*Decl)}
}

// Declare registers a declaration. Redeclaring a name is an error.
func (t *Table) Declare(d *Decl) error {
	if _, ok := t.decls[d.Name]; ok {
		return fmt.Errorf("type %s already declared", d.Name)
	}
	if d.Kind != EnumDecl && len(d.Variants) != 1 {
		return fmt.Errorf("type %s: struct and union declarations need exactly one variant", d.Name)
	}
	t.decls[d.Name] = d
	return nil
}

// Lookup resolves a declaration by name.
func (t *Table) Lookup(name string) (*Decl, bool) {
	d, ok := t.decls[name]
	return d, ok
}
