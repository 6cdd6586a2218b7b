package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all value types the checker analyzes. Types
// arrive fully resolved; there are no type variables at this stage.
type Type interface {
	String() string
	typeNode()
}

// Bool is the two-valued boolean type.
type Bool struct{}

func (Bool) String() string { return "Bool" }
func (Bool) typeNode()      {}

// Int is a sized integer type. PtrSized integers have a platform-dependent
// width; their true minimum and maximum are not observable.
type Int struct {
	Bits     uint
	Signed   bool
	PtrSized bool
}

func (t Int) String() string {
	if t.PtrSized {
		if t.Signed {
			return "Isize"
		}
		return "Usize"
	}
	if t.Signed {
		return fmt.Sprintf("I%d", t.Bits)
	}
	return fmt.Sprintf("U%d", t.Bits)
}
func (Int) typeNode() {}

// Char is a Unicode scalar value type.
type Char struct{}

func (Char) String() string { return "Char" }
func (Char) typeNode()      {}

// Float is a floating-point type of the given width (32 or 64).
type Float struct {
	Bits uint
}

func (t Float) String() string { return fmt.Sprintf("F%d", t.Bits) }
func (Float) typeNode()        {}

// Str is the unsized textual type; string values are reached through a Ref.
type Str struct{}

func (Str) String() string { return "Str" }
func (Str) typeNode()      {}

// Tuple is a positional product type.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (Tuple) typeNode() {}

// Named references a declared enum, struct or union by name; the declaration
// lives in a Table.
type Named struct {
	Name string
}

func (t Named) String() string { return t.Name }
func (Named) typeNode()        {}

// Ref is single-field indirection to a referent type.
type Ref struct {
	Elem Type
}

func (t Ref) String() string { return "&" + t.Elem.String() }
func (Ref) typeNode()        {}

// List is a variable-length sequence type.
type List struct {
	Elem Type
}

func (t List) String() string { return "[" + t.Elem.String() + "]" }
func (List) typeNode()        {}

// Array is a sequence type with a statically known length.
type Array struct {
	Elem Type
	Len  int
}

func (t Array) String() string { return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len) }
func (Array) typeNode()        {}

// Never is the bottom type; it has no values.
type Never struct{}

func (Never) String() string { return "Never" }
func (Never) typeNode()      {}

// Foreign is a type whose value space the checker cannot enumerate at all
// (function types, external handles and the like).
type Foreign struct {
	Name string
}

func (t Foreign) String() string { return t.Name }
func (Foreign) typeNode()        {}

// ErrType marks a type already in an unrecoverable error state. Analysis
// involving it is skipped to avoid cascading diagnostics.
type ErrType struct{}

func (ErrType) String() string { return "<error>" }
func (ErrType) typeNode()      {}

// StringTy is the language-level string type: indirection to Str, so that
// textual and indirection-based matching share one code path.
var StringTy Type = Ref{Elem: Str{}}

// Common integer widths.
var (
	U8    = Int{Bits: 8}
	U16   = Int{Bits: 16}
	U32   = Int{Bits: 32}
	U64   = Int{Bits: 64}
	I8    = Int{Bits: 8, Signed: true}
	I16   = Int{Bits: 16, Signed: true}
	I32   = Int{Bits: 32, Signed: true}
	I64   = Int{Bits: 64, Signed: true}
	Usize = Int{PtrSized: true}
	Isize = Int{PtrSized: true, Signed: true}
)
