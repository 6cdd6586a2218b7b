package ast

import (
	"github.com/funvibe/matchck/internal/token"
)

// Node is the interface for all surface syntax nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Pattern is the interface for all surface patterns. Patterns arrive here
// already parsed and resolved; the decomposer turns them into constructor
// form.
type Pattern interface {
	Node
	patternNode()
}

// MatchArm represents a single case in a match expression.
// Optional guard; an arm with a guard never counts as covering its shape,
// since the guard may fail at runtime.
type MatchArm struct {
	Pattern  Pattern
	HasGuard bool
	// ArmID keys this arm in the usefulness report.
	ArmID int
}

// WildcardPattern: _
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) patternNode()          {}
func (p *WildcardPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *WildcardPattern) GetToken() token.Token { return p.Token }

// IdentifierPattern: an irrefutable binding with no sub-pattern: x
type IdentifierPattern struct {
	Token token.Token
	Value string
}

func (p *IdentifierPattern) patternNode()          {}
func (p *IdentifierPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *IdentifierPattern) GetToken() token.Token { return p.Token }

// AtPattern: binding with a sub-pattern: name @ pat. Transparent for
// exhaustiveness; it adds no shape information.
type AtPattern struct {
	Token   token.Token
	Name    string
	Pattern Pattern
}

func (p *AtPattern) patternNode()          {}
func (p *AtPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *AtPattern) GetToken() token.Token { return p.Token }

// LiteralPattern: 1, 'a', 3.5, true, "text". Value holds bool, int64,
// uint64, rune (as int64 with IsChar), float64 or string.
type LiteralPattern struct {
	Token  token.Token
	Value  interface{}
	IsChar bool
}

func (p *LiteralPattern) patternNode()          {}
func (p *LiteralPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *LiteralPattern) GetToken() token.Token { return p.Token }

// RangePattern: lo..hi, lo..=hi, ..hi, lo..: a nil endpoint is open.
type RangePattern struct {
	Token     token.Token
	Lo, Hi    *LiteralPattern
	Inclusive bool
}

func (p *RangePattern) patternNode()          {}
func (p *RangePattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *RangePattern) GetToken() token.Token { return p.Token }

// ConstructorPattern: Some(x), MyNone: an enum variant with positional
// sub-patterns over the variant's declared fields.
type ConstructorPattern struct {
	Token    token.Token // constructor name
	Name     string
	Elements []Pattern
	// Parens distinguishes MyNone from MyNone() in display only.
	Parens bool
}

func (p *ConstructorPattern) patternNode()          {}
func (p *ConstructorPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ConstructorPattern) GetToken() token.Token { return p.Token }

// RecordFieldPattern is one named field of a RecordPattern. Order is
// preserved for deterministic display.
type RecordFieldPattern struct {
	Name    string
	Pattern Pattern
}

// RecordPattern: Point { x: p1, y: p2 } or Some { value: p }, with
// unmentioned fields implicitly wild. Rest marks an explicit `..`.
type RecordPattern struct {
	Token    token.Token
	TypeName string
	// VariantName is set when the record targets an enum variant.
	VariantName string
	Fields      []RecordFieldPattern
	Rest        bool
}

func (p *RecordPattern) patternNode()          {}
func (p *RecordPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *RecordPattern) GetToken() token.Token { return p.Token }

// TuplePattern: (x, y, _)
type TuplePattern struct {
	Token    token.Token
	Elements []Pattern
}

func (p *TuplePattern) patternNode()          {}
func (p *TuplePattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *TuplePattern) GetToken() token.Token { return p.Token }

// SpreadPattern represents .. or ...rest inside a ListPattern.
type SpreadPattern struct {
	Token token.Token
	// Name is the binding for the rest, empty for a bare rest marker.
	Name string
}

func (p *SpreadPattern) patternNode()          {}
func (p *SpreadPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *SpreadPattern) GetToken() token.Token { return p.Token }

// ListPattern: [], [x, ...xs], [a, .., z]. At most one SpreadPattern may
// appear among the elements.
type ListPattern struct {
	Token    token.Token
	Elements []Pattern
}

func (p *ListPattern) patternNode()          {}
func (p *ListPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ListPattern) GetToken() token.Token { return p.Token }

// RefPattern: &pat: matches through one level of indirection.
type RefPattern struct {
	Token   token.Token
	Pattern Pattern
}

func (p *RefPattern) patternNode()          {}
func (p *RefPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *RefPattern) GetToken() token.Token { return p.Token }

// OrPattern: a | b | c. Alternatives are tried left to right.
type OrPattern struct {
	Token        token.Token
	Alternatives []Pattern
}

func (p *OrPattern) patternNode()          {}
func (p *OrPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *OrPattern) GetToken() token.Token { return p.Token }

// PinPattern: ^variable: matches equality against a value not known
// statically (like Elixir's pin operator). Opaque to exhaustiveness.
type PinPattern struct {
	Token token.Token
	Name  string
}

func (p *PinPattern) patternNode()          {}
func (p *PinPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *PinPattern) GetToken() token.Token { return p.Token }

// ErrorPattern stands in for surface syntax that already failed an earlier
// stage; analysis proceeds without re-raising the error.
type ErrorPattern struct {
	Token token.Token
}

func (p *ErrorPattern) patternNode()          {}
func (p *ErrorPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ErrorPattern) GetToken() token.Token { return p.Token }
