package pattern

import (
	"github.com/funvibe/matchck/internal/token"
)

// Ty is the engine's view of a value type. The concrete representation is
// owned by the host type system; the engine only ever forwards types back to
// the TypeCx that produced them.
type Ty interface {
	String() string
}

// TypeCx is the type adapter the engine consults. Implementations must be
// pure: deterministic, total and free of side effects, so independent match
// checks may run concurrently against one adapter.
type TypeCx interface {
	// CtorsForType enumerates the constructor universe of a type. A type in
	// an unrecoverable error state yields an error, which aborts analysis
	// of the match without further diagnostics.
	CtorsForType(ty Ty) (ConstructorSet, error)
	// CtorArity reports how many sub-patterns the constructor carries for
	// values of the given type.
	CtorArity(c Constructor, ty Ty) int
	// CtorFieldTypes reports the types of those sub-patterns, in order. The
	// result always has length CtorArity(c, ty).
	CtorFieldTypes(c Constructor, ty Ty) []Ty
}

// DeconstructedPat is a surface pattern resolved into constructor form: a
// constructor, one sub-pattern per constructor field, the pattern's type and
// its source location. Nodes are allocated into an Arena scoped to one
// checking session and never mutated after construction.
type DeconstructedPat struct {
	Ctor   Constructor
	Fields []*DeconstructedPat
	Ty     Ty
	Tok    token.Token
}

// IsWildcard reports a bare wildcard (no shape information).
func (p *DeconstructedPat) IsWildcard() bool { return p.Ctor.Kind == Wildcard }

// WitnessPat is a pattern built bottom-up by the engine out of raw
// constructors while reconstructing a counterexample value.
type WitnessPat struct {
	Ctor   Constructor
	Fields []*WitnessPat
	Ty     Ty
}

// WildWitness is a placeholder witness of the given type.
func WildWitness(ty Ty) *WitnessPat {
	return &WitnessPat{Ctor: WildcardCtor(), Ty: ty}
}

// Arena batches DeconstructedPat allocations for one checking session.
// Blocks are fixed-size so handed-out pointers stay valid as the arena
// grows.
type Arena struct {
	blocks [][]DeconstructedPat
}

const arenaBlockSize = 64

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a pattern node. The caller guarantees len(fields) equals the
// constructor's arity for ty; the engine re-checks this when specializing.
func (a *Arena) New(ctor Constructor, fields []*DeconstructedPat, ty Ty, tok token.Token) *DeconstructedPat {
	n := len(a.blocks)
	if n == 0 || len(a.blocks[n-1]) == cap(a.blocks[n-1]) {
		a.blocks = append(a.blocks, make([]DeconstructedPat, 0, arenaBlockSize))
		n++
	}
	blk := &a.blocks[n-1]
	*blk = append(*blk, DeconstructedPat{Ctor: ctor, Fields: fields, Ty: ty, Tok: tok})
	return &(*blk)[len(*blk)-1]
}

// Wild allocates a typed wildcard.
func (a *Arena) Wild(ty Ty) *DeconstructedPat {
	return a.New(WildcardCtor(), nil, ty, token.Token{})
}
