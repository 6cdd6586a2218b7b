package typesystem

import (
	"testing"

	"github.com/funvibe/matchck/internal/pattern"
)

func newTestCx(t *testing.T, decls ...*Decl) *Cx {
	t.Helper()
	table := NewTable()
	for _, d := range decls {
		if err := table.Declare(d); err != nil {
			t.Fatalf("declare %s: %v", d.Name, err)
		}
	}
	return NewCx(table, "main")
}

func enum(name, module string, variants ...Variant) *Decl {
	return &Decl{Name: name, Module: module, Kind: EnumDecl, Variants: variants}
}

// ---------------------------------------------------------------------------
// Inhabitedness
// ---------------------------------------------------------------------------

func TestUninhabitedBasics(t *testing.T) {
	cx := newTestCx(t,
		enum("Empty", "main"),
		enum("NonEmpty", "main", Variant{Name: "A"}),
	)
	cases := []struct {
		ty   Type
		want bool
	}{
		{Never{}, true},
		{Bool{}, false},
		{Tuple{Elems: []Type{Bool{}, Never{}}}, true},
		{Array{Elem: Never{}, Len: 0}, false},
		{Array{Elem: Never{}, Len: 2}, true},
		{Ref{Elem: Never{}}, false},
		{Named{Name: "Empty"}, true},
		{Named{Name: "NonEmpty"}, false},
	}
	for _, c := range cases {
		if got := cx.IsUninhabited(c.ty); got != c.want {
			t.Errorf("IsUninhabited(%s) = %v, want %v", c.ty, got, c.want)
		}
	}
}

func TestPrivateUninhabitedFieldDoesNotLeak(t *testing.T) {
	secret := &Decl{
		Name: "Secret", Module: "other", Kind: StructDecl,
		Variants: []Variant{{Name: "Secret", Fields: []Field{
			{Name: "inner", Ty: Never{}, Public: false},
		}}},
	}
	open := &Decl{
		Name: "Open", Module: "other", Kind: StructDecl,
		Variants: []Variant{{Name: "Open", Fields: []Field{
			{Name: "inner", Ty: Never{}, Public: true},
		}}},
	}
	cx := newTestCx(t, secret, open)
	if cx.IsUninhabited(Named{Name: "Secret"}) {
		t.Error("a private uninhabited field must not make a foreign struct empty")
	}
	if !cx.IsUninhabited(Named{Name: "Open"}) {
		t.Error("a public uninhabited field does make the struct empty")
	}
}

func TestRecursiveTypeTerminates(t *testing.T) {
	list := enum("Chain", "main",
		Variant{Name: "End"},
		Variant{Name: "Link", Fields: []Field{{Name: "next", Ty: Ref{Elem: Named{Name: "Chain"}}}}},
	)
	cx := newTestCx(t, list)
	if cx.IsUninhabited(Named{Name: "Chain"}) {
		t.Error("a recursive enum with a base case is inhabited")
	}
}

// ---------------------------------------------------------------------------
// Constructor universes
// ---------------------------------------------------------------------------

func TestCtorsForIntegers(t *testing.T) {
	cx := newTestCx(t)

	set, err := cx.CtorsForType(U8)
	if err != nil {
		t.Fatal(err)
	}
	wantU8 := pattern.NewRange(pattern.NewFiniteUint(0), pattern.NewFiniteUint(255), pattern.Included)
	if set.Kind != pattern.SetIntegers || set.Range1 != wantU8 || set.HasRange2 {
		t.Errorf("u8 universe = %+v, want single range 0..=255", set)
	}

	set, err = cx.CtorsForType(Usize)
	if err != nil {
		t.Fatal(err)
	}
	if set.Range1.Lo != pattern.NewFiniteUint(0) || set.Range1.Hi != pattern.PosInfinity {
		t.Errorf("usize universe = %+v, want 0 with an unbounded top", set.Range1)
	}

	set, err = cx.CtorsForType(Char{})
	if err != nil {
		t.Fatal(err)
	}
	if !set.HasRange2 {
		t.Error("char universe should exclude the surrogate gap via two bands")
	}
}

func TestCtorsForErrorState(t *testing.T) {
	cx := newTestCx(t)
	_, err := cx.CtorsForType(ErrType{})
	if _, ok := err.(*ErrorStateError); !ok {
		t.Fatalf("expected ErrorStateError, got %v", err)
	}
}

func TestVariantVisibilityClassification(t *testing.T) {
	d := enum("Status", "other",
		Variant{Name: "Ok"},
		Variant{Name: "Beta", Unstable: true},
		Variant{Name: "Internal", DocHidden: true},
		Variant{Name: "Gone", Fields: []Field{{Name: "v", Ty: Never{}}}},
	)
	cx := newTestCx(t, d)
	set, err := cx.CtorsForType(Named{Name: "Status"})
	if err != nil {
		t.Fatal(err)
	}
	want := []pattern.VariantVisibility{
		pattern.VisVisible, pattern.VisHidden, pattern.VisHidden, pattern.VisEmpty,
	}
	for i, w := range want {
		if set.Variants[i] != w {
			t.Errorf("variant %d visibility = %v, want %v", i, set.Variants[i], w)
		}
	}
}

func TestDocHiddenIsLocalOnly(t *testing.T) {
	d := enum("Status", "main", Variant{Name: "Internal", DocHidden: true})
	cx := newTestCx(t, d)
	set, err := cx.CtorsForType(Named{Name: "Status"})
	if err != nil {
		t.Fatal(err)
	}
	if set.Variants[0] != pattern.VisVisible {
		t.Error("doc-hidden variants of local types stay visible")
	}
}

func TestNonExhaustiveIsForeignOnly(t *testing.T) {
	local := enum("A", "main", Variant{Name: "X"})
	local.NonExhaustive = true
	foreign := enum("B", "other", Variant{Name: "X"})
	foreign.NonExhaustive = true
	cx := newTestCx(t, local, foreign)

	set, _ := cx.CtorsForType(Named{Name: "A"})
	if set.NonExhaustive {
		t.Error("a locally declared open enum still lists all constructors")
	}
	set, _ = cx.CtorsForType(Named{Name: "B"})
	if !set.NonExhaustive {
		t.Error("a foreign open enum must carry the extension sentinel")
	}
}

// ---------------------------------------------------------------------------
// Field arity and visibility
// ---------------------------------------------------------------------------

func TestNonHiddenFieldsDropInvisibleUninhabited(t *testing.T) {
	d := &Decl{
		Name: "Rec", Module: "other", Kind: StructDecl,
		Variants: []Variant{{Name: "Rec", Fields: []Field{
			{Name: "a", Ty: Bool{}, Public: true},
			{Name: "ghost", Ty: Never{}, Public: false},
			{Name: "b", Ty: U8, Public: false},
		}}},
	}
	cx := newTestCx(t, d)
	idxs := cx.NonHiddenFieldIndices(d, 0)
	// The private uninhabited field disappears; a merely private but
	// inhabited field keeps its slot.
	if len(idxs) != 2 || idxs[0] != 0 || idxs[1] != 2 {
		t.Errorf("field indices = %v, want [0 2]", idxs)
	}

	arity := cx.CtorArity(pattern.StructCtor(), Named{Name: "Rec"})
	if arity != 2 {
		t.Errorf("arity = %d, want 2", arity)
	}
}

func TestCtorFieldTypes(t *testing.T) {
	cx := newTestCx(t)
	tup := Tuple{Elems: []Type{Bool{}, U8}}
	tys := cx.CtorFieldTypes(pattern.StructCtor(), tup)
	if len(tys) != 2 || tys[0] != Type(Bool{}) || tys[1] != Type(U8) {
		t.Errorf("tuple field types = %v", tys)
	}

	sl := cx.CtorFieldTypes(pattern.SliceCtor(pattern.NewVarSlice(pattern.NoArrayLen, 2, 1)), List{Elem: Bool{}})
	if len(sl) != 3 {
		t.Errorf("slice arity = %d, want 3", len(sl))
	}

	ref := cx.CtorFieldTypes(pattern.RefCtor(), Ref{Elem: Str{}})
	if len(ref) != 1 || ref[0] != Type(Str{}) {
		t.Errorf("ref field types = %v", ref)
	}
}
