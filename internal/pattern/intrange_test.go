package pattern

import (
	"math"
	"testing"
)

func u(v uint64) MaybeInt { return NewFiniteUint(v) }

func rng(lo, hi uint64) IntRange {
	return NewRange(u(lo), u(hi), Included)
}

// ---------------------------------------------------------------------------
// MaybeInt: extended integer domain
// ---------------------------------------------------------------------------

func TestMaybeIntOrdering(t *testing.T) {
	ordered := []MaybeInt{NegInfinity, u(0), u(1), u(^uint64(0)), u(^uint64(0)).PlusOne(), PosInfinity}
	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Cmp(ordered[j])
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got != want {
				t.Errorf("Cmp(%d, %d) = %d, want %d", i, j, got, want)
			}
		}
	}
}

func TestMaybeIntPlusOneAtMax(t *testing.T) {
	after := u(^uint64(0)).PlusOne()
	if !after.IsJustAfterMax() {
		t.Fatal("expected one-past-max sentinel")
	}
	if !after.MinusOne().IsFinite() {
		t.Fatal("expected stepping back from the sentinel to be finite")
	}
	if after.MinusOne().FiniteUint() != ^uint64(0) {
		t.Fatal("one-past-max minus one should be the max value")
	}
}

func TestSignedBiasKeepsOrder(t *testing.T) {
	// i8 values must sort by value after bias encoding: -128 < -1 < 0 < 127.
	neg128 := NewFiniteInt(uint64(0x80), 8)
	neg1 := NewFiniteInt(^uint64(0), 8)
	zero := NewFiniteInt(0, 8)
	pos127 := NewFiniteInt(0x7F, 8)
	vals := []MaybeInt{neg128, neg1, zero, pos127}
	for i := 0; i+1 < len(vals); i++ {
		if vals[i].Cmp(vals[i+1]) >= 0 {
			t.Fatalf("value %d does not sort below value %d", i, i+1)
		}
	}
	if neg1.FiniteInt(8) != 0xFF {
		t.Errorf("expected bias decoding to restore the original bits")
	}
}

// ---------------------------------------------------------------------------
// IntRange: half-open normalized ranges
// ---------------------------------------------------------------------------

func TestRangeNormalization(t *testing.T) {
	incl := NewRange(u(0), u(5), Included)
	excl := NewRange(u(0), u(6), Excluded)
	if incl != excl {
		t.Errorf("0..=5 and 0..6 should normalize to the same range")
	}
	if !Singleton(u(3)).IsSingleton() {
		t.Error("singleton should report IsSingleton")
	}
	if rng(3, 4).IsSingleton() {
		t.Error("two-value range should not report IsSingleton")
	}
}

func TestRangeIntersects(t *testing.T) {
	cases := []struct {
		a, b IntRange
		want bool
	}{
		{rng(0, 5), rng(5, 9), true},
		{rng(0, 4), rng(5, 9), false},
		{rng(0, 9), rng(3, 4), true},
		{Singleton(u(7)), rng(0, 9), true},
	}
	for _, c := range cases {
		if got := c.a.Intersects(c.b); got != c.want {
			t.Errorf("Intersects(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestRangeSplitAlignsToBoundaries(t *testing.T) {
	// 0..=9 split against {3..=5} must produce pieces that are each either
	// fully inside or fully outside the seen range.
	pieces := rng(0, 9).Split([]IntRange{rng(3, 5)})
	if len(pieces) != 3 {
		t.Fatalf("expected 3 pieces, got %d: %v", len(pieces), pieces)
	}
	want := []IntRange{rng(0, 2), rng(3, 5), rng(6, 9)}
	for i, p := range pieces {
		if p != want[i] {
			t.Errorf("piece %d = %v, want %v", i, p, want[i])
		}
	}
}

func TestRangeSplitPartialOverlap(t *testing.T) {
	pieces := rng(0, 9).Split([]IntRange{rng(5, 20)})
	for _, p := range pieces {
		in := p.IsSubrange(rng(5, 20))
		out := !p.Intersects(rng(5, 20))
		if !in && !out {
			t.Errorf("piece %v partially overlaps the seen range", p)
		}
	}
}

func TestCoveredByAny(t *testing.T) {
	seen := []IntRange{rng(0, 4), rng(5, 9)}
	// Single-range containment only; a straddling range is not covered.
	if rng(3, 5).CoveredByAny(seen) {
		t.Error("3..=5 straddles two seen ranges and is covered by neither alone")
	}
	// After splitting, every piece inside 0..=9 is covered.
	for _, p := range rng(0, 9).Split(seen) {
		if !p.CoveredByAny(seen) {
			t.Errorf("aligned piece %v should be covered", p)
		}
	}
}

// ---------------------------------------------------------------------------
// FloatRange
// ---------------------------------------------------------------------------

func TestFloatSubrange(t *testing.T) {
	whole := NewFloatRange(0, 10, Included)
	if !NewFloatRange(2, 3, Included).IsSubrange(whole) {
		t.Error("2..=3 should be inside 0..=10")
	}
	if NewFloatRange(2, 11, Included).IsSubrange(whole) {
		t.Error("2..=11 should not be inside 0..=10")
	}
	if NewFloatRange(0, 10, Included).IsSubrange(NewFloatRange(0, 10, Excluded)) {
		t.Error("inclusive upper end should not fit in an exclusive one")
	}
}

func TestNaNSingletonCoversNothing(t *testing.T) {
	nan := FloatSingleton(math.NaN())
	if nan.IsSubrange(NewFloatRange(math.Inf(-1), math.Inf(1), Included)) {
		t.Error("a NaN singleton must not be covered by any range")
	}
}
