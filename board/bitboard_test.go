package board

import "testing"

func TestBitboardWordBoundary(t *testing.T) {
	b := SquareBB(63).Or(SquareBB(64)).Or(SquareBB(100))
	if b.Count() != 3 {
		t.Fatalf("expected 3 squares, got %d", b.Count())
	}
	if b.Lsb() != 63 {
		t.Fatalf("expected lsb 63, got %d", b.Lsb())
	}
	if b.Msb() != 100 {
		t.Fatalf("expected msb 100, got %d", b.Msb())
	}
	if !b.Test(64) || b.Test(65) {
		t.Fatalf("membership wrong around the word boundary")
	}
}

func TestBitboardPopLsbDrains(t *testing.T) {
	b := SquareBB(5).Or(SquareBB(70)).Or(SquareBB(119))
	var got []Square
	for b.Any() {
		got = append(got, b.PopLsb())
	}
	want := []Square{5, 70, 119}
	if len(got) != len(want) {
		t.Fatalf("expected %d pops, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if !b.IsEmpty() {
		t.Fatalf("expected empty set after draining")
	}
}

func TestBitboardMoreThanOne(t *testing.T) {
	cases := []struct {
		b    Bitboard
		want bool
	}{
		{EmptyBB, false},
		{SquareBB(0), false},
		{SquareBB(90), false},
		{SquareBB(0).Or(SquareBB(1)), true},
		{SquareBB(63).Or(SquareBB(64)), true},
		{SquareBB(80).Or(SquareBB(81)), true},
	}
	for i, c := range cases {
		if got := c.b.MoreThanOne(); got != c.want {
			t.Fatalf("case %d: expected %v, got %v", i, c.want, got)
		}
	}
}

func TestBitboardShiftRoundTrip(t *testing.T) {
	b := SquareBB(10).Or(SquareBB(40)).Or(SquareBB(60))
	for _, n := range []int{1, 7, 9, 12, 64} {
		if b.Shl(n).Shr(n) != b {
			t.Fatalf("shl/shr by %d not inverse", n)
		}
	}
}
