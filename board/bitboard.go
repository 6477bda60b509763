package board

import "math/bits"

// Bitboard is a set of board squares. Two 64-bit words cover every
// supported geometry (up to 12 files by 10 ranks); square i lives in word
// i/64 at bit i%64. All board math goes through the named operations so
// that nothing outside this file depends on the word layout.
type Bitboard struct {
	lo, hi uint64
}

var EmptyBB = Bitboard{}

// SquareBB returns the singleton set containing s.
func SquareBB(s Square) Bitboard {
	if s < 64 {
		return Bitboard{lo: 1 << uint(s)}
	}
	return Bitboard{hi: 1 << uint(s-64)}
}

func (b Bitboard) Or(o Bitboard) Bitboard     { return Bitboard{b.lo | o.lo, b.hi | o.hi} }
func (b Bitboard) And(o Bitboard) Bitboard    { return Bitboard{b.lo & o.lo, b.hi & o.hi} }
func (b Bitboard) AndNot(o Bitboard) Bitboard { return Bitboard{b.lo &^ o.lo, b.hi &^ o.hi} }
func (b Bitboard) Xor(o Bitboard) Bitboard    { return Bitboard{b.lo ^ o.lo, b.hi ^ o.hi} }

func (b Bitboard) IsEmpty() bool { return b.lo == 0 && b.hi == 0 }
func (b Bitboard) Any() bool     { return b.lo != 0 || b.hi != 0 }

func (b Bitboard) Test(s Square) bool {
	if s < 64 {
		return b.lo&(1<<uint(s)) != 0
	}
	return b.hi&(1<<uint(s-64)) != 0
}

// Count returns the number of squares in the set.
func (b Bitboard) Count() int {
	return bits.OnesCount64(b.lo) + bits.OnesCount64(b.hi)
}

// MoreThanOne reports whether the set holds at least two squares.
func (b Bitboard) MoreThanOne() bool {
	if b.lo != 0 {
		return b.lo&(b.lo-1) != 0 || b.hi != 0
	}
	return b.hi&(b.hi-1) != 0
}

// Lsb returns the lowest square of a non-empty set.
func (b Bitboard) Lsb() Square {
	if b.lo != 0 {
		return Square(bits.TrailingZeros64(b.lo))
	}
	return Square(64 + bits.TrailingZeros64(b.hi))
}

// Msb returns the highest square of a non-empty set.
func (b Bitboard) Msb() Square {
	if b.hi != 0 {
		return Square(127 - bits.LeadingZeros64(b.hi))
	}
	return Square(63 - bits.LeadingZeros64(b.lo))
}

// PopLsb removes and returns the lowest square of a non-empty set.
func (b *Bitboard) PopLsb() Square {
	s := b.Lsb()
	if s < 64 {
		b.lo &= b.lo - 1
	} else {
		b.hi &= b.hi - 1
	}
	return s
}

// Shl shifts the whole set toward higher square indices by n bits.
// Wrapping across file edges is the caller's concern (Geometry masks
// before shifting).
func (b Bitboard) Shl(n int) Bitboard {
	if n >= 64 {
		return Bitboard{0, b.lo << uint(n-64)}
	}
	if n == 0 {
		return b
	}
	return Bitboard{b.lo << uint(n), b.hi<<uint(n) | b.lo>>uint(64-n)}
}

// Shr shifts the whole set toward lower square indices by n bits.
func (b Bitboard) Shr(n int) Bitboard {
	if n >= 64 {
		return Bitboard{b.lo >> uint(n-64), 0}
	}
	if n == 0 {
		return b
	}
	return Bitboard{b.lo>>uint(n) | b.hi<<uint(64-n), b.hi >> uint(n)}
}
