package eval

import "golang.org/x/exp/constraints"

// Score keeps the middlegame and endgame components of a term separate
// until the final phase interpolation.
type Score struct {
	MG, EG int32
}

var ScoreZero = Score{}

func S(mg, eg int32) Score { return Score{mg, eg} }

func (s Score) Add(o Score) Score { return Score{s.MG + o.MG, s.EG + o.EG} }
func (s Score) Sub(o Score) Score { return Score{s.MG - o.MG, s.EG - o.EG} }
func (s Score) Neg() Score        { return Score{-s.MG, -s.EG} }

// MulN scales both components.
func (s Score) MulN(n int) Score { return Score{s.MG * int32(n), s.EG * int32(n)} }

// DivN divides both components, truncating toward zero.
func (s Score) DivN(n int) Score { return Score{s.MG / int32(n), s.EG / int32(n)} }

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func maxInt[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
