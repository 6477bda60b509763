package board

// Piece-square tables. The orthodox six types on 8x8 boards use tuned
// tables; fairy types and non-standard geometries fall back to piece
// value plus a centralization ramp, which keeps the vertical-mirror
// symmetry the evaluator relies on.

// Tables are from White's point of view, index 0 = a1. Black indexes via
// the vertically mirrored square.
var psqtMG = [PieceTypeNB][]int{
	Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-8, 6, -2, -10, -10, -2, 6, -8,
		-9, -5, 8, 10, 10, 8, -5, -9,
		-6, -2, 10, 24, 24, 10, -2, -6,
		-4, 3, 12, 20, 20, 12, 3, -4,
		-2, 6, 8, 12, 12, 8, 6, -2,
		-5, 4, 3, 5, 5, 3, 4, -5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	Knight: {
		-77, -36, -25, -18, -18, -25, -36, -77,
		-30, -12, 1, 9, 9, 1, -12, -30,
		-20, 6, 18, 25, 25, 18, 6, -20,
		-12, 14, 28, 34, 34, 28, 14, -12,
		-10, 16, 30, 36, 36, 30, 16, -10,
		-14, 10, 24, 30, 30, 24, 10, -14,
		-28, -8, 4, 12, 12, 4, -8, -28,
		-82, -34, -22, -16, -16, -22, -34, -82,
	},
	Bishop: {
		-26, -8, -12, -18, -18, -12, -8, -26,
		-10, 8, 6, 0, 0, 6, 8, -10,
		-8, 10, 8, 6, 6, 8, 10, -8,
		-4, 12, 12, 14, 14, 12, 12, -4,
		-4, 10, 12, 14, 14, 12, 10, -4,
		-8, 8, 8, 6, 6, 8, 8, -8,
		-12, 6, 4, 0, 0, 4, 6, -12,
		-24, -10, -14, -18, -18, -14, -10, -24,
	},
	Rook: {
		-15, -10, -6, -2, -2, -6, -10, -15,
		-12, -6, -2, 2, 2, -2, -6, -12,
		-12, -6, 0, 3, 3, 0, -6, -12,
		-10, -4, 0, 4, 4, 0, -4, -10,
		-10, -4, 0, 4, 4, 0, -4, -10,
		-12, -5, 0, 3, 3, 0, -5, -12,
		-6, 2, 8, 12, 12, 8, 2, -6,
		-14, -8, -4, 0, 0, -4, -8, -14,
	},
	Queen: {
		-2, -4, -6, -8, -8, -6, -4, -2,
		-3, 4, 5, 4, 4, 5, 4, -3,
		-3, 5, 7, 6, 6, 7, 5, -3,
		-4, 5, 7, 8, 8, 7, 5, -4,
		-4, 5, 7, 8, 8, 7, 5, -4,
		-3, 5, 7, 6, 6, 7, 5, -3,
		-3, 4, 5, 4, 4, 5, 4, -3,
		-2, -4, -6, -8, -8, -6, -4, -2,
	},
	King: {
		30, 43, 15, 0, 0, 25, 45, 32,
		28, 30, 5, -12, -12, 5, 30, 28,
		-8, -12, -24, -40, -40, -24, -12, -8,
		-30, -40, -52, -66, -66, -52, -40, -30,
		-50, -62, -72, -84, -84, -72, -62, -50,
		-64, -72, -84, -96, -96, -84, -72, -64,
		-72, -80, -92, -104, -104, -92, -80, -72,
		-80, -88, -100, -112, -112, -100, -88, -80,
	},
}

var psqtEG = [PieceTypeNB][]int{
	Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-2, -1, 1, 0, 0, 1, -1, -2,
		-4, -3, 2, 4, 4, 2, -3, -4,
		-2, 0, 3, 6, 6, 3, 0, -2,
		5, 7, 9, 10, 10, 9, 7, 5,
		18, 22, 24, 24, 24, 24, 22, 18,
		40, 44, 46, 46, 46, 46, 44, 40,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	Knight: {
		-50, -34, -22, -15, -15, -22, -34, -50,
		-30, -16, -4, 3, 3, -4, -16, -30,
		-18, -2, 10, 16, 16, 10, -2, -18,
		-12, 6, 18, 26, 26, 18, 6, -12,
		-12, 6, 18, 26, 26, 18, 6, -12,
		-18, -2, 10, 16, 16, 10, -2, -18,
		-30, -16, -4, 3, 3, -4, -16, -30,
		-50, -34, -22, -15, -15, -22, -34, -50,
	},
	Bishop: {
		-22, -10, -6, -2, -2, -6, -10, -22,
		-10, 0, 4, 8, 8, 4, 0, -10,
		-6, 4, 10, 14, 14, 10, 4, -6,
		-2, 8, 14, 18, 18, 14, 8, -2,
		-2, 8, 14, 18, 18, 14, 8, -2,
		-6, 4, 10, 14, 14, 10, 4, -6,
		-10, 0, 4, 8, 8, 4, 0, -10,
		-22, -10, -6, -2, -2, -6, -10, -22,
	},
	Rook: {
		-6, -3, -1, 0, 0, -1, -3, -6,
		-4, 0, 2, 3, 3, 2, 0, -4,
		-3, 1, 3, 4, 4, 3, 1, -3,
		-2, 2, 4, 6, 6, 4, 2, -2,
		-2, 2, 4, 6, 6, 4, 2, -2,
		-3, 1, 3, 4, 4, 3, 1, -3,
		5, 8, 10, 12, 12, 10, 8, 5,
		-4, -1, 1, 2, 2, 1, -1, -4,
	},
	Queen: {
		-30, -20, -12, -8, -8, -12, -20, -30,
		-20, -8, 0, 4, 4, 0, -8, -20,
		-12, 0, 10, 14, 14, 10, 0, -12,
		-8, 4, 14, 22, 22, 14, 4, -8,
		-8, 4, 14, 22, 22, 14, 4, -8,
		-12, 0, 10, 14, 14, 10, 0, -12,
		-20, -8, 0, 4, 4, 0, -8, -20,
		-30, -20, -12, -8, -8, -12, -20, -30,
	},
	King: {
		-60, -40, -28, -20, -20, -28, -40, -60,
		-36, -16, -4, 4, 4, -4, -16, -36,
		-22, -2, 14, 22, 22, 14, -2, -22,
		-14, 6, 24, 32, 32, 24, 6, -14,
		-12, 10, 26, 34, 34, 26, 10, -12,
		-18, 2, 18, 26, 26, 18, 2, -18,
		-30, -12, 0, 8, 8, 0, -12, -30,
		-54, -36, -24, -16, -16, -24, -36, -54,
	},
}

// PieceSquareValue returns the mg/eg value-plus-square score of a (c, pt)
// piece standing on s, always positive for the owner.
func PieceSquareValue(g *Geometry, c Color, pt PieceType, s Square) (mg, eg int) {
	mg = int(PieceValueMG[pt])
	eg = int(PieceValueEG[pt])
	if g.Files == 8 && g.Ranks == 8 && psqtMG[pt] != nil {
		rel := g.RelativeSquare(c, s)
		return mg + psqtMG[pt][rel], eg + psqtEG[pt][rel]
	}

	// Generic ramp for fairy pieces and non-standard boards: centralize
	// everything a little, push pawn-like pieces forward.
	f, r := g.FileOf(s), g.RankOf(s)
	cf := min2(f, g.Files-1-f)
	cr := min2(r, g.Ranks-1-r)
	central := min2(cf, cr)
	if central > 3 {
		central = 3
	}
	mg += central * 6
	eg += central * 6
	if pt == Pawn || pt == ShogiPawn {
		adv := g.RelativeRank(c, s)
		mg += adv * 2
		eg += adv * 4
	}
	return mg, eg
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}
