package board

import "sync"

// Board geometry and movement tables, built once per variant. Everything
// here is a function of (files, ranks) and the fixed piece definitions;
// nothing depends on a particular position.

const (
	MaxFiles = 12
	MaxRanks = 10
)

type delta struct{ df, dr int }

// Compass ray directions. Order pairs each direction with its opposite at
// index (d+4)%8.
var rayDeltas = [8]delta{
	{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

const (
	dirN = iota
	dirNE
	dirE
	dirSE
	dirS
	dirSW
	dirW
	dirNW
)

// pieceDef describes movement from White's point of view; Black uses the
// rank-mirrored deltas. A nil moves/moveRays list means quiet moves equal
// attacks (true for everything except chess pawns).
type pieceDef struct {
	attacks  []delta
	moves    []delta
	rays     []int
	moveRays []int
}

var knightLeaps = []delta{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var kingLeaps = []delta{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
var ferzLeaps = []delta{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
var wazirLeaps = []delta{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
var silverLeaps = []delta{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}, {0, 1}}
var goldLeaps = []delta{{0, 1}, {1, 0}, {0, -1}, {-1, 0}, {1, 1}, {-1, 1}}

var diagRays = []int{dirNE, dirSE, dirSW, dirNW}
var orthoRays = []int{dirN, dirE, dirS, dirW}
var allRays = []int{dirN, dirNE, dirE, dirSE, dirS, dirSW, dirW, dirNW}

var pieceDefs = [PieceTypeNB]pieceDef{
	Pawn:        {attacks: []delta{{-1, 1}, {1, 1}}, moves: []delta{{0, 1}}},
	Knight:      {attacks: knightLeaps},
	Bishop:      {rays: diagRays},
	Rook:        {rays: orthoRays},
	Queen:       {rays: allRays},
	Ferz:        {attacks: ferzLeaps},
	Wazir:       {attacks: wazirLeaps},
	ShogiPawn:   {attacks: []delta{{0, 1}}},
	Lance:       {rays: []int{dirN}},
	ShogiKnight: {attacks: []delta{{1, 2}, {-1, 2}}},
	Silver:      {attacks: silverLeaps},
	Gold:        {attacks: goldLeaps},
	Horse:       {attacks: wazirLeaps, rays: diagRays},
	Dragon:      {attacks: ferzLeaps, rays: orthoRays},
	Archbishop:  {attacks: knightLeaps, rays: diagRays},
	Chancellor:  {attacks: knightLeaps, rays: orthoRays},
	Commoner:    {attacks: kingLeaps},
	King:        {attacks: kingLeaps},
}

// Geometry holds every precomputed table for one board size.
type Geometry struct {
	Files, Ranks int
	NumSquares   int
	All          Bitboard // mask of valid squares

	fileBB []Bitboard
	rankBB []Bitboard

	adjacentFiles []Bitboard
	forwardRanks  [2][]Bitboard // [color][rank]: ranks strictly ahead
	forwardFile   [2][]Bitboard // [color][sq]: file squares strictly ahead
	attackSpan    [2][]Bitboard // [color][sq]: adjacent-file forward span
	passedMask    [2][]Bitboard

	dist     [][]int // Chebyshev
	fileDist [][]int
	rankDist [][]int

	ray     [8][]Bitboard
	lineBB  [][]Bitboard
	between [][]Bitboard

	leaperAtt [2][PieceTypeNB][]Bitboard
	leaperMov [2][PieceTypeNB][]Bitboard
	sliderAtt [2][PieceTypeNB][]Bitboard // full rays on empty board
	sliderMov [2][PieceTypeNB][]Bitboard
	pseudo    [2][PieceTypeNB][]Bitboard // leaper | slider, empty board

	shiftMask [5]Bitboard // file-wrap guard for df in [-2, 2]
}

var (
	geometryMu    sync.Mutex
	geometryCache = map[[2]int]*Geometry{}
)

// GeometryFor returns the (shared, immutable) geometry for a board size.
func GeometryFor(files, ranks int) *Geometry {
	if files < 1 || files > MaxFiles || ranks < 1 || ranks > MaxRanks {
		panic("board: unsupported board size")
	}
	geometryMu.Lock()
	defer geometryMu.Unlock()
	if g, ok := geometryCache[[2]int{files, ranks}]; ok {
		return g
	}
	g := newGeometry(files, ranks)
	geometryCache[[2]int{files, ranks}] = g
	return g
}

func (g *Geometry) FileOf(s Square) int { return int(s) % g.Files }
func (g *Geometry) RankOf(s Square) int { return int(s) / g.Files }

func (g *Geometry) MakeSquare(file, rank int) Square {
	return Square(rank*g.Files + file)
}

func (g *Geometry) IsOK(file, rank int) bool {
	return file >= 0 && file < g.Files && rank >= 0 && rank < g.Ranks
}

func (g *Geometry) FileBB(f int) Bitboard { return g.fileBB[f] }
func (g *Geometry) RankBB(r int) Bitboard { return g.rankBB[r] }

// RelativeRank returns the rank of s from c's point of view.
func (g *Geometry) RelativeRank(c Color, s Square) int {
	if c == White {
		return g.RankOf(s)
	}
	return g.Ranks - 1 - g.RankOf(s)
}

// RankFromSide maps a side-relative rank index to an absolute one.
func (g *Geometry) RankFromSide(c Color, r int) int {
	if c == White {
		return r
	}
	return g.Ranks - 1 - r
}

// RelativeSquare vertically mirrors s for Black.
func (g *Geometry) RelativeSquare(c Color, s Square) Square {
	if c == White {
		return s
	}
	return g.MakeSquare(g.FileOf(s), g.Ranks-1-g.RankOf(s))
}

func (g *Geometry) Distance(a, b Square) int     { return g.dist[a][b] }
func (g *Geometry) FileDistance(a, b Square) int { return g.fileDist[a][b] }
func (g *Geometry) RankDistance(a, b Square) int { return g.rankDist[a][b] }

func (g *Geometry) AdjacentFilesBB(f int) Bitboard { return g.adjacentFiles[f] }

// ForwardRanksBB returns the squares on every rank strictly ahead of r.
func (g *Geometry) ForwardRanksBB(c Color, r int) Bitboard { return g.forwardRanks[c][r] }

// ForwardFileBB returns the squares of s's file strictly ahead of s.
func (g *Geometry) ForwardFileBB(c Color, s Square) Bitboard { return g.forwardFile[c][s] }

// PawnAttackSpan returns every square a pawn on s could ever attack while
// advancing.
func (g *Geometry) PawnAttackSpan(c Color, s Square) Bitboard { return g.attackSpan[c][s] }

// PassedPawnMask is the attack span united with the forward file.
func (g *Geometry) PassedPawnMask(c Color, s Square) Bitboard { return g.passedMask[c][s] }

// LineBB returns the full line through two aligned squares (both
// included), or empty when they are not aligned on a compass ray.
func (g *Geometry) LineBB(a, b Square) Bitboard { return g.lineBB[a][b] }

// BetweenBB returns the squares strictly between two aligned squares.
func (g *Geometry) BetweenBB(a, b Square) Bitboard { return g.between[a][b] }

// ShiftDelta moves a whole set by (df, dr), dropping squares that would
// leave the board.
func (g *Geometry) ShiftDelta(b Bitboard, df, dr int) Bitboard {
	b = b.And(g.shiftMask[df+2])
	off := dr*g.Files + df
	if off >= 0 {
		return b.Shl(off).And(g.All)
	}
	return b.Shr(-off).And(g.All)
}

func (g *Geometry) North(b Bitboard) Bitboard { return g.ShiftDelta(b, 0, 1) }
func (g *Geometry) South(b Bitboard) Bitboard { return g.ShiftDelta(b, 0, -1) }
func (g *Geometry) East(b Bitboard) Bitboard  { return g.ShiftDelta(b, 1, 0) }
func (g *Geometry) West(b Bitboard) Bitboard  { return g.ShiftDelta(b, -1, 0) }

// ForwardShift moves a set one rank ahead from c's point of view.
func (g *Geometry) ForwardShift(c Color, b Bitboard) Bitboard {
	if c == White {
		return g.North(b)
	}
	return g.South(b)
}

// BackwardShift moves a set one rank back from c's point of view.
func (g *Geometry) BackwardShift(c Color, b Bitboard) Bitboard {
	if c == White {
		return g.South(b)
	}
	return g.North(b)
}

// PawnAttacksBB returns the squares attacked by a set of c pawns.
func (g *Geometry) PawnAttacksBB(c Color, pawns Bitboard) Bitboard {
	dr := 1
	if c == Black {
		dr = -1
	}
	return g.ShiftDelta(pawns, -1, dr).Or(g.ShiftDelta(pawns, 1, dr))
}

// PseudoAttacks returns the empty-board attack set of (c, pt) on s.
func (g *Geometry) PseudoAttacks(c Color, pt PieceType, s Square) Bitboard {
	return g.pseudo[c][pt][s]
}

// SliderRays returns only the slider component of the empty-board attack
// set, used for pin and sniper detection.
func (g *Geometry) SliderRays(c Color, pt PieceType, s Square) Bitboard {
	return g.sliderAtt[c][pt][s]
}

// IsSlider reports whether the piece type has any sliding attack.
func IsSlider(pt PieceType) bool { return len(pieceDefs[pt].rays) > 0 }

// AttacksBB returns the attack set of (c, pt) on s given board occupancy.
func (g *Geometry) AttacksBB(c Color, pt PieceType, s Square, occ Bitboard) Bitboard {
	b := g.leaperAtt[c][pt][s]
	for _, d := range pieceDefs[pt].rays {
		b = b.Or(g.clippedRay(g.mirrorDir(c, d), s, occ))
	}
	return b
}

// MovesBB returns the quiet-move set of (c, pt) on s given occupancy.
// Chess pawn double pushes are position knowledge and handled by the
// caller.
func (g *Geometry) MovesBB(c Color, pt PieceType, s Square, occ Bitboard) Bitboard {
	def := &pieceDefs[pt]
	b := g.leaperMov[c][pt][s]
	rays := def.moveRays
	if rays == nil {
		rays = def.rays
	}
	for _, d := range rays {
		b = b.Or(g.clippedRay(g.mirrorDir(c, d), s, occ))
	}
	return b
}

func (g *Geometry) mirrorDir(c Color, d int) int {
	if c == White {
		return d
	}
	// Negate the rank component: N<->S, NE<->SE, NW<->SW.
	dd := rayDeltas[d]
	for i, rd := range rayDeltas {
		if rd.df == dd.df && rd.dr == -dd.dr {
			return i
		}
	}
	return d
}

func (g *Geometry) clippedRay(d int, s Square, occ Bitboard) Bitboard {
	att := g.ray[d][s]
	blockers := att.And(occ)
	if blockers.IsEmpty() {
		return att
	}
	var first Square
	if rayDeltas[d].dr > 0 || (rayDeltas[d].dr == 0 && rayDeltas[d].df > 0) {
		first = blockers.Lsb()
	} else {
		first = blockers.Msb()
	}
	return att.AndNot(g.ray[d][first])
}

func newGeometry(files, ranks int) *Geometry {
	g := &Geometry{Files: files, Ranks: ranks, NumSquares: files * ranks}
	n := g.NumSquares

	for s := Square(0); int(s) < n; s++ {
		g.All = g.All.Or(SquareBB(s))
	}

	g.fileBB = make([]Bitboard, files)
	g.rankBB = make([]Bitboard, ranks)
	for s := Square(0); int(s) < n; s++ {
		g.fileBB[g.FileOf(s)] = g.fileBB[g.FileOf(s)].Or(SquareBB(s))
		g.rankBB[g.RankOf(s)] = g.rankBB[g.RankOf(s)].Or(SquareBB(s))
	}

	g.adjacentFiles = make([]Bitboard, files)
	for f := 0; f < files; f++ {
		if f > 0 {
			g.adjacentFiles[f] = g.adjacentFiles[f].Or(g.fileBB[f-1])
		}
		if f < files-1 {
			g.adjacentFiles[f] = g.adjacentFiles[f].Or(g.fileBB[f+1])
		}
	}

	for c := White; c <= Black; c++ {
		g.forwardRanks[c] = make([]Bitboard, ranks)
		for r := 0; r < ranks; r++ {
			var b Bitboard
			if c == White {
				for rr := r + 1; rr < ranks; rr++ {
					b = b.Or(g.rankBB[rr])
				}
			} else {
				for rr := 0; rr < r; rr++ {
					b = b.Or(g.rankBB[rr])
				}
			}
			g.forwardRanks[c][r] = b
		}
		g.forwardFile[c] = make([]Bitboard, n)
		g.attackSpan[c] = make([]Bitboard, n)
		g.passedMask[c] = make([]Bitboard, n)
		for s := Square(0); int(s) < n; s++ {
			fwd := g.forwardRanks[c][g.RankOf(s)]
			g.forwardFile[c][s] = fwd.And(g.fileBB[g.FileOf(s)])
			g.attackSpan[c][s] = fwd.And(g.adjacentFiles[g.FileOf(s)])
			g.passedMask[c][s] = g.forwardFile[c][s].Or(g.attackSpan[c][s])
		}
	}

	g.dist = makeGrid(n)
	g.fileDist = makeGrid(n)
	g.rankDist = makeGrid(n)
	for a := Square(0); int(a) < n; a++ {
		for b := Square(0); int(b) < n; b++ {
			fd := abs(g.FileOf(a) - g.FileOf(b))
			rd := abs(g.RankOf(a) - g.RankOf(b))
			g.fileDist[a][b] = fd
			g.rankDist[a][b] = rd
			g.dist[a][b] = max2(fd, rd)
		}
	}

	for d := 0; d < 8; d++ {
		g.ray[d] = make([]Bitboard, n)
		for s := Square(0); int(s) < n; s++ {
			var b Bitboard
			f, r := g.FileOf(s), g.RankOf(s)
			for {
				f += rayDeltas[d].df
				r += rayDeltas[d].dr
				if !g.IsOK(f, r) {
					break
				}
				b = b.Or(SquareBB(g.MakeSquare(f, r)))
			}
			g.ray[d][s] = b
		}
	}

	g.lineBB = make([][]Bitboard, n)
	g.between = make([][]Bitboard, n)
	for a := Square(0); int(a) < n; a++ {
		g.lineBB[a] = make([]Bitboard, n)
		g.between[a] = make([]Bitboard, n)
	}
	for a := Square(0); int(a) < n; a++ {
		for d := 0; d < 8; d++ {
			full := g.ray[d][a].Or(g.ray[(d+4)%8][a]).Or(SquareBB(a))
			targets := g.ray[d][a]
			for targets.Any() {
				b := targets.PopLsb()
				g.lineBB[a][b] = full
				g.between[a][b] = g.ray[d][a].And(g.ray[(d+4)%8][b])
			}
		}
	}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt < PieceTypeNB; pt++ {
			def := &pieceDefs[pt]
			g.leaperAtt[c][pt] = g.leaperTable(c, def.attacks)
			if def.moves != nil {
				g.leaperMov[c][pt] = g.leaperTable(c, def.moves)
			} else {
				g.leaperMov[c][pt] = g.leaperAtt[c][pt]
			}
			g.sliderAtt[c][pt] = g.rayTable(c, def.rays)
			if def.moveRays != nil {
				g.sliderMov[c][pt] = g.rayTable(c, def.moveRays)
			} else {
				g.sliderMov[c][pt] = g.sliderAtt[c][pt]
			}
			g.pseudo[c][pt] = make([]Bitboard, n)
			for s := Square(0); int(s) < n; s++ {
				g.pseudo[c][pt][s] = g.leaperAtt[c][pt][s].Or(g.sliderAtt[c][pt][s])
			}
		}
	}

	for df := -2; df <= 2; df++ {
		var m Bitboard
		for f := 0; f < files; f++ {
			if f+df >= 0 && f+df < files {
				m = m.Or(g.fileBB[f])
			}
		}
		g.shiftMask[df+2] = m
	}

	return g
}

func (g *Geometry) leaperTable(c Color, leaps []delta) []Bitboard {
	t := make([]Bitboard, g.NumSquares)
	for s := Square(0); int(s) < g.NumSquares; s++ {
		var b Bitboard
		for _, d := range leaps {
			dr := d.dr
			if c == Black {
				dr = -dr
			}
			f, r := g.FileOf(s)+d.df, g.RankOf(s)+dr
			if g.IsOK(f, r) {
				b = b.Or(SquareBB(g.MakeSquare(f, r)))
			}
		}
		t[s] = b
	}
	return t
}

func (g *Geometry) rayTable(c Color, rays []int) []Bitboard {
	t := make([]Bitboard, g.NumSquares)
	for s := Square(0); int(s) < g.NumSquares; s++ {
		var b Bitboard
		for _, d := range rays {
			b = b.Or(g.ray[g.mirrorDir(c, d)][s])
		}
		t[s] = b
	}
	return t
}

func makeGrid(n int) [][]int {
	g := make([][]int, n)
	for i := range g {
		g[i] = make([]int, n)
	}
	return g
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
