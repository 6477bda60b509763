package eval

import "variant-eval/board"

// Pawn-structure scoring and the per-worker pawn cache. Only orthodox
// pawns form structure; shogi pawns are scored as ordinary pieces and
// only show up here through the position's pawn key.

var (
	isolatedPenalty = S(13, 18)
	backwardPenalty = S(24, 12)
	doubledPenalty  = S(18, 38)
)

// Connected-pawn seed by relative rank; ranks beyond the eighth continue
// the ramp for tall boards.
var connectedSeed = [board.MaxRanks]int{0, 13, 24, 18, 65, 100, 175, 330, 400, 460}

// Shelter value of an own pawn on a king-flank file, by its relative
// rank; index 0 means the file has no shelter pawn.
var shelterStrength = [board.MaxRanks]int{-30, 45, 26, 10, 2, -4, -8, -12, -14, -16}

// Storm penalty for an advancing enemy pawn, by its relative rank from
// the defender's side.
var stormDanger = [board.MaxRanks]int{0, 0, 60, 38, 20, 10, 4, 0, 0, 0}

// PawnEntry caches everything derivable from pawn placement alone.
type PawnEntry struct {
	key            uint64
	scores         [2]Score
	passedPawns    [2]board.Bitboard
	pawnAttacks    [2]board.Bitboard
	attacksSpan    [2]board.Bitboard
	weakUnopposed  [2]int
	semiopen       [2]uint16
	pawnsOnSquares [2][2]int
	asymmetry      int
	openFiles      int
}

func (e *PawnEntry) PawnScore(c board.Color) Score            { return e.scores[c] }
func (e *PawnEntry) PassedPawns(c board.Color) board.Bitboard { return e.passedPawns[c] }
func (e *PawnEntry) PawnAttacks(c board.Color) board.Bitboard { return e.pawnAttacks[c] }
func (e *PawnEntry) PawnAttacksSpan(c board.Color) board.Bitboard {
	return e.attacksSpan[c]
}
func (e *PawnEntry) WeakUnopposed(c board.Color) int { return e.weakUnopposed[c] }
func (e *PawnEntry) Asymmetry() int                  { return e.asymmetry }
func (e *PawnEntry) OpenFiles() int                  { return e.openFiles }

// SemiopenFile reports whether c has no pawn on file f.
func (e *PawnEntry) SemiopenFile(c board.Color, f int) bool {
	return e.semiopen[c]&(1<<uint(f)) != 0
}

// PawnsOnSameColorSquares counts c's pawns standing on squares of the
// same checker color as s.
func (e *PawnEntry) PawnsOnSameColorSquares(pos *board.Position, c board.Color, s board.Square) int {
	g := pos.Geo()
	return e.pawnsOnSquares[c][(g.FileOf(s)+g.RankOf(s))&1]
}

func (t *Tables) pawnEntry(pos *board.Position) *PawnEntry {
	e := &t.pawns[pawnIndex(pos.PawnKey())]
	if e.key == pos.PawnKey() {
		return e
	}
	e.compute(pos)
	return e
}

func (e *PawnEntry) compute(pos *board.Position) {
	g := pos.Geo()
	*e = PawnEntry{key: pos.PawnKey()}

	for c := board.White; c <= board.Black; c++ {
		us, them := c, c.Other()
		ourPawns := pos.PiecesCT(us, board.Pawn)
		theirPawns := pos.PiecesCT(them, board.Pawn)
		theirAttacks := g.PawnAttacksBB(them, theirPawns)

		e.pawnAttacks[us] = g.PawnAttacksBB(us, ourPawns)

		for f := 0; f < g.Files; f++ {
			if ourPawns.And(g.FileBB(f)).IsEmpty() {
				e.semiopen[us] |= 1 << uint(f)
			}
		}

		score := ScoreZero
		for _, s := range pos.Squares(us, board.Pawn) {
			if s == board.NoSquare {
				break
			}
			f, r := g.FileOf(s), g.RelativeRank(us, s)

			e.attacksSpan[us] = e.attacksSpan[us].Or(g.PawnAttackSpan(us, s))
			e.pawnsOnSquares[us][(g.FileOf(s)+g.RankOf(s))&1]++

			opposed := theirPawns.And(g.ForwardFileBB(us, s)).Any()
			stoppers := theirPawns.And(g.PassedPawnMask(us, s))
			neighbours := ourPawns.And(g.AdjacentFilesBB(f))
			phalanx := neighbours.And(g.RankBB(g.RankOf(s)))
			supported := neighbours.And(g.BackwardShift(us, g.RankBB(g.RankOf(s))))
			behindOnFile := ourPawns.And(g.ForwardFileBB(them, s)).
				And(g.FileBB(f))
			stop := g.ForwardShift(us, board.SquareBB(s))

			if stoppers.IsEmpty() {
				e.passedPawns[us] = e.passedPawns[us].Or(board.SquareBB(s))
			}

			backward := neighbours.AndNot(g.ForwardRanksBB(us, g.RankOf(s))).IsEmpty() &&
				theirAttacks.And(stop).Any()

			switch {
			case supported.Any() || phalanx.Any():
				v := connectedSeed[r]*(2+b2i(phalanx.Any())-b2i(opposed)) +
					21*supported.Count()
				score = score.Add(S(int32(v), int32(v*(r-2)/4)))
			case neighbours.IsEmpty():
				score = score.Sub(isolatedPenalty)
				if !opposed {
					e.weakUnopposed[us]++
				}
			case backward:
				score = score.Sub(backwardPenalty)
				if !opposed {
					e.weakUnopposed[us]++
				}
			}

			if behindOnFile.Any() && supported.IsEmpty() {
				score = score.Sub(doubledPenalty)
			}
		}
		e.scores[us] = score
	}

	both := e.semiopen[board.White] & e.semiopen[board.Black]
	for f := 0; f < g.Files; f++ {
		if both&(1<<uint(f)) != 0 {
			e.openFiles++
		}
	}
	diff := e.semiopen[board.White] ^ e.semiopen[board.Black]
	for f := 0; f < g.Files; f++ {
		if diff&(1<<uint(f)) != 0 {
			e.asymmetry++
		}
	}
}

// KingSafety evaluates shelter and storm around the king, taking the
// best of the current square and the castling destinations while the
// rights remain.
func (e *PawnEntry) KingSafety(pos *board.Position, c board.Color, ksq board.Square) Score {
	g := pos.Geo()
	bonus := shelterStorm(pos, c, ksq)
	if pos.V.Castling && pos.CanCastle(c) {
		kside := g.RelativeSquare(c, g.MakeSquare(g.Files-2, 0))
		qside := g.RelativeSquare(c, g.MakeSquare(2, 0))
		bonus = maxInt(bonus, shelterStorm(pos, c, kside))
		bonus = maxInt(bonus, shelterStorm(pos, c, qside))
	}

	minDist := 5
	for _, s := range pos.Squares(c, board.Pawn) {
		if s == board.NoSquare {
			break
		}
		minDist = minInt(minDist, g.Distance(ksq, s))
	}
	return S(int32(bonus), int32(-16*minDist))
}

func shelterStorm(pos *board.Position, c board.Color, ksq board.Square) int {
	g := pos.Geo()
	us, them := c, c.Other()
	ourPawns := pos.PiecesCT(us, board.Pawn)
	theirPawns := pos.PiecesCT(them, board.Pawn)

	// Pawns behind the king shelter nothing.
	front := g.ForwardRanksBB(us, g.RankOf(ksq)).Or(g.RankBB(g.RankOf(ksq)))

	safety := 5
	kf := clamp(g.FileOf(ksq), 1, g.Files-2)
	for f := kf - 1; f <= kf+1; f++ {
		fileBB := g.FileBB(f).And(front)

		ownRank := 0
		if own := ourPawns.And(fileBB); own.Any() {
			s := own.Lsb()
			if us == board.Black {
				s = own.Msb()
			}
			ownRank = g.RelativeRank(us, s)
		}
		safety += shelterStrength[ownRank]

		if their := theirPawns.And(fileBB); their.Any() {
			s := their.Lsb()
			if us == board.Black {
				s = their.Msb()
			}
			danger := stormDanger[g.RelativeRank(us, s)]
			if ownRank == 0 {
				danger += danger / 2
			}
			safety -= danger
		}
	}
	return safety
}
