package eval

import "variant-eval/board"

// Static evaluation. Terms run in a fixed order because they share the
// attack accumulators: initialize, then pieces in ascending type order,
// then hands, and only then the king, threat, passed, space and variant
// terms that read the completed tables.

const tempoValue = 28

// Threshold of total non-pawn material below which the space term is
// skipped.
const spaceThreshold = 12222

// kingAttackWeights by attacker type; every fairy type shares the queen
// slot.
var kingAttackWeights = [...]int{0, 0, 77, 55, 44, 10}

func kingAttackWeight(pt board.PieceType) int {
	if pt > board.Queen {
		pt = board.Queen
	}
	return kingAttackWeights[pt]
}

const (
	queenSafeCheck  = 780
	rookSafeCheck   = 880
	bishopSafeCheck = 435
	knightSafeCheck = 790
	otherSafeCheck  = 600
)

// mobilityBonus[pt-2][reachable squares]; counts past the end saturate
// at the last entry, so oversized boards keep the full-mobility bonus.
var mobilityBonus = [4][]Score{
	{S(-75, -76), S(-57, -54), S(-9, -28), S(-2, -10), S(6, 5), S(14, 12),
		S(22, 26), S(29, 29), S(36, 29)},
	{S(-48, -59), S(-20, -23), S(16, -3), S(26, 13), S(38, 24), S(51, 42),
		S(55, 54), S(63, 57), S(63, 65), S(68, 73), S(81, 78), S(81, 86),
		S(91, 88), S(98, 97)},
	{S(-58, -76), S(-27, -18), S(-15, 28), S(-10, 55), S(-5, 69), S(-2, 82),
		S(9, 112), S(16, 118), S(30, 132), S(29, 142), S(32, 155), S(38, 165),
		S(46, 166), S(48, 169), S(58, 171)},
	{S(-39, -36), S(-21, -15), S(3, 8), S(3, 18), S(14, 34), S(22, 54),
		S(28, 61), S(41, 73), S(43, 79), S(48, 92), S(56, 94), S(60, 104),
		S(60, 113), S(66, 120), S(67, 123), S(70, 126), S(71, 133), S(73, 136),
		S(79, 140), S(88, 143), S(88, 148), S(99, 166), S(102, 170), S(102, 175),
		S(106, 184), S(109, 191), S(113, 206), S(116, 212)},
}

var (
	maxMobility  = S(300, 300)
	dropMobility = S(10, 10)
)

// outpost[bishop][pawn-supported]
var outpost = [2][2]Score{
	{S(22, 6), S(36, 12)},
	{S(9, 2), S(15, 5)},
}

var rookOnFile = [2]Score{S(20, 7), S(45, 20)}

var threatByMinor = [board.PieceTypeNB]Score{
	board.Pawn: S(0, 31), board.Knight: S(39, 42), board.Bishop: S(57, 44),
	board.Rook: S(68, 112), board.Queen: S(47, 120),
}

var threatByRook = [board.PieceTypeNB]Score{
	board.Pawn: S(0, 24), board.Knight: S(38, 71), board.Bishop: S(38, 61),
	board.Rook: S(0, 38), board.Queen: S(36, 38),
}

var threatByKing = [2]Score{S(3, 65), S(9, 145)}

// passedRank and passedDanger by relative rank; a passer beyond the
// seventh rank of a tall board scores nothing here, its promotion bonus
// already dominates.
var passedRank = [board.MaxRanks]Score{
	{}, S(5, 7), S(5, 13), S(18, 23), S(74, 58), S(164, 166), S(268, 243),
}

// passedFile by distance from the edge.
var passedFile = [4]Score{S(15, 7), S(-5, 14), S(1, -5), S(-22, -11)}

var passedDanger = [board.MaxRanks]int{0, 0, 0, 3, 6, 12, 21}

// kingProtector by min(pt-2, 4); fairy types share the last slot.
var kingProtector = [5]Score{S(3, 5), S(4, 3), S(3, 0), S(1, -1), S(2, 2)}

var (
	bishopPawns        = S(3, 5)
	closeEnemies       = S(7, 0)
	connectivity       = S(3, 1)
	corneredBishop     = S(50, 50)
	hanging            = S(52, 30)
	hinderPassedPawn   = S(8, 1)
	knightOnQueen      = S(21, 11)
	longDiagonalBishop = S(22, 0)
	minorBehindPawn    = S(16, 0)
	overload           = S(10, 5)
	pawnlessFlank      = S(20, 80)
	rookOnPawn         = S(8, 24)
	sliderOnQueen      = S(42, 21)
	threatByPawnPush   = S(47, 26)
	threatByRank       = S(16, 3)
	threatBySafePawn   = S(175, 168)
	trappedRook        = S(92, 0)
	weakQueen          = S(50, 10)
	weakUnopposedPawn  = S(5, 25)
)

// Evaluate returns the static evaluation from the side to move's point
// of view. The position must not be an immediate game end and the side
// to move must not be in check.
func Evaluate(pos *board.Position, t *Tables) board.Value {
	e := evalState{pos: pos, g: pos.Geo(), v: pos.V, tables: t}
	return e.value()
}

type evalState struct {
	pos    *board.Position
	g      *board.Geometry
	v      *board.Variant
	tables *Tables
	pe     *PawnEntry
	me     *MaterialEntry

	mobilityArea [2]board.Bitboard
	mobility     [2]Score

	attackedBy    [2][board.PieceTypeNB]board.Bitboard
	attackedByAll [2]board.Bitboard
	attackedBy2   [2]board.Bitboard

	kingRing            [2]board.Bitboard
	kingAttackersCount  [2]int
	kingAttackersWeight [2]int
	kingAttacksCount    [2]int

	tr *Trace
}

func (e *evalState) value() board.Value {
	pos := e.pos

	e.me = e.tables.materialEntry(pos)
	if e.me.specialized {
		return e.me.specializedValue(pos)
	}

	mg, eg := pos.PSQ()
	score := S(int32(mg), int32(eg))
	if e.tr != nil {
		e.tr.material = score
	}

	if e.tr == nil {
		contempt := S(int32(pos.ContemptMG), int32(pos.ContemptEG))
		if pos.SideToMove() == board.Black {
			contempt = contempt.Neg()
		}
		score = score.Add(contempt)
	}
	score = score.Add(e.me.imbalance)

	e.pe = e.tables.pawnEntry(pos)
	score = score.Add(e.pe.PawnScore(board.White)).Sub(e.pe.PawnScore(board.Black))

	e.initialize(board.White)
	e.initialize(board.Black)

	for pt := board.Knight; pt < board.King; pt++ {
		score = score.Add(e.pieces(board.White, pt)).Sub(e.pieces(board.Black, pt))
	}
	if e.v.PieceDrops {
		for pt := board.Pawn; pt < board.King; pt++ {
			score = score.Add(e.hand(board.White, pt)).Sub(e.hand(board.Black, pt))
		}
	}

	mobMult := 1 + b2i(e.v.CapturesToHand) + b2i(e.v.MustCapture)
	score = score.Add(e.mobility[board.White].Sub(e.mobility[board.Black]).MulN(mobMult))

	score = score.Add(e.king(board.White)).Sub(e.king(board.Black))
	score = score.Add(e.threats(board.White)).Sub(e.threats(board.Black))
	score = score.Add(e.passed(board.White)).Sub(e.passed(board.Black))
	score = score.Add(e.space(board.White)).Sub(e.space(board.Black))
	score = score.Add(e.variantScore(board.White)).Sub(e.variantScore(board.Black))

	score = score.Add(e.initiative(score.EG))

	sf := e.scaleFactor(score.EG)
	ph := e.me.phase
	v := (int(score.MG)*ph + int(score.EG)*(phaseMidgame-ph)*sf/scaleNormal) / phaseMidgame

	if e.tr != nil {
		e.tr.imbalance = e.me.imbalance
		e.tr.pawn = [2]Score{e.pe.PawnScore(board.White), e.pe.PawnScore(board.Black)}
		e.tr.mobility = [2]Score{e.mobility[board.White], e.mobility[board.Black]}
		e.tr.total = score
	}

	if pos.SideToMove() == board.Black {
		v = -v
	}
	return board.Value(v) + Tempo(pos)
}

// Tempo is the side-to-move bonus; amplified in drop games where the
// move advantage compounds.
func Tempo(pos *board.Position) board.Value {
	return board.Value(tempoValue * (1 + 4*b2i(pos.V.CapturesToHand)))
}

func (e *evalState) initialize(us board.Color) {
	pos, g := e.pos, e.g
	them := us.Other()

	lowRanks := g.RankBB(g.RankFromSide(us, 1)).Or(g.RankBB(g.RankFromSide(us, 2)))
	ourPawns := pos.PiecesCT(us, board.Pawn)
	blocked := ourPawns.And(g.BackwardShift(us, pos.AllPieces()).Or(lowRanks))

	if e.v.MustCapture {
		e.mobilityArea[us] = g.All
	} else {
		excl := blocked.
			Or(pos.PiecesCT(us, board.King, board.Queen)).
			Or(e.pe.PawnAttacks(them)).
			Or(g.BackwardShift(us, pos.PiecesCT(them, board.ShogiPawn)))
		e.mobilityArea[us] = g.All.AndNot(excl)
	}

	ksq := pos.KingSq(us)
	if ksq != board.NoSquare {
		e.attackedBy[us][board.King] = pos.AttacksFrom(us, board.King, ksq)
	} else {
		e.attackedBy[us][board.King] = board.EmptyBB
	}
	e.attackedBy[us][board.Pawn] = e.pe.PawnAttacks(us)
	e.attackedByAll[us] = e.attackedBy[us][board.King].Or(e.attackedBy[us][board.Pawn])
	e.attackedBy2[us] = e.attackedBy[us][board.King].And(e.attackedBy[us][board.Pawn])

	threshold := board.PieceValueMG[board.Rook] + board.PieceValueMG[board.Knight]
	if ksq != board.NoSquare &&
		(pos.NonPawnMaterial(them) >= threshold || e.v.CapturesToHand) {
		ring := e.attackedBy[us][board.King]
		if g.RelativeRank(us, ksq) == 0 {
			ring = ring.Or(g.ForwardShift(us, ring))
		}
		if g.FileOf(ksq) == g.Files-1 {
			ring = ring.Or(g.West(ring))
		} else if g.FileOf(ksq) == 0 {
			ring = ring.Or(g.East(ring))
		}
		e.kingRing[us] = ring.And(g.All)
		e.kingAttackersCount[them] = e.kingRing[us].And(e.pe.PawnAttacks(them)).Count()
		e.kingAttacksCount[them] = 0
		e.kingAttackersWeight[them] = 0
	} else {
		e.kingRing[us] = board.EmptyBB
		e.kingAttackersCount[them] = 0
	}
}

func (e *evalState) pieces(us board.Color, pt board.PieceType) Score {
	pos, g, v := e.pos, e.g, e.v
	them := us.Other()
	occ := pos.AllPieces()
	score := ScoreZero

	outpostRanks := board.EmptyBB
	for r := 3; r <= 5 && r < g.Ranks; r++ {
		outpostRanks = outpostRanks.Or(g.RankBB(g.RankFromSide(us, r)))
	}

	e.attackedBy[us][pt] = board.EmptyBB

	for _, s := range pos.Squares(us, pt) {
		if s == board.NoSquare {
			break
		}

		// Attack sets, with x-rays through queens for the sliders.
		var b board.Bitboard
		switch pt {
		case board.Bishop:
			b = pos.AttacksBBOcc(us, pt, s, occ.Xor(pos.PiecesT(board.Queen)))
		case board.Rook:
			b = pos.AttacksBBOcc(us, pt, s,
				occ.Xor(pos.PiecesT(board.Queen)).Xor(pos.PiecesCT(us, board.Rook)))
		default:
			b = pos.AttacksFrom(us, pt, s).And(occ).Or(pos.MovesFrom(us, pt, s))
		}

		if pos.BlockersForKing(us).Test(s) {
			b = b.And(g.LineBB(pos.KingSq(us), s))
		}

		e.attackedBy2[us] = e.attackedBy2[us].Or(e.attackedByAll[us].And(b))
		e.attackedBy[us][pt] = e.attackedBy[us][pt].Or(b)
		e.attackedByAll[us] = e.attackedByAll[us].Or(b)

		if b.And(e.kingRing[them]).Any() {
			e.kingAttackersCount[us]++
			e.kingAttackersWeight[us] += kingAttackWeight(pt)
			e.kingAttacksCount[us] += b.And(e.attackedBy[them][board.King]).Count()
		}

		mob := b.And(e.mobilityArea[us]).Count()
		if pt <= board.Queen {
			tbl := mobilityBonus[pt-2]
			e.mobility[us] = e.mobility[us].Add(tbl[minInt(mob, len(tbl)-1)])
		} else {
			e.mobility[us] = e.mobility[us].Add(maxMobility.MulN(mob - 1).DivN(10 + mob))
		}

		// Being in or reaching the promotion zone is worth a slice of the
		// promotion gain; promoted pieces in drop games carry back part of
		// their demotion loss.
		if promo := v.PromotedType[pt]; promo != board.NoPieceType {
			if v.PromotionZoneBB(us).And(b.Or(board.SquareBB(s))).Any() {
				score = score.Add(S(
					int32(board.PieceValueMG[promo]-board.PieceValueMG[pt]),
					int32(board.PieceValueEG[promo]-board.PieceValueEG[pt])).DivN(10))
			}
		} else if v.CapturesToHand && pos.IsPromoted(s) {
			upt := pos.UnpromotedType(s)
			score = score.Add(S(
				int32(board.PieceValueMG[pt]-board.PieceValueMG[upt]),
				int32(board.PieceValueEG[pt]-board.PieceValueEG[upt])).DivN(8))
		}

		if ksq := pos.KingSq(us); ksq != board.NoSquare {
			dist := g.Distance(s, ksq)
			if v.CapturesToHand {
				if eksq := pos.KingSq(them); eksq != board.NoSquare {
					dist *= g.Distance(s, eksq)
				}
			}
			score = score.Sub(kingProtector[minInt(int(pt)-2, 4)].MulN(dist))
		}

		if pt == board.Bishop || pt == board.Knight {
			isBishop := b2i(pt == board.Bishop)

			bb := outpostRanks.AndNot(e.pe.PawnAttacksSpan(them))
			if bb.Test(s) {
				supported := e.attackedBy[us][board.Pawn].Test(s)
				score = score.Add(outpost[isBishop][b2i(supported)].MulN(2))
			} else if bb = bb.And(b).AndNot(pos.PiecesC(us)); bb.Any() {
				supported := e.attackedBy[us][board.Pawn].And(bb).Any()
				score = score.Add(outpost[isBishop][b2i(supported)])
			}

			if g.RelativeRank(us, s) < 4 &&
				pos.PiecesT(board.Pawn).And(g.ForwardShift(us, board.SquareBB(s))).Any() {
				score = score.Add(minorBehindPawn)
			}

			if pt == board.Bishop {
				blocked := pos.PiecesCT(us, board.Pawn).And(g.BackwardShift(us, occ))
				score = score.Sub(bishopPawns.
					MulN(e.pe.PawnsOnSameColorSquares(pos, us, s)).
					MulN(1 + blocked.And(centerFilesBB(g)).Count()))

				seen := pos.AttacksBBOcc(us, board.Bishop, s, pos.PiecesT(board.Pawn)).
					Or(board.SquareBB(s))
				if centerBB(g).And(seen).MoreThanOne() {
					score = score.Add(longDiagonalBishop)
				}

				if v.NonStandardStart {
					score = score.Sub(e.corneredBishopPenalty(us, s))
				}
			}
		}

		if pt == board.Rook {
			if g.RelativeRank(us, s) >= 4 {
				score = score.Add(rookOnPawn.MulN(
					pos.PiecesCT(them, board.Pawn).And(g.PseudoAttacks(us, board.Rook, s)).Count()))
			}

			f := g.FileOf(s)
			if e.pe.SemiopenFile(us, f) {
				score = score.Add(rookOnFile[b2i(e.pe.SemiopenFile(them, f))])
			} else if mob <= 3 {
				if ksq := pos.KingSq(us); ksq != board.NoSquare {
					kf := g.FileOf(ksq)
					if (kf < g.Files/2) == (f < kf) {
						score = score.Sub(trappedRook.
							Sub(S(int32(mob*22), 0)).
							MulN(1 + b2i(!pos.CanCastle(us))))
					}
				}
			}
		}

		if pt == board.Queen {
			snipers := pos.PiecesCT(them, board.Rook, board.Bishop)
			if blockers, _ := pos.SliderBlockers(snipers, s); blockers.Any() {
				score = score.Sub(weakQueen)
			}
		}
	}

	if e.tr != nil {
		e.tr.pieces[pt][us] = score
	}
	return score
}

// corneredBishopPenalty covers the shuffled-start trap of a bishop boxed
// in by its own pawn diagonally ahead.
func (e *evalState) corneredBishopPenalty(us board.Color, s board.Square) Score {
	pos, g := e.pos, e.g
	if s != g.RelativeSquare(us, g.MakeSquare(0, 0)) &&
		s != g.RelativeSquare(us, g.MakeSquare(g.Files-1, 0)) {
		return ScoreZero
	}
	fw := 1
	if us == board.Black {
		fw = -1
	}
	df := 1
	if g.FileOf(s) != 0 {
		df = -1
	}
	f0, r0 := g.FileOf(s), g.RankOf(s)
	pawn := board.Piece{Color: us, Type: board.Pawn}
	if pos.PieceOn(g.MakeSquare(f0+df, r0+fw)) != pawn {
		return ScoreZero
	}
	switch {
	case !pos.Empty(g.MakeSquare(f0+df, r0+2*fw)):
		return corneredBishop.MulN(4)
	case pos.PieceOn(g.MakeSquare(f0+2*df, r0+fw)) == pawn:
		return corneredBishop.MulN(2)
	default:
		return corneredBishop
	}
}

func (e *evalState) hand(us board.Color, pt board.PieceType) Score {
	pos, g := e.pos, e.g
	them := us.Other()

	n := pos.CountInHand(us, pt)
	if n == 0 {
		return ScoreZero
	}

	b := pos.DropRegion(us, pt).
		AndNot(pos.AllPieces()).
		And(g.All.AndNot(e.attackedBy2[them]).Or(e.attackedByAll[us]))

	if b.And(e.kingRing[them]).Any() && pt != board.ShogiPawn {
		e.kingAttackersCount[us] += n
		e.kingAttackersWeight[us] += kingAttackWeight(pt) * n
		e.kingAttacksCount[us] += b.And(e.attackedBy[them][board.King]).Count()
	}

	midRank := g.RankFromSide(them, (g.Ranks-2)/2)
	theirHalf := g.All.AndNot(g.ForwardRanksBB(them, midRank))
	e.mobility[us] = e.mobility[us].Add(dropMobility.
		MulN(b.And(theirHalf).AndNot(e.attackedByAll[them]).Count()))

	return ScoreZero
}

func (e *evalState) king(us board.Color) Score {
	pos, g, v := e.pos, e.g, e.v
	them := us.Other()

	ksq := pos.KingSq(us)
	if ksq == board.NoSquare || !v.CheckingPermitted {
		return ScoreZero
	}

	campRank := g.RankFromSide(us, minInt((g.Ranks-2)/2+1, g.Ranks-1))
	camp := g.All.Xor(g.ForwardRanksBB(us, campRank))

	cth := v.CapturesToHand
	nCheck := b2i(v.MaxCheckCount > 0)
	occ := pos.AllPieces()

	score := e.pe.KingSafety(pos, us, ksq)

	if e.kingAttackersCount[them] > 1-pos.Count(them, board.Queen) || cth {
		kingDanger := 0
		unsafeChecks := board.EmptyBB

		weak := e.attackedByAll[them].
			AndNot(e.attackedBy2[us]).
			And(g.All.AndNot(e.attackedByAll[us]).
				Or(e.attackedBy[us][board.King]).
				Or(e.attackedBy[us][board.Queen]))

		safe := g.All.AndNot(pos.PiecesC(them)).
			And(g.All.AndNot(e.attackedByAll[us]).Or(weak.And(e.attackedBy2[them])))

		getAttacks := func(c board.Color, pt board.PieceType) board.Bitboard {
			b := e.attackedBy[c][pt]
			if cth && pos.CountInHand(c, pt) > 0 {
				b = b.Or(g.All.AndNot(occ))
			}
			return b
		}

		occNoQueen := occ.Xor(pos.PiecesCT(us, board.Queen))
		for _, pt := range v.PieceTypes {
			switch pt {
			case board.Queen:
				b := pos.AttacksBBOcc(us, pt, ksq, occNoQueen).
					And(getAttacks(them, pt)).
					And(safe).
					AndNot(e.attackedBy[us][board.Queen])
				if b.Any() {
					kingDanger += queenSafeCheck
				}
			case board.Rook, board.Bishop, board.Knight:
				b := pos.AttacksBBOcc(us, pt, ksq, occNoQueen).And(getAttacks(them, pt))
				if b.And(safe).Any() {
					switch pt {
					case board.Rook:
						kingDanger += rookSafeCheck
					case board.Bishop:
						kingDanger += bishopSafeCheck
					default:
						kingDanger += knightSafeCheck
					}
				} else {
					unsafeChecks = unsafeChecks.Or(b)
				}
			case board.Pawn:
				if cth && pos.CountInHand(them, pt) > 0 {
					b := pos.AttacksBBOcc(us, pt, ksq, occ).AndNot(occ)
					if b.And(safe).Any() {
						kingDanger += otherSafeCheck
					} else {
						unsafeChecks = unsafeChecks.Or(b)
					}
				}
			case board.ShogiPawn, board.King:
				// No check threat worth a term.
			default:
				b := pos.AttacksBBOcc(us, pt, ksq, occ).And(getAttacks(them, pt))
				if b.And(safe).Any() {
					kingDanger += otherSafeCheck
				} else {
					unsafeChecks = unsafeChecks.Or(b)
				}
			}
		}

		if v.MaxCheckCount > 0 {
			kingDanger *= 2
		}

		unsafeChecks = unsafeChecks.And(e.mobilityArea[them])
		amp := 1 + b2i(cth) + nCheck

		kingDanger += e.kingAttackersCount[them]*e.kingAttackersWeight[them] +
			102*e.kingAttacksCount[them]*amp +
			191*e.kingRing[us].And(weak).Count()*amp +
			143*pos.BlockersForKing(us).Or(unsafeChecks).Count() -
			848*b2i(pos.Count(them, board.Queen) == 0 && !cth)/(1+nCheck) -
			9*int(score.MG)/8 +
			40

		if kingDanger > 0 {
			mobilityDanger := int(e.mobility[them].MG - e.mobility[us].MG)
			kingDanger = maxInt(0, kingDanger+mobilityDanger)
			score = score.Sub(S(
				int32(minInt(kingDanger*kingDanger/4096, 3000)),
				int32(kingDanger/16)))
		}
	}

	kf := kingFlankBB(g, clamp(g.FileOf(ksq), 1, g.Files-2))

	if pos.PiecesT(board.Pawn).And(kf).IsEmpty() {
		score = score.Sub(pawnlessFlank)
	}

	// Slow-motion attacks: enemy presence on our king's flank, doubled
	// presence not met by a pawn counts again.
	b1 := e.attackedByAll[them].And(kf).And(camp)
	b2 := b1.And(e.attackedBy2[them]).
		AndNot(e.attackedBy[us][board.Pawn].Or(e.attackedBy[us][board.ShogiPawn]))
	score = score.Sub(closeEnemies.MulN((b1.Count() + b2.Count()) * (1 + b2i(cth) + nCheck)))

	// In drop games king danger never fades with the phase.
	if cth {
		score = S(score.MG, score.MG).DivN(1 + 2*b2i(!v.ShogiDoubledPawn))
	}

	if e.tr != nil {
		e.tr.king[us] = score
	}
	return score
}

func (e *evalState) threats(us board.Color) Score {
	pos, g, v := e.pos, e.g, e.v
	them := us.Other()
	occ := pos.AllPieces()
	score := ScoreZero

	if v.MustCapture {
		score = score.Sub(S(100, 100).MulN(e.attackedByAll[us].And(pos.PiecesC(them)).Count()))

		moves := board.EmptyBB
		for pieces := pos.PiecesC(us); pieces.Any(); {
			s := pieces.PopLsb()
			if pt := pos.PieceOn(s).Type; pt != board.King {
				moves = moves.Or(pos.MovesFrom(us, pt, s))
			}
		}
		forced := e.attackedByAll[them].And(moves).AndNot(occ)
		score = score.Add(S(200, 200).MulN(forced.Count()))
		score = score.Add(S(200, 200).MulN(forced.AndNot(e.attackedBy2[us]).Count()))
	}

	nonPawnEnemies := pos.PiecesC(them).
		Xor(pos.PiecesCT(them, board.Pawn, board.ShogiPawn))

	stronglyProtected := e.attackedBy[them][board.Pawn].
		Or(e.attackedBy2[them].AndNot(e.attackedBy2[us]))

	defended := nonPawnEnemies.And(stronglyProtected)
	weak := pos.PiecesC(them).AndNot(stronglyProtected).And(e.attackedByAll[us])

	if defended.Or(weak).Any() {
		b := defended.Or(weak).
			And(e.attackedBy[us][board.Knight].Or(e.attackedBy[us][board.Bishop]))
		for b.Any() {
			s := b.PopLsb()
			pt := pos.PieceOn(s).Type
			score = score.Add(threatByMinor[pt])
			if pt != board.Pawn && pt != board.ShogiPawn {
				score = score.Add(threatByRank.MulN(g.RelativeRank(them, s)))
			}
		}

		b = pos.PiecesCT(them, board.Queen).Or(weak).And(e.attackedBy[us][board.Rook])
		for b.Any() {
			s := b.PopLsb()
			pt := pos.PieceOn(s).Type
			score = score.Add(threatByRook[pt])
			if pt != board.Pawn && pt != board.ShogiPawn {
				score = score.Add(threatByRank.MulN(g.RelativeRank(them, s)))
			}
		}

		if b = weak.And(e.attackedBy[us][board.King]); b.Any() {
			score = score.Add(threatByKing[b2i(b.MoreThanOne())])
		}

		score = score.Add(hanging.MulN(weak.AndNot(e.attackedByAll[them]).Count()))

		overloaded := nonPawnEnemies.
			And(e.attackedByAll[us]).AndNot(e.attackedBy2[us]).
			And(e.attackedByAll[them]).AndNot(e.attackedBy2[them])
		score = score.Add(overload.MulN(overloaded.Count()))
	}

	if pos.PiecesCT(us, board.Rook, board.Queen).Any() {
		score = score.Add(weakUnopposedPawn.MulN(e.pe.WeakUnopposed(them)))
	}

	// Threats by safe pawns, including shogi pawn pushes.
	safePawns := pos.PiecesCT(us, board.Pawn).
		And(g.All.AndNot(e.attackedByAll[them]).Or(e.attackedByAll[us]))
	safeThreats := g.PawnAttacksBB(us, safePawns).
		Or(g.ForwardShift(us, pos.PiecesCT(us, board.ShogiPawn))).
		And(nonPawnEnemies)
	score = score.Add(threatBySafePawn.MulN(safeThreats.Count()))

	// Squares our pawns reach with the next push, double pushes included.
	pushRank := g.RankBB(g.RankFromSide(us, 2))
	b := g.ForwardShift(us, pos.PiecesCT(us, board.Pawn)).AndNot(occ)
	b = b.Or(g.ForwardShift(us, b.And(pushRank)).AndNot(occ))
	b = b.AndNot(e.attackedBy[them][board.Pawn]).
		And(e.attackedByAll[us].Or(g.All.AndNot(e.attackedByAll[them])))
	b = g.PawnAttacksBB(us, b).
		And(pos.PiecesC(them)).
		AndNot(e.attackedBy[us][board.Pawn])
	score = score.Add(threatByPawnPush.MulN(b.Count()))

	if pos.Count(them, board.Queen) == 1 {
		qsq := pos.Squares(them, board.Queen)[0]
		safeSpots := e.mobilityArea[us].AndNot(stronglyProtected)

		b = e.attackedBy[us][board.Knight].And(pos.AttacksFrom(us, board.Knight, qsq))
		score = score.Add(knightOnQueen.MulN(b.And(safeSpots).Count()))

		b = e.attackedBy[us][board.Bishop].And(pos.AttacksFrom(us, board.Bishop, qsq)).
			Or(e.attackedBy[us][board.Rook].And(pos.AttacksFrom(us, board.Rook, qsq)))
		score = score.Add(sliderOnQueen.MulN(b.And(safeSpots).And(e.attackedBy2[us]).Count()))
	}

	protected := pos.PiecesC(us).
		Xor(pos.PiecesCT(us, board.Pawn, board.King, board.ShogiPawn)).
		And(e.attackedByAll[us])
	score = score.Add(connectivity.MulN(protected.Count() * (1 + 2*b2i(v.CapturesToHand))))

	if e.tr != nil {
		e.tr.threat[us] = score
	}
	return score
}

func (e *evalState) passed(us board.Color) Score {
	pos, g, v := e.pos, e.g, e.v
	them := us.Other()
	score := ScoreZero

	kingProximity := func(c board.Color, s board.Square) int {
		if ksq := pos.KingSq(c); ksq != board.NoSquare {
			return minInt(g.Distance(ksq, s), 5)
		}
		return 5
	}

	for b := e.pe.PassedPawns(us); b.Any(); {
		s := b.PopLsb()

		hindered := g.ForwardFileBB(us, s).
			And(e.attackedByAll[them].Or(pos.PiecesC(them)))
		score = score.Sub(hinderPassedPawn.MulN(hindered.Count()))

		r := g.RelativeRank(us, s)
		w := passedDanger[r]
		bonus := passedRank[r]

		if w != 0 {
			blockSq := g.ForwardShift(us, board.SquareBB(s)).Lsb()

			if v.Extinction != board.ExtinctionWin {
				bonus = bonus.Add(S(0, int32((kingProximity(them, blockSq)*5-
					kingProximity(us, blockSq)*2)*w)))

				// A second push matters unless the stop square queens.
				if r != 6 {
					nextSq := g.ForwardShift(us, board.SquareBB(blockSq)).Lsb()
					bonus = bonus.Sub(S(0, int32(kingProximity(us, nextSq)*w)))
				}
			}

			if pos.Empty(blockSq) {
				squaresToQueen := g.ForwardFileBB(us, s)
				defendedSquares := squaresToQueen
				unsafeSquares := squaresToQueen

				behind := g.ForwardFileBB(them, s).
					And(pos.PiecesT(board.Rook, board.Queen)).
					And(pos.AttacksFrom(us, board.Rook, s))

				if pos.PiecesC(us).And(behind).IsEmpty() {
					defendedSquares = defendedSquares.And(e.attackedByAll[us])
				}
				if pos.PiecesC(them).And(behind).IsEmpty() {
					unsafeSquares = unsafeSquares.
						And(e.attackedByAll[them].Or(pos.PiecesC(them)))
				}

				k := 0
				switch {
				case unsafeSquares.IsEmpty():
					k = 20
				case !unsafeSquares.Test(blockSq):
					k = 9
				}
				if defendedSquares == squaresToQueen {
					k += 6
				} else if defendedSquares.Test(blockSq) {
					k += 4
				}
				bonus = bonus.Add(S(int32(k*w), int32(k*w)))
			} else if pos.PiecesC(us).Test(blockSq) {
				bonus = bonus.Add(S(int32(w+r*2), int32(w+r*2)))
			}
		}

		// Candidates needing a second push, or with a pawn ahead, count
		// half.
		blockSq := g.ForwardShift(us, board.SquareBB(s))
		passedAhead := blockSq.IsEmpty() ||
			pos.PiecesCT(them, board.Pawn).And(g.PassedPawnMask(us, blockSq.Lsb())).IsEmpty()
		if !passedAhead || pos.PiecesT(board.Pawn).And(g.ForwardFileBB(us, s)).Any() {
			bonus = bonus.DivN(2)
		}

		f := g.FileOf(s)
		score = score.Add(bonus).Add(passedFile[minInt(minInt(f, g.Files-1-f), 3)])
	}

	// The whole term scales with the best available promotion piece.
	maxMg, maxEg := board.ValueZero, board.ValueZero
	for _, pt := range v.PromotionPieceTypes {
		maxMg = board.Value(maxInt(int(maxMg), int(board.PieceValueMG[pt])))
		maxEg = board.Value(maxInt(int(maxEg), int(board.PieceValueEG[pt])))
	}
	score = S(
		score.MG*int32(maxMg)/int32(board.PieceValueMG[board.Queen]),
		score.EG*int32(maxEg)/int32(board.PieceValueEG[board.Queen]))

	if e.tr != nil {
		e.tr.passed[us] = score
	}
	return score
}

func (e *evalState) space(us board.Color) Score {
	pos, g, v := e.pos, e.g, e.v
	them := us.Other()

	pawnsOnly := pos.PiecesC(us).Xor(pos.PiecesCT(us, board.Pawn)).IsEmpty()
	npm := int(pos.NonPawnMaterial(board.White) + pos.NonPawnMaterial(board.Black))
	if npm < spaceThreshold && !v.CapturesToHand && !pawnsOnly {
		return ScoreZero
	}

	spaceMask := board.EmptyBB
	for r := 1; r <= 3 && r < g.Ranks; r++ {
		spaceMask = spaceMask.Or(g.RankBB(g.RankFromSide(us, r)))
	}
	spaceMask = spaceMask.And(centerFilesBB(g))

	safe := spaceMask.
		AndNot(pos.PiecesCT(us, board.Pawn, board.ShogiPawn)).
		AndNot(e.attackedBy[them][board.Pawn]).
		AndNot(e.attackedBy[them][board.ShogiPawn])

	if pawnsOnly {
		safe = pos.PiecesCT(us, board.Pawn).AndNot(e.attackedByAll[them])
	}

	behind := pos.PiecesCT(us, board.Pawn, board.ShogiPawn)
	behind = behind.Or(g.BackwardShift(us, behind))
	behind = behind.Or(g.BackwardShift(us, g.BackwardShift(us, behind)))

	bonus := safe.Count() + behind.And(safe).Count()
	weight := pos.CountAll(us) - 2*e.pe.OpenFiles()

	score := S(int32(bonus*weight*weight/16), 0)
	if e.tr != nil {
		e.tr.space[us] = score
	}
	return score
}

func (e *evalState) variantScore(us board.Color) Score {
	pos, g, v := e.pos, e.g, e.v
	them := us.Other()
	score := ScoreZero

	if v.FlagPiece != board.NoPieceType && v.FlagRegion[us].Any() {
		isKingFlag := v.FlagPiece == board.King
		scale := pos.Count(us, v.FlagPiece)
		for pieces := pos.PiecesCT(us, v.FlagPiece); pieces.Any(); {
			s1 := pieces.PopLsb()
			for targets := v.FlagRegion[us]; targets.Any(); {
				s2 := targets.PopLsb()
				dist := g.Distance(s1, s2) + b2i(pos.PiecesC(us).Test(s2))
				if isKingFlag {
					dist += pos.AttackersTo(s2, pos.AllPieces()).And(pos.PiecesC(them)).Count()
				}
				mult := dist
				if isKingFlag && !v.CheckingPermitted {
					mult = 1
				}
				score = score.Add(S(2500, 2500).DivN(1 + scale*dist*mult))
			}
		}
	}

	if v.MaxCheckCount > 0 {
		if rem := pos.ChecksRemaining(us); rem > 0 {
			score = score.Add(S(3000, 1000).DivN(rem * rem))
		}
	}

	if n := v.ConnectN; n > 0 {
		dirs := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
		ours, theirs := pos.PiecesC(us), pos.PiecesC(them)
		for _, d := range dirs {
			fwd := func(b board.Bitboard) board.Bitboard { return g.ShiftDelta(b, d[0], d[1]) }
			rev := func(b board.Bitboard) board.Bitboard { return g.ShiftDelta(b, -d[0], -d[1]) }

			// Uninterrupted runs.
			b := ours
			for i := 1; i < n && b.Any(); i++ {
				score = score.Add(S(100, 100).MulN(b.Count() * i * i).DivN(n - i))
				b = b.And(rev(fwd(fwd(b)).AndNot(theirs)))
			}
			// Runs with fillable holes.
			b = ours
			for i := 1; i < n && b.Any(); i++ {
				score = score.Add(S(50, 50).MulN(b.Count() * i * i).DivN(n - i))
				b = b.And(rev(fwd(fwd(b)).AndNot(theirs)).
					Or(fwd(fwd(b).AndNot(pos.AllPieces()))))
			}
		}
	}

	if e.tr != nil {
		e.tr.variant[us] = score
	}
	return score
}

func (e *evalState) initiative(egv int32) Score {
	pos, g, v := e.pos, e.g, e.v

	if v.Extinction != board.ExtinctionNone || v.CapturesToHand || v.ConnectN > 0 {
		return ScoreZero
	}

	outflanking := 0
	wk, bk := pos.KingSq(board.White), pos.KingSq(board.Black)
	if wk != board.NoSquare && bk != board.NoSquare {
		outflanking = g.FileDistance(wk, bk) - g.RankDistance(wk, bk)
	}

	pawns := pos.PiecesT(board.Pawn)
	queenSide, kingSide := boardHalves(g)
	bothFlanks := pawns.And(queenSide).Any() && pawns.And(kingSide).Any()

	npm := int(pos.NonPawnMaterial(board.White) + pos.NonPawnMaterial(board.Black))
	pawnCount := pos.Count(board.White, board.Pawn) + pos.Count(board.Black, board.Pawn)

	complexity := 8*outflanking +
		8*e.pe.Asymmetry() +
		12*pawnCount +
		16*b2i(bothFlanks) +
		48*b2i(npm == 0) -
		136

	sign := 0
	if egv > 0 {
		sign = 1
	} else if egv < 0 {
		sign = -1
	}
	val := sign * maxInt(complexity, -abs32(egv))

	if e.tr != nil {
		e.tr.initiative = S(0, int32(val))
	}
	return S(0, int32(val))
}

func (e *evalState) scaleFactor(egv int32) int {
	pos, v := e.pos, e.v

	strong := board.White
	if egv <= 0 {
		strong = board.Black
	}
	sf := e.me.factor[strong]

	if sf == scaleNormal && !v.CapturesToHand {
		if pos.OppositeBishops() {
			bishopMg := board.PieceValueMG[board.Bishop]
			if pos.NonPawnMaterial(board.White) == bishopMg &&
				pos.NonPawnMaterial(board.Black) == bishopMg {
				sf = 31
			} else {
				sf = 46
			}
		} else {
			sf = minInt(40+7*pos.Count(strong, board.Pawn), sf)
		}
	}
	return sf
}

// centerFilesBB is the middle four files (or as many as the board has).
func centerFilesBB(g *board.Geometry) board.Bitboard {
	lo := maxInt(g.Files/2-2, 0)
	hi := minInt(g.Files/2+1, g.Files-1)
	b := board.EmptyBB
	for f := lo; f <= hi; f++ {
		b = b.Or(g.FileBB(f))
	}
	return b
}

// centerBB is the central block of at most four squares.
func centerBB(g *board.Geometry) board.Bitboard {
	b := board.EmptyBB
	for _, f := range []int{(g.Files - 1) / 2, g.Files / 2} {
		for _, r := range []int{(g.Ranks - 1) / 2, g.Ranks / 2} {
			b = b.Or(board.SquareBB(g.MakeSquare(f, r)))
		}
	}
	return b
}

func boardHalves(g *board.Geometry) (queenSide, kingSide board.Bitboard) {
	for f := 0; f < g.Files; f++ {
		if f < g.Files/2 {
			queenSide = queenSide.Or(g.FileBB(f))
		} else {
			kingSide = kingSide.Or(g.FileBB(f))
		}
	}
	return queenSide, kingSide
}

func kingFlankBB(g *board.Geometry, f int) board.Bitboard {
	if g.Files == 8 {
		switch {
		case f <= 2:
			return filesBB(g, 0, 3)
		case f <= 4:
			return filesBB(g, 2, 5)
		default:
			return filesBB(g, 4, 7)
		}
	}
	return g.FileBB(f).Or(g.AdjacentFilesBB(f))
}

func filesBB(g *board.Geometry, lo, hi int) board.Bitboard {
	b := board.EmptyBB
	for f := lo; f <= hi; f++ {
		b = b.Or(g.FileBB(f))
	}
	return b
}

func abs32(v int32) int {
	if v < 0 {
		return int(-v)
	}
	return int(v)
}
