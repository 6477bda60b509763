package board

// Position is an immutable snapshot of a game state: board occupancy,
// hands, side to move and the derived tables the evaluator reads. Build
// one with ParseFEN (or StartPosition) and share it freely; nothing here
// mutates after finalize.
type Position struct {
	V *Variant
	g *Geometry

	board    []Piece
	byColor  [2]Bitboard
	byType   [PieceTypeNB]Bitboard
	occupied Bitboard
	promoted Bitboard

	pieceList [2][PieceTypeNB][]Square
	counts    [2][PieceTypeNB]int
	hand      [2][PieceTypeNB]int

	stm         Color
	castling    CastlingRights
	ep          Square
	checksGiven [2]int

	key, pawnKey, materialKey uint64

	psqMG, psqEG int
	npm          [2]Value

	blockersForKing [2]Bitboard
	pinners         [2]Bitboard
	checkers        Bitboard

	// ContemptMG/EG bias the evaluation toward the side to move. They are
	// caller-set view parameters; set them before sharing the position.
	ContemptMG, ContemptEG int
}

// StartPosition returns the variant's initial position.
func StartPosition(v *Variant) (*Position, error) {
	return ParseFEN(v, v.StartFEN)
}

func (p *Position) Geo() *Geometry { return p.g }

func (p *Position) SideToMove() Color           { return p.stm }
func (p *Position) EpSquare() Square            { return p.ep }
func (p *Position) Castling() CastlingRights    { return p.castling }
func (p *Position) CanCastle(c Color) bool      { return p.castling.CanCastle(c) }
func (p *Position) ChecksGiven(c Color) int     { return p.checksGiven[c] }
func (p *Position) ChecksRemaining(c Color) int { return p.V.MaxCheckCount - p.checksGiven[c] }

func (p *Position) Key() uint64         { return p.key }
func (p *Position) PawnKey() uint64     { return p.pawnKey }
func (p *Position) MaterialKey() uint64 { return p.materialKey }

// AllPieces returns the full occupancy.
func (p *Position) AllPieces() Bitboard { return p.occupied }

// PiecesC returns the occupancy of one side.
func (p *Position) PiecesC(c Color) Bitboard { return p.byColor[c] }

// PiecesT returns the union occupancy of the given piece types.
func (p *Position) PiecesT(pts ...PieceType) Bitboard {
	var b Bitboard
	for _, pt := range pts {
		b = b.Or(p.byType[pt])
	}
	return b
}

// PiecesCT returns one side's occupancy restricted to the given types.
func (p *Position) PiecesCT(c Color, pts ...PieceType) Bitboard {
	return p.PiecesT(pts...).And(p.byColor[c])
}

// PromotedBB returns the squares holding promoted pieces.
func (p *Position) PromotedBB() Bitboard { return p.promoted }

func (p *Position) Count(c Color, pt PieceType) int { return p.counts[c][pt] }
func (p *Position) CountAll(c Color) int            { return p.byColor[c].Count() }
func (p *Position) CountInHand(c Color, pt PieceType) int {
	return p.hand[c][pt]
}

// Squares returns c's piece list for pt, terminated by NoSquare.
func (p *Position) Squares(c Color, pt PieceType) []Square {
	return p.pieceList[c][pt]
}

// KingSq returns c's king square, or NoSquare in kingless variants.
func (p *Position) KingSq(c Color) Square {
	if p.counts[c][King] == 0 {
		return NoSquare
	}
	return p.pieceList[c][King][0]
}

func (p *Position) PieceOn(s Square) Piece { return p.board[s] }
func (p *Position) Empty(s Square) bool    { return p.board[s].IsEmpty() }
func (p *Position) IsPromoted(s Square) bool {
	return p.promoted.Test(s)
}

// UnpromotedType returns the hand type a piece on s reverts to when
// captured in a drop variant.
func (p *Position) UnpromotedType(s Square) PieceType {
	pt := p.board[s].Type
	if p.promoted.Test(s) {
		if d := p.V.DemotedType[pt]; d != NoPieceType {
			return d
		}
		// Pawn-origin promotion (crazyhouse queen etc).
		return Pawn
	}
	return pt
}

// NonPawnMaterial is the midgame material value of c's pieces excluding
// pawns, shogi pawns and the king.
func (p *Position) NonPawnMaterial(c Color) Value { return p.npm[c] }

// PSQ returns the incremental material-plus-square score, white's point
// of view.
func (p *Position) PSQ() (mg, eg int) { return p.psqMG, p.psqEG }

// Checkers returns the pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard { return p.checkers }

// BlockersForKing returns c's pieces (of either color) that shield c's
// king from an enemy slider.
func (p *Position) BlockersForKing(c Color) Bitboard { return p.blockersForKing[c] }

// Pinners returns the enemy sliders pinning a piece against c's king.
func (p *Position) Pinners(c Color) Bitboard { return p.pinners[c] }

// AttacksFrom returns the attack set of a (c, pt) piece standing on s
// under the current occupancy.
func (p *Position) AttacksFrom(c Color, pt PieceType, s Square) Bitboard {
	return p.g.AttacksBB(c, pt, s, p.occupied)
}

// AttacksBBOcc is AttacksFrom with explicit occupancy, used for x-rays.
func (p *Position) AttacksBBOcc(c Color, pt PieceType, s Square, occ Bitboard) Bitboard {
	return p.g.AttacksBB(c, pt, s, occ)
}

// MovesFrom returns the quiet-move destinations of a (c, pt) piece on s,
// including the pawn double push where the variant allows it.
func (p *Position) MovesFrom(c Color, pt PieceType, s Square) Bitboard {
	b := p.g.MovesBB(c, pt, s, p.occupied).AndNot(p.occupied)
	if pt == Pawn && p.V.DoubleStep && p.g.RelativeRank(c, s) == 1 {
		single := p.g.ForwardShift(c, SquareBB(s)).AndNot(p.occupied)
		b = b.Or(p.g.ForwardShift(c, single).AndNot(p.occupied))
	}
	return b
}

// AttackersTo returns every piece of either color attacking s under the
// given occupancy. Piece movement is vertically mirror-symmetric between
// the colors, so attackers of (c, pt) are found by casting pt's moves
// from s with the colors swapped.
func (p *Position) AttackersTo(s Square, occ Bitboard) Bitboard {
	var b Bitboard
	for c := White; c <= Black; c++ {
		for _, pt := range p.V.PieceTypes {
			if p.byType[pt].And(p.byColor[c]).IsEmpty() {
				continue
			}
			att := p.g.AttacksBB(c.Other(), pt, s, occ)
			b = b.Or(att.And(p.byType[pt]).And(p.byColor[c]))
		}
	}
	return b
}

// SliderBlockers computes the pieces blocking a slider attack from the
// given candidate set toward s, plus the snipers that pin a piece of the
// same color as the occupant of s.
func (p *Position) SliderBlockers(sliders Bitboard, s Square) (blockers, pinners Bitboard) {
	occ := p.occupied
	target := p.board[s]
	for cand := sliders; cand.Any(); {
		q := cand.PopLsb()
		pc := p.board[q]
		if !IsSlider(pc.Type) {
			continue
		}
		if !p.g.SliderRays(pc.Color, pc.Type, q).Test(s) {
			continue
		}
		between := p.g.BetweenBB(q, s).And(occ)
		if between.IsEmpty() || between.MoreThanOne() {
			continue
		}
		blockers = blockers.Or(between)
		if !target.IsEmpty() && between.And(p.byColor[target.Color]).Any() {
			pinners = pinners.Or(SquareBB(q))
		}
	}
	return blockers, pinners
}

// DropRegion returns the squares where c may drop pt, before occupancy is
// considered. Shogi pawn and lance drops stop short of the last rank,
// knight drops of the last two, and shogi pawns avoid files already
// holding an unpromoted friendly shogi pawn when doubling is banned.
func (p *Position) DropRegion(c Color, pt PieceType) Bitboard {
	g := p.g
	b := g.All
	switch pt {
	case ShogiPawn, Lance:
		b = b.AndNot(g.RankBB(g.RankFromSide(c, g.Ranks-1)))
	case ShogiKnight:
		b = b.AndNot(g.RankBB(g.RankFromSide(c, g.Ranks-1)))
		b = b.AndNot(g.RankBB(g.RankFromSide(c, g.Ranks-2)))
	}
	if pt == ShogiPawn && !p.V.ShogiDoubledPawn {
		own := p.byType[ShogiPawn].And(p.byColor[c]).AndNot(p.promoted)
		for own.Any() {
			s := own.PopLsb()
			b = b.AndNot(g.FileBB(g.FileOf(s)))
		}
	}
	return b
}

// OppositeBishops reports the single-bishop-each, opposite-colored-squares
// material configuration.
func (p *Position) OppositeBishops() bool {
	if p.counts[White][Bishop] != 1 || p.counts[Black][Bishop] != 1 {
		return false
	}
	wb := p.pieceList[White][Bishop][0]
	bb := p.pieceList[Black][Bishop][0]
	return p.squareColor(wb) != p.squareColor(bb)
}

func (p *Position) squareColor(s Square) int {
	return (p.g.FileOf(s) + p.g.RankOf(s)) & 1
}

// ColorSquares returns the squares of one checker color, for bishop
// complex terms. Parity 0 selects the a1 color.
func (g *Geometry) ColorSquares(parity int) Bitboard {
	var b Bitboard
	for s := Square(0); int(s) < g.NumSquares; s++ {
		if (g.FileOf(s)+g.RankOf(s))&1 == parity {
			b = b.Or(SquareBB(s))
		}
	}
	return b
}

// finalize derives every redundant table from board/hand/stm state. The
// FEN parser calls it exactly once.
func (p *Position) finalize() {
	g := p.g
	n := g.NumSquares

	p.occupied = EmptyBB
	p.byColor = [2]Bitboard{}
	p.byType = [PieceTypeNB]Bitboard{}
	p.counts = [2][PieceTypeNB]int{}
	p.npm = [2]Value{}
	p.psqMG, p.psqEG = 0, 0
	p.key, p.pawnKey, p.materialKey = 0, 0, 0

	for c := White; c <= Black; c++ {
		for pt := range p.pieceList[c] {
			p.pieceList[c][pt] = nil
		}
	}

	for s := Square(0); int(s) < n; s++ {
		pc := p.board[s]
		if pc.IsEmpty() {
			continue
		}
		bb := SquareBB(s)
		p.occupied = p.occupied.Or(bb)
		p.byColor[pc.Color] = p.byColor[pc.Color].Or(bb)
		p.byType[pc.Type] = p.byType[pc.Type].Or(bb)
		p.counts[pc.Color][pc.Type]++
		p.pieceList[pc.Color][pc.Type] = append(p.pieceList[pc.Color][pc.Type], s)

		p.key ^= zobrist.psq[pc.Color][pc.Type][s]
		if pc.Type == Pawn || pc.Type == ShogiPawn {
			p.pawnKey ^= zobrist.psq[pc.Color][pc.Type][s]
		}
		if pc.Type != Pawn && pc.Type != ShogiPawn && pc.Type != King {
			p.npm[pc.Color] += PieceValueMG[pc.Type]
		}

		mg, eg := PieceSquareValue(g, pc.Color, pc.Type, s)
		if pc.Color == White {
			p.psqMG += mg
			p.psqEG += eg
		} else {
			p.psqMG -= mg
			p.psqEG -= eg
		}
	}

	for c := White; c <= Black; c++ {
		for pt := range p.pieceList[c] {
			p.pieceList[c][pt] = append(p.pieceList[c][pt], NoSquare)
		}
		for _, pt := range p.V.PieceTypes {
			for i := 0; i < p.counts[c][pt]; i++ {
				p.materialKey ^= zobrist.psq[c][pt][i]
			}
			if h := p.hand[c][pt]; h > 0 {
				p.key ^= zobrist.hand[c][pt][h]
				mg := int(PieceValueMG[pt]) * h
				eg := int(PieceValueEG[pt]) * h
				if c == White {
					p.psqMG += mg
					p.psqEG += eg
				} else {
					p.psqMG -= mg
					p.psqEG -= eg
				}
			}
		}
	}

	p.key ^= zobrist.castling[p.castling]
	if p.ep != NoSquare {
		p.key ^= zobrist.ep[g.FileOf(p.ep)]
	}
	if p.stm == Black {
		p.key ^= zobrist.side
	}
	for c := White; c <= Black; c++ {
		if p.checksGiven[c] > 0 {
			p.key ^= zobrist.checks[c][p.checksGiven[c]]
		}
	}

	p.checkers = EmptyBB
	for c := White; c <= Black; c++ {
		if ksq := p.KingSq(c); ksq != NoSquare {
			p.blockersForKing[c], p.pinners[c.Other()] =
				p.SliderBlockers(p.byColor[c.Other()], ksq)
		} else {
			p.blockersForKing[c], p.pinners[c.Other()] = EmptyBB, EmptyBB
		}
	}
	if ksq := p.KingSq(p.stm); ksq != NoSquare && p.V.CheckingPermitted {
		p.checkers = p.AttackersTo(ksq, p.occupied).And(p.byColor[p.stm.Other()])
	}
}
