package eval

import "variant-eval/board"

// Material cache: game phase, imbalance, endgame scale factors, and the
// specialized evaluations for configurations the main pipeline handles
// poorly (bare kings, lone-king mates).

const (
	scaleNormal  = 64
	phaseMidgame = 128

	midgameLimit = 15258
	endgameLimit = 3915

	valueKnownWin = 10000
)

// Imbalance polynomial, indexed [pieceType][pieceType] over
// {bishop pair, pawn, knight, bishop, rook, queen}.
var quadraticOurs = [6][6]int{
	{1438, 0, 0, 0, 0, 0},
	{40, 38, 0, 0, 0, 0},
	{32, 255, -62, 0, 0, 0},
	{0, 104, 4, 0, 0, 0},
	{-26, -2, 47, 105, -208, 0},
	{-189, 24, 117, 133, -134, -6},
}

var quadraticTheirs = [6][6]int{
	{0, 0, 0, 0, 0, 0},
	{36, 0, 0, 0, 0, 0},
	{9, 63, 0, 0, 0, 0},
	{59, 65, 42, 0, 0, 0},
	{46, 39, 24, -24, 0, 0},
	{97, 100, -42, 137, 268, 0},
}

// MaterialEntry caches per-material-configuration data.
type MaterialEntry struct {
	key       uint64
	phase     int // 0 (endgame) .. 128 (middlegame)
	imbalance Score
	factor    [2]int

	specialized bool
	draw        bool
	strongSide  board.Color
}

func (t *Tables) materialEntry(pos *board.Position) *MaterialEntry {
	e := &t.material[materialIndex(pos.MaterialKey())]
	if e.key == pos.MaterialKey() {
		return e
	}
	e.compute(pos)
	return e
}

func (e *MaterialEntry) compute(pos *board.Position) {
	*e = MaterialEntry{key: pos.MaterialKey(), factor: [2]int{scaleNormal, scaleNormal}}

	npmW := int(pos.NonPawnMaterial(board.White))
	npmB := int(pos.NonPawnMaterial(board.Black))
	npm := clamp(npmW+npmB, endgameLimit, midgameLimit)
	e.phase = (npm - endgameLimit) * phaseMidgame / (midgameLimit - endgameLimit)

	e.imbalance = imbalance(pos)

	bishopMg := int(board.PieceValueMG[board.Bishop])
	rookMg := int(board.PieceValueMG[board.Rook])
	npmOf := [2]int{npmW, npmB}
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		if pos.Count(c, board.Pawn) == 0 && npmOf[c]-npmOf[them] <= bishopMg {
			switch {
			case npmOf[c] < rookMg:
				e.factor[c] = 0
			case npmOf[them] <= bishopMg:
				e.factor[c] = 4
			default:
				e.factor[c] = 14
			}
		}
	}

	if !normalMaterialRules(pos.V) {
		return
	}
	if pos.KingSq(board.White) == board.NoSquare || pos.KingSq(board.Black) == board.NoSquare {
		return
	}

	pawns := pos.Count(board.White, board.Pawn) + pos.Count(board.Black, board.Pawn)
	if pawns == 0 && npmW+npmB <= bishopMg {
		// Bare kings or a lone minor cannot win.
		e.specialized = true
		e.draw = true
		return
	}
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		if pos.CountAll(them) == 1 && npmOf[c] >= rookMg {
			e.specialized = true
			e.strongSide = c
			return
		}
	}
}

// normalMaterialRules reports whether orthodox endgame knowledge applies.
func normalMaterialRules(v *board.Variant) bool {
	return !v.PieceDrops && v.Extinction == board.ExtinctionNone &&
		v.MaxCheckCount == 0 && v.ConnectN == 0 &&
		v.FlagPiece == board.NoPieceType && v.CheckingPermitted
}

// specializedValue evaluates the cached special configuration, from the
// side to move's point of view.
func (e *MaterialEntry) specializedValue(pos *board.Position) board.Value {
	if e.draw {
		return board.ValueDraw
	}
	g := pos.Geo()
	strong, weak := e.strongSide, e.strongSide.Other()
	wksq := pos.KingSq(weak)

	ef := minInt(g.FileOf(wksq), g.Files-1-g.FileOf(wksq))
	er := minInt(g.RankOf(wksq), g.Ranks-1-g.RankOf(wksq))
	pushToEdge := 180 - 30*minInt(ef+er, 6)
	pushClose := 140 - 20*g.Distance(pos.KingSq(strong), wksq)

	v := int(pos.NonPawnMaterial(strong)) +
		pos.Count(strong, board.Pawn)*int(board.PieceValueEG[board.Pawn]) +
		pushToEdge + pushClose

	if int(pos.NonPawnMaterial(strong)) >= int(board.PieceValueMG[board.Rook]) {
		v += valueKnownWin
	}
	if pos.SideToMove() != strong {
		return board.Value(-v)
	}
	return board.Value(v)
}

func imbalance(pos *board.Position) Score {
	var pc [2][6]int
	for c := board.White; c <= board.Black; c++ {
		pc[c][0] = b2i(pos.Count(c, board.Bishop) > 1)
		pc[c][1] = pos.Count(c, board.Pawn)
		pc[c][2] = pos.Count(c, board.Knight)
		pc[c][3] = pos.Count(c, board.Bishop)
		pc[c][4] = pos.Count(c, board.Rook)
		pc[c][5] = pos.Count(c, board.Queen)
	}

	half := func(us board.Color) int {
		them := us.Other()
		bonus := 0
		for pt1 := 0; pt1 < 6; pt1++ {
			if pc[us][pt1] == 0 {
				continue
			}
			v := 0
			for pt2 := 0; pt2 <= pt1; pt2++ {
				v += quadraticOurs[pt1][pt2]*pc[us][pt2] +
					quadraticTheirs[pt1][pt2]*pc[them][pt2]
			}
			bonus += pc[us][pt1] * v
		}
		return bonus
	}

	total := (half(board.White) - half(board.Black)) / 16
	return S(int32(total), int32(total))
}
