package eval

import (
	"fmt"
	"strings"

	"variant-eval/board"
)

// Trace collects per-term scores during a traced evaluation. Terms that
// are computed once from the white point of view keep a single score;
// the rest are stored per side.
type Trace struct {
	pieces [board.PieceTypeNB][2]Score

	material   Score
	imbalance  Score
	initiative Score
	total      Score

	pawn     [2]Score
	mobility [2]Score
	king     [2]Score
	threat   [2]Score
	passed   [2]Score
	space    [2]Score
	variant  [2]Score
}

// TraceString evaluates the position and renders every term as a table,
// from the white point of view. Contempt is excluded so that traced and
// mirrored positions stay symmetric.
func TraceString(pos *board.Position, t *Tables) string {
	e := evalState{pos: pos, g: pos.Geo(), v: pos.V, tables: t, tr: &Trace{}}
	v := e.value()
	if pos.SideToMove() == board.Black {
		v = -v
	}
	tr := e.tr

	var sb strings.Builder
	sb.WriteString("     Term    |    White    |    Black    |    Total   \n")
	sb.WriteString("             |   MG    EG  |   MG    EG  |   MG    EG \n")
	sb.WriteString(" ------------+-------------+-------------+------------\n")

	row := func(name string, w, b Score, whiteOnly bool) {
		if whiteOnly {
			fmt.Fprintf(&sb, "%12s |  ----  ---- |  ----  ---- | %s\n",
				name, scoreCells(w.Sub(b)))
		} else {
			fmt.Fprintf(&sb, "%12s | %s | %s | %s\n",
				name, scoreCells(w), scoreCells(b), scoreCells(w.Sub(b)))
		}
	}

	row("Material", tr.material, ScoreZero, true)
	row("Imbalance", tr.imbalance, ScoreZero, true)
	row("Initiative", tr.initiative, ScoreZero, true)
	row("Pawns", tr.pawn[board.White], tr.pawn[board.Black], false)
	row("Knights", tr.pieces[board.Knight][board.White], tr.pieces[board.Knight][board.Black], false)
	row("Bishops", tr.pieces[board.Bishop][board.White], tr.pieces[board.Bishop][board.Black], false)
	row("Rooks", tr.pieces[board.Rook][board.White], tr.pieces[board.Rook][board.Black], false)
	row("Queens", tr.pieces[board.Queen][board.White], tr.pieces[board.Queen][board.Black], false)
	row("Mobility", tr.mobility[board.White], tr.mobility[board.Black], false)
	row("King safety", tr.king[board.White], tr.king[board.Black], false)
	row("Threats", tr.threat[board.White], tr.threat[board.Black], false)
	row("Passed", tr.passed[board.White], tr.passed[board.Black], false)
	row("Space", tr.space[board.White], tr.space[board.Black], false)
	row("Variant", tr.variant[board.White], tr.variant[board.Black], false)
	sb.WriteString(" ------------+-------------+-------------+------------\n")
	row("Total", tr.total, ScoreZero, true)

	fmt.Fprintf(&sb, "\nTotal evaluation: %.2f (white side)\n", toCp(v))
	return sb.String()
}

// toCp converts internal units to pawns.
func toCp(v board.Value) float64 {
	return float64(v) / float64(board.PieceValueEG[board.Pawn])
}

func scoreCells(s Score) string {
	return fmt.Sprintf("%5.2f %5.2f", float64(s.MG)/float64(board.PieceValueEG[board.Pawn]),
		float64(s.EG)/float64(board.PieceValueEG[board.Pawn]))
}
