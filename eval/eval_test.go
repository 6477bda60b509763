package eval

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"variant-eval/board"
)

func mustParse(t *testing.T, v *board.Variant, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(v, fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// flipFEN mirrors a FEN vertically and swaps the colors, producing the
// same position from the other side's point of view. En passant squares
// are not handled; the test FENs avoid them.
func flipFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)

	boardField := fields[0]
	hand := ""
	if i := strings.IndexByte(boardField, '['); i >= 0 {
		hand = swapCase(boardField[i:])
		boardField = boardField[:i]
	}
	ranks := strings.Split(boardField, "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/")) + hand

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	if len(fields) > 2 && fields[2] != "-" {
		fields[2] = swapCase(fields[2])
	}
	if len(fields) > 3 && fields[3] != "-" {
		t.Fatalf("flipFEN cannot mirror en passant square in %q", fen)
	}
	if len(fields) > 4 && strings.ContainsRune(fields[4], '+') {
		parts := strings.SplitN(fields[4], "+", 2)
		fields[4] = parts[1] + "+" + parts[0]
	}
	return strings.Join(fields, " ")
}

func swapCase(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			c = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			c = c - 'A' + 'a'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func TestEvaluationIsColorSymmetric(t *testing.T) {
	cases := []struct {
		name string
		v    *board.Variant
		fen  string
	}{
		{"chess startpos", board.Chess(),
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"italian", board.Chess(),
			"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1"},
		{"rook endgame", board.Chess(),
			"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
		{"crazyhouse hands", board.Crazyhouse(),
			"rnb1kbnr/ppp1pppp/8/3Q~4/8/8/PPPP1PPP/RNBQKBNR[Pp] w KQkq - 0 1"},
		{"three-check counts", board.ThreeCheck(),
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 2+3 0 1"},
		{"shogi midgame", board.Shogi(),
			"lnsgkgsnl/1r5b1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/1B5R1/LNSGKGSNL w - - 0 1"},
	}
	tables := NewTables()
	for _, tc := range cases {
		pos := mustParse(t, tc.v, tc.fen)
		mirror := mustParse(t, tc.v, flipFEN(t, tc.fen))
		got, want := Evaluate(pos, tables), Evaluate(mirror, tables)
		if got != want {
			t.Fatalf("%s: evaluation not symmetric: %d vs %d", tc.name, got, want)
		}
	}
}

func TestExtraQueenEvaluatesPositive(t *testing.T) {
	pos := mustParse(t, board.Chess(),
		"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if v := Evaluate(pos, NewTables()); v < 800 {
		t.Fatalf("expected a queen-up evaluation, got %d", v)
	}
}

func TestBareKingsAreDrawn(t *testing.T) {
	pos := mustParse(t, board.Chess(), "8/8/4k3/8/8/4K3/8/8 w - - 0 1")
	if v := Evaluate(pos, NewTables()); v != 0 {
		t.Fatalf("expected a dead draw, got %d", v)
	}
}

func TestLoneKingVersusHeavyMaterial(t *testing.T) {
	tables := NewTables()
	white := mustParse(t, board.Chess(), "8/8/8/4k3/8/8/8/4KQ2 w - - 0 1")
	if v := Evaluate(white, tables); v < 5000 {
		t.Fatalf("expected a known-win score for the strong side, got %d", v)
	}
	black := mustParse(t, board.Chess(), "8/8/8/4k3/8/8/8/4KQ2 b - - 0 1")
	if v := Evaluate(black, tables); v > -5000 {
		t.Fatalf("expected a known-loss score for the lone king, got %d", v)
	}
}

func TestOppositeBishopsScaleDown(t *testing.T) {
	tables := NewTables()
	// Same pawn structure, bishops on opposite colors vs the same color.
	opposite := mustParse(t, board.Chess(), "4k3/5b2/8/8/8/8/PP6/2B1K3 w - - 0 1")
	same := mustParse(t, board.Chess(), "4k3/4b3/8/8/8/8/PP6/2B1K3 w - - 0 1")
	if !opposite.OppositeBishops() {
		t.Fatalf("expected opposite-colored bishops")
	}
	if same.OppositeBishops() {
		t.Fatalf("expected same-colored bishops")
	}
	if vo, vs := Evaluate(opposite, tables), Evaluate(same, tables); vo >= vs {
		t.Fatalf("expected the opposite-bishop endgame to be more drawish: %d vs %d", vo, vs)
	}

	// Pure bishop versus bishop hits the heaviest drawish factor no matter
	// how many pawns the strong side keeps; otherwise the factor grows with
	// the strong side's pawns.
	oe := evalState{pos: opposite, g: opposite.Geo(), v: opposite.V, tables: tables, tr: &Trace{}}
	oe.value()
	if sf := oe.scaleFactor(oe.tr.total.EG); sf != 31 {
		t.Fatalf("expected scale factor 31 for the pure opposite-bishop endgame, got %d", sf)
	}
	se := evalState{pos: same, g: same.Geo(), v: same.V, tables: tables, tr: &Trace{}}
	se.value()
	if sf := se.scaleFactor(se.tr.total.EG); sf != 54 {
		t.Fatalf("expected scale factor 40+7*2 with two strong-side pawns, got %d", sf)
	}
}

// A wide board can give a queen more reachable squares than the bonus
// table has entries; the bonus saturates at the last entry instead of
// vanishing.
func TestMobilityBonusSaturatesOnWideBoards(t *testing.T) {
	pos := mustParse(t, board.Capablanca(), "k9/6pppp/10/10/4Q5/10/10/K9 w - - 0 1")
	e := evalState{pos: pos, g: pos.Geo(), v: pos.V, tables: NewTables()}
	e.value()

	qtbl := mobilityBonus[board.Queen-2]
	last := qtbl[len(qtbl)-1]
	if got := e.mobility[board.White]; got != last {
		t.Fatalf("expected the saturated queen bonus %+v, got %+v", last, got)
	}
}

func TestMobilityBonusPrefersMoreSquares(t *testing.T) {
	for i, tbl := range mobilityBonus {
		for j := 1; j < len(tbl); j++ {
			if tbl[j].EG < tbl[j-1].EG {
				t.Fatalf("table %d entry %d: endgame bonus decreases with mobility", i, j)
			}
		}
		first, last := tbl[0], tbl[len(tbl)-1]
		if last.MG <= first.MG || last.EG <= first.EG {
			t.Fatalf("table %d: full mobility must outscore a smothered piece", i)
		}
	}
}

func TestFewerRemainingChecksScoreHigher(t *testing.T) {
	tables := NewTables()
	v := board.ThreeCheck()
	closeToWin := mustParse(t, v,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 1+3 0 1")
	fresh := mustParse(t, v,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 3+3 0 1")
	if a, b := Evaluate(closeToWin, tables), Evaluate(fresh, tables); a <= b {
		t.Fatalf("one remaining check should outscore three: %d vs %d", a, b)
	}
}

func TestHandPiecesCountAsMaterial(t *testing.T) {
	tables := NewTables()
	v := board.Crazyhouse()
	withRook := mustParse(t, v,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[R] w KQkq - 0 1")
	without := mustParse(t, v,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1")
	if a, b := Evaluate(withRook, tables), Evaluate(without, tables); a <= b {
		t.Fatalf("a rook in hand should raise the evaluation: %d vs %d", a, b)
	}
}

func TestKingOfTheHillRewardsCentralKing(t *testing.T) {
	tables := NewTables()
	v := board.KingOfTheHill()
	central := mustParse(t, v, "k7/pp6/8/8/8/4K3/PP6/8 w - - 0 1")
	corner := mustParse(t, v, "k7/pp6/8/8/8/8/PP6/4K3 w - - 0 1")
	if a, b := Evaluate(central, tables), Evaluate(corner, tables); a <= b {
		t.Fatalf("king near the hill should outscore the back rank: %d vs %d", a, b)
	}
}

func TestEveryVariantStartposEvaluates(t *testing.T) {
	for _, v := range []*board.Variant{
		board.Chess(), board.Chess960(), board.Crazyhouse(), board.ThreeCheck(),
		board.KingOfTheHill(), board.RacingKings(), board.Antichess(),
		board.Shogi(), board.Minishogi(), board.Capablanca(), board.CFour(),
	} {
		pos, err := board.StartPosition(v)
		if err != nil {
			t.Fatalf("%s: StartPosition: %v", v.Name, err)
		}
		tables := NewTables()
		a := Evaluate(pos, tables)
		b := Evaluate(pos, tables)
		if a != b {
			t.Fatalf("%s: evaluation not deterministic: %d vs %d", v.Name, a, b)
		}
	}
}

func TestConcurrentWorkersAgree(t *testing.T) {
	fens := []struct {
		v   *board.Variant
		fen string
	}{
		{board.Chess(), "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1"},
		{board.Crazyhouse(), "rnb1kbnr/ppp1pppp/8/3Q~4/8/8/PPPP1PPP/RNBQKBNR[Pp] w KQkq - 0 1"},
		{board.Shogi(), "lnsgkgsnl/1r5b1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/1B5R1/LNSGKGSNL b - - 0 1"},
		{board.Capablanca(), "rnabqkbcnr/pppppppppp/10/10/10/10/PPPPPPPPPP/RNABQKBCNR w KQkq - 0 1"},
	}

	baseline := make([]board.Value, len(fens))
	tables := NewTables()
	for i, f := range fens {
		baseline[i] = Evaluate(mustParse(t, f.v, f.fen), tables)
	}

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			local := NewTables()
			for i, f := range fens {
				pos, err := board.ParseFEN(f.v, f.fen)
				if err != nil {
					return err
				}
				for rep := 0; rep < 3; rep++ {
					if got := Evaluate(pos, local); got != baseline[i] {
						t.Errorf("worker disagrees on %q: %d vs %d", f.fen, got, baseline[i])
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("worker failed: %v", err)
	}
}

func TestContemptFollowsSideToMove(t *testing.T) {
	v := board.Chess()
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	tables := NewTables()

	plain := Evaluate(mustParse(t, v, fen), tables)

	biased := mustParse(t, v, fen)
	biased.ContemptMG, biased.ContemptEG = 20, 10
	if got := Evaluate(biased, tables); got <= plain {
		t.Fatalf("contempt should favor the side to move: %d vs %d", got, plain)
	}
}

func TestTraceStringLayout(t *testing.T) {
	tables := NewTables()
	for _, tc := range []struct {
		v   *board.Variant
		fen string
	}{
		{board.Chess(), "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1"},
		{board.Crazyhouse(), "rnb1kbnr/ppp1pppp/8/3Q~4/8/8/PPPP1PPP/RNBQKBNR[Pp] b KQkq - 0 1"},
	} {
		out := TraceString(mustParse(t, tc.v, tc.fen), tables)
		for _, want := range []string{
			"Term", "Material", "Imbalance", "Mobility", "King safety",
			"Threats", "Passed", "Variant", "Total evaluation:", "(white side)",
		} {
			if !strings.Contains(out, want) {
				t.Fatalf("trace output missing %q:\n%s", want, out)
			}
		}
	}
}

// The passed-pawn term scales with the best legal promotion piece: the
// queen baseline is left untouched, weaker promotions shrink it in exact
// value proportion, and no variant promotes above the queen.
func TestPassedPawnScalingBoundedByPromotion(t *testing.T) {
	for _, v := range []*board.Variant{
		board.Chess(), board.Chess960(), board.Crazyhouse(), board.ThreeCheck(),
		board.KingOfTheHill(), board.Antichess(), board.Capablanca(),
	} {
		for _, pt := range v.PromotionPieceTypes {
			if board.PieceValueMG[pt] > board.PieceValueMG[board.Queen] ||
				board.PieceValueEG[pt] > board.PieceValueEG[board.Queen] {
				t.Fatalf("%s: promotion to %v outvalues a queen", v.Name, pt)
			}
		}
	}

	fen := "4k3/8/4P3/8/8/8/8/4K3 w - - 0 1"
	tables := NewTables()

	full := mustParse(t, board.Chess(), fen)
	fe := evalState{pos: full, g: full.Geo(), v: full.V, tables: tables, tr: &Trace{}}
	fe.value()
	fp := fe.tr.passed[board.White]
	if fp.MG <= 0 || fp.EG <= 0 {
		t.Fatalf("expected a positive passed-pawn score, got %+v", fp)
	}

	knightOnly := board.Chess()
	knightOnly.PromotionPieceTypes = []board.PieceType{board.Knight}
	restricted := mustParse(t, knightOnly, fen)
	ke := evalState{pos: restricted, g: restricted.Geo(), v: restricted.V, tables: tables, tr: &Trace{}}
	ke.value()
	kp := ke.tr.passed[board.White]

	want := S(
		fp.MG*int32(board.PieceValueMG[board.Knight])/int32(board.PieceValueMG[board.Queen]),
		fp.EG*int32(board.PieceValueEG[board.Knight])/int32(board.PieceValueEG[board.Queen]))
	if kp != want {
		t.Fatalf("knight-only promotion: expected passed score %+v, got %+v", want, kp)
	}
}

// Even an absurd piece storm cannot push the midgame king-danger penalty
// past its cap.
func TestKingDangerMidgamePenaltyIsCapped(t *testing.T) {
	pos := mustParse(t, board.Chess(), "2r3k1/ppp2ppp/8/8/8/5nqq/5nqq/5rRK w - - 0 1")
	e := evalState{pos: pos, g: pos.Geo(), v: pos.V, tables: NewTables(), tr: &Trace{}}
	e.value()

	if k := e.tr.king[board.White]; k.MG < -4500 {
		t.Fatalf("king danger midgame penalty escaped its cap: %+v", k)
	}
}

// In a mirror-symmetric position every positional term cancels out and
// only the side-to-move bonus remains.
func TestSymmetricPositionEvaluatesToTempo(t *testing.T) {
	tables := NewTables()
	for _, v := range []*board.Variant{board.Chess(), board.Crazyhouse(), board.Capablanca()} {
		pos, err := board.StartPosition(v)
		if err != nil {
			t.Fatalf("%s: StartPosition: %v", v.Name, err)
		}
		if got, want := Evaluate(pos, tables), Tempo(pos); got != want {
			t.Fatalf("%s: startpos evaluated to %d, expected the tempo bonus %d", v.Name, got, want)
		}
	}
}

func TestTraceTotalMatchesEvaluate(t *testing.T) {
	tables := NewTables()
	pos := mustParse(t, board.Chess(),
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1")
	v := Evaluate(pos, tables)
	want := fmt.Sprintf("Total evaluation: %.2f (white side)",
		float64(v)/float64(board.PieceValueEG[board.Pawn]))
	if out := TraceString(pos, tables); !strings.Contains(out, want) {
		t.Fatalf("trace total does not match Evaluate, wanted %q in:\n%s", want, out)
	}
}

func TestTempoScalesWithDrops(t *testing.T) {
	chess := mustParse(t, board.Chess(),
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	zh := mustParse(t, board.Crazyhouse(),
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1")
	if Tempo(chess) != 28 {
		t.Fatalf("expected tempo 28, got %d", Tempo(chess))
	}
	if Tempo(zh) != 140 {
		t.Fatalf("expected amplified tempo 140 in drop games, got %d", Tempo(zh))
	}
}
