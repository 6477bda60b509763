package board

import "testing"

func mustParse(t *testing.T, v *Variant, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(v, fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestStartPositionsRoundTrip(t *testing.T) {
	for _, v := range []*Variant{
		Chess(), Crazyhouse(), ThreeCheck(), KingOfTheHill(), RacingKings(),
		Antichess(), Shogi(), Minishogi(), Capablanca(), CFour(),
	} {
		pos, err := StartPosition(v)
		if err != nil {
			t.Fatalf("%s: StartPosition: %v", v.Name, err)
		}
		again := mustParse(t, v, pos.FEN())
		if again.Key() != pos.Key() {
			t.Fatalf("%s: FEN round trip changed the position key", v.Name)
		}
		if again.FEN() != pos.FEN() {
			t.Fatalf("%s: FEN not stable: %q vs %q", v.Name, pos.FEN(), again.FEN())
		}
	}
}

func TestParseCrazyhouseHandAndPromoted(t *testing.T) {
	v := Crazyhouse()
	pos := mustParse(t, v,
		"rnb1kbnr/ppp1pppp/8/3Q~4/8/8/PPPP1PPP/RNBQKBNR[Pp] w KQkq - 0 1")

	if pos.CountInHand(White, Pawn) != 1 || pos.CountInHand(Black, Pawn) != 1 {
		t.Fatalf("expected one pawn in each hand")
	}

	d5, err := ParseSquare(v.Geo, "d5")
	if err != nil {
		t.Fatalf("ParseSquare: %v", err)
	}
	if !pos.IsPromoted(d5) {
		t.Fatalf("expected the queen on d5 to carry the promoted marker")
	}
	if pos.UnpromotedType(d5) != Pawn {
		t.Fatalf("expected a promoted queen to demote to a pawn, got %v", pos.UnpromotedType(d5))
	}

	// Two white queens but only one of them counts as promoted.
	if pos.Count(White, Queen) != 2 {
		t.Fatalf("expected 2 white queens, got %d", pos.Count(White, Queen))
	}
	if pos.PromotedBB().Count() != 1 {
		t.Fatalf("expected exactly one promoted piece")
	}
}

func TestParseThreeCheckRemainingChecks(t *testing.T) {
	v := ThreeCheck()
	pos := mustParse(t, v,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 1+3 0 1")
	if pos.ChecksRemaining(White) != 1 {
		t.Fatalf("expected white to have 1 check remaining, got %d", pos.ChecksRemaining(White))
	}
	if pos.ChecksRemaining(Black) != 3 {
		t.Fatalf("expected black to have 3 checks remaining, got %d", pos.ChecksRemaining(Black))
	}
	if pos.ChecksGiven(White) != 2 {
		t.Fatalf("expected white to have given 2 checks, got %d", pos.ChecksGiven(White))
	}
}

func TestParseRejectsMalformedBoards(t *testing.T) {
	v := Chess()
	for _, fen := range []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",        // missing rank
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",  // overfull rank
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w - - 0 1",  // unknown letter
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0", // bad side
	} {
		if _, err := ParseFEN(v, fen); err == nil {
			t.Fatalf("expected an error for %q", fen)
		}
	}
}

func TestZobristKeysTrackComponents(t *testing.T) {
	v := Chess()
	a := mustParse(t, v, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	b := mustParse(t, v, "4k3/8/8/8/8/8/4P3/4K3 b - - 0 1")
	c := mustParse(t, v, "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1")

	if a.Key() == b.Key() {
		t.Fatalf("side to move must change the key")
	}
	if a.PawnKey() != b.PawnKey() {
		t.Fatalf("side to move must not change the pawn key")
	}
	if a.PawnKey() == c.PawnKey() {
		t.Fatalf("moving a pawn must change the pawn key")
	}
	if a.MaterialKey() != c.MaterialKey() {
		t.Fatalf("the same piece census must share a material key")
	}
}

func TestShogiPawnDropRegion(t *testing.T) {
	v := Shogi()
	g := v.Geo
	pos := mustParse(t, v, "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPP1/1B5R1/LNSGKGSNL[P] w - - 0 1")

	region := pos.DropRegion(White, ShogiPawn)

	// No drop on the last rank and no doubling a file that already has an
	// unpromoted pawn; only the empty i-file accepts the pawn.
	if region.And(g.RankBB(g.Ranks - 1)).Any() {
		t.Fatalf("shogi pawn drop region must exclude the last rank")
	}
	for f := 0; f < g.Files-1; f++ {
		if region.And(g.FileBB(f)).Any() {
			t.Fatalf("file %d already has a pawn, expected no drop squares", f)
		}
	}
	if region.And(g.FileBB(g.Files - 1)).IsEmpty() {
		t.Fatalf("expected drop squares on the empty file")
	}

	// Knights additionally avoid the last two ranks.
	knights := pos.DropRegion(White, ShogiKnight)
	if knights.And(g.RankBB(g.Ranks - 1)).Any() || knights.And(g.RankBB(g.Ranks - 2)).Any() {
		t.Fatalf("shogi knight drop region must exclude the last two ranks")
	}
}

func TestConnectFourStartsWithEqualHands(t *testing.T) {
	pos, err := StartPosition(CFour())
	if err != nil {
		t.Fatalf("StartPosition: %v", err)
	}
	w := pos.CountInHand(White, Commoner)
	b := pos.CountInHand(Black, Commoner)
	if w != 21 || b != 21 {
		t.Fatalf("expected 21 discs in each hand, got %d and %d", w, b)
	}
}

func TestRelativeGeometryOnWideBoard(t *testing.T) {
	v := Capablanca()
	g := v.Geo
	s, err := ParseSquare(g, "j8")
	if err != nil {
		t.Fatalf("ParseSquare: %v", err)
	}
	if g.FileOf(s) != 9 || g.RankOf(s) != 7 {
		t.Fatalf("j8 decoded to file %d rank %d", g.FileOf(s), g.RankOf(s))
	}
	if SquareName(g, s) != "j8" {
		t.Fatalf("SquareName(j8) = %q", SquareName(g, s))
	}
	if g.RelativeRank(Black, s) != 0 {
		t.Fatalf("j8 should be black's back rank")
	}
	if g.RelativeSquare(Black, g.MakeSquare(0, 0)) != g.MakeSquare(0, 7) {
		t.Fatalf("relative square mirroring is wrong")
	}
}
