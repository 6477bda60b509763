package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// On the 8x8 geometry square indices match the reference move generator
// bit for bit, so its magic bitboards can verify the ray clipping of the
// generic slider code.

func toUint64(t *testing.T, b Bitboard) uint64 {
	t.Helper()
	var out uint64
	for bb := b; bb.Any(); {
		s := bb.PopLsb()
		if s >= 64 {
			t.Fatalf("square %d outside an 8x8 board", s)
		}
		out |= 1 << uint(s)
	}
	return out
}

var sliderFens = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 1",
}

func TestSliderAttacksMatchMagicBitboards(t *testing.T) {
	v := Chess()
	g := v.Geo
	for _, fen := range sliderFens {
		pos, err := ParseFEN(v, fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		occ := toUint64(t, pos.AllPieces())

		for c := White; c <= Black; c++ {
			for _, pt := range []PieceType{Bishop, Rook, Queen} {
				for _, s := range pos.Squares(c, pt) {
					if s == NoSquare {
						break
					}
					got := toUint64(t, g.AttacksBB(c, pt, s, pos.AllPieces()))
					var want uint64
					if pt == Bishop || pt == Queen {
						want |= dragontoothmg.CalculateBishopMoveBitboard(uint8(s), occ)
					}
					if pt == Rook || pt == Queen {
						want |= dragontoothmg.CalculateRookMoveBitboard(uint8(s), occ)
					}
					if got != want {
						t.Fatalf("fen %q: %v %v on %s: got %016x, want %016x",
							fen, c, pt, SquareName(g, s), got, want)
					}
				}
			}
		}
	}
}

func TestOccupancyMatchesReferenceParser(t *testing.T) {
	v := Chess()
	for _, fen := range sliderFens {
		pos, err := ParseFEN(v, fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		ref := dragontoothmg.ParseFen(fen)
		if got := toUint64(t, pos.PiecesC(White)); got != ref.White.All {
			t.Fatalf("fen %q: white occupancy got %016x, want %016x", fen, got, ref.White.All)
		}
		if got := toUint64(t, pos.PiecesC(Black)); got != ref.Black.All {
			t.Fatalf("fen %q: black occupancy got %016x, want %016x", fen, got, ref.Black.All)
		}
	}
}

// AttackersTo relies on piece movement being mirror-symmetric between
// the colors; cross-check it against a direct scan of every piece.
func TestAttackersToMatchesDirectScan(t *testing.T) {
	for _, tc := range []struct {
		v   *Variant
		fen string
	}{
		{Chess(), "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{Capablanca(), "r8r/ppppkppppp/10/10/4n5/2B7/PPPPPPPPPP/RNABQKBCNR w - - 0 1"},
		{Shogi(), "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL w - - 0 1"},
	} {
		pos, err := ParseFEN(tc.v, tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
		}
		g := pos.Geo()
		occ := pos.AllPieces()

		for sq := Square(0); sq < Square(g.NumSquares); sq++ {
			want := EmptyBB
			for b := occ; b.Any(); {
				from := b.PopLsb()
				pc := pos.PieceOn(from)
				if pos.AttacksFrom(pc.Color, pc.Type, from).Test(sq) {
					want = want.Or(SquareBB(from))
				}
			}
			got := pos.AttackersTo(sq, occ)
			if got != want {
				t.Fatalf("%s %s: attackers of %s differ", tc.v.Name, tc.fen, SquareName(g, sq))
			}
		}
	}
}

func TestLeaperAttackShapes(t *testing.T) {
	v := Shogi()
	g := v.Geo
	center, err := ParseSquare(g, "e5")
	if err != nil {
		t.Fatalf("ParseSquare: %v", err)
	}

	cases := []struct {
		pt   PieceType
		want int
	}{
		{ShogiKnight, 2},
		{Silver, 5},
		{Gold, 6},
		{Horse, 4 + 16}, // wazir steps plus full bishop rays on an empty board
	}
	for _, c := range cases {
		got := g.AttacksBB(White, c.pt, center, EmptyBB).Count()
		if got != c.want {
			t.Fatalf("%v from e5: expected %d attacks, got %d", c.pt, c.want, got)
		}
	}

	// A lance sees straight ahead and stops at the first blocker.
	lance := g.AttacksBB(White, Lance, center, SquareBB(g.MakeSquare(4, 6)))
	if lance.Count() != 2 {
		t.Fatalf("lance from e5 with blocker on e7: expected 2 squares, got %d", lance.Count())
	}

	// Black leapers are the vertical mirror of white ones. The center of
	// a 9x9 board mirrors onto itself, so the sets must correspond square
	// by square.
	wn := g.AttacksBB(White, ShogiKnight, center, EmptyBB)
	bn := g.AttacksBB(Black, ShogiKnight, center, EmptyBB)
	if wn == bn {
		t.Fatalf("expected shogi knight attacks to differ by color")
	}
	mirror := EmptyBB
	for b := wn; b.Any(); {
		s := b.PopLsb()
		mirror = mirror.Or(SquareBB(g.MakeSquare(g.FileOf(s), g.Ranks-1-g.RankOf(s))))
	}
	if mirror != bn {
		t.Fatalf("black shogi knight attacks are not the vertical mirror of white's")
	}
}
