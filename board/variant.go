package board

// Variant is the complete immutable rule configuration a Position is
// built against. The evaluator branches on these fields directly; there
// is deliberately no dispatch hierarchy behind them.
type Variant struct {
	Name string
	Geo  *Geometry

	// PieceTypes is the ascending set of types the variant uses.
	PieceTypes []PieceType
	StartFEN   string

	// Promotion rules. PromotionRank is side-relative (0-based); the zone
	// is that rank and everything beyond. PromotionPieceTypes are the
	// choices for a promoting pawn; PromotedType maps shogi-style forced
	// promotions, DemotedType is its inverse.
	PromotionRank       int
	PromotionPieceTypes []PieceType
	PromotedType        [PieceTypeNB]PieceType
	DemotedType         [PieceTypeNB]PieceType

	// Drop rules.
	PieceDrops       bool
	CapturesToHand   bool
	ShogiDoubledPawn bool // doubled shogi pawns on a file are legal

	// Win/loss conditions and move restrictions.
	MustCapture       bool
	CheckingPermitted bool
	MaxCheckCount     int
	Extinction        ExtinctionMode
	ConnectN          int

	// Capture the flag: move FlagPiece onto a FlagRegion square.
	FlagPiece  PieceType
	FlagRegion [2]Bitboard

	// Starting-position shape.
	NonStandardStart bool // back rank may be shuffled (Chess960 family)
	Castling         bool
	DoubleStep       bool // pawn initial double push

	letters  [PieceTypeNB]byte
	byLetter [128]PieceType

	promotionZone [2]Bitboard
}

// LetterOf returns the FEN letter for a piece type.
func (v *Variant) LetterOf(pt PieceType) byte { return v.letters[pt] }

// TypeOfLetter resolves a FEN letter (upper-case form) to a piece type.
func (v *Variant) TypeOfLetter(b byte) PieceType { return v.byLetter[b] }

// HasPieceType reports whether the variant's piece set includes pt.
func (v *Variant) HasPieceType(pt PieceType) bool {
	return v.letters[pt] != 0
}

// PromotionZoneBB returns the squares where c's promotable pieces promote.
func (v *Variant) PromotionZoneBB(c Color) Bitboard { return v.promotionZone[c] }

func newVariant(name string, files, ranks int) *Variant {
	v := &Variant{
		Name:              name,
		Geo:               GeometryFor(files, ranks),
		CheckingPermitted: true,
		ShogiDoubledPawn:  true,
		PromotionRank:     ranks - 1,
	}
	return v
}

func (v *Variant) addPiece(pt PieceType, letter byte) {
	v.PieceTypes = append(v.PieceTypes, pt)
	v.letters[pt] = letter
	v.byLetter[letter] = pt
}

// addPromoted registers a shogi-style promotion pair. The promoted type
// joins the piece set under its own letter.
func (v *Variant) addPromoted(from, to PieceType, letter byte) {
	if !v.HasPieceType(to) {
		v.addPiece(to, letter)
	}
	v.PromotedType[from] = to
	v.DemotedType[to] = from
}

func (v *Variant) finish() *Variant {
	g := v.Geo
	for c := White; c <= Black; c++ {
		var zone Bitboard
		for r := v.PromotionRank; r < g.Ranks; r++ {
			zone = zone.Or(g.RankBB(g.RankFromSide(c, r)))
		}
		v.promotionZone[c] = zone
	}
	return v
}

func chessBase(name string) *Variant {
	v := newVariant(name, 8, 8)
	v.addPiece(Pawn, 'P')
	v.addPiece(Knight, 'N')
	v.addPiece(Bishop, 'B')
	v.addPiece(Rook, 'R')
	v.addPiece(Queen, 'Q')
	v.addPiece(King, 'K')
	v.PromotionPieceTypes = []PieceType{Queen, Rook, Bishop, Knight}
	v.Castling = true
	v.DoubleStep = true
	v.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	return v
}

// Chess is orthodox FIDE chess.
func Chess() *Variant { return chessBase("chess").finish() }

// Chess960 is orthodox chess from a shuffled back rank.
func Chess960() *Variant {
	v := chessBase("chess960")
	v.NonStandardStart = true
	return v.finish()
}

// Crazyhouse is chess where captured pieces may be dropped back.
func Crazyhouse() *Variant {
	v := chessBase("crazyhouse")
	v.PieceDrops = true
	v.CapturesToHand = true
	v.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	return v.finish()
}

// ThreeCheck is chess won by giving three checks.
func ThreeCheck() *Variant {
	v := chessBase("3check")
	v.MaxCheckCount = 3
	v.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 3+3 0 1"
	return v.finish()
}

// KingOfTheHill is chess won by walking the king to the center.
func KingOfTheHill() *Variant {
	v := chessBase("kingofthehill")
	g := v.Geo
	center := SquareBB(g.MakeSquare(3, 3)).Or(SquareBB(g.MakeSquare(4, 3))).
		Or(SquareBB(g.MakeSquare(3, 4))).Or(SquareBB(g.MakeSquare(4, 4)))
	v.FlagPiece = King
	v.FlagRegion = [2]Bitboard{center, center}
	return v.finish()
}

// RacingKings is the pawnless race to the eighth rank; checks are illegal.
func RacingKings() *Variant {
	v := newVariant("racingkings", 8, 8)
	v.addPiece(Knight, 'N')
	v.addPiece(Bishop, 'B')
	v.addPiece(Rook, 'R')
	v.addPiece(Queen, 'Q')
	v.addPiece(King, 'K')
	v.CheckingPermitted = false
	v.FlagPiece = King
	v.FlagRegion = [2]Bitboard{v.Geo.RankBB(7), v.Geo.RankBB(7)}
	v.StartFEN = "8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1"
	return v.finish()
}

// Antichess is the mandatory-capture game won by losing every piece. The
// royal king is replaced by a commoner, so king safety never applies.
func Antichess() *Variant {
	v := newVariant("antichess", 8, 8)
	v.addPiece(Pawn, 'P')
	v.addPiece(Knight, 'N')
	v.addPiece(Bishop, 'B')
	v.addPiece(Rook, 'R')
	v.addPiece(Queen, 'Q')
	v.addPiece(Commoner, 'K')
	v.PromotionPieceTypes = []PieceType{Queen, Rook, Bishop, Knight, Commoner}
	v.DoubleStep = true
	v.MustCapture = true
	v.CheckingPermitted = false
	v.Extinction = ExtinctionWin
	v.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
	return v.finish()
}

// Shogi on the full 9x9 board with drops and forced-promotion pairs.
func Shogi() *Variant {
	v := newVariant("shogi", 9, 9)
	v.addPiece(ShogiPawn, 'P')
	v.addPiece(Lance, 'L')
	v.addPiece(ShogiKnight, 'N')
	v.addPiece(Silver, 'S')
	v.addPiece(Gold, 'G')
	v.addPiece(Bishop, 'B')
	v.addPiece(Rook, 'R')
	v.addPiece(King, 'K')
	v.addPromoted(Bishop, Horse, 'H')
	v.addPromoted(Rook, Dragon, 'D')
	v.PromotedType[ShogiPawn] = Gold
	v.PromotedType[Lance] = Gold
	v.PromotedType[ShogiKnight] = Gold
	v.PromotedType[Silver] = Gold
	v.PromotionRank = 6
	v.PromotionPieceTypes = []PieceType{Gold}
	v.PieceDrops = true
	v.CapturesToHand = true
	v.ShogiDoubledPawn = false
	v.StartFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL[] w - - 0 1"
	return v.finish()
}

// Minishogi is the 5x5 drop game without lances and knights.
func Minishogi() *Variant {
	v := newVariant("minishogi", 5, 5)
	v.addPiece(ShogiPawn, 'P')
	v.addPiece(Silver, 'S')
	v.addPiece(Gold, 'G')
	v.addPiece(Bishop, 'B')
	v.addPiece(Rook, 'R')
	v.addPiece(King, 'K')
	v.addPromoted(Bishop, Horse, 'H')
	v.addPromoted(Rook, Dragon, 'D')
	v.PromotedType[ShogiPawn] = Gold
	v.PromotedType[Silver] = Gold
	v.PromotionRank = 4
	v.PromotionPieceTypes = []PieceType{Gold}
	v.PieceDrops = true
	v.CapturesToHand = true
	v.ShogiDoubledPawn = false
	v.StartFEN = "rbsgk/4p/5/P4/KGSBR[] w - - 0 1"
	return v.finish()
}

// Capablanca chess on 10x8 with archbishop and chancellor.
func Capablanca() *Variant {
	v := newVariant("capablanca", 10, 8)
	v.addPiece(Pawn, 'P')
	v.addPiece(Knight, 'N')
	v.addPiece(Bishop, 'B')
	v.addPiece(Rook, 'R')
	v.addPiece(Archbishop, 'A')
	v.addPiece(Chancellor, 'C')
	v.addPiece(Queen, 'Q')
	v.addPiece(King, 'K')
	v.PromotionPieceTypes = []PieceType{Queen, Chancellor, Archbishop, Rook, Bishop, Knight}
	v.Castling = true
	v.DoubleStep = true
	v.StartFEN = "rnabqkbcnr/pppppppppp/10/10/10/10/PPPPPPPPPP/RNABQKBCNR w KQkq - 0 1"
	return v.finish()
}

// CFour is connect-four: a 7x6 drop-only board with no kings.
func CFour() *Variant {
	v := newVariant("cfour", 7, 6)
	v.addPiece(Commoner, 'P')
	v.PieceDrops = true
	v.CheckingPermitted = false
	v.ConnectN = 4
	v.StartFEN = "7/7/7/7/7/7[PPPPPPPPPPPPPPPPPPPPPppppppppppppppppppppp] w - - 0 1"
	return v.finish()
}
