package board

// Color of a side. White is always the reference color for scoring.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// PieceType is a colorless piece kind. The numeric order is load-bearing:
// the evaluator walks board pieces in ascending type order so that cheap
// pieces populate the attack tables before expensive ones read them.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	Ferz
	Wazir
	ShogiPawn
	Lance
	ShogiKnight
	Silver
	Gold
	Horse
	Dragon
	Archbishop
	Chancellor
	Commoner
	King

	PieceTypeNB
)

// Piece is a colored piece occupying a square.
type Piece struct {
	Color Color
	Type  PieceType
}

var NoPiece = Piece{White, NoPieceType}

func (p Piece) IsEmpty() bool { return p.Type == NoPieceType }

// Square indexes a board cell as rank*files + file. NoSquare terminates
// piece lists.
type Square int

const NoSquare Square = -1

// CastlingRights bit flags, white/black king- and queen-side.
type CastlingRights uint8

const (
	CastleWhiteK CastlingRights = 1 << iota
	CastleWhiteQ
	CastleBlackK
	CastleBlackQ

	CastleWhite = CastleWhiteK | CastleWhiteQ
	CastleBlack = CastleBlackK | CastleBlackQ
)

// CanCastle reports whether the given side retains any castling right.
func (cr CastlingRights) CanCastle(c Color) bool {
	if c == White {
		return cr&CastleWhite != 0
	}
	return cr&CastleBlack != 0
}

// Value is the fixed-point evaluation unit shared by piece values, scores
// and the final evaluation.
type Value int

const (
	ValueZero Value = 0
	ValueDraw Value = 0
)

// Midgame/endgame piece values. Fairy piece values follow the same scale
// as the orthodox set; they are frozen tuning parameters, not derived.
var PieceValueMG = [PieceTypeNB]Value{
	Pawn: 136, Knight: 782, Bishop: 830, Rook: 1289, Queen: 2529,
	Ferz: 420, Wazir: 400, ShogiPawn: 90, Lance: 420, ShogiKnight: 380,
	Silver: 530, Gold: 640, Horse: 1550, Dragon: 1750,
	Archbishop: 2210, Chancellor: 2330, Commoner: 610, King: 0,
}

var PieceValueEG = [PieceTypeNB]Value{
	Pawn: 208, Knight: 865, Bishop: 918, Rook: 1378, Queen: 2687,
	Ferz: 450, Wazir: 430, ShogiPawn: 100, Lance: 290, ShogiKnight: 290,
	Silver: 630, Gold: 700, Horse: 1650, Dragon: 1850,
	Archbishop: 2320, Chancellor: 2460, Commoner: 660, King: 0,
}

// ExtinctionMode describes what losing all pieces of the extinction set
// means for the side it happens to.
type ExtinctionMode uint8

const (
	ExtinctionNone ExtinctionMode = iota
	ExtinctionWin                 // running out of pieces wins (antichess family)
	ExtinctionLoss                // running out of pieces loses (extinction/atomic family)
)
