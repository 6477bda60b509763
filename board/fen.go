package board

import (
	"fmt"
	"strings"
)

// Variant-aware FEN. On top of the orthodox fields this understands
// bracketed hands ("[QRp]"), the '~' promoted-piece marker of drop games,
// multi-digit empty runs on wide boards, and a remaining-checks field
// ("3+2", white first) for check-counting variants.

// ParseFEN builds a finalized Position from a FEN string.
func ParseFEN(v *Variant, fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("fen %q: need at least board and side fields", fen)
	}
	g := v.Geo
	p := &Position{
		V:     v,
		g:     g,
		board: make([]Piece, g.NumSquares),
		ep:    NoSquare,
	}

	boardField := fields[0]
	handField := ""
	if i := strings.IndexByte(boardField, '['); i >= 0 {
		if !strings.HasSuffix(boardField, "]") {
			return nil, fmt.Errorf("fen %q: unterminated hand", fen)
		}
		handField = boardField[i+1 : len(boardField)-1]
		boardField = boardField[:i]
	}

	if err := p.parseBoard(boardField); err != nil {
		return nil, fmt.Errorf("fen %q: %w", fen, err)
	}
	if err := p.parseHand(handField); err != nil {
		return nil, fmt.Errorf("fen %q: %w", fen, err)
	}

	switch fields[1] {
	case "w":
		p.stm = White
	case "b":
		p.stm = Black
	default:
		return nil, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	if len(fields) > 2 && fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castling |= CastleWhiteK
			case 'Q':
				p.castling |= CastleWhiteQ
			case 'k':
				p.castling |= CastleBlackK
			case 'q':
				p.castling |= CastleBlackQ
			default:
				return nil, fmt.Errorf("fen %q: bad castling field %q", fen, fields[2])
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		s, err := ParseSquare(g, fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: %w", fen, err)
		}
		p.ep = s
	}

	if v.MaxCheckCount > 0 && len(fields) > 4 && strings.ContainsRune(fields[4], '+') {
		var wr, br int
		if _, err := fmt.Sscanf(fields[4], "%d+%d", &wr, &br); err != nil {
			return nil, fmt.Errorf("fen %q: bad check count field %q", fen, fields[4])
		}
		if wr < 0 || wr > v.MaxCheckCount || br < 0 || br > v.MaxCheckCount {
			return nil, fmt.Errorf("fen %q: check counts out of range", fen)
		}
		p.checksGiven[White] = v.MaxCheckCount - wr
		p.checksGiven[Black] = v.MaxCheckCount - br
	}

	p.finalize()
	return p, nil
}

func (p *Position) parseBoard(field string) error {
	g := p.g
	ranks := strings.Split(field, "/")
	if len(ranks) != g.Ranks {
		return fmt.Errorf("board has %d ranks, want %d", len(ranks), g.Ranks)
	}
	for ri, row := range ranks {
		r := g.Ranks - 1 - ri
		f := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '0' && ch <= '9' {
				run := int(ch - '0')
				for i+1 < len(row) && row[i+1] >= '0' && row[i+1] <= '9' {
					i++
					run = run*10 + int(row[i]-'0')
				}
				f += run
				continue
			}
			c := White
			upper := ch
			if ch >= 'a' && ch <= 'z' {
				c = Black
				upper = ch - 'a' + 'A'
			}
			pt := p.V.TypeOfLetter(upper)
			if pt == NoPieceType {
				return fmt.Errorf("unknown piece letter %q", string(ch))
			}
			if f >= g.Files {
				return fmt.Errorf("rank %d overflows the board", r+1)
			}
			s := g.MakeSquare(f, r)
			promoted := false
			if i+1 < len(row) && row[i+1] == '~' {
				promoted = true
				i++
			}
			if promoted {
				if d := p.V.DemotedType[pt]; d == NoPieceType {
					// Pawn-origin promotions keep the promoted type; the
					// marker only matters for hand bookkeeping.
					promoted = p.V.CapturesToHand
				}
				if promoted {
					p.promoted = p.promoted.Or(SquareBB(s))
				}
			}
			p.board[s] = Piece{c, pt}
			f++
		}
		if f != g.Files {
			return fmt.Errorf("rank %d has %d files, want %d", r+1, f, g.Files)
		}
	}
	return nil
}

func (p *Position) parseHand(field string) error {
	if field == "" || field == "-" {
		return nil
	}
	if !p.V.PieceDrops {
		return fmt.Errorf("hand given but variant has no drops")
	}
	for i := 0; i < len(field); i++ {
		ch := field[i]
		c := White
		upper := ch
		if ch >= 'a' && ch <= 'z' {
			c = Black
			upper = ch - 'a' + 'A'
		}
		pt := p.V.TypeOfLetter(upper)
		if pt == NoPieceType {
			return fmt.Errorf("unknown hand piece %q", string(ch))
		}
		p.hand[c][pt]++
	}
	return nil
}

// ParseSquare reads algebraic notation ("e4", "j10") for the geometry.
func ParseSquare(g *Geometry, s string) (Square, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] >= 'a'+byte(g.Files) {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	f := int(s[0] - 'a')
	r := 0
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return NoSquare, fmt.Errorf("bad square %q", s)
		}
		r = r*10 + int(s[i]-'0')
	}
	r--
	if r < 0 || r >= g.Ranks {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return g.MakeSquare(f, r), nil
}

// SquareName formats a square in algebraic notation.
func SquareName(g *Geometry, s Square) string {
	return fmt.Sprintf("%c%d", 'a'+g.FileOf(s), g.RankOf(s)+1)
}

// FEN renders the position back into the parseable form above.
func (p *Position) FEN() string {
	g := p.g
	var sb strings.Builder
	for r := g.Ranks - 1; r >= 0; r-- {
		run := 0
		for f := 0; f < g.Files; f++ {
			s := g.MakeSquare(f, r)
			pc := p.board[s]
			if pc.IsEmpty() {
				run++
				continue
			}
			if run > 0 {
				fmt.Fprintf(&sb, "%d", run)
				run = 0
			}
			letter := p.V.LetterOf(pc.Type)
			if pc.Color == Black {
				letter = letter - 'A' + 'a'
			}
			sb.WriteByte(letter)
			if p.promoted.Test(s) {
				sb.WriteByte('~')
			}
		}
		if run > 0 {
			fmt.Fprintf(&sb, "%d", run)
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	if p.V.PieceDrops {
		sb.WriteByte('[')
		for c := White; c <= Black; c++ {
			for _, pt := range p.V.PieceTypes {
				letter := p.V.LetterOf(pt)
				if c == Black {
					letter = letter - 'A' + 'a'
				}
				for i := 0; i < p.hand[c][pt]; i++ {
					sb.WriteByte(letter)
				}
			}
		}
		sb.WriteByte(']')
	}

	if p.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		for _, cr := range []struct {
			flag CastlingRights
			ch   byte
		}{{CastleWhiteK, 'K'}, {CastleWhiteQ, 'Q'}, {CastleBlackK, 'k'}, {CastleBlackQ, 'q'}} {
			if p.castling&cr.flag != 0 {
				sb.WriteByte(cr.ch)
			}
		}
	}

	sb.WriteByte(' ')
	if p.ep == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(SquareName(g, p.ep))
	}

	if p.V.MaxCheckCount > 0 {
		fmt.Fprintf(&sb, " %d+%d",
			p.V.MaxCheckCount-p.checksGiven[White],
			p.V.MaxCheckCount-p.checksGiven[Black])
	}

	sb.WriteString(" 0 1")
	return sb.String()
}
