package model

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[byte]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

// Setup is a position together with the counters a FEN string carries.
type Setup struct {
	Board          BoardState
	ToMove         Color
	HalfMoveClock  int
	FullMoveNumber int
}

// ParseFEN reads a FEN string. The move counters are optional and default to 0 and 1.
// HasMoved is derived: pawns off their home rank, and kings or rooks that no
// retained castling right refers to, count as moved.
func ParseFEN(fen string) (Setup, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return Setup{}, fmt.Errorf("expected at least 4 fields, got %d: %w", len(parts), ErrInvalidFEN)
	}

	setup := Setup{FullMoveNumber: 1}
	bs := &setup.Board

	if err := parsePiecePlacement(&bs.Board, parts[0]); err != nil {
		return Setup{}, err
	}
	white, black := bs.locateKings()
	if white != 1 || black != 1 {
		return Setup{}, fmt.Errorf("need exactly one king per side: %w", ErrInvalidFEN)
	}

	toMove, err := ParseColor(parts[1])
	if err != nil {
		return Setup{}, fmt.Errorf("side to move %q: %w", parts[1], ErrInvalidFEN)
	}
	setup.ToMove = toMove

	if err := parseCastling(bs, parts[2]); err != nil {
		return Setup{}, err
	}

	if parts[3] != "-" {
		ep, err := ParseSquare(parts[3])
		if err != nil {
			return Setup{}, fmt.Errorf("en passant square %q: %w", parts[3], ErrInvalidFEN)
		}
		bs.EnPassantTarget = &ep
	}

	if len(parts) > 4 {
		if setup.HalfMoveClock, err = strconv.Atoi(parts[4]); err != nil || setup.HalfMoveClock < 0 {
			return Setup{}, fmt.Errorf("half-move clock %q: %w", parts[4], ErrInvalidFEN)
		}
	}
	if len(parts) > 5 {
		if setup.FullMoveNumber, err = strconv.Atoi(parts[5]); err != nil || setup.FullMoveNumber < 1 {
			return Setup{}, fmt.Errorf("full-move number %q: %w", parts[5], ErrInvalidFEN)
		}
	}

	markMoved(bs)
	return setup, nil
}

func parsePiecePlacement(board *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("expected 8 ranks, got %d: %w", len(ranks), ErrInvalidFEN)
	}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			lower := ch | 0x20
			pt, ok := fenPieces[lower]
			if !ok {
				return fmt.Errorf("unknown piece %q: %w", ch, ErrInvalidFEN)
			}
			if col > 7 {
				return fmt.Errorf("rank %d overflows: %w", 8-row, ErrInvalidFEN)
			}
			color := White
			if ch == lower {
				color = Black
			}
			board[row][col] = Piece{Type: pt, Color: color}
			col++
		}
		if col != 8 {
			return fmt.Errorf("rank %d has %d files: %w", 8-row, col, ErrInvalidFEN)
		}
	}
	return nil
}

func parseCastling(bs *BoardState, field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'K':
			bs.Castling.White.KingSide = true
		case 'Q':
			bs.Castling.White.QueenSide = true
		case 'k':
			bs.Castling.Black.KingSide = true
		case 'q':
			bs.Castling.Black.QueenSide = true
		default:
			return fmt.Errorf("castling field %q: %w", field, ErrInvalidFEN)
		}
	}
	return nil
}

func markMoved(bs *BoardState) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := &bs.Board[row][col]
			switch p.Type {
			case Pawn:
				p.HasMoved = row != pawnHomeRow(p.Color)
			case King:
				rights := bs.Castling.For(p.Color)
				p.HasMoved = row != homeRow(p.Color) || col != 4 || (!rights.KingSide && !rights.QueenSide)
			case Rook:
				rights := bs.Castling.For(p.Color)
				unmoved := row == homeRow(p.Color) && ((col == 0 && rights.QueenSide) || (col == 7 && rights.KingSide))
				p.HasMoved = !unmoved
			}
		}
	}
	// rights without the pieces to back them are dropped
	for _, c := range [2]Color{White, Black} {
		rights := bs.Castling.For(c)
		row := homeRow(c)
		king := bs.Board[row][4]
		if !king.Is(King, c) {
			*rights = SideRights{}
			continue
		}
		if !bs.Board[row][7].Is(Rook, c) {
			rights.KingSide = false
		}
		if !bs.Board[row][0].Is(Rook, c) {
			rights.QueenSide = false
		}
	}
}

// FormatFEN writes a position in FEN.
func FormatFEN(bs *BoardState, toMove Color, halfMoveClock, fullMoveNumber int) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			p := bs.Board[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenLetter(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if toMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castling := ""
	if bs.Castling.White.KingSide {
		castling += "K"
	}
	if bs.Castling.White.QueenSide {
		castling += "Q"
	}
	if bs.Castling.Black.KingSide {
		castling += "k"
	}
	if bs.Castling.Black.QueenSide {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	if bs.EnPassantTarget != nil {
		sb.WriteString(bs.EnPassantTarget.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", halfMoveClock, fullMoveNumber)
	return sb.String()
}

func fenLetter(p Piece) byte {
	letter := "PNBRQK"[p.Type-Pawn]
	if p.Color == Black {
		letter |= 0x20
	}
	return letter
}
