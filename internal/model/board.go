package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type PieceType uint8

const (
	NoPiece PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{
	NoPiece: "",
	Pawn:    "pawn",
	Knight:  "knight",
	Bishop:  "bishop",
	Rook:    "rook",
	Queen:   "queen",
	King:    "king",
}

// notation letters, pawns have none
var pieceNotation = [...]string{
	NoPiece: "",
	Pawn:    "",
	Knight:  "N",
	Bishop:  "B",
	Rook:    "R",
	Queen:   "Q",
	King:    "K",
}

func (p PieceType) String() string {
	if int(p) < len(pieceTypeNames) {
		return pieceTypeNames[p]
	}
	return fmt.Sprintf("PieceType(%d)", p)
}

func (p PieceType) getPieceNotation() string {
	if int(p) < len(pieceNotation) {
		return pieceNotation[p]
	}
	return ""
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceTypeNames {
		if name == string(text) {
			*p = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Title is the capitalised name used in status messages.
func (c Color) Title() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

func (c Color) Opponent() Color {
	return c ^ 1
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// ParseColor accepts "white"/"black" and the FEN letters "w"/"b".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// Piece is a value; the zero Piece is an empty square.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

func (p Piece) Is(t PieceType, c Color) bool {
	return p.Type == t && p.Color == c
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.Col+'a', 8-p.Row)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

// String returns the algebraic name of the square, e.g. "e4".
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return p.getSquareNotation()
}

// ParseSquare converts an algebraic square name into a Position.
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("square %q: %w", s, ErrInvalidSquare)
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	pos := Position{Row: 8 - int(rank-'0'), Col: int(file) - 'a'}
	if rank < '1' || rank > '8' || !pos.InBounds() {
		return Position{}, fmt.Errorf("square %q: %w", s, ErrInvalidSquare)
	}
	return pos, nil
}

type Board [8][8]Piece

func (b *Board) At(pos Position) Piece {
	return b[pos.Row][pos.Col]
}

func (b *Board) Set(pos Position, p Piece) {
	b[pos.Row][pos.Col] = p
}

func (b *Board) Clear(pos Position) {
	b[pos.Row][pos.Col] = Piece{}
}

// MarshalJSON encodes the board as rows of pieces with null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	type squareJSON struct {
		Type  PieceType `json:"type"`
		Color Color     `json:"color"`
	}
	rows := make([][]*squareJSON, 8)
	for r := 0; r < 8; r++ {
		rows[r] = make([]*squareJSON, 8)
		for c := 0; c < 8; c++ {
			if p := b[r][c]; !p.IsEmpty() {
				rows[r][c] = &squareJSON{Type: p.Type, Color: p.Color}
			}
		}
	}
	return json.Marshal(rows)
}

type SideRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

type CastlingRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

func (cr *CastlingRights) For(c Color) *SideRights {
	if c == Black {
		return &cr.Black
	}
	return &cr.White
}

func fullCastlingRights() CastlingRights {
	return CastlingRights{
		White: SideRights{KingSide: true, QueenSide: true},
		Black: SideRights{KingSide: true, QueenSide: true},
	}
}

// BoardState is everything move generation needs to know about a position.
type BoardState struct {
	Board             Board          `json:"board"`
	BlackKingPosition Position       `json:"blackKingPosition"`
	WhiteKingPosition Position       `json:"whiteKingPosition"`
	Castling          CastlingRights `json:"castlingRights"`
	EnPassantTarget   *Position      `json:"enPassantTarget"`
}

func (bs *BoardState) Clone() BoardState {
	c := *bs
	if bs.EnPassantTarget != nil {
		ep := *bs.EnPassantTarget
		c.EnPassantTarget = &ep
	}
	return c
}

func (bs *BoardState) KingPosition(c Color) Position {
	if c == Black {
		return bs.BlackKingPosition
	}
	return bs.WhiteKingPosition
}

func (bs *BoardState) setKingPosition(c Color, pos Position) {
	if c == Black {
		bs.BlackKingPosition = pos
	} else {
		bs.WhiteKingPosition = pos
	}
}

// InCheck reports whether the king of color c is attacked.
func (bs *BoardState) InCheck(c Color) bool {
	return IsSquareUnderAttack(&bs.Board, bs.KingPosition(c), c.Opponent())
}

// locateKings refreshes the king cache from the board contents.
func (bs *BoardState) locateKings() (white, black int) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := bs.Board[r][c]
			if p.Type != King {
				continue
			}
			if p.Color == White {
				bs.WhiteKingPosition = Position{Row: r, Col: c}
				white++
			} else {
				bs.BlackKingPosition = Position{Row: r, Col: c}
				black++
			}
		}
	}
	return white, black
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoardState returns the standard initial position.
func NewBoardState() BoardState {
	bs := BoardState{Castling: fullCastlingRights()}
	for col := 0; col < 8; col++ {
		bs.Board[0][col] = Piece{Type: backRank[col], Color: Black}
		bs.Board[1][col] = Piece{Type: Pawn, Color: Black}
		bs.Board[6][col] = Piece{Type: Pawn, Color: White}
		bs.Board[7][col] = Piece{Type: backRank[col], Color: White}
	}
	bs.BlackKingPosition = Position{Row: 0, Col: 4}
	bs.WhiteKingPosition = Position{Row: 7, Col: 4}
	return bs
}
