package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBoardState(t *testing.T) {
	bs := NewBoardState()

	tests := []struct {
		square string
		want   Piece
	}{
		{"a1", Piece{Type: Rook, Color: White}},
		{"e1", Piece{Type: King, Color: White}},
		{"d1", Piece{Type: Queen, Color: White}},
		{"g1", Piece{Type: Knight, Color: White}},
		{"c8", Piece{Type: Bishop, Color: Black}},
		{"e8", Piece{Type: King, Color: Black}},
		{"e2", Piece{Type: Pawn, Color: White}},
		{"h7", Piece{Type: Pawn, Color: Black}},
		{"e4", Piece{}},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, bs.Board.At(sq(tt.square))); diff != "" {
				t.Errorf("piece mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if bs.WhiteKingPosition != sq("e1") || bs.BlackKingPosition != sq("e8") {
		t.Errorf("king cache = %v, %v", bs.WhiteKingPosition, bs.BlackKingPosition)
	}
	if diff := cmp.Diff(fullCastlingRights(), bs.Castling); diff != "" {
		t.Errorf("castling mismatch (-want +got):\n%s", diff)
	}
	if bs.EnPassantTarget != nil {
		t.Errorf("EnPassantTarget = %v, want nil", bs.EnPassantTarget)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	bs := NewBoardState()
	ep := sq("e3")
	bs.EnPassantTarget = &ep
	original := bs.Clone()

	clone := bs.Clone()
	clone.Board.Clear(sq("e2"))
	clone.EnPassantTarget.Row = 0
	clone.Castling.White.KingSide = false

	if diff := cmp.Diff(original, bs); diff != "" {
		t.Errorf("mutating the clone changed the source (-want +got):\n%s", diff)
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{in: "a8", want: Position{Row: 0, Col: 0}},
		{in: "h1", want: Position{Row: 7, Col: 7}},
		{in: "e2", want: Position{Row: 6, Col: 4}},
		{in: "E4", want: Position{Row: 4, Col: 4}},
		{in: "i1", wantErr: true},
		{in: "a9", wantErr: true},
		{in: "a0", wantErr: true},
		{in: "e", wantErr: true},
		{in: "e22", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSquare) {
					t.Fatalf("ParseSquare(%q) error = %v, want ErrInvalidSquare", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSquare(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSquare(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if tt.in == "e2" && got.String() != "e2" {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

func TestBoardMarshalJSON(t *testing.T) {
	bs := NewBoardState()
	data, err := json.Marshal(bs.Board)
	if err != nil {
		t.Fatal(err)
	}

	var rows [][]*struct {
		Type  string `json:"type"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 8 || len(rows[0]) != 8 {
		t.Fatalf("board shape = %dx%d", len(rows), len(rows[0]))
	}
	if rows[4][4] != nil {
		t.Errorf("empty square encoded as %+v, want null", rows[4][4])
	}
	if got := rows[0][4]; got == nil || got.Type != "king" || got.Color != "black" {
		t.Errorf("e8 = %+v, want black king", got)
	}
}

func TestColor(t *testing.T) {
	if White.Opponent() != Black || Black.Opponent() != White {
		t.Error("Opponent is not an involution")
	}
	for _, in := range []string{"w", "white", "White"} {
		if c, err := ParseColor(in); err != nil || c != White {
			t.Errorf("ParseColor(%q) = %v, %v", in, c, err)
		}
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("ParseColor(red) succeeded")
	}
}
