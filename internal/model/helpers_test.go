package model

import "testing"

// sq converts an algebraic square name for test tables.
func sq(name string) Position {
	pos, err := ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return pos
}

func mustSetup(t *testing.T, fen string) Setup {
	t.Helper()
	setup, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return setup
}

func mustBoard(t *testing.T, fen string) BoardState {
	t.Helper()
	return mustSetup(t, fen).Board
}

// play makes each coordinate move ("e2e4") through MakeMove.
func play(t *testing.T, g *Game, moves ...string) []Ply {
	t.Helper()
	plies := make([]Ply, 0, len(moves))
	for _, m := range moves {
		ply, err := g.MakeMove(WSMove{From: sq(m[:2]), To: sq(m[2:4])})
		if err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
		plies = append(plies, ply)
	}
	return plies
}

func destinationSquares(dests []Destination) []string {
	out := make([]string, 0, len(dests))
	for _, d := range dests {
		out = append(out, d.Position.String())
	}
	return out
}
