package model

import "fmt"

type Result uint8

const (
	Ongoing Result = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	InsufficientMaterialDraw
)

func (r Result) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fiftyMoveRule"
	case InsufficientMaterialDraw:
		return "insufficientMaterial"
	}
	return "ongoing"
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// FiftyMoveLimit is the half-move clock value that ends the game.
const FiftyMoveLimit = 50

// updateGameStatus recomputes check and terminal state for the side to move.
// The two draw rules run after mate/stalemate detection and override it.
func (g *Game) updateGameStatus() {
	toMove := g.state.ToMove
	g.state.IsCheck = g.state.Board.InCheck(toMove)
	g.state.Result = Ongoing
	g.state.Winner = nil

	if !HasLegalMoves(&g.state.Board, toMove) {
		g.state.GameOver = true
		if g.state.IsCheck {
			winner := toMove.Opponent()
			g.state.Result = Checkmate
			g.state.Winner = &winner
		} else {
			g.state.Result = Stalemate
		}
	}

	if g.state.HalfMoveClock >= FiftyMoveLimit {
		g.state.GameOver = true
		g.state.Result = FiftyMoveDraw
		g.state.Winner = nil
	}

	if IsInsufficientMaterial(&g.state.Board.Board) {
		g.state.GameOver = true
		g.state.Result = InsufficientMaterialDraw
		g.state.Winner = nil
	}

	g.state.Status = statusText(g.state.Result, toMove, g.state.IsCheck)
}

func statusText(result Result, toMove Color, check bool) string {
	switch result {
	case Checkmate:
		return fmt.Sprintf("Checkmate! %s wins", toMove.Opponent().Title())
	case Stalemate:
		return "Stalemate! Game drawn"
	case FiftyMoveDraw:
		return "Draw by 50-move rule"
	case InsufficientMaterialDraw:
		return "Draw by insufficient material"
	}
	status := fmt.Sprintf("%s's Turn", toMove.Title())
	if check {
		status += " (Check!)"
	}
	return status
}

// IsInsufficientMaterial recognises K v K, K+minor v K and K+B v K+B with both
// bishops on the same square colour. No other configuration counts.
func IsInsufficientMaterial(board *Board) bool {
	var white, black []PieceType
	var bishopSquares [2]Position
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := board[row][col]
			if p.IsEmpty() {
				continue
			}
			if p.Type == Bishop {
				bishopSquares[p.Color] = Position{Row: row, Col: col}
			}
			if p.Color == White {
				white = append(white, p.Type)
			} else {
				black = append(black, p.Type)
			}
		}
	}

	if len(white) == 1 && len(black) == 1 {
		return true
	}
	if len(black) == 1 && len(white) == 2 && (hasType(white, Bishop) || hasType(white, Knight)) {
		return true
	}
	if len(white) == 1 && len(black) == 2 && (hasType(black, Bishop) || hasType(black, Knight)) {
		return true
	}
	if len(white) == 2 && len(black) == 2 && hasType(white, Bishop) && hasType(black, Bishop) {
		w, b := bishopSquares[White], bishopSquares[Black]
		return (w.Row+w.Col)%2 == (b.Row+b.Col)%2
	}
	return false
}

func hasType(types []PieceType, t PieceType) bool {
	for _, pt := range types {
		if pt == t {
			return true
		}
	}
	return false
}
