// Package engine scores positions and picks moves for the automated side.
package engine

import "github.com/benbeisheim/solochess-backend/internal/model"

var pieceValues = [...]float64{
	model.NoPiece: 0,
	model.Pawn:    10,
	model.Knight:  30,
	model.Bishop:  30,
	model.Rook:    50,
	model.Queen:   90,
	model.King:    900,
}

type squareTable [8][8]float64

// Positional bonuses from white's side of the board; black reads them mirrored.
var (
	pawnTable = squareTable{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 5, 5, 5, 5, 5, 5, 5},
		{1, 1, 2, 3, 3, 2, 1, 1},
		{0.5, 0.5, 1, 2.5, 2.5, 1, 0.5, 0.5},
		{0, 0, 0, 2, 2, 0, 0, 0},
		{0.5, -0.5, -1, 0, 0, -1, -0.5, 0.5},
		{0.5, 1, 1, -2, -2, 1, 1, 0.5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	knightTable = squareTable{
		{-5, -4, -3, -3, -3, -3, -4, -5},
		{-4, -2, 0, 0, 0, 0, -2, -4},
		{-3, 0, 1, 1.5, 1.5, 1, 0, -3},
		{-3, 0.5, 1.5, 2, 2, 1.5, 0.5, -3},
		{-3, 0, 1.5, 2, 2, 1.5, 0, -3},
		{-3, 0.5, 1, 1.5, 1.5, 1, 0.5, -3},
		{-4, -2, 0, 0.5, 0.5, 0, -2, -4},
		{-5, -4, -3, -3, -3, -3, -4, -5},
	}
	bishopTable = squareTable{
		{-2, -1, -1, -1, -1, -1, -1, -2},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-1, 0, 0.5, 1, 1, 0.5, 0, -1},
		{-1, 0.5, 0.5, 1, 1, 0.5, 0.5, -1},
		{-1, 0, 1, 1, 1, 1, 0, -1},
		{-1, 1, 1, 1, 1, 1, 1, -1},
		{-1, 0.5, 0, 0, 0, 0, 0.5, -1},
		{-2, -1, -1, -1, -1, -1, -1, -2},
	}
	rookTable = squareTable{
		{0, 0, 0, 0.5, 0.5, 0, 0, 0},
		{-0.5, 0, 0, 0, 0, 0, 0, -0.5},
		{-0.5, 0, 0, 0, 0, 0, 0, -0.5},
		{-0.5, 0, 0, 0, 0, 0, 0, -0.5},
		{-0.5, 0, 0, 0, 0, 0, 0, -0.5},
		{-0.5, 0, 0, 0, 0, 0, 0, -0.5},
		{0.5, 1, 1, 1, 1, 1, 1, 0.5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	queenTable = squareTable{
		{-2, -1, -1, -0.5, -0.5, -1, -1, -2},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-1, 0, 0.5, 0.5, 0.5, 0.5, 0, -1},
		{-0.5, 0, 0.5, 0.5, 0.5, 0.5, 0, -0.5},
		{0, 0, 0.5, 0.5, 0.5, 0.5, 0, -0.5},
		{-1, 0.5, 0.5, 0.5, 0.5, 0.5, 0, -1},
		{-1, 0, 0.5, 0, 0, 0, 0, -1},
		{-2, -1, -1, -0.5, -0.5, -1, -1, -2},
	}
	kingTable = squareTable{
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-2, -3, -3, -4, -4, -3, -3, -2},
		{-1, -2, -2, -2, -2, -2, -2, -1},
		{2, 2, 0, 0, 0, 0, 2, 2},
		{2, 3, 1, 0, 0, 1, 3, 2},
	}
)

var positionTables = [...]*squareTable{
	model.NoPiece: nil,
	model.Pawn:    &pawnTable,
	model.Knight:  &knightTable,
	model.Bishop:  &bishopTable,
	model.Rook:    &rookTable,
	model.Queen:   &queenTable,
	model.King:    &kingTable,
}

const (
	castlingRightBonus   = 1
	pawnStructurePenalty = 0.5
)

// Evaluate scores bs from white's point of view: positive favours white.
func Evaluate(bs *model.BoardState) float64 {
	score := 0.0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := bs.Board[row][col]
			if p.IsEmpty() {
				continue
			}
			score += sign(p.Color) * (pieceValues[p.Type] + positionalBonus(p, row, col))
		}
	}
	score += castlingScore(bs.Castling)
	score += pawnStructureScore(&bs.Board)
	return score
}

func sign(c model.Color) float64 {
	if c == model.White {
		return 1
	}
	return -1
}

func positionalBonus(p model.Piece, row, col int) float64 {
	table := positionTables[p.Type]
	if p.Color == model.Black {
		row = 7 - row
	}
	return table[row][col]
}

func castlingScore(cr model.CastlingRights) float64 {
	score := 0.0
	for _, right := range []bool{cr.White.KingSide, cr.White.QueenSide} {
		if right {
			score += castlingRightBonus
		}
	}
	for _, right := range []bool{cr.Black.KingSide, cr.Black.QueenSide} {
		if right {
			score -= castlingRightBonus
		}
	}
	return score
}

// pawnStructureScore penalises doubled and isolated pawns per file.
func pawnStructureScore(board *model.Board) float64 {
	var counts [2][8]int
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := board[row][col]; p.Type == model.Pawn {
				counts[p.Color][col]++
			}
		}
	}

	score := 0.0
	for _, c := range [2]model.Color{model.White, model.Black} {
		files := counts[c]
		for col := 0; col < 8; col++ {
			if files[col] == 0 {
				continue
			}
			penalty := pawnStructurePenalty * float64(files[col]-1)
			left := col > 0 && files[col-1] > 0
			right := col < 7 && files[col+1] > 0
			if !left && !right {
				penalty += pawnStructurePenalty
			}
			score -= sign(c) * penalty
		}
	}
	return score
}
