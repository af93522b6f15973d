package model

type moveGenerator func(bs *BoardState, from Position, piece Piece) []Move

// indexed by PieceType
var pseudoGenerators = [...]moveGenerator{
	NoPiece: nil,
	Pawn:    getPseudoPawnMoves,
	Knight:  getPseudoKnightMoves,
	Bishop:  getPseudoBishopMoves,
	Rook:    getPseudoRookMoves,
	Queen:   getPseudoQueenMoves,
	King:    getPseudoKingMoves,
}

// PseudoLegalMoves returns the moves of the piece on pos that obey its movement
// shape. Apart from king steps they may leave the mover's king attacked.
func PseudoLegalMoves(bs *BoardState, pos Position) []Move {
	if !pos.InBounds() {
		return nil
	}
	piece := bs.Board.At(pos)
	gen := pseudoGenerators[piece.Type]
	if gen == nil {
		return nil
	}
	return gen(bs, pos, piece)
}

// LegalMoves filters the pseudo-legal moves of the piece on pos down to the ones
// that do not leave its own king attacked. Each candidate is tried on a clone.
func LegalMoves(bs *BoardState, pos Position) []Move {
	pseudoMoves := PseudoLegalMoves(bs, pos)
	if len(pseudoMoves) == 0 {
		return nil
	}
	color := bs.Board.At(pos).Color
	legalMoves := make([]Move, 0, len(pseudoMoves))
	for _, move := range pseudoMoves {
		trial := bs.Clone()
		trial.Apply(move)
		if !trial.InCheck(color) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

// AllLegalMoves scans the board row-major and returns every legal move of color,
// each piece's moves in generation order.
func AllLegalMoves(bs *BoardState, color Color) []Move {
	var moves []Move
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pos := Position{Row: row, Col: col}
			p := bs.Board.At(pos)
			if p.IsEmpty() || p.Color != color {
				continue
			}
			moves = append(moves, LegalMoves(bs, pos)...)
		}
	}
	return moves
}

// HasLegalMoves stops at the first piece of color that can move.
func HasLegalMoves(bs *BoardState, color Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pos := Position{Row: row, Col: col}
			p := bs.Board.At(pos)
			if p.IsEmpty() || p.Color != color {
				continue
			}
			if len(LegalMoves(bs, pos)) > 0 {
				return true
			}
		}
	}
	return false
}

// FindLegalMove returns the legal move from -> to, if there is one.
func FindLegalMove(bs *BoardState, from, to Position) (Move, bool) {
	for _, m := range LegalMoves(bs, from) {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

func pawnHomeRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func lastRow(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

func getPseudoPawnMoves(bs *BoardState, from Position, piece Piece) []Move {
	pawnMoves := []Move{}
	dir := pawnForward(piece.Color)
	promotionRow := lastRow(piece.Color)

	one := from.offset(dir, 0)
	if one.InBounds() && bs.Board.At(one).IsEmpty() {
		pawnMoves = append(pawnMoves, Move{From: from, To: one, Promotion: one.Row == promotionRow})
		two := from.offset(2*dir, 0)
		if from.Row == pawnHomeRow(piece.Color) && bs.Board.At(two).IsEmpty() {
			pawnMoves = append(pawnMoves, Move{From: from, To: two, DoublePush: true})
		}
	}
	for _, dc := range [2]int{-1, 1} {
		target := from.offset(dir, dc)
		if !target.InBounds() {
			continue
		}
		occupant := bs.Board.At(target)
		if !occupant.IsEmpty() && occupant.Color != piece.Color {
			pawnMoves = append(pawnMoves, Move{From: from, To: target, Capture: true, Promotion: target.Row == promotionRow})
		}
		if bs.EnPassantTarget != nil && *bs.EnPassantTarget == target && occupant.IsEmpty() {
			pawnMoves = append(pawnMoves, Move{From: from, To: target, Capture: true, EnPassant: true})
		}
	}
	return pawnMoves
}

func getPseudoKnightMoves(bs *BoardState, from Position, piece Piece) []Move {
	knightMoves := []Move{}
	for _, dir := range knightDirs {
		target := from.offset(dir.Row, dir.Col)
		if !target.InBounds() {
			continue
		}
		occupant := bs.Board.At(target)
		if occupant.IsEmpty() || occupant.Color != piece.Color {
			knightMoves = append(knightMoves, Move{From: from, To: target, Capture: !occupant.IsEmpty()})
		}
	}
	return knightMoves
}

func getSlidingMoves(bs *BoardState, from Position, piece Piece, dirs []Position, moves []Move) []Move {
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		for target.InBounds() {
			occupant := bs.Board.At(target)
			if occupant.IsEmpty() {
				moves = append(moves, Move{From: from, To: target})
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, Move{From: from, To: target, Capture: true})
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func getPseudoBishopMoves(bs *BoardState, from Position, piece Piece) []Move {
	return getSlidingMoves(bs, from, piece, bishopDirs, []Move{})
}

func getPseudoRookMoves(bs *BoardState, from Position, piece Piece) []Move {
	return getSlidingMoves(bs, from, piece, rookDirs, []Move{})
}

func getPseudoQueenMoves(bs *BoardState, from Position, piece Piece) []Move {
	moves := getSlidingMoves(bs, from, piece, rookDirs, []Move{})
	return getSlidingMoves(bs, from, piece, bishopDirs, moves)
}

// getPseudoKingMoves never steps onto an attacked square, unlike the other
// generators, and adds castling when every castling condition holds.
func getPseudoKingMoves(bs *BoardState, from Position, piece Piece) []Move {
	kingMoves := []Move{}
	enemy := piece.Color.Opponent()
	for _, dir := range kingDirs {
		target := from.offset(dir.Row, dir.Col)
		if !target.InBounds() {
			continue
		}
		occupant := bs.Board.At(target)
		if !occupant.IsEmpty() && occupant.Color == piece.Color {
			continue
		}
		if IsSquareUnderAttack(&bs.Board, target, enemy) {
			continue
		}
		kingMoves = append(kingMoves, Move{From: from, To: target, Capture: !occupant.IsEmpty()})
	}

	if piece.HasMoved || IsSquareUnderAttack(&bs.Board, from, enemy) {
		return kingMoves
	}
	rights := bs.Castling.For(piece.Color)
	row := from.Row
	if rights.KingSide && canCastle(bs, piece.Color, row, 7, []int{5, 6}, []int{5, 6}) {
		kingMoves = append(kingMoves, Move{From: from, To: Position{Row: row, Col: 6}, Castle: CastleKingSide})
	}
	if rights.QueenSide && canCastle(bs, piece.Color, row, 0, []int{1, 2, 3}, []int{3, 2}) {
		kingMoves = append(kingMoves, Move{From: from, To: Position{Row: row, Col: 2}, Castle: CastleQueenSide})
	}
	return kingMoves
}

// canCastle checks the rook on rookCol, the empty squares between and the
// squares the king crosses or lands on.
func canCastle(bs *BoardState, color Color, row, rookCol int, empty, safe []int) bool {
	rook := bs.Board[row][rookCol]
	if !rook.Is(Rook, color) || rook.HasMoved {
		return false
	}
	for _, col := range empty {
		if !bs.Board[row][col].IsEmpty() {
			return false
		}
	}
	for _, col := range safe {
		if IsSquareUnderAttack(&bs.Board, Position{Row: row, Col: col}, color.Opponent()) {
			return false
		}
	}
	return true
}
