package model

var (
	rookDirs   = []Position{{Row: -1, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: -1}, {Row: 0, Col: 1}}
	bishopDirs = []Position{{Row: -1, Col: -1}, {Row: -1, Col: 1}, {Row: 1, Col: -1}, {Row: 1, Col: 1}}
	knightDirs = []Position{
		{Row: -2, Col: -1}, {Row: -2, Col: 1},
		{Row: -1, Col: -2}, {Row: -1, Col: 2},
		{Row: 1, Col: -2}, {Row: 1, Col: 2},
		{Row: 2, Col: -1}, {Row: 2, Col: 1},
	}
	kingDirs = []Position{
		{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
		{Row: 0, Col: -1}, {Row: 0, Col: 1},
		{Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
)

// pawnForward is the row delta a pawn of color c advances by.
func pawnForward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// IsSquareUnderAttack reports whether any piece of color by attacks pos on board.
// It only reads the board it is given, so callers may pass a scratch copy.
func IsSquareUnderAttack(board *Board, pos Position, by Color) bool {
	// a pawn attacks from one rank behind the target, seen from its own side
	behind := -pawnForward(by)
	for _, dc := range [2]int{-1, 1} {
		from := pos.offset(behind, dc)
		if from.InBounds() && board.At(from).Is(Pawn, by) {
			return true
		}
	}
	for _, dir := range knightDirs {
		from := pos.offset(dir.Row, dir.Col)
		if from.InBounds() && board.At(from).Is(Knight, by) {
			return true
		}
	}
	if rayAttacked(board, pos, by, rookDirs, Rook) || rayAttacked(board, pos, by, bishopDirs, Bishop) {
		return true
	}
	for _, dir := range kingDirs {
		from := pos.offset(dir.Row, dir.Col)
		if from.InBounds() && board.At(from).Is(King, by) {
			return true
		}
	}
	return false
}

// rayAttacked walks each ray to the first occupied square; slider or a queen of color by attacks along it.
func rayAttacked(board *Board, pos Position, by Color, dirs []Position, slider PieceType) bool {
	for _, dir := range dirs {
		target := pos.offset(dir.Row, dir.Col)
		for target.InBounds() {
			p := board.At(target)
			if !p.IsEmpty() {
				if p.Color == by && (p.Type == slider || p.Type == Queen) {
					return true
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return false
}
