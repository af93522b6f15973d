package model

// Apply plays m on the board state. It does not check legality; callers pass
// moves produced by the generator. Turn, clocks and history live on Game.
func (bs *BoardState) Apply(m Move) {
	piece := bs.Board.At(m.From)
	captured := bs.Board.At(m.To)

	bs.Board.Clear(m.From)
	piece.HasMoved = true
	if m.Promotion || (piece.Type == Pawn && m.To.Row == lastRow(piece.Color)) {
		piece.Type = Queen
	}
	bs.Board.Set(m.To, piece)

	switch m.Castle {
	case CastleKingSide:
		bs.moveCastleRook(m.From.Row, 7, 5)
	case CastleQueenSide:
		bs.moveCastleRook(m.From.Row, 0, 3)
	}

	if m.EnPassant {
		// the captured pawn sits beside the origin, on the destination file
		bs.Board.Clear(Position{Row: m.From.Row, Col: m.To.Col})
	}

	rights := bs.Castling.For(piece.Color)
	switch piece.Type {
	case King:
		bs.setKingPosition(piece.Color, m.To)
		rights.KingSide = false
		rights.QueenSide = false
	case Rook:
		if m.From.Row == homeRow(piece.Color) {
			switch m.From.Col {
			case 0:
				rights.QueenSide = false
			case 7:
				rights.KingSide = false
			}
		}
	}
	if captured.Type == Rook && m.To.Row == homeRow(captured.Color) {
		theirs := bs.Castling.For(captured.Color)
		switch m.To.Col {
		case 0:
			theirs.QueenSide = false
		case 7:
			theirs.KingSide = false
		}
	}

	if m.DoublePush {
		bs.EnPassantTarget = &Position{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
	} else {
		bs.EnPassantTarget = nil
	}
}

func (bs *BoardState) moveCastleRook(row, fromCol, toCol int) {
	rook := bs.Board[row][fromCol]
	rook.HasMoved = true
	bs.Board[row][fromCol] = Piece{}
	bs.Board[row][toCol] = rook
}

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}
