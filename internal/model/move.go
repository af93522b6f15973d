package model

type CastleSide uint8

const (
	CastleNone CastleSide = iota
	CastleKingSide
	CastleQueenSide
)

func (cs CastleSide) String() string {
	switch cs {
	case CastleKingSide:
		return "kingSide"
	case CastleQueenSide:
		return "queenSide"
	}
	return "none"
}

func (cs CastleSide) MarshalText() ([]byte, error) {
	return []byte(cs.String()), nil
}

// Move is a candidate move produced by the generator.
type Move struct {
	From       Position   `json:"from"`
	To         Position   `json:"to"`
	Capture    bool       `json:"isCapture"`
	EnPassant  bool       `json:"enPassant"`
	DoublePush bool       `json:"enPassantable"`
	Castle     CastleSide `json:"castling"`
	Promotion  bool       `json:"promotion"`
}

func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion {
		s += "q"
	}
	return s
}

// Destination is a legal target square for the current selection.
type Destination struct {
	Position Position `json:"position"`
	Capture  bool     `json:"isCapture"`
}

type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply records one executed half move.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      bool            `json:"promotion"`
	Notation       string          `json:"notation"`
}

// MovePair is one numbered line of the move history.
type MovePair struct {
	Number   int  `json:"number"`
	WhitePly Ply  `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
