package model

import (
	"fmt"
	"sync"
)

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID            string
	Name          string
	mu            sync.Mutex
	state         GameState
	selectedMoves []Move
	engineSide    *Color
	version       uint64
	broadcastSeq  uint64
	connections   *GameConnections // Connections just for this game
	whiteClock    *Clock
	blackClock    *Clock
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the authoritative state of one game plus the UI-facing selection.
type GameState struct {
	Board          BoardState    `json:"boardState"`
	ToMove         Color         `json:"toMove"`
	HalfMoveClock  int           `json:"halfMoveClock"`
	FullMoveNumber int           `json:"fullMoveNumber"`
	IsCheck        bool          `json:"isCheck"`
	GameOver       bool          `json:"gameOver"`
	Result         Result        `json:"result"`
	Winner         *Color        `json:"winner"`
	Status         string        `json:"status"`
	MoveHistory    []MovePair    `json:"moveHistory"`
	Sound          string        `json:"sound"`
	SelectedSquare *Position     `json:"selectedSquare"`
	LegalMoves     []Destination `json:"legalMoves"`
	LastMove       *SimpleMove   `json:"lastMove"`
	EnginePending  bool          `json:"enginePending"`
	Players        Players       `json:"players"`
	FEN            string        `json:"fen"`
}

type GameOption func(*Game)

// WithEngineSide hands color to the automated opponent. Black is the default.
func WithEngineSide(c Color) GameOption {
	return func(g *Game) {
		g.engineSide = &c
	}
}

// WithoutEngine makes both seats human.
func WithoutEngine() GameOption {
	return func(g *Game) {
		g.engineSide = nil
	}
}

// WithName gives the game a human-readable name.
func WithName(name string) GameOption {
	return func(g *Game) {
		g.Name = name
	}
}

// WithSetup starts the game from a custom position instead of the initial one.
func WithSetup(setup Setup) GameOption {
	return func(g *Game) {
		g.state = newGameStateFrom(setup)
	}
}

func NewGame(id string, opts ...GameOption) *Game {
	black := Black
	g := &Game{
		ID:          id,
		state:       newGameState(),
		engineSide:  &black,
		connections: NewGameConnections(),
		whiteClock:  NewClock(),
		blackClock:  NewClock(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.state.Players = g.emptySeats()
	g.afterPositionChange()
	return g
}

func newGameState() GameState {
	return newGameStateFrom(Setup{Board: NewBoardState(), ToMove: White, FullMoveNumber: 1})
}

func newGameStateFrom(setup Setup) GameState {
	return GameState{
		Board:          setup.Board.Clone(),
		ToMove:         setup.ToMove,
		HalfMoveClock:  setup.HalfMoveClock,
		FullMoveNumber: setup.FullMoveNumber,
		MoveHistory:    make([]MovePair, 0),
		LegalMoves:     make([]Destination, 0),
	}
}

func (g *Game) emptySeats() Players {
	seats := Players{
		White: ClientPlayer{Color: White},
		Black: ClientPlayer{Color: Black},
	}
	if g.engineSide != nil {
		seat := g.seat(&seats, *g.engineSide)
		seat.Engine = true
		seat.ID = "engine"
	}
	return seats
}

func (g *Game) seat(p *Players, c Color) *ClientPlayer {
	if c == Black {
		return &p.Black
	}
	return &p.White
}

// afterPositionChange re-derives status and restarts the clock of the side to move.
func (g *Game) afterPositionChange() {
	g.updateGameStatus()
	g.state.EnginePending = g.isEngineTurn() && !g.state.GameOver
	if !g.state.GameOver {
		g.clockFor(g.state.ToMove).Start()
	}
}

// AddPlayer seats a human on the first free non-engine seat.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.playerColor(playerID); ok {
		return c, nil
	}
	for _, c := range [2]Color{White, Black} {
		seat := g.seat(&g.state.Players, c)
		if seat.Engine || seat.ID != "" {
			continue
		}
		seat.ID = playerID
		return c, nil
	}
	return White, ErrGameFull
}

// PlayerColor returns the seat of playerID, if seated.
func (g *Game) PlayerColor(playerID string) (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerColor(playerID)
}

func (g *Game) playerColor(playerID string) (Color, bool) {
	if playerID == "" {
		return White, false
	}
	for _, c := range [2]Color{White, Black} {
		seat := g.seat(&g.state.Players, c)
		if !seat.Engine && seat.ID == playerID {
			return c, true
		}
	}
	return White, false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	_, ok := g.PlayerColor(playerID)
	return ok
}

func (g *Game) hasFreeSeat() bool {
	for _, c := range [2]Color{White, Black} {
		seat := g.seat(&g.state.Players, c)
		if !seat.Engine && seat.ID == "" {
			return true
		}
	}
	return false
}

// EngineSide reports which color the automated opponent plays, if any.
func (g *Game) EngineSide() (Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.engineSide == nil {
		return White, false
	}
	return *g.engineSide, true
}

// ToMove returns the color whose turn it is.
func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.ToMove
}

func (g *Game) isEngineTurn() bool {
	return g.engineSide != nil && *g.engineSide == g.state.ToMove
}

func (g *Game) clockFor(c Color) *Clock {
	if c == Black {
		return g.blackClock
	}
	return g.whiteClock
}

// GetState returns a snapshot that shares nothing with the live game.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	s := g.state
	s.Board = g.state.Board.Clone()
	s.MoveHistory = append(make([]MovePair, 0, len(g.state.MoveHistory)), g.state.MoveHistory...)
	s.LegalMoves = append(make([]Destination, 0, len(g.state.LegalMoves)), g.state.LegalMoves...)
	if g.state.SelectedSquare != nil {
		sel := *g.state.SelectedSquare
		s.SelectedSquare = &sel
	}
	s.Players.White.TimeUsed = g.whiteClock.Elapsed().Milliseconds()
	s.Players.Black.TimeUsed = g.blackClock.Elapsed().Milliseconds()
	s.FEN = g.fen()
	return s
}

// FEN returns the current position in Forsyth-Edwards Notation.
func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fen()
}

func (g *Game) fen() string {
	return FormatFEN(&g.state.Board, g.state.ToMove, g.state.HalfMoveClock, g.state.FullMoveNumber)
}

// Select picks the square a human wants to move from. An own piece of the side
// to move yields its legal destinations; any other square clears the selection.
func (g *Game) Select(pos Position) ([]Destination, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHumanTurn(pos); err != nil {
		return nil, err
	}
	destinations := g.selectSquare(pos)
	// Websocket clients learn the selection from the broadcast
	g.broadcast()
	return destinations, nil
}

func (g *Game) selectSquare(pos Position) []Destination {
	piece := g.state.Board.Board.At(pos)
	if piece.IsEmpty() || piece.Color != g.state.ToMove {
		g.clearSelection()
		return nil
	}
	moves := LegalMoves(&g.state.Board, pos)
	destinations := make([]Destination, 0, len(moves))
	for _, m := range moves {
		destinations = append(destinations, Destination{Position: m.To, Capture: m.Capture})
	}
	g.state.SelectedSquare = &pos
	g.selectedMoves = moves
	g.state.LegalMoves = destinations
	return append([]Destination(nil), destinations...)
}

func (g *Game) clearSelection() {
	g.state.SelectedSquare = nil
	g.selectedMoves = nil
	g.state.LegalMoves = make([]Destination, 0)
}

func (g *Game) checkHumanTurn(pos Position) error {
	if !pos.InBounds() {
		return fmt.Errorf("%d,%d: %w", pos.Row, pos.Col, ErrInvalidSquare)
	}
	if g.state.GameOver {
		return ErrGameOver
	}
	if g.isEngineTurn() {
		return ErrNotYourTurn
	}
	return nil
}

// ConfirmMove plays the selected piece to pos, which must be one of the
// destinations returned by the last Select.
func (g *Game) ConfirmMove(pos Position) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHumanTurn(pos); err != nil {
		return Ply{}, err
	}
	return g.confirm(pos)
}

func (g *Game) confirm(pos Position) (Ply, error) {
	if g.state.SelectedSquare == nil {
		return Ply{}, fmt.Errorf("no square selected: %w", ErrIllegalMove)
	}
	for _, m := range g.selectedMoves {
		if m.To == pos {
			return g.executeMove(m), nil
		}
	}
	return Ply{}, fmt.Errorf("%s to %s: %w", g.state.SelectedSquare, pos, ErrIllegalMove)
}

// MakeMove selects move.From and confirms move.To in one step. A rejected move
// leaves the previous selection in place.
func (g *Game) MakeMove(move WSMove) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHumanTurn(move.From); err != nil {
		return Ply{}, err
	}
	if !move.To.InBounds() {
		return Ply{}, fmt.Errorf("%d,%d: %w", move.To.Row, move.To.Col, ErrInvalidSquare)
	}
	selected, selectedMoves, legalMoves := g.state.SelectedSquare, g.selectedMoves, g.state.LegalMoves
	restore := func() {
		g.state.SelectedSquare, g.selectedMoves, g.state.LegalMoves = selected, selectedMoves, legalMoves
	}

	g.selectSquare(move.From)
	if g.state.SelectedSquare == nil {
		restore()
		return Ply{}, fmt.Errorf("no piece of the side to move on %s: %w", move.From, ErrIllegalMove)
	}
	ply, err := g.confirm(move.To)
	if err != nil {
		restore()
		return Ply{}, err
	}
	return ply, nil
}

// EngineTurn hands out a private copy of the position when the automated side
// is to move, with the version ApplyEngineMove expects back.
func (g *Game) EngineTurn() (BoardState, Color, uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.GameOver || !g.isEngineTurn() {
		return BoardState{}, White, 0, false
	}
	return g.state.Board.Clone(), g.state.ToMove, g.version, true
}

// ApplyEngineMove plays a move chosen by the automated side. The move must be
// legal in the position identified by version.
func (g *Game) ApplyEngineMove(version uint64, m Move) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if version != g.version {
		return Ply{}, ErrStaleMove
	}
	if g.state.GameOver {
		return Ply{}, ErrGameOver
	}
	if !g.isEngineTurn() {
		return Ply{}, ErrNotYourTurn
	}
	if !m.From.InBounds() || !m.To.InBounds() {
		return Ply{}, fmt.Errorf("%s: %w", m, ErrInvalidSquare)
	}
	if g.state.Board.Board.At(m.From).Color != g.state.ToMove {
		return Ply{}, fmt.Errorf("%s: %w", m, ErrIllegalMove)
	}
	legal, ok := FindLegalMove(&g.state.Board, m.From, m.To)
	if !ok {
		return Ply{}, fmt.Errorf("%s: %w", m, ErrIllegalMove)
	}
	return g.executeMove(legal), nil
}

// executeMove applies a generated legal move and runs the status update.
func (g *Game) executeMove(m Move) Ply {
	mover := g.state.ToMove
	piece := g.state.Board.Board.At(m.From)
	ply := g.makePly(m)

	g.state.Sound = "move"
	if ply.CapturedPiece != nil {
		g.state.Sound = "capture"
	}

	g.state.Board.Apply(m)

	if piece.Type == Pawn || ply.CapturedPiece != nil {
		g.state.HalfMoveClock = 0
	} else {
		g.state.HalfMoveClock++
	}

	// Add the ply to the move history
	if mover == White {
		g.state.MoveHistory = append(g.state.MoveHistory, MovePair{
			Number:   g.state.FullMoveNumber,
			WhitePly: ply,
		})
	} else {
		lastIdx := len(g.state.MoveHistory) - 1
		if lastIdx < 0 || g.state.MoveHistory[lastIdx].BlackPly != nil {
			// the game started with black to move
			g.state.MoveHistory = append(g.state.MoveHistory, MovePair{
				Number:   g.state.FullMoveNumber,
				WhitePly: Ply{Notation: "..."},
			})
			lastIdx++
		}
		blackPly := ply
		g.state.MoveHistory[lastIdx].BlackPly = &blackPly
		g.state.FullMoveNumber++
	}

	g.clockFor(mover).Stop()
	g.state.ToMove = mover.Opponent()
	g.clearSelection()
	g.state.LastMove = &SimpleMove{From: m.From, To: m.To}
	g.version++

	g.afterPositionChange()
	if g.state.IsCheck {
		g.state.Sound = "check"
	}

	g.broadcast()
	return ply
}

func (g *Game) makePly(m Move) Ply {
	ply := Ply{
		Piece:     g.state.Board.Board.At(m.From),
		From:      m.From,
		To:        m.To,
		Promotion: m.Promotion,
		Notation:  g.getNotation(m),
	}
	if captured := g.state.Board.Board.At(m.To); !captured.IsEmpty() {
		ply.CapturedPiece = &captured
	}
	if m.EnPassant {
		captured := g.state.Board.Board.At(Position{Row: m.From.Row, Col: m.To.Col})
		ply.CapturedPiece = &captured
	}
	switch m.Castle {
	case CastleKingSide:
		ply.CastleRookMove = &CastleRookMove{From: Position{Row: m.From.Row, Col: 7}, To: Position{Row: m.From.Row, Col: 5}}
	case CastleQueenSide:
		ply.CastleRookMove = &CastleRookMove{From: Position{Row: m.From.Row, Col: 0}, To: Position{Row: m.From.Row, Col: 3}}
	}
	return ply
}

func (g *Game) getNotation(m Move) string {
	switch m.Castle {
	case CastleKingSide:
		return "O-O"
	case CastleQueenSide:
		return "O-O-O"
	}
	piece := g.state.Board.Board.At(m.From)
	if m.EnPassant {
		return fmt.Sprintf("%sx%s e.p.", m.From.getFileNotation(), m.To.getSquareNotation())
	}
	notation := piece.Type.getPieceNotation()
	if !g.state.Board.Board.At(m.To).IsEmpty() {
		if piece.Type == Pawn {
			notation += m.From.getFileNotation()
		}
		notation += "x"
	}
	notation += m.To.getSquareNotation()
	if m.Promotion {
		notation += "=Q"
	}
	return notation
}

// Reset discards the game and starts again from the initial position.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *Game) reset() {
	players := g.state.Players
	g.state = newGameState()
	g.state.Players = players
	g.selectedMoves = nil
	g.whiteClock.Reset()
	g.blackClock.Reset()
	g.version++
	g.afterPositionChange()
	g.broadcast()
}

// Undo has no move stack behind it: when allowed it restarts the game. It is
// refused before any move and while the automated side is to move.
func (g *Game) Undo() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.state.MoveHistory) == 0 {
		return fmt.Errorf("no moves played: %w", ErrUndoUnavailable)
	}
	if g.state.EnginePending {
		return fmt.Errorf("automated move pending: %w", ErrUndoUnavailable)
	}
	g.reset()
	return nil
}
