package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTwoPlayerGame(t *testing.T, fen string) *Game {
	t.Helper()
	opts := []GameOption{WithoutEngine()}
	if fen != "" {
		opts = append(opts, WithSetup(mustSetup(t, fen)))
	}
	return NewGame("test", opts...)
}

func TestNewGame(t *testing.T) {
	g := NewGame("g1", WithName("brave-otter"))
	state := g.GetState()

	if g.Name != "brave-otter" {
		t.Errorf("Name = %q", g.Name)
	}
	if state.Status != "White's Turn" || state.GameOver || state.IsCheck {
		t.Errorf("status = %q over=%v check=%v", state.Status, state.GameOver, state.IsCheck)
	}
	if state.EnginePending {
		t.Error("engine plays black and should not be pending")
	}
	if state.FEN != InitialFEN {
		t.Errorf("FEN = %q", state.FEN)
	}
	if !state.Players.Black.Engine || state.Players.White.Engine {
		t.Errorf("players = %+v", state.Players)
	}
}

func TestSeating(t *testing.T) {
	g := NewGame("g")
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Fatalf("AddPlayer(alice) = %v, %v", c, err)
	}
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Errorf("re-adding alice = %v, %v", c, err)
	}
	if _, err := g.AddPlayer("bob"); !errors.Is(err, ErrGameFull) {
		t.Errorf("AddPlayer(bob) error = %v, want ErrGameFull", err)
	}

	g = NewGame("g", WithEngineSide(White))
	if side, ok := g.EngineSide(); !ok || side != White {
		t.Errorf("EngineSide = %v, %v", side, ok)
	}
	if c, err := g.AddPlayer("alice"); err != nil || c != Black {
		t.Errorf("AddPlayer against white engine = %v, %v", c, err)
	}
	if !g.GetState().EnginePending {
		t.Error("white engine should be pending at the start")
	}

	g = newTwoPlayerGame(t, "")
	if _, ok := g.EngineSide(); ok {
		t.Error("two-player game has an engine")
	}
	g.AddPlayer("alice")
	if c, err := g.AddPlayer("bob"); err != nil || c != Black {
		t.Errorf("second human = %v, %v", c, err)
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") {
		t.Error("IsPlayerInGame wrong")
	}
}

func TestSelectAndConfirm(t *testing.T) {
	g := NewGame("g")

	dests, err := g.Select(sq("e2"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"e3", "e4"}, destinationSquares(dests)); diff != "" {
		t.Errorf("destinations mismatch (-want +got):\n%s", diff)
	}
	state := g.GetState()
	if state.SelectedSquare == nil || *state.SelectedSquare != sq("e2") || len(state.LegalMoves) != 2 {
		t.Errorf("selection = %v %v", state.SelectedSquare, state.LegalMoves)
	}

	ply, err := g.ConfirmMove(sq("e4"))
	if err != nil {
		t.Fatal(err)
	}
	if ply.Notation != "e4" || ply.Piece.Type != Pawn {
		t.Errorf("ply = %+v", ply)
	}

	state = g.GetState()
	if state.ToMove != Black || !state.EnginePending {
		t.Errorf("after e4: toMove=%v pending=%v", state.ToMove, state.EnginePending)
	}
	if state.SelectedSquare != nil || len(state.LegalMoves) != 0 {
		t.Error("selection not cleared")
	}
	if state.Sound != "move" {
		t.Errorf("Sound = %q", state.Sound)
	}
	if diff := cmp.Diff(&SimpleMove{From: sq("e2"), To: sq("e4")}, state.LastMove); diff != "" {
		t.Errorf("LastMove mismatch (-want +got):\n%s", diff)
	}
	if len(state.MoveHistory) != 1 || state.MoveHistory[0].Number != 1 || state.MoveHistory[0].BlackPly != nil {
		t.Errorf("history = %+v", state.MoveHistory)
	}
	if state.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("FEN = %q", state.FEN)
	}
}

func TestSelectErrors(t *testing.T) {
	g := NewGame("g")

	if _, err := g.Select(Position{Row: -1, Col: 3}); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("off-board select error = %v", err)
	}
	dests, err := g.Select(sq("e4"))
	if err != nil || dests != nil {
		t.Errorf("empty square select = %v, %v", dests, err)
	}
	if dests, _ := g.Select(sq("e7")); dests != nil {
		t.Errorf("selecting an opponent piece returned %v", dests)
	}
	if _, err := g.ConfirmMove(sq("e4")); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("confirm without selection error = %v", err)
	}

	g.Select(sq("e2"))
	if _, err := g.ConfirmMove(sq("e5")); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("confirm to an unlisted square error = %v", err)
	}
	if _, err := g.ConfirmMove(Position{Row: 9, Col: 9}); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("confirm off board error = %v", err)
	}
	if g.GetState().ToMove != White {
		t.Error("a rejected confirm changed the turn")
	}

	play(t, g, "e2e4")
	if _, err := g.Select(sq("e7")); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("select on the engine's turn error = %v", err)
	}
	if _, err := g.MakeMove(WSMove{From: sq("e7"), To: sq("e5")}); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("move on the engine's turn error = %v", err)
	}
}

func TestMakeMoveRejectsIllegal(t *testing.T) {
	g := newTwoPlayerGame(t, "")
	if _, err := g.MakeMove(WSMove{From: sq("e2"), To: sq("e5")}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("e2e5 error = %v", err)
	}
	if _, err := g.MakeMove(WSMove{From: sq("e4"), To: sq("e5")}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("move from an empty square error = %v", err)
	}
	if _, err := g.MakeMove(WSMove{From: sq("e7"), To: sq("e5")}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("moving the opponent's piece error = %v", err)
	}
	if got := g.FEN(); got != InitialFEN {
		t.Errorf("rejected moves changed the position: %s", got)
	}
}

func TestRejectedMoveKeepsSelection(t *testing.T) {
	g := newTwoPlayerGame(t, "")
	if _, err := g.Select(sq("g1")); err != nil {
		t.Fatal(err)
	}
	want := g.GetState()

	for _, move := range []WSMove{
		{From: sq("e2"), To: sq("e5")},
		{From: sq("e4"), To: sq("e5")},
	} {
		if _, err := g.MakeMove(move); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("%v error = %v", move, err)
		}
		got := g.GetState()
		if diff := cmp.Diff(want.SelectedSquare, got.SelectedSquare); diff != "" {
			t.Errorf("%v: selected square mismatch (-want +got):\n%s", move, diff)
		}
		if diff := cmp.Diff(want.LegalMoves, got.LegalMoves); diff != "" {
			t.Errorf("%v: legal moves mismatch (-want +got):\n%s", move, diff)
		}
	}

	if _, err := g.ConfirmMove(sq("f3")); err != nil {
		t.Fatalf("confirming the kept selection: %v", err)
	}
}

func TestEngineMoves(t *testing.T) {
	g := NewGame("g")
	if _, _, _, ok := g.EngineTurn(); ok {
		t.Fatal("EngineTurn offered on white's turn")
	}
	play(t, g, "e2e4")

	bs, side, version, ok := g.EngineTurn()
	if !ok || side != Black {
		t.Fatalf("EngineTurn = %v %v", side, ok)
	}
	bs.Board.Clear(sq("e8"))
	if st := g.GetState(); st.Board.Board.At(sq("e8")).IsEmpty() {
		t.Fatal("EngineTurn leaked the live board")
	}

	if _, err := g.ApplyEngineMove(version, Move{From: sq("e7"), To: sq("e4")}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("illegal engine move error = %v", err)
	}
	if _, err := g.ApplyEngineMove(version, Move{From: sq("d2"), To: sq("d4")}); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("engine moving a white piece error = %v", err)
	}
	if _, err := g.ApplyEngineMove(version+1, Move{From: sq("e7"), To: sq("e5")}); !errors.Is(err, ErrStaleMove) {
		t.Errorf("future version error = %v", err)
	}

	ply, err := g.ApplyEngineMove(version, Move{From: sq("e7"), To: sq("e5")})
	if err != nil {
		t.Fatal(err)
	}
	if ply.Notation != "e5" {
		t.Errorf("notation = %q", ply.Notation)
	}
	if _, err := g.ApplyEngineMove(version, Move{From: sq("d7"), To: sq("d5")}); !errors.Is(err, ErrStaleMove) {
		t.Errorf("replayed version error = %v", err)
	}

	state := g.GetState()
	if state.FullMoveNumber != 2 || state.ToMove != White || state.EnginePending {
		t.Errorf("after reply: move=%d toMove=%v pending=%v", state.FullMoveNumber, state.ToMove, state.EnginePending)
	}
	if bp := state.MoveHistory[0].BlackPly; bp == nil || bp.Notation != "e5" {
		t.Errorf("history = %+v", state.MoveHistory)
	}
}

func TestStaleAfterReset(t *testing.T) {
	g := NewGame("g", WithEngineSide(White))
	_, _, version, ok := g.EngineTurn()
	if !ok {
		t.Fatal("white engine should be to move")
	}
	g.Reset()
	if _, err := g.ApplyEngineMove(version, Move{From: sq("e2"), To: sq("e4")}); !errors.Is(err, ErrStaleMove) {
		t.Errorf("move computed before Reset error = %v", err)
	}
}

func TestNotation(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  []string
	}{
		{"pawn and knight", "", []string{"e2e4", "g8f6", "g1f3"}, []string{"e4", "Nf6", "Nf3"}},
		{"pawn capture", "", []string{"e2e4", "d7d5", "e4d5", "d8d5"}, []string{"e4", "d5", "exd5", "Qxd5"}},
		{"castling", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1g1", "e8c8"}, []string{"O-O", "O-O-O"}},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", []string{"e5d6"}, []string{"exd6 e.p."}},
		{"promotion", "8/P7/8/8/8/8/8/k3K3 w - - 0 1", []string{"a7a8"}, []string{"a8=Q"}},
		{"promotion capture", "1r6/P7/8/8/8/8/8/k3K3 w - - 0 1", []string{"a7b8"}, []string{"axb8=Q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTwoPlayerGame(t, tt.fen)
			var got []string
			for _, ply := range play(t, g, tt.moves...) {
				got = append(got, ply.Notation)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("notation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCaptureRecordsPiece(t *testing.T) {
	g := newTwoPlayerGame(t, "")
	plies := play(t, g, "e2e4", "d7d5", "e4d5")
	captured := plies[2].CapturedPiece
	if captured == nil || !captured.Is(Pawn, Black) {
		t.Errorf("CapturedPiece = %+v", captured)
	}
	if g.GetState().Sound != "capture" {
		t.Errorf("Sound = %q", g.GetState().Sound)
	}

	g = newTwoPlayerGame(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	ply := play(t, g, "e1g1")[0]
	if diff := cmp.Diff(&CastleRookMove{From: sq("h1"), To: sq("f1")}, ply.CastleRookMove); diff != "" {
		t.Errorf("CastleRookMove mismatch (-want +got):\n%s", diff)
	}
}

func TestHalfMoveClock(t *testing.T) {
	g := newTwoPlayerGame(t, "")
	steps := []struct {
		move string
		want int
	}{
		{"g1f3", 1},
		{"g8f6", 2},
		{"e2e4", 0},
		{"b8c6", 1},
		{"f3e5", 2},
		{"c6e5", 0},
	}
	for _, s := range steps {
		play(t, g, s.move)
		if got := g.GetState().HalfMoveClock; got != s.want {
			t.Errorf("after %s HalfMoveClock = %d, want %d", s.move, got, s.want)
		}
	}
}

func TestHistoryWhenBlackMovesFirst(t *testing.T) {
	g := newTwoPlayerGame(t, "4k3/4p3/8/8/8/8/4P3/4K3 b - - 0 1")
	play(t, g, "e7e6", "e2e4")
	history := g.GetState().MoveHistory
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].WhitePly.Notation != "..." || history[0].BlackPly == nil || history[0].BlackPly.Notation != "e6" {
		t.Errorf("first pair = %+v", history[0])
	}
	if history[1].Number != 2 || history[1].WhitePly.Notation != "e4" {
		t.Errorf("second pair = %+v", history[1])
	}
}

func TestGameEndings(t *testing.T) {
	white, black := White, Black
	tests := []struct {
		name       string
		fen        string
		moves      []string
		wantResult Result
		wantWinner *Color
		wantStatus string
		wantCheck  bool
	}{
		{
			name:       "fool's mate",
			moves:      []string{"f2f3", "e7e5", "g2g4", "d8h4"},
			wantResult: Checkmate,
			wantWinner: &black,
			wantStatus: "Checkmate! Black wins",
			wantCheck:  true,
		},
		{
			name:       "back rank mate",
			fen:        "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
			moves:      []string{"a1a8"},
			wantResult: Checkmate,
			wantWinner: &white,
			wantStatus: "Checkmate! White wins",
			wantCheck:  true,
		},
		{
			name:       "stalemate",
			fen:        "7k/8/8/6Q1/8/8/8/K7 w - - 0 1",
			moves:      []string{"g5g6"},
			wantResult: Stalemate,
			wantStatus: "Stalemate! Game drawn",
		},
		{
			name:       "fifty moves",
			fen:        "4k3/8/8/8/8/8/8/R3K3 w - - 49 40",
			moves:      []string{"a1a2"},
			wantResult: FiftyMoveDraw,
			wantStatus: "Draw by 50-move rule",
		},
		{
			// the draw rules run after mate detection and take precedence
			name:       "fifty moves overrides mate",
			fen:        "6k1/5ppp/8/8/8/8/8/R5K1 w - - 49 60",
			moves:      []string{"a1a8"},
			wantResult: FiftyMoveDraw,
			wantStatus: "Draw by 50-move rule",
			wantCheck:  true,
		},
		{
			name:       "insufficient material after capture",
			fen:        "4k3/8/8/8/8/8/3r4/2B1K3 w - - 0 1",
			moves:      []string{"c1d2"},
			wantResult: InsufficientMaterialDraw,
			wantStatus: "Draw by insufficient material",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTwoPlayerGame(t, tt.fen)
			play(t, g, tt.moves...)
			state := g.GetState()
			if !state.GameOver {
				t.Fatalf("game not over: %q", state.Status)
			}
			if state.Result != tt.wantResult || state.Status != tt.wantStatus || state.IsCheck != tt.wantCheck {
				t.Errorf("got %v %q check=%v, want %v %q check=%v",
					state.Result, state.Status, state.IsCheck, tt.wantResult, tt.wantStatus, tt.wantCheck)
			}
			if diff := cmp.Diff(tt.wantWinner, state.Winner); diff != "" {
				t.Errorf("winner mismatch (-want +got):\n%s", diff)
			}
			if _, err := g.Select(sq("e1")); !errors.Is(err, ErrGameOver) {
				t.Errorf("select after the end error = %v", err)
			}
		})
	}
}

func TestCheckStatus(t *testing.T) {
	g := newTwoPlayerGame(t, "")
	play(t, g, "e2e4", "f7f6", "d1h5")
	state := g.GetState()
	if !state.IsCheck || state.Status != "Black's Turn (Check!)" || state.Sound != "check" {
		t.Errorf("check state = %v %q %q", state.IsCheck, state.Status, state.Sound)
	}
	if state.GameOver {
		t.Error("a plain check ended the game")
	}
}

func TestUndo(t *testing.T) {
	g := NewGame("g")
	g.AddPlayer("alice")
	if err := g.Undo(); !errors.Is(err, ErrUndoUnavailable) {
		t.Errorf("undo with no history error = %v", err)
	}

	play(t, g, "e2e4")
	if err := g.Undo(); !errors.Is(err, ErrUndoUnavailable) {
		t.Errorf("undo with the engine to move error = %v", err)
	}

	_, _, version, _ := g.EngineTurn()
	if _, err := g.ApplyEngineMove(version, Move{From: sq("e7"), To: sq("e5")}); err != nil {
		t.Fatal(err)
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("undo on the human's turn: %v", err)
	}

	state := g.GetState()
	if state.FEN != InitialFEN || len(state.MoveHistory) != 0 || state.LastMove != nil {
		t.Errorf("undo did not restart: %q %d", state.FEN, len(state.MoveHistory))
	}
	if c, ok := g.PlayerColor("alice"); !ok || c != White {
		t.Errorf("undo lost the seat: %v %v", c, ok)
	}
}

func TestUndoAfterMatingTheEngine(t *testing.T) {
	g := NewGame("g", WithSetup(mustSetup(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")))
	play(t, g, "a1a8")
	if err := g.Undo(); err != nil {
		t.Errorf("undo after the game ended: %v", err)
	}
}

func TestGetStateIsACopy(t *testing.T) {
	g := newTwoPlayerGame(t, "")
	play(t, g, "e2e4")
	state := g.GetState()
	state.Board.Board.Clear(sq("e4"))
	state.MoveHistory[0].WhitePly.Notation = "changed"

	fresh := g.GetState()
	if fresh.Board.Board.At(sq("e4")).IsEmpty() || fresh.MoveHistory[0].WhitePly.Notation != "e4" {
		t.Error("mutating a snapshot changed the game")
	}
}
