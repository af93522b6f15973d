// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/solochess-backend/internal/engine"
	"github.com/benbeisheim/solochess-backend/internal/model"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrNotAPlayer   = errors.New("player is not seated in this game")
	ErrNoEngineMove = errors.New("no automated move to play")
)

type GameManager struct {
	games       map[string]*model.Game
	mu          sync.RWMutex
	engineDepth int
	engineDelay time.Duration
	autoReply   bool
}

type ManagerOption func(*GameManager)

// WithEngine sets the search depth and the pause before automated replies.
func WithEngine(depth int, delay time.Duration) ManagerOption {
	return func(gm *GameManager) {
		gm.engineDepth = depth
		gm.engineDelay = delay
	}
}

// WithoutAutoReply leaves automated moves to explicit PlayEngineMove calls.
func WithoutAutoReply() ManagerOption {
	return func(gm *GameManager) {
		gm.autoReply = false
	}
}

func NewGameManager(opts ...ManagerOption) *GameManager {
	gm := &GameManager{
		games:       make(map[string]*model.Game),
		engineDepth: engine.DefaultDepth,
		engineDelay: 500 * time.Millisecond,
		autoReply:   true,
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

func (gm *GameManager) CreateGame(gameID string, opts ...model.GameOption) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	game := model.NewGame(gameID, opts...)
	gm.games[gameID] = game
	gm.scheduleEngine(game)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}

	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// seatedGame returns the game after making sure playerID holds a seat, taking
// a free one if needed.
func (gm *GameManager) seatedGame(gameID, playerID string) (*model.Game, model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, model.White, err
	}
	color, ok := game.PlayerColor(playerID)
	if !ok {
		if color, err = game.AddPlayer(playerID); err != nil {
			return nil, model.White, fmt.Errorf("%s: %w", playerID, ErrNotAPlayer)
		}
	}
	return game, color, nil
}

// playingGame is seatedGame plus a turn check for the player's seat.
func (gm *GameManager) playingGame(gameID, playerID string) (*model.Game, error) {
	game, color, err := gm.seatedGame(gameID, playerID)
	if err != nil {
		return nil, err
	}
	if game.ToMove() != color {
		return nil, model.ErrNotYourTurn
	}
	return game, nil
}

func (gm *GameManager) Select(gameID, playerID string, pos model.Position) ([]model.Destination, error) {
	game, err := gm.playingGame(gameID, playerID)
	if err != nil {
		return nil, err
	}
	return game.Select(pos)
}

func (gm *GameManager) Confirm(gameID, playerID string, pos model.Position) (model.Ply, error) {
	game, err := gm.playingGame(gameID, playerID)
	if err != nil {
		return model.Ply{}, err
	}
	ply, err := game.ConfirmMove(pos)
	if err != nil {
		return model.Ply{}, err
	}
	gm.scheduleEngine(game)
	return ply, nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) (model.Ply, error) {
	game, err := gm.playingGame(gameID, playerID)
	if err != nil {
		return model.Ply{}, err
	}
	ply, err := game.MakeMove(move)
	if err != nil {
		return model.Ply{}, err
	}
	gm.scheduleEngine(game)
	return ply, nil
}

func (gm *GameManager) NewGame(gameID, playerID string) error {
	game, _, err := gm.seatedGame(gameID, playerID)
	if err != nil {
		return err
	}
	game.Reset()
	gm.scheduleEngine(game)
	return nil
}

func (gm *GameManager) Undo(gameID, playerID string) error {
	game, _, err := gm.seatedGame(gameID, playerID)
	if err != nil {
		return err
	}
	if err := game.Undo(); err != nil {
		return err
	}
	gm.scheduleEngine(game)
	return nil
}

// scheduleEngine starts the automated reply timer when the engine is to move.
func (gm *GameManager) scheduleEngine(game *model.Game) {
	if !gm.autoReply {
		return
	}
	if state := game.GetState(); !state.EnginePending {
		return
	}
	gameID := game.ID
	time.AfterFunc(gm.engineDelay, func() {
		if _, err := gm.PlayEngineMove(gameID); err != nil && !errors.Is(err, model.ErrStaleMove) {
			log.Printf("game %s: engine move failed: %v", gameID, err)
		}
	})
}

// PlayEngineMove searches the current position and plays the automated side's
// move. The search runs without holding the game lock.
func (gm *GameManager) PlayEngineMove(gameID string) (model.Ply, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Ply{}, err
	}
	bs, side, version, ok := game.EngineTurn()
	if !ok {
		return model.Ply{}, ErrNoEngineMove
	}

	searcher := engine.NewSearcher(gm.engineDepth, side)
	start := time.Now()
	move, value, found := searcher.FindBestMove(bs)
	if !found {
		return model.Ply{}, ErrNoEngineMove
	}
	ply, err := game.ApplyEngineMove(version, move)
	if err != nil {
		return model.Ply{}, err
	}
	log.Printf("game %s: engine played %s (value %.1f, %d nodes, %s)",
		gameID, ply.Notation, value, searcher.Stats.Nodes, time.Since(start).Round(time.Millisecond))
	return ply, nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
