package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/benbeisheim/solochess-backend/internal/model"
	"github.com/benbeisheim/solochess-backend/internal/ws"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateOptions describes a new game. An empty FEN means the initial position.
type CreateOptions struct {
	FEN        string `json:"fen"`
	EngineSide string `json:"engineSide"` // "white", "black" or "none"; default black
}

type CreatedGame struct {
	ID    string      `json:"game_id"`
	Name  string      `json:"name"`
	Color model.Color `json:"color"`
}

// CreateGame opens a game and seats playerID on the human side.
func (gs *GameService) CreateGame(playerID string, opts CreateOptions) (CreatedGame, error) {
	var gameOpts []model.GameOption
	if fen := strings.TrimSpace(opts.FEN); fen != "" {
		setup, err := model.ParseFEN(fen)
		if err != nil {
			return CreatedGame{}, err
		}
		gameOpts = append(gameOpts, model.WithSetup(setup))
	}
	switch strings.ToLower(opts.EngineSide) {
	case "", "black":
	case "white":
		gameOpts = append(gameOpts, model.WithEngineSide(model.White))
	case "none":
		gameOpts = append(gameOpts, model.WithoutEngine())
	default:
		return CreatedGame{}, fmt.Errorf("unknown engine side %q", opts.EngineSide)
	}

	gameID := uuid.New().String()
	gameOpts = append(gameOpts, model.WithName(petname.Generate(2, "-")))
	game, err := gs.gameManager.CreateGame(gameID, gameOpts...)
	if err != nil {
		return CreatedGame{}, fmt.Errorf("failed to create game: %w", err)
	}

	created := CreatedGame{ID: gameID, Name: game.Name}
	if playerID != "" {
		if created.Color, err = game.AddPlayer(playerID); err != nil {
			return CreatedGame{}, err
		}
	}
	log.Printf("game %s (%s) created by %s", gameID, game.Name, playerID)
	return created, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) GetFEN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.FEN(), nil
}

func (gs *GameService) Select(gameID, playerID string, pos model.Position) ([]model.Destination, error) {
	return gs.gameManager.Select(gameID, playerID, pos)
}

func (gs *GameService) Confirm(gameID, playerID string, pos model.Position) (model.Ply, error) {
	return gs.gameManager.Confirm(gameID, playerID, pos)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) (model.Ply, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) NewGame(gameID, playerID string) error {
	return gs.gameManager.NewGame(gameID, playerID)
}

func (gs *GameService) Undo(gameID, playerID string) error {
	return gs.gameManager.Undo(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// Send writes a message to one connection of a game.
func (gs *GameService) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return conn.WriteJSON(msg)
	}
	return game.Send(conn, msg)
}
