package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/benbeisheim/solochess-backend/internal/model"
	"github.com/benbeisheim/solochess-backend/internal/service"
	"github.com/benbeisheim/solochess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	// Extract game ID and player ID from context
	gameID, _ := c.Locals("wsGameID").(string)
	if gameID == "" {
		gameID = c.Params("gameId")
	}
	playerID, _ := c.Locals("wsPlayerID").(string)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("game %s: failed to register connection: %v", gameID, err)
		c.WriteJSON(ws.NewErrorMessage(err.Error()))
		c.Close()
		return
	}
	// Clean up when connection closes
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("game %s: read error: %v", gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("game %s: parse error: %v", gameID, err)
			wsc.sendError(gameID, c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(gameID, c, err.Error())
		}
	}
}

// Handle different types of incoming messages. State changes, selections
// included, reach the client through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return err
		}
		_, err := wsc.gameService.Select(gameID, playerID, pos)
		return err
	case ws.MessageTypeConfirm:
		var pos model.Position
		if err := json.Unmarshal(msg.Payload, &pos); err != nil {
			return err
		}
		_, err := wsc.gameService.Confirm(gameID, playerID, pos)
		return err
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err
	case ws.MessageTypeNewGame:
		return wsc.gameService.NewGame(gameID, playerID)
	case ws.MessageTypeUndo:
		return wsc.gameService.Undo(gameID, playerID)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, errorMsg string) {
	if err := wsc.gameService.Send(gameID, c, ws.NewErrorMessage(errorMsg)); err != nil {
		log.Printf("game %s: failed to send error: %v", gameID, err)
	}
}
