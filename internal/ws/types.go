package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeSelect    MessageType = "select"
	MessageTypeConfirm   MessageType = "confirm"
	MessageTypeMove      MessageType = "move"
	MessageTypeNewGame   MessageType = "newGame"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is the body of a MessageTypeError message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewErrorMessage wraps errMsg as a JSON error message.
func NewErrorMessage(errMsg string) Message {
	payload, _ := json.Marshal(ErrorPayload{Error: errMsg})
	return Message{Type: MessageTypeError, Payload: payload}
}
