package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/solochess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // websocket writes are not concurrency safe
	sendMu      sync.Mutex // held for a whole broadcast
	lastSent    uint64
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (gc *GameConnections) count() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// RegisterConnection attaches a websocket to the game. Seated players and, while
// a seat is free, spectators may connect; one connection per player ID.
func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	_, seated := g.playerColor(playerID)
	isAuthorized := seated || g.hasFreeSeat()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		return fmt.Errorf("player %s already connected", playerID)
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for player %s", g.ID, playerID)

	g.mu.Lock()
	g.broadcast()
	g.mu.Unlock()
	return nil
}

// UnregisterConnection only removes conn if it is still the registered one.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Printf("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// broadcast sends a snapshot to every connection. Callers hold g.mu, so
// sequence numbers follow the order of state changes.
func (g *Game) broadcast() {
	if g.connections.count() == 0 {
		return
	}
	g.broadcastSeq++
	state := g.snapshot()
	go g.connections.send(g.ID, g.broadcastSeq, state)
}

// advance reports whether a broadcast numbered seq is newer than anything sent
// so far, and records it. Callers hold sendMu.
func (gc *GameConnections) advance(seq uint64) bool {
	if seq <= gc.lastSent {
		return false
	}
	gc.lastSent = seq
	return true
}

func (gc *GameConnections) send(gameID string, seq uint64, state GameState) {
	gc.sendMu.Lock()
	defer gc.sendMu.Unlock()

	// A newer snapshot already went out
	if !gc.advance(seq) {
		return
	}

	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("game %s: failed to marshal state: %v", gameID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}

	gc.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(gc.connections))
	for playerID, conn := range gc.connections {
		activeConnections[playerID] = conn
	}
	gc.mu.RUnlock()

	var failed []string
	for playerID, conn := range activeConnections {
		if err := gc.write(conn, msg); err != nil {
			log.Printf("game %s: failed to send state to player %s: %v", gameID, playerID, err)
			failed = append(failed, playerID)
		}
	}
	if len(failed) == 0 {
		return
	}
	gc.mu.Lock()
	for _, playerID := range failed {
		if activeConnections[playerID] == gc.connections[playerID] {
			delete(gc.connections, playerID)
		}
	}
	gc.mu.Unlock()
}

func (gc *GameConnections) write(conn *websocket.Conn, msg ws.Message) error {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// Send writes one message to conn, serialised with the game's broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	return g.connections.write(conn, msg)
}
