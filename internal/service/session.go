package service

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-rules-backend/internal/model"
	"github.com/benbeisheim/chess-rules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// Conn is the part of a websocket connection a session writes to. A session
// never writes to one Conn from two goroutines, but callers that also write to
// it outside the session must serialize those writes, see ws.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// connections for a specific game, keyed by player ID
type connections struct {
	conns map[string]Conn
	mu    sync.RWMutex
}

// Session pairs one rules engine game with its players and observers. The
// game itself is not safe for concurrent use, so every call into it holds mu.
// sendMu is taken before mu is released so states go out in move order; it is
// never acquired before mu.
type Session struct {
	ID          string
	mu          sync.Mutex
	sendMu      sync.Mutex
	game        *model.Game
	white       string
	black       string
	connections *connections
}

func NewSession(id string, board *model.Board) *Session {
	return &Session{
		ID:   id,
		game: model.NewGame(board),
		connections: &connections{
			conns: make(map[string]Conn),
		},
	}
}

// AddPlayer seats the player, white first. Rejoining returns the seat the
// player already holds.
func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch playerID {
	case s.white:
		return model.White, nil
	case s.black:
		return model.Black, nil
	}
	if s.white == "" {
		s.white = playerID
		return model.White, nil
	}
	if s.black == "" {
		s.black = playerID
		return model.Black, nil
	}
	return "", ErrGameFull
}

func (s *Session) Players() (white, black string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.white, s.black
}

func (s *Session) colorOf(playerID string) (model.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case playerID == s.white:
		return model.White, true
	case playerID == s.black:
		return model.Black, true
	}
	return "", false
}

func (s *Session) canSpectate() bool {
	return s.white == "" || s.black == ""
}

func (s *Session) State() model.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State()
}

func (s *Session) LegalMoves(from model.Position) []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(from)
}

// MakeMove plays move for playerID and broadcasts the resulting state.
func (s *Session) MakeMove(playerID string, move model.SimpleMove) (model.GameState, error) {
	s.mu.Lock()
	color, seated := s.colorOf(playerID)
	if !seated {
		s.mu.Unlock()
		return model.GameState{}, ErrNotInGame
	}
	if color != s.game.CurrentTurn() {
		s.mu.Unlock()
		return model.GameState{}, ErrNotYourTurn
	}
	if !s.game.MakeMove(move.From, move.To) {
		s.mu.Unlock()
		return model.GameState{}, fmt.Errorf("%s to %s: %w", move.From, move.To, ErrIllegalMove)
	}
	state := s.game.State()
	s.sendMu.Lock()
	s.mu.Unlock()
	defer s.sendMu.Unlock()

	log.Debugf("game %s: %s moved %s to %s", s.ID, color, move.From, move.To)
	s.broadcast(state)
	return state, nil
}

func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	s.mu.Lock()
	_, seated := s.colorOf(playerID)
	authorized := seated || s.canSpectate()
	if !authorized {
		s.mu.Unlock()
		return ErrNotAuthorized
	}
	state := s.game.State()
	s.sendMu.Lock()
	s.mu.Unlock()
	defer s.sendMu.Unlock()

	s.connections.mu.Lock()
	if _, exists := s.connections.conns[playerID]; exists {
		s.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.connections.conns[playerID] = conn
	s.connections.mu.Unlock()
	log.Infof("game %s: registered connection for player %s", s.ID, playerID)

	s.send(playerID, conn, state)
	return nil
}

// UnregisterConnection drops the player's connection if conn is still the
// one registered.
func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.conns[playerID]; exists && current == conn {
		delete(s.connections.conns, playerID)
		log.Infof("game %s: unregistered connection for player %s", s.ID, playerID)
	}
}

// broadcast and send must be called with sendMu held.
func (s *Session) broadcast(state model.GameState) {
	s.connections.mu.RLock()
	active := make(map[string]Conn, len(s.connections.conns))
	for playerID, conn := range s.connections.conns {
		active[playerID] = conn
	}
	s.connections.mu.RUnlock()

	for playerID, conn := range active {
		s.send(playerID, conn, state)
	}
}

func (s *Session) send(playerID string, conn Conn, state model.GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("game %s: failed to encode state: %v", s.ID, err)
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Warnf("game %s: failed to send state to player %s: %v", s.ID, playerID, err)
		s.UnregisterConnection(playerID, conn)
	}
}
