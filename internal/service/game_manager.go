// service/game_manager.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-rules-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

type GameManager struct {
	games            map[string]*Session
	queue            *Queue
	matchingChannels map[string]chan MatchFoundEvent
	newBoard         func() *model.Board
	mu               sync.RWMutex
}

type GameManagerOption func(*GameManager)

// WithBoardFactory overrides the starting position of new games.
func WithBoardFactory(newBoard func() *model.Board) GameManagerOption {
	return func(gm *GameManager) {
		if newBoard != nil {
			gm.newBoard = newBoard
		}
	}
}

func NewGameManager(opts ...GameManagerOption) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*Session),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan MatchFoundEvent),
		newBoard:         model.NewStandardBoard,
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers starts a game for every pair of waiting players and notifies
// both through their matchmaking channels. Players who have not opened a
// matchmaking channel yet stay queued so their match is never lost.
func (gm *GameManager) matchPlayers() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	matched := 0
	for {
		first, second, ok := gm.queue.NextPair(gm.hasMatchmakingChannel)
		if !ok {
			return matched
		}

		gameID := uuid.New().String()
		session := NewSession(gameID, gm.newBoard())
		firstColor, err := session.AddPlayer(first.PlayerID)
		if err != nil {
			log.Errorf("matchmaking: adding player %s: %v", first.PlayerID, err)
			continue
		}
		secondColor, err := session.AddPlayer(second.PlayerID)
		if err != nil {
			log.Errorf("matchmaking: adding player %s: %v", second.PlayerID, err)
			continue
		}

		gm.games[gameID] = session
		gm.notifyMatch(first.PlayerID, MatchFoundEvent{GameID: gameID, Color: firstColor})
		gm.notifyMatch(second.PlayerID, MatchFoundEvent{GameID: gameID, Color: secondColor})

		log.Infof("matchmaking: game %s between %s and %s", gameID, first.PlayerID, second.PlayerID)
		matched++
	}
}

// hasMatchmakingChannel must be called with gm.mu held.
func (gm *GameManager) hasMatchmakingChannel(playerID string) bool {
	_, ok := gm.matchingChannels[playerID]
	return ok
}

// notifyMatch must be called with gm.mu held.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnf("matchmaking: no channel for player %s", playerID)
		return
	}
	select {
	case ch <- event:
	default:
		log.Warnf("matchmaking: channel for player %s is full", playerID)
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

// RegisterMatchmakingChannel returns the channel on which the player's match
// will be delivered. An older channel for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string) <-chan MatchFoundEvent {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	ch := make(chan MatchFoundEvent, 1)
	gm.matchingChannels[playerID] = ch
	return ch
}

// UnregisterMatchmakingChannel removes the player's channel and takes them out
// of the queue.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if ch, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(ch)
	}
	gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	return nil
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = NewSession(gameID, gm.newBoard())
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return session, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.State(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(from), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.SimpleMove) (model.GameState, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.MakeMove(playerID, move)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn Conn) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn Conn) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}
