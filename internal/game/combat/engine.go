package combat

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Engine manages all active matches, keyed by match ID.
// All methods are safe for concurrent use; each Game itself is driven by one caller.
type Engine struct {
	mu      sync.RWMutex
	matches map[string]*Game
}

// NewEngine creates an empty Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{matches: make(map[string]*Game)}
}

// StartMatch creates a new Game under id.
//
// Precondition: id must be non-empty and not already in use.
// Postcondition: Returns the new Game or an error if id is active or cfg is invalid.
func (e *Engine) StartMatch(id string, cfg config.MatchConfig, src dice.Source, logger *zap.Logger) (*Game, error) {
	if id == "" {
		return nil, fmt.Errorf("starting match: id must not be empty")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.matches[id]; exists {
		return nil, fmt.Errorf("match %q already active", id)
	}
	g, err := NewGame(id, cfg, src, logger)
	if err != nil {
		return nil, fmt.Errorf("starting match %q: %w", id, err)
	}
	e.matches[id] = g
	return g, nil
}

// Match returns the active match with id.
//
// Postcondition: Returns (game, true) if found, or (nil, false) otherwise.
func (e *Engine) Match(id string) (*Game, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.matches[id]
	return g, ok
}

// EndMatch removes the match record for id. Ending an unknown id is a no-op.
func (e *Engine) EndMatch(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.matches, id)
}

// Matches returns the IDs of all active matches in sorted order.
func (e *Engine) Matches() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.matches))
	for id := range e.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
