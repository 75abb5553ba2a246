package httpserver

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/game"
)

// liveSession is a running game and the player it belongs to.
type liveSession struct {
	runner   *game.Runner
	playerID string
}

// sessionRegistry holds the running game of every player. A player has at
// most one; starting another stops and forgets the previous one.
type sessionRegistry struct {
	mu       sync.RWMutex // guards sessions and byPlayer
	sessions map[string]*liveSession
	byPlayer map[string]string
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*liveSession),
		byPlayer: make(map[string]string),
	}
}

// add registers ls as its player's game and stops the game it replaces.
func (reg *sessionRegistry) add(ls *liveSession) {
	reg.mu.Lock()
	var old *liveSession
	if id, ok := reg.byPlayer[ls.playerID]; ok {
		old = reg.sessions[id]
		delete(reg.sessions, id)
	}
	reg.sessions[ls.runner.ID()] = ls
	reg.byPlayer[ls.playerID] = ls.runner.ID()
	reg.mu.Unlock()

	if old != nil {
		old.runner.Stop()
		log.Debug().Str("player", ls.playerID).Str("session", old.runner.ID()).Msg("replaced live session")
	}
}

// get returns the session id owned by playerID.
func (reg *sessionRegistry) get(id, playerID string) (*liveSession, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ls, ok := reg.sessions[id]
	if !ok || ls.playerID != playerID {
		return nil, false
	}
	return ls, true
}

// hasPlayer reports whether playerID has a live game.
func (reg *sessionRegistry) hasPlayer(playerID string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.byPlayer[playerID]
	return ok
}

func (reg *sessionRegistry) len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.sessions)
}

// cleanup stops and forgets sessions nobody touched since ttl ago.
func (reg *sessionRegistry) cleanup(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	var stale []*liveSession

	reg.mu.Lock()
	for id, ls := range reg.sessions {
		if ls.runner.LastAccess().Before(cutoff) {
			delete(reg.sessions, id)
			delete(reg.byPlayer, ls.playerID)
			stale = append(stale, ls)
		}
	}
	reg.mu.Unlock()

	for _, ls := range stale {
		ls.runner.Stop()
	}
	if len(stale) > 0 {
		log.Info().Int("count", len(stale)).Msg("cleaned up stale sessions")
	}
	return len(stale)
}

// stopAll stops every runner; used on shutdown.
func (reg *sessionRegistry) stopAll() {
	reg.mu.Lock()
	all := reg.sessions
	reg.sessions = make(map[string]*liveSession)
	reg.byPlayer = make(map[string]string)
	reg.mu.Unlock()
	for _, ls := range all {
		ls.runner.Stop()
	}
}
