package httpserver

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/progress"
	"github.com/phamduncc/find-word/internal/store"
)

type cachedProfile struct {
	profile    *progress.Profile
	lastAccess time.Time
}

// profileCache loads each player's profile once and keeps it in memory
// until it goes idle.
type profileCache struct {
	kv  store.KV
	gen *daily.Generator

	mu       sync.Mutex // guards profiles
	profiles map[string]*cachedProfile
}

func newProfileCache(kv store.KV, gen *daily.Generator) *profileCache {
	return &profileCache{kv: kv, gen: gen, profiles: make(map[string]*cachedProfile)}
}

func (pc *profileCache) get(ctx context.Context, playerID string) *progress.Profile {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if c, ok := pc.profiles[playerID]; ok {
		c.lastAccess = time.Now()
		return c.profile
	}
	p := progress.LoadProfile(ctx, pc.kv, playerID, pc.gen)
	pc.profiles[playerID] = &cachedProfile{profile: p, lastAccess: time.Now()}
	return p
}

func (pc *profileCache) len() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return len(pc.profiles)
}

// cleanup forgets profiles idle for longer than ttl. Profiles of players
// for whom inUse reports true stay, since a running game still records into
// them.
func (pc *profileCache) cleanup(ttl time.Duration, inUse func(playerID string) bool) int {
	cutoff := time.Now().Add(-ttl)
	pc.mu.Lock()
	defer pc.mu.Unlock()
	removed := 0
	for id, c := range pc.profiles {
		if c.lastAccess.Before(cutoff) && !inUse(id) {
			delete(pc.profiles, id)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("count", removed).Msg("cleaned up idle profiles")
	}
	return removed
}
