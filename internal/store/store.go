// internal/store/store.go
//
// Key-value blob persistence for player progress.
//
// Every tracker in internal/progress serializes itself to one JSON blob and
// reads it back through KV. Two backends exist:
//   - memory: map + RWMutex, lost on restart (tests, DB-less runs).
//   - sqlite: the kv table created by the embedded migrations.
//
// Writes issued during gameplay go through AsyncWriter so a slow disk never
// stalls a session.

package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when no blob is stored under the key.
var ErrNotFound = errors.New("not found")

// KV loads and saves opaque blobs by key.
type KV interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores blob under key, replacing any previous value.
	Save(ctx context.Context, key string, blob []byte) error
}

// Section names the per-player blobs.
type Section string

const (
	SectionSettings     Section = "settings"
	SectionHighScores   Section = "highscores"
	SectionAchievements Section = "achievements"
	SectionStats        Section = "stats"
	SectionWallet       Section = "wallet"
	SectionChallenges   Section = "challenges"
)

// PlayerKey returns the key of a player's section, e.g. "player/abc/stats".
func PlayerKey(playerID string, section Section) string {
	return fmt.Sprintf("player/%s/%s", playerID, section)
}
