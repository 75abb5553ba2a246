// Package progress keeps everything a player accumulates across games: the
// high-score ledger, lifetime stats, achievements, the daily challenge
// streak and the coin wallet.
//
// A Profile bundles them for one player. It is loaded once from a store.KV
// (missing or corrupt sections fall back to defaults) and every change is
// written back section by section, fire-and-forget when the KV is a
// store.AsyncWriter.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/game"
	"github.com/phamduncc/find-word/internal/store"
)

// DefaultPlayerName is recorded in the ledger for players without a name.
const DefaultPlayerName = "Player"

// Settings are per-player preferences.
type Settings struct {
	PlayerName string          `json:"playerName"`
	Difficulty game.Difficulty `json:"difficulty"`
}

// GameReport is what a finished game changed in a profile.
type GameReport struct {
	NewHighScore bool              `json:"newHighScore"`
	Unlocked     []Achievement     `json:"unlocked,omitempty"`
	Challenge    *daily.Completion `json:"challenge,omitempty"`
	CoinsEarned  int               `json:"coinsEarned"`
}

// Events converts the report into session events.
func (r GameReport) Events(at time.Time) []game.Event {
	var out []game.Event
	if r.NewHighScore {
		out = append(out, game.Event{Kind: game.EventNewHighScore, At: at})
	}
	for _, a := range r.Unlocked {
		out = append(out, game.Event{Kind: game.EventAchievementUnlocked, At: at, Detail: string(a.Kind)})
	}
	if r.Challenge != nil {
		out = append(out, game.Event{
			Kind:   game.EventChallengeCompleted,
			At:     at,
			Points: r.Challenge.RewardPoints,
			Detail: r.Challenge.ChallengeID,
		})
	}
	return out
}

// ChallengeStatus is a challenge with the player's standing.
type ChallengeStatus struct {
	daily.Challenge
	Completed     bool `json:"completed"`
	Streak        int  `json:"streak"`
	LongestStreak int  `json:"longestStreak"`
}

// Profile is one player's persistent progress. It is safe for concurrent use.
type Profile struct {
	mu       sync.Mutex
	playerID string
	kv       store.KV
	now      func() time.Time

	settings     Settings
	ledger       *Ledger
	stats        Stats
	achievements *AchievementTracker
	challenges   *daily.Tracker
	wallet       *Wallet
}

// ProfileOption customizes LoadProfile.
type ProfileOption func(*Profile)

// WithNow replaces time.Now.
func WithNow(now func() time.Time) ProfileOption {
	return func(p *Profile) { p.now = now }
}

// LoadProfile reads every section of playerID from kv. Sections that are
// missing start empty; sections that cannot be read or decoded are logged
// and start empty too.
func LoadProfile(ctx context.Context, kv store.KV, playerID string, gen *daily.Generator, opts ...ProfileOption) *Profile {
	p := &Profile{
		playerID:     playerID,
		kv:           kv,
		now:          time.Now,
		ledger:       &Ledger{},
		achievements: &AchievementTracker{},
		challenges:   &daily.Tracker{},
		wallet:       NewWallet(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.load(ctx, store.SectionSettings, &p.settings)
	p.load(ctx, store.SectionHighScores, p.ledger)
	p.load(ctx, store.SectionStats, &p.stats)
	p.load(ctx, store.SectionAchievements, p.achievements)
	p.load(ctx, store.SectionChallenges, p.challenges)
	if !p.load(ctx, store.SectionWallet, p.wallet) {
		p.wallet = NewWallet()
	}

	p.ledger.init(DefaultLedgerCap)
	p.achievements.init()
	p.challenges.Bind(gen)
	if p.wallet.Inventory == nil {
		p.wallet.Inventory = make(map[game.PowerUpKind]int)
	}
	return p
}

// load decodes a section into v and reports whether it did.
func (p *Profile) load(ctx context.Context, section store.Section, v any) bool {
	key := store.PlayerKey(p.playerID, section)
	blob, err := p.kv.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("load profile section, using defaults")
		return false
	}
	if err := json.Unmarshal(blob, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("decode profile section, using defaults")
		return false
	}
	return true
}

// save writes the sections. Failures are logged, never returned.
func (p *Profile) save(sections ...store.Section) {
	for _, section := range sections {
		var v any
		switch section {
		case store.SectionSettings:
			v = p.settings
		case store.SectionHighScores:
			v = p.ledger
		case store.SectionStats:
			v = p.stats
		case store.SectionAchievements:
			v = p.achievements
		case store.SectionChallenges:
			v = p.challenges
		case store.SectionWallet:
			v = p.wallet
		default:
			continue
		}
		key := store.PlayerKey(p.playerID, section)
		blob, err := json.Marshal(v)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("encode profile section")
			continue
		}
		if err := p.kv.Save(context.Background(), key, blob); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("save profile section")
		}
	}
}

// PlayerID returns the owner of the profile.
func (p *Profile) PlayerID() string { return p.playerID }

// RecordWord updates achievement progress after an accepted word in a
// running game and returns the achievements it unlocked.
func (p *Profile) RecordWord(snap game.Snapshot) []Achievement {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.achievements.OnWordFound(p.stats, snap, p.now())
	unlocked := p.achievements.DrainUnlocked()
	if len(unlocked) > 0 {
		p.save(store.SectionAchievements)
	}
	return unlocked
}

// RecordGame feeds a finished game to every tracker and persists the result.
// Snapshots of unfinished games are ignored.
func (p *Profile) RecordGame(snap game.Snapshot) GameReport {
	if !snap.Finished() {
		return GameReport{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()

	p.stats.Record(snap)
	var report GameReport
	report.NewHighScore = p.ledger.Add(snap, p.name())
	p.achievements.OnGameCompleted(p.stats, snap, now)
	report.Unlocked = p.achievements.DrainUnlocked()
	report.CoinsEarned = CoinsForScore(snap.Score)
	if comp, ok := p.challenges.UpdateProgress(snap, now); ok {
		report.Challenge = &comp
		report.CoinsEarned += comp.RewardPoints
	}
	p.wallet.Award(report.CoinsEarned)

	p.save(store.SectionStats, store.SectionHighScores, store.SectionAchievements,
		store.SectionChallenges, store.SectionWallet)

	log.Info().
		Str("player", p.playerID).
		Str("session", snap.ID).
		Int("score", snap.Score).
		Bool("highScore", report.NewHighScore).
		Int("coins", report.CoinsEarned).
		Msg("game recorded")
	return report
}

func (p *Profile) name() string {
	if p.settings.PlayerName != "" {
		return p.settings.PlayerName
	}
	return DefaultPlayerName
}

// Settings returns the player's preferences.
func (p *Profile) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// UpdateSettings replaces the preferences. An invalid difficulty is rejected.
func (p *Profile) UpdateSettings(s Settings) error {
	if s.Difficulty != "" && !s.Difficulty.Valid() {
		return fmt.Errorf("%w: %q", game.ErrUnknownDifficulty, s.Difficulty)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
	p.save(store.SectionSettings)
	return nil
}

// HighScores returns the ledger of d.
func (p *Profile) HighScores(d game.Difficulty) []HighScore {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Top(d)
}

// AllHighScores returns every ledger entry across difficulties.
func (p *Profile) AllHighScores() []HighScore {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.All()
}

// BestScore returns the top score of d, or 0.
func (p *Profile) BestScore(d game.Difficulty) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Best(d)
}

// Stats returns a copy of the lifetime stats.
func (p *Profile) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.GamesByDifficulty = maps.Clone(s.GamesByDifficulty)
	return s
}

// Achievements returns every achievement.
func (p *Profile) Achievements() []Achievement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.achievements.List()
}

// Wallet returns a copy of the wallet.
func (p *Profile) Wallet() Wallet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Wallet{Coins: p.wallet.Coins, Inventory: maps.Clone(p.wallet.Inventory)}
}

// Purchase buys one power-up of kind.
func (p *Profile) Purchase(kind game.PowerUpKind) (Wallet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.wallet.Purchase(kind); err != nil {
		return Wallet{Coins: p.wallet.Coins, Inventory: maps.Clone(p.wallet.Inventory)}, err
	}
	p.save(store.SectionWallet)
	return Wallet{Coins: p.wallet.Coins, Inventory: maps.Clone(p.wallet.Inventory)}, nil
}

// UsePowerUp takes one power-up of kind out of the inventory.
func (p *Profile) UsePowerUp(kind game.PowerUpKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.wallet.Use(kind); err != nil {
		return err
	}
	p.save(store.SectionWallet)
	return nil
}

// RestorePowerUp puts back a power-up taken by UsePowerUp that could not be
// activated.
func (p *Profile) RestorePowerUp(kind game.PowerUpKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wallet.Inventory[kind]++
	p.save(store.SectionWallet)
}

// Challenge returns c with the player's completion and streak.
func (p *Profile) Challenge(c daily.Challenge) ChallengeStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ChallengeStatus{
		Challenge:     c,
		Completed:     p.challenges.IsCompleted(c.Date),
		Streak:        p.challenges.Streak(p.now()),
		LongestStreak: p.challenges.LongestStreak,
	}
}
