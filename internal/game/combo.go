package game

import "time"

// ComboConfig holds the tunable combo constants.
type ComboConfig struct {
	Window            time.Duration
	BaseMultiplier    float64
	IncrementPerLevel float64
	MaxMultiplier     float64
	MaxLevel          int
}

// DefaultCombo is the combo configuration used by new sessions.
var DefaultCombo = ComboConfig{
	Window:            4 * time.Second,
	BaseMultiplier:    1.0,
	IncrementPerLevel: 0.5,
	MaxMultiplier:     3.0,
	MaxLevel:          5,
}

// ComboStreak is the streak state after the most recent accepted word.
type ComboStreak struct {
	WordsInStreak int       `json:"wordsInStreak"`
	Multiplier    float64   `json:"multiplier"`
	Level         int       `json:"level"`
	LastWordAt    time.Time `json:"lastWordAt"`
}

// ComboTracker keeps streak bookkeeping for one session.
type ComboTracker struct {
	cfg    ComboConfig
	streak ComboStreak
	best   int
}

// NewComboTracker returns a tracker with an empty streak.
func NewComboTracker(cfg ComboConfig) *ComboTracker {
	c := &ComboTracker{cfg: cfg}
	c.Reset()
	return c
}

// Record registers an accepted word at now and returns the updated streak.
// A word inside the window extends the streak; otherwise a new streak starts.
func (c *ComboTracker) Record(now time.Time) ComboStreak {
	if c.HasActiveCombo(now) {
		c.streak.WordsInStreak++
	} else {
		c.streak.WordsInStreak = 1
	}
	c.streak.LastWordAt = now
	c.streak.Level = min(c.streak.WordsInStreak, c.cfg.MaxLevel)
	c.streak.Multiplier = c.multiplierFor(c.streak.Level)
	c.best = max(c.best, c.streak.WordsInStreak)
	return c.streak
}

// HasActiveCombo reports whether a streak exists and the window since the
// last word has not elapsed.
func (c *ComboTracker) HasActiveCombo(now time.Time) bool {
	return c.streak.WordsInStreak > 0 && now.Sub(c.streak.LastWordAt) <= c.cfg.Window
}

// BoostedMultiplier is the current multiplier with extra levels added, still
// subject to MaxMultiplier.
func (c *ComboTracker) BoostedMultiplier(extraLevels int) float64 {
	if c.streak.WordsInStreak == 0 {
		return c.cfg.BaseMultiplier
	}
	return c.multiplierFor(c.streak.Level + extraLevels)
}

// Streak returns the current streak.
func (c *ComboTracker) Streak() ComboStreak { return c.streak }

// Best returns the longest streak seen since the last Reset.
func (c *ComboTracker) Best() int { return c.best }

// Reset clears the streak.
func (c *ComboTracker) Reset() {
	c.streak = ComboStreak{Multiplier: c.cfg.BaseMultiplier}
	c.best = 0
}

// multiplierFor maps a level to a multiplier. Level 1 (a lone word) is the base.
func (c *ComboTracker) multiplierFor(level int) float64 {
	m := c.cfg.BaseMultiplier + float64(max(level-1, 0))*c.cfg.IncrementPerLevel
	return min(m, c.cfg.MaxMultiplier)
}
