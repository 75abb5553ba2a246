package game

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PowerUpKind identifies a purchasable temporary modifier.
type PowerUpKind string

const (
	PowerUpTimeFreeze    PowerUpKind = "time_freeze"
	PowerUpDoublePoints  PowerUpKind = "double_points"
	PowerUpWordHint      PowerUpKind = "word_hint"
	PowerUpLetterShuffle PowerUpKind = "letter_shuffle"
	PowerUpExtraTime     PowerUpKind = "extra_time"
	PowerUpComboBoost    PowerUpKind = "combo_boost"
	PowerUpClearMistakes PowerUpKind = "clear_mistakes"
	PowerUpXRayVision    PowerUpKind = "xray_vision"
)

// AllPowerUps lists every kind. Session.ActivatePowerUp handles each one.
var AllPowerUps = []PowerUpKind{
	PowerUpTimeFreeze,
	PowerUpDoublePoints,
	PowerUpWordHint,
	PowerUpLetterShuffle,
	PowerUpExtraTime,
	PowerUpComboBoost,
	PowerUpClearMistakes,
	PowerUpXRayVision,
}

const (
	// ExtraTimeSeconds is added by the extra time power-up.
	ExtraTimeSeconds = 15
	// XRayWordCount is how many words x-ray vision reveals.
	XRayWordCount = 3
	// ComboBoostLevels is added to the combo level while combo boost is active.
	ComboBoostLevels = 1
)

// PowerUpConfig is the fixed per-kind configuration. A zero Duration marks an
// instant effect that is consumed on activation.
type PowerUpConfig struct {
	Kind        PowerUpKind   `json:"kind"`
	Cost        int           `json:"cost"`
	Duration    time.Duration `json:"duration"`
	Description string        `json:"description"`
}

var powerUpConfigs = map[PowerUpKind]PowerUpConfig{
	PowerUpTimeFreeze:    {Kind: PowerUpTimeFreeze, Cost: 30, Duration: 10 * time.Second, Description: "Stops the countdown"},
	PowerUpDoublePoints:  {Kind: PowerUpDoublePoints, Cost: 40, Duration: 15 * time.Second, Description: "Doubles word scores"},
	PowerUpWordHint:      {Kind: PowerUpWordHint, Cost: 15, Description: "Reveals one unfound word"},
	PowerUpLetterShuffle: {Kind: PowerUpLetterShuffle, Cost: 10, Description: "Rearranges the tiles"},
	PowerUpExtraTime:     {Kind: PowerUpExtraTime, Cost: 25, Description: "Adds 15 seconds"},
	PowerUpComboBoost:    {Kind: PowerUpComboBoost, Cost: 35, Duration: 20 * time.Second, Description: "Raises the combo level by one"},
	PowerUpClearMistakes: {Kind: PowerUpClearMistakes, Cost: 20, Description: "Forgets rejected submissions"},
	PowerUpXRayVision:    {Kind: PowerUpXRayVision, Cost: 50, Description: "Reveals three unfound words"},
}

// Config returns the kind's configuration.
func (k PowerUpKind) Config() (PowerUpConfig, bool) {
	c, ok := powerUpConfigs[k]
	return c, ok
}

// Timed reports whether the kind stays active for a duration.
func (k PowerUpKind) Timed() bool {
	c, ok := powerUpConfigs[k]
	return ok && c.Duration > 0
}

// ParsePowerUp accepts a kind name in any case.
func ParsePowerUp(s string) (PowerUpKind, error) {
	k := PowerUpKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := powerUpConfigs[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPowerUp, s)
	}
	return k, nil
}

// PowerUpCatalog returns the configuration of every kind in AllPowerUps order.
func PowerUpCatalog() []PowerUpConfig {
	out := make([]PowerUpConfig, 0, len(AllPowerUps))
	for _, k := range AllPowerUps {
		out = append(out, powerUpConfigs[k])
	}
	return out
}

// Effect is one activation of a power-up.
type Effect struct {
	Kind        PowerUpKind `json:"kind"`
	ActivatedAt time.Time   `json:"activatedAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	Consumed    bool        `json:"consumed"`
}

// Remaining returns how long the effect has left at now, never negative.
func (e Effect) Remaining(now time.Time) time.Duration {
	if e.Consumed {
		return 0
	}
	return max(e.ExpiresAt.Sub(now), 0)
}

// EffectManager tracks active effects for one session. At most one effect per
// kind is kept; applying a kind again replaces the previous activation.
// It does not own the session timer.
type EffectManager struct {
	effects map[PowerUpKind]*Effect
}

// NewEffectManager returns an empty manager.
func NewEffectManager() *EffectManager {
	return &EffectManager{effects: make(map[PowerUpKind]*Effect)}
}

// Apply activates kind at now with its configured duration. Instant kinds are
// recorded already consumed.
func (m *EffectManager) Apply(kind PowerUpKind, now time.Time) (Effect, error) {
	cfg, ok := powerUpConfigs[kind]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %q", ErrUnknownPowerUp, kind)
	}
	e := &Effect{
		Kind:        kind,
		ActivatedAt: now,
		ExpiresAt:   now.Add(cfg.Duration),
		Consumed:    cfg.Duration == 0,
	}
	m.effects[kind] = e
	return *e, nil
}

// Consume marks the effect of kind as used. Consuming twice has no further effect.
func (m *EffectManager) Consume(kind PowerUpKind) {
	if e, ok := m.effects[kind]; ok {
		e.Consumed = true
	}
}

// CleanupExpired drops effects that are consumed or whose duration elapsed by
// now, returning the removed kinds.
func (m *EffectManager) CleanupExpired(now time.Time) []PowerUpKind {
	var removed []PowerUpKind
	for k, e := range m.effects {
		if e.Consumed || !now.Before(e.ExpiresAt) {
			delete(m.effects, k)
			removed = append(removed, k)
		}
	}
	sortKinds(removed)
	return removed
}

// Reset clears every effect.
func (m *EffectManager) Reset() {
	clear(m.effects)
}

// IsActive reports whether kind is applied, unconsumed and unexpired at now.
func (m *EffectManager) IsActive(kind PowerUpKind, now time.Time) bool {
	e, ok := m.effects[kind]
	return ok && !e.Consumed && now.Before(e.ExpiresAt)
}

// Get returns the recorded effect for kind, active or not.
func (m *EffectManager) Get(kind PowerUpKind) (Effect, bool) {
	e, ok := m.effects[kind]
	if !ok {
		return Effect{}, false
	}
	return *e, true
}

// ActiveEffects returns copies of the active effects in AllPowerUps order.
func (m *EffectManager) ActiveEffects(now time.Time) []Effect {
	out := []Effect{}
	for _, k := range AllPowerUps {
		if m.IsActive(k, now) {
			out = append(out, *m.effects[k])
		}
	}
	return out
}

func sortKinds(ks []PowerUpKind) {
	order := make(map[PowerUpKind]int, len(AllPowerUps))
	for i, k := range AllPowerUps {
		order[k] = i
	}
	sort.Slice(ks, func(i, j int) bool { return order[ks[i]] < order[ks[j]] })
}
