// Package daily derives one challenge per calendar day and tracks a player's
// completions and streak.
//
// A challenge is a pure function of the date and a server salt:
// HMAC-SHA256(salt, YYYY-MM-DD) picks the goal type, the tier, the target and
// the reward, so every player gets the same challenge on the same day without
// anything being stored.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/phamduncc/find-word/internal/game"
)

const idPrefix = "daily-"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// ParseDateKey is the inverse of DateKey.
func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

// Challenge is the goal of one day.
type Challenge struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Type         game.GoalKind   `json:"type"`
	Difficulty   game.Difficulty `json:"difficulty"`
	Target       int             `json:"target"`
	RewardPoints int             `json:"rewardPoints"`
	Description  string          `json:"description"`
}

// Goal returns the session goal for a challenge-mode game.
func (c Challenge) Goal() *game.Goal {
	return &game.Goal{ChallengeID: c.ID, Kind: c.Type, Target: c.Target}
}

// Settings returns the session settings to play the challenge.
func (c Challenge) Settings() game.Settings {
	return game.Settings{Difficulty: c.Difficulty, Mode: game.ModeChallenge, Goal: c.Goal()}
}

// Generator derives challenges from dates.
type Generator struct {
	salt string
}

// NewGenerator returns a generator keyed by salt.
func NewGenerator(salt string) *Generator {
	return &Generator{salt: salt}
}

var goalKinds = []game.GoalKind{game.GoalScore, game.GoalWords, game.GoalLongWord}

// ForDate returns the challenge of the UTC day containing t.
func (g *Generator) ForDate(t time.Time) Challenge {
	dk := DateKey(t)
	sum := g.seed(dk)

	kind := goalKinds[int(sum[0])%len(goalKinds)]
	tierIdx := int(sum[1]) % len(game.Difficulties)
	tier := game.Difficulties[tierIdx]
	cfg := tier.Config()

	var target int
	switch kind {
	case game.GoalScore:
		target = 150 + tierIdx*100 + int(sum[2]%5)*25
	case game.GoalWords:
		target = 6 + tierIdx*3 + int(sum[2]%4)
	case game.GoalLongWord:
		target = min(cfg.MinWordLength+3+int(sum[2]%2), cfg.LetterCount)
	}

	return Challenge{
		ID:           idPrefix + dk,
		Date:         dk,
		Type:         kind,
		Difficulty:   tier,
		Target:       target,
		RewardPoints: 50 + tierIdx*25 + int(sum[3]%3)*10,
		Description:  describe(kind, target),
	}
}

// Week returns seven consecutive challenges starting with the day of t.
func (g *Generator) Week(t time.Time) []Challenge {
	out := make([]Challenge, 7)
	for i := range out {
		out[i] = g.ForDate(t.AddDate(0, 0, i))
	}
	return out
}

// ForID returns the challenge an ID refers to.
func (g *Generator) ForID(id string) (Challenge, error) {
	dk, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return Challenge{}, fmt.Errorf("challenge id %q: missing prefix", id)
	}
	t, err := ParseDateKey(dk)
	if err != nil {
		return Challenge{}, fmt.Errorf("challenge id %q: %w", id, err)
	}
	return g.ForDate(t), nil
}

// seed returns HMAC(salt, YYYY-MM-DD).
func (g *Generator) seed(dateKey string) []byte {
	h := hmac.New(sha256.New, []byte(g.salt))
	h.Write([]byte(dateKey))
	return h.Sum(nil)
}

func describe(kind game.GoalKind, target int) string {
	switch kind {
	case game.GoalScore:
		return fmt.Sprintf("Score %d points in one game", target)
	case game.GoalWords:
		return fmt.Sprintf("Find %d words in one game", target)
	case game.GoalLongWord:
		return fmt.Sprintf("Find a word of %d letters or more", target)
	}
	return ""
}
