package daily

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/game"
)

// Completion records the first completion of a day's challenge.
type Completion struct {
	ChallengeID  string    `json:"challengeId"`
	Date         string    `json:"date"`
	Score        int       `json:"score"`
	WordsFound   int       `json:"wordsFound"`
	RewardPoints int       `json:"rewardPoints"`
	CompletedAt  time.Time `json:"completedAt"`
	Streak       int       `json:"streak"`
}

// Tracker holds a player's challenge completions and streak. It is not safe
// for concurrent use; Profile serializes access.
type Tracker struct {
	Completed         map[string]Completion `json:"completed"`
	CurrentStreak     int                   `json:"currentStreak"`
	LongestStreak     int                   `json:"longestStreak"`
	LastCompletedDate string                `json:"lastCompletedDate,omitempty"`

	gen *Generator
}

// NewTracker returns an empty tracker resolving challenges with gen.
func NewTracker(gen *Generator) *Tracker {
	return &Tracker{Completed: make(map[string]Completion), gen: gen}
}

// Bind attaches gen to a tracker decoded from storage.
func (t *Tracker) Bind(gen *Generator) {
	t.gen = gen
	if t.Completed == nil {
		t.Completed = make(map[string]Completion)
	}
}

// IsCompleted reports whether the challenge of date was completed.
func (t *Tracker) IsCompleted(date string) bool {
	_, ok := t.Completed[date]
	return ok
}

// UpdateProgress checks a finished challenge-mode session against its
// challenge. The first completion of a day is recorded, extends the streak
// and is returned with ok set; anything else returns ok false.
func (t *Tracker) UpdateProgress(snap game.Snapshot, now time.Time) (Completion, bool) {
	goal := snap.Settings.Goal
	if snap.Settings.Mode != game.ModeChallenge || goal == nil {
		return Completion{}, false
	}
	c, err := t.gen.ForID(goal.ChallengeID)
	if err != nil {
		log.Warn().Err(err).Str("session", snap.ID).Msg("challenge session with unknown challenge")
		return Completion{}, false
	}
	if t.IsCompleted(c.Date) || !c.Goal().Met(snap) {
		return Completion{}, false
	}

	t.extendStreak(c.Date)
	comp := Completion{
		ChallengeID:  c.ID,
		Date:         c.Date,
		Score:        snap.Score,
		WordsFound:   len(snap.Words),
		RewardPoints: c.RewardPoints,
		CompletedAt:  now,
		Streak:       t.CurrentStreak,
	}
	t.Completed[c.Date] = comp
	return comp, true
}

// extendStreak applies a completion on date: the day after the last
// completion extends the streak, the same day leaves it, any gap restarts it.
func (t *Tracker) extendStreak(date string) {
	switch {
	case t.LastCompletedDate == date:
		return
	case t.LastCompletedDate != "" && isNextDay(t.LastCompletedDate, date):
		t.CurrentStreak++
	default:
		t.CurrentStreak = 1
	}
	t.LastCompletedDate = date
	t.LongestStreak = max(t.LongestStreak, t.CurrentStreak)
}

// Streak returns the current streak as of now: it is broken once a whole day
// passed without a completion.
func (t *Tracker) Streak(now time.Time) int {
	if t.LastCompletedDate == "" {
		return 0
	}
	today := DateKey(now)
	if t.LastCompletedDate == today || isNextDay(t.LastCompletedDate, today) {
		return t.CurrentStreak
	}
	return 0
}

func isNextDay(prev, next string) bool {
	p, err := ParseDateKey(prev)
	if err != nil {
		return false
	}
	return DateKey(p.AddDate(0, 0, 1)) == next
}
