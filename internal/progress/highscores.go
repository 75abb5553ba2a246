package progress

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/phamduncc/find-word/internal/game"
)

// DefaultLedgerCap is how many scores are kept per difficulty.
const DefaultLedgerCap = 10

// HighScore is one ledger entry.
type HighScore struct {
	PlayerName  string          `json:"playerName"`
	Score       int             `json:"score"`
	WordsFound  int             `json:"wordsFound"`
	Difficulty  game.Difficulty `json:"difficulty"`
	LongestWord string          `json:"longestWord"`
	AchievedAt  time.Time       `json:"achievedAt"`
	Duration    time.Duration   `json:"duration"`
}

// Ledger keeps the best scores per difficulty, highest first. Equal scores
// keep the earlier one ahead.
type Ledger struct {
	Entries map[game.Difficulty][]HighScore `json:"entries"`

	size int
}

// NewLedger returns an empty ledger. A size <= 0 uses DefaultLedgerCap.
func NewLedger(size int) *Ledger {
	l := &Ledger{}
	l.init(size)
	return l
}

func (l *Ledger) init(size int) {
	if size <= 0 {
		size = DefaultLedgerCap
	}
	l.size = size
	if l.Entries == nil {
		l.Entries = make(map[game.Difficulty][]HighScore)
	}
}

// Qualifies reports whether score would enter the ledger of d.
func (l *Ledger) Qualifies(d game.Difficulty, score int) bool {
	list := l.Entries[d]
	if len(list) < l.size {
		return true
	}
	return score > list[len(list)-1].Score
}

// Add inserts the result of a finished session when it qualifies and
// reports whether it did. A non-qualifying result leaves the ledger as is.
func (l *Ledger) Add(snap game.Snapshot, playerName string) bool {
	d := snap.Settings.Difficulty
	if !l.Qualifies(d, snap.Score) {
		return false
	}
	at := snap.FinishedAt
	if at.IsZero() {
		at = time.Now()
	}
	entry := HighScore{
		PlayerName:  playerName,
		Score:       snap.Score,
		WordsFound:  len(snap.Words),
		Difficulty:  d,
		LongestWord: snap.LongestWord(),
		AchievedAt:  at,
		Duration:    snap.Duration(),
	}

	list := append(l.Entries[d], entry)
	slices.SortStableFunc(list, func(a, b HighScore) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.AchievedAt.Compare(b.AchievedAt)
	})
	l.Entries[d] = list[:min(len(list), l.size)]
	return true
}

// Top returns a copy of the ledger of d.
func (l *Ledger) Top(d game.Difficulty) []HighScore {
	return slices.Clone(l.Entries[d])
}

// Best returns the highest score recorded for d, or 0.
func (l *Ledger) Best(d game.Difficulty) int {
	if list := l.Entries[d]; len(list) > 0 {
		return list[0].Score
	}
	return 0
}

// All returns every entry across difficulties, highest first.
func (l *Ledger) All() []HighScore {
	all := lo.Flatten(lo.Map(game.Difficulties, func(d game.Difficulty, _ int) []HighScore {
		return l.Entries[d]
	}))
	slices.SortStableFunc(all, func(a, b HighScore) int { return b.Score - a.Score })
	return all
}
