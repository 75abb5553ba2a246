package game

import (
	"time"

	"github.com/phamduncc/find-word/internal/letters"
)

// Snapshot is an immutable copy of a session. It is the only thing handed to
// callers and to the progress trackers once a session finishes.
type Snapshot struct {
	ID               string           `json:"id"`
	Version          int              `json:"version"`
	State            State            `json:"state"`
	Settings         Settings         `json:"settings"`
	Config           DifficultyConfig `json:"config"`
	Pool             letters.Pool     `json:"pool"`
	Words            []Word           `json:"words"`
	Score            int              `json:"score"`
	Mistakes         int              `json:"mistakes"`
	RemainingSeconds int              `json:"remainingSeconds"`
	Frozen           bool             `json:"frozen"`
	Selected         []int            `json:"selected"`
	Input            string           `json:"input"`
	Combo            ComboStreak      `json:"combo"`
	HasActiveCombo   bool             `json:"hasActiveCombo"`
	BestStreak       int              `json:"bestStreak"`
	Effects          []Effect         `json:"effects"`
	StartedAt        time.Time        `json:"startedAt"`
	FinishedAt       time.Time        `json:"finishedAt"`
	FinishReason     FinishReason     `json:"finishReason,omitempty"`
}

// Finished reports whether the session is over.
func (s Snapshot) Finished() bool { return s.State == StateFinished }

// LongestWord returns the longest found word; the earliest wins ties.
func (s Snapshot) LongestWord() string {
	longest := ""
	for _, w := range s.Words {
		if len(w.Text) > len(longest) {
			longest = w.Text
		}
	}
	return longest
}

// FoundWords returns the texts of the found words in order.
func (s Snapshot) FoundWords() []string {
	out := make([]string, len(s.Words))
	for i, w := range s.Words {
		out[i] = w.Text
	}
	return out
}

// FastestFind returns the shortest time-to-find, or 0 with no words.
func (s Snapshot) FastestFind() time.Duration {
	var best time.Duration
	for i, w := range s.Words {
		if i == 0 || w.TimeToFind < best {
			best = w.TimeToFind
		}
	}
	return best
}

// Duration is the wall time from start to finish (or to the last word when
// the session has not finished).
func (s Snapshot) Duration() time.Duration {
	switch {
	case !s.FinishedAt.IsZero():
		return s.FinishedAt.Sub(s.StartedAt)
	case len(s.Words) > 0:
		return s.Words[len(s.Words)-1].FoundAt.Sub(s.StartedAt)
	}
	return 0
}
