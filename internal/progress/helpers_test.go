package progress

import (
	"strings"
	"time"

	"github.com/phamduncc/find-word/internal/game"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// finished builds a finished snapshot with the given words, each found
// gap after the previous one.
func finished(d game.Difficulty, score int, gap time.Duration, texts ...string) game.Snapshot {
	words := make([]game.Word, len(texts))
	at := epoch
	for i, w := range texts {
		at = at.Add(gap)
		words[i] = game.Word{Text: strings.ToUpper(w), FoundAt: at, TimeToFind: gap}
	}
	return game.Snapshot{
		ID:         "s",
		State:      game.StateFinished,
		Settings:   game.Settings{Difficulty: d, Mode: game.ModeClassic},
		Score:      score,
		Words:      words,
		StartedAt:  epoch,
		FinishedAt: at.Add(time.Second),
	}
}
