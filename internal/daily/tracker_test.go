package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phamduncc/find-word/internal/game"
)

// winning returns a finished snapshot that meets any generated goal.
func winning(c Challenge) game.Snapshot {
	words := make([]game.Word, 20)
	for i := range words {
		words[i] = game.Word{Text: "ABCDEFGHIJKLMNO", Score: 500}
	}
	return game.Snapshot{
		ID:       "s-" + c.Date,
		State:    game.StateFinished,
		Settings: c.Settings(),
		Score:    10000,
		Words:    words,
	}
}

func TestUpdateProgress_CompletesOncePerDay(t *testing.T) {
	t.Parallel()

	g := NewGenerator("salt")
	tr := NewTracker(g)
	c := g.ForDate(day)

	comp, ok := tr.UpdateProgress(winning(c), day)
	require.True(t, ok)
	require.Equal(t, c.RewardPoints, comp.RewardPoints)
	require.Equal(t, c.ID, comp.ChallengeID)
	require.Equal(t, 1, comp.Streak)
	require.True(t, tr.IsCompleted(c.Date))

	_, ok = tr.UpdateProgress(winning(c), day.Add(time.Hour))
	require.False(t, ok, "second completion on the same day")
	require.Equal(t, 1, tr.CurrentStreak)
}

func TestUpdateProgress_IgnoresOtherSessions(t *testing.T) {
	t.Parallel()

	g := NewGenerator("salt")
	tr := NewTracker(g)
	c := g.ForDate(day)

	classic := winning(c)
	classic.Settings.Mode = game.ModeClassic
	_, ok := tr.UpdateProgress(classic, day)
	require.False(t, ok)

	losing := winning(c)
	losing.Score, losing.Words = 0, nil
	_, ok = tr.UpdateProgress(losing, day)
	require.False(t, ok)

	bogus := winning(c)
	bogus.Settings.Goal = &game.Goal{ChallengeID: "nope"}
	_, ok = tr.UpdateProgress(bogus, day)
	require.False(t, ok)

	require.Empty(t, tr.Completed)
}

func TestUpdateProgress_Streak(t *testing.T) {
	t.Parallel()

	g := NewGenerator("salt")
	tr := NewTracker(g)
	complete := func(d time.Time) int {
		comp, ok := tr.UpdateProgress(winning(g.ForDate(d)), d)
		require.True(t, ok, DateKey(d))
		return comp.Streak
	}

	require.Equal(t, 1, complete(day))
	require.Equal(t, 2, complete(day.AddDate(0, 0, 1)))
	require.Equal(t, 3, complete(day.AddDate(0, 0, 2)))
	require.Equal(t, 3, tr.Streak(day.AddDate(0, 0, 3)), "yesterday's completion keeps the streak alive")
	require.Equal(t, 0, tr.Streak(day.AddDate(0, 0, 4)))

	require.Equal(t, 1, complete(day.AddDate(0, 0, 5)), "a gap restarts the streak")
	require.Equal(t, 3, tr.LongestStreak)
	require.Len(t, tr.Completed, 4)
}

func TestTracker_Bind(t *testing.T) {
	t.Parallel()

	var tr Tracker
	tr.Bind(NewGenerator("salt"))
	require.NotNil(t, tr.Completed)
	require.Equal(t, 0, tr.Streak(day))
}
