package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phamduncc/find-word/internal/game"
)

func TestStats_Record(t *testing.T) {
	t.Parallel()

	var s Stats
	require.Zero(t, s.AverageScore())

	first := finished(game.Easy, 100, 4*time.Second, "one", "done", "node", "tone", "note")
	first.BestStreak = 2
	s.Record(first)

	second := finished(game.Hard, 50, 2*time.Second, "beacon")
	second.Mistakes = 3
	second.BestStreak = 1
	s.Record(second)

	s.Record(finished(game.Easy, 0, time.Second))

	require.Equal(t, 3, s.GamesPlayed)
	require.Equal(t, 6, s.TotalWords)
	require.Equal(t, 150, s.TotalScore)
	require.Equal(t, 100, s.BestScore)
	require.Equal(t, "BEACON", s.LongestWord)
	require.Equal(t, 2*time.Second, s.FastestFind)
	require.Equal(t, 1, s.PerfectGames)
	require.Equal(t, 2, s.BestCombo)
	require.Equal(t, 50.0, s.AverageScore())
	require.Equal(t, map[game.Difficulty]int{game.Easy: 2, game.Hard: 1}, s.GamesByDifficulty)
}

func TestIsPerfect(t *testing.T) {
	t.Parallel()

	snap := finished(game.Easy, 0, time.Second, "a", "b", "c", "d")
	require.False(t, IsPerfect(snap), "too few words")

	snap = finished(game.Easy, 0, time.Second, "a", "b", "c", "d", "e")
	require.True(t, IsPerfect(snap))

	snap.Mistakes = 1
	require.False(t, IsPerfect(snap))
}
