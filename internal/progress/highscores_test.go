package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phamduncc/find-word/internal/game"
)

func TestLedger_CapAndOrder(t *testing.T) {
	t.Parallel()

	l := NewLedger(3)
	for _, score := range []int{50, 10, 30} {
		require.True(t, l.Add(finished(game.Easy, score, time.Second, "one"), "ann"))
	}
	require.False(t, l.Add(finished(game.Easy, 10, time.Second), "bob"), "equal to the minimum does not qualify")
	require.False(t, l.Add(finished(game.Easy, 5, time.Second), "bob"))
	require.True(t, l.Add(finished(game.Easy, 40, time.Second), "bob"))

	top := l.Top(game.Easy)
	require.Len(t, top, 3)
	require.Equal(t, []int{50, 40, 30}, []int{top[0].Score, top[1].Score, top[2].Score})
	require.Equal(t, "bob", top[1].PlayerName)
	require.Equal(t, 50, l.Best(game.Easy))
	require.Empty(t, l.Top(game.Hard), "ledgers are per difficulty")
}

func TestLedger_TiesKeepEarlierFirst(t *testing.T) {
	t.Parallel()

	l := NewLedger(0)
	early := finished(game.Medium, 100, time.Second, "done")
	late := finished(game.Medium, 100, time.Second, "done")
	late.FinishedAt = early.FinishedAt.Add(time.Minute)

	require.True(t, l.Add(late, "late"))
	require.True(t, l.Add(early, "early"))

	top := l.Top(game.Medium)
	require.Equal(t, "early", top[0].PlayerName)
	require.Equal(t, "late", top[1].PlayerName)
}

func TestLedger_EntryFields(t *testing.T) {
	t.Parallel()

	l := NewLedger(0)
	snap := finished(game.Hard, 120, 2*time.Second, "node", "beacon", "done")
	require.True(t, l.Add(snap, "ann"))

	e := l.Top(game.Hard)[0]
	require.Equal(t, 3, e.WordsFound)
	require.Equal(t, "BEACON", e.LongestWord)
	require.Equal(t, game.Hard, e.Difficulty)
	require.Equal(t, snap.FinishedAt, e.AchievedAt)
	require.Equal(t, 7*time.Second, e.Duration)
}

func TestLedger_TopIsACopy(t *testing.T) {
	t.Parallel()

	l := NewLedger(0)
	l.Add(finished(game.Easy, 10, time.Second), "ann")
	top := l.Top(game.Easy)
	top[0].Score = 999
	require.Equal(t, 10, l.Best(game.Easy))
}

func TestLedger_DefaultCapAndAll(t *testing.T) {
	t.Parallel()

	l := NewLedger(0)
	for i := 1; i <= DefaultLedgerCap+5; i++ {
		l.Add(finished(game.Easy, i*10, time.Second), "ann")
	}
	require.Len(t, l.Top(game.Easy), DefaultLedgerCap)
	require.Equal(t, 60, l.Top(game.Easy)[DefaultLedgerCap-1].Score)

	l.Add(finished(game.Hard, 1000, time.Second), "bob")
	all := l.All()
	require.Len(t, all, DefaultLedgerCap+1)
	require.Equal(t, "bob", all[0].PlayerName)
}
