package game

import (
	"slices"
	"time"

	"github.com/phamduncc/find-word/internal/letters"
	"github.com/phamduncc/find-word/internal/words"
)

// fixedPools hands out a predetermined pool and reverses it on Shuffle.
type fixedPools struct {
	pool     letters.Pool
	shuffles int
}

func (f *fixedPools) Generate(count, _ int) letters.Pool {
	out := make(letters.Pool, count)
	for i := range out {
		out[i] = f.pool[i%len(f.pool)]
	}
	return out
}

func (f *fixedPools) Shuffle(p letters.Pool) letters.Pool {
	f.shuffles++
	out := p.Clone()
	slices.Reverse(out)
	return out
}

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var testWords = []string{
	"done", "node", "one", "nod", "don", "bond", "bead", "fade", "cab",
	"tone", "note", "beacon", "debt", "faced", "bacon", "cone", "ace",
}

// newTestSession returns a session over the pool DONEABCFT.
func newTestSession(clock *fakeClock) (*Session, *fixedPools) {
	src := &fixedPools{pool: letters.Pool("DONEABCFT")}
	v := words.NewValidator(words.NewDictionary(testWords))
	return NewSession("test", v, src, WithClock(clock.Now)), src
}

func startedSession(clock *fakeClock, d Difficulty) (*Session, *fixedPools) {
	s, src := newTestSession(clock)
	if _, err := s.Start(Settings{Difficulty: d}); err != nil {
		panic(err)
	}
	return s, src
}

func typeAndSubmit(s *Session, text string) SubmitResult {
	if _, err := s.TypeInput(text); err != nil {
		panic(err)
	}
	res, err := s.SubmitWord()
	if err != nil {
		panic(err)
	}
	return res
}
