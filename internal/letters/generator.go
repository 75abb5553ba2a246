// Package letters generates the letter pools players build words from.
//
// A pool is drawn tile by tile from a weighted bag shaped like natural English
// (Scrabble tile counts), then checked against the dictionary: pools that form
// fewer than MinSolutions words are thrown back and redrawn. After MaxAttempts
// draws the last pool is accepted as is so a session can always start.
package letters

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/words"
)

const (
	defaultMinSolutions = 5
	defaultMaxAttempts  = 50
)

// Pool is an ordered sequence of single-letter tiles.
type Pool []rune

// String returns the tiles concatenated in order.
func (p Pool) String() string { return string(p) }

// Letter returns the tile at i as a one-letter string.
func (p Pool) Letter(i int) string { return string(p[i]) }

// Clone returns an independent copy.
func (p Pool) Clone() Pool { return append(Pool(nil), p...) }

// MarshalJSON encodes the pool as an array of one-letter strings.
func (p Pool) MarshalJSON() ([]byte, error) {
	out := make([]string, len(p))
	for i, r := range p {
		out[i] = string(r)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the array form written by MarshalJSON.
func (p *Pool) UnmarshalJSON(b []byte) error {
	var in []string
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	out := make(Pool, 0, len(in))
	for _, s := range in {
		out = append(out, []rune(strings.ToUpper(s))...)
	}
	*p = out
	return nil
}

// tileWeights is the relative draw weight of each letter.
var tileWeights = map[rune]int{
	'A': 9, 'B': 2, 'C': 2, 'D': 4, 'E': 12, 'F': 2, 'G': 3, 'H': 2, 'I': 9,
	'J': 1, 'K': 1, 'L': 4, 'M': 2, 'N': 6, 'O': 8, 'P': 2, 'Q': 1, 'R': 6,
	'S': 4, 'T': 6, 'U': 4, 'V': 2, 'W': 2, 'X': 1, 'Y': 2, 'Z': 1,
}

// bag expands tileWeights into a flat slice in alphabetical order so draws are
// reproducible for a seeded source.
var bag = func() []rune {
	var out []rune
	for r := 'A'; r <= 'Z'; r++ {
		for i := 0; i < tileWeights[r]; i++ {
			out = append(out, r)
		}
	}
	return out
}()

// Generator draws solvable pools. It is safe for concurrent use.
type Generator struct {
	validator *words.Validator

	// MinSolutions is the number of formable dictionary words a pool needs.
	MinSolutions int
	// MaxAttempts bounds the number of redraws before falling back.
	MaxAttempts int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewGenerator returns a generator using v for solvability checks. A nil rng
// is replaced by a time-seeded source.
func NewGenerator(v *words.Validator, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		validator:    v,
		MinSolutions: defaultMinSolutions,
		MaxAttempts:  defaultMaxAttempts,
		rng:          rng,
	}
}

// Generate returns a pool of count tiles that forms at least MinSolutions
// words of minWordLength or more, or the last draw once MaxAttempts is spent.
func (g *Generator) Generate(count, minWordLength int) Pool {
	attempts := max(g.MaxAttempts, 1)
	var pool Pool
	for attempt := 1; attempt <= attempts; attempt++ {
		pool = g.draw(count)
		if g.validator.CountSolutions(pool, minWordLength, g.MinSolutions) >= g.MinSolutions {
			log.Debug().Str("pool", pool.String()).Int("attempt", attempt).Msg("letter pool generated")
			return pool
		}
	}
	log.Warn().
		Str("pool", pool.String()).
		Int("attempts", attempts).
		Int("minSolutions", g.MinSolutions).
		Msg("letter pool below solvability threshold, using last draw")
	return pool
}

// Shuffle returns a permutation of p. The multiset of tiles is unchanged.
func (g *Generator) Shuffle(p Pool) Pool {
	out := p.Clone()
	g.mu.Lock()
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	g.mu.Unlock()
	return out
}

func (g *Generator) draw(count int) Pool {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(Pool, count)
	for i := range out {
		out[i] = bag[g.rng.Intn(len(bag))]
	}
	return out
}
