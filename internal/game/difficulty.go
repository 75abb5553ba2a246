package game

import (
	"fmt"
	"strings"
)

// Difficulty is a closed set of tiers controlling tile count, grid shape,
// time limit and minimum word length.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// DifficultyConfig is the fixed configuration bundle of a tier.
type DifficultyConfig struct {
	LetterCount      int `json:"letterCount"`
	GridColumns      int `json:"gridColumns"`
	TimeLimitSeconds int `json:"timeLimitSeconds"`
	MinWordLength    int `json:"minWordLength"`
}

var difficultyConfigs = map[Difficulty]DifficultyConfig{
	Easy:   {LetterCount: 9, GridColumns: 3, TimeLimitSeconds: 120, MinWordLength: 3},
	Medium: {LetterCount: 12, GridColumns: 4, TimeLimitSeconds: 180, MinWordLength: 3},
	Hard:   {LetterCount: 15, GridColumns: 5, TimeLimitSeconds: 240, MinWordLength: 4},
}

// Config returns the tier's configuration. Unknown tiers get the Easy bundle.
func (d Difficulty) Config() DifficultyConfig {
	if c, ok := difficultyConfigs[d]; ok {
		return c
	}
	return difficultyConfigs[Easy]
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	_, ok := difficultyConfigs[d]
	return ok
}

// ParseDifficulty accepts a tier name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}
