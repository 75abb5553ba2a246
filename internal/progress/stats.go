package progress

import (
	"time"

	"github.com/phamduncc/find-word/internal/game"
)

// Stats are lifetime counters over finished games.
type Stats struct {
	GamesPlayed       int                     `json:"gamesPlayed"`
	TotalWords        int                     `json:"totalWords"`
	TotalScore        int                     `json:"totalScore"`
	BestScore         int                     `json:"bestScore"`
	LongestWord       string                  `json:"longestWord"`
	FastestFind       time.Duration           `json:"fastestFind"`
	PerfectGames      int                     `json:"perfectGames"`
	BestCombo         int                     `json:"bestCombo"`
	TotalPlayTime     time.Duration           `json:"totalPlayTime"`
	GamesByDifficulty map[game.Difficulty]int `json:"gamesByDifficulty"`
}

// perfectGameMinWords is the word count a mistake-free game needs to count
// as perfect.
const perfectGameMinWords = 5

// IsPerfect reports whether a finished game had no mistakes and enough words.
func IsPerfect(snap game.Snapshot) bool {
	return snap.Mistakes == 0 && len(snap.Words) >= perfectGameMinWords
}

// Record folds a finished game into the counters.
func (s *Stats) Record(snap game.Snapshot) {
	if s.GamesByDifficulty == nil {
		s.GamesByDifficulty = make(map[game.Difficulty]int)
	}
	s.GamesPlayed++
	s.GamesByDifficulty[snap.Settings.Difficulty]++
	s.TotalWords += len(snap.Words)
	s.TotalScore += snap.Score
	s.BestScore = max(s.BestScore, snap.Score)
	s.BestCombo = max(s.BestCombo, snap.BestStreak)
	s.TotalPlayTime += snap.Duration()
	if lw := snap.LongestWord(); len(lw) > len(s.LongestWord) {
		s.LongestWord = lw
	}
	if ff := snap.FastestFind(); len(snap.Words) > 0 && (s.FastestFind == 0 || ff < s.FastestFind) {
		s.FastestFind = ff
	}
	if IsPerfect(snap) {
		s.PerfectGames++
	}
}

// AverageScore is the mean score per game, or 0 before the first game.
func (s Stats) AverageScore() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.GamesPlayed)
}
