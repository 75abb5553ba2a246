package progress

import (
	"time"

	"github.com/samber/lo"

	"github.com/phamduncc/find-word/internal/game"
)

// AchievementKind identifies an achievement.
type AchievementKind string

const (
	AchievementFirstWord     AchievementKind = "first_word"
	AchievementWordCollector AchievementKind = "word_collector"
	AchievementLongWord      AchievementKind = "long_word"
	AchievementSpeedFinder   AchievementKind = "speed_finder"
	AchievementPerfectGame   AchievementKind = "perfect_game"
	AchievementHighScorer    AchievementKind = "high_scorer"
	AchievementComboMaster   AchievementKind = "combo_master"
	AchievementMarathon      AchievementKind = "marathon"
)

// Achievement is the progress towards one goal. Once unlocked it stays
// unlocked.
type Achievement struct {
	Kind        AchievementKind `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Progress    int             `json:"progress"`
	Target      int             `json:"target"`
	Unlocked    bool            `json:"unlocked"`
	UnlockedAt  time.Time       `json:"unlockedAt,omitempty"`
}

// speedFinderWindow is how quickly a word must follow the start or the
// previous word.
const speedFinderWindow = 3 * time.Second

// record is what achievement progress is computed from: lifetime stats plus
// the game in progress.
type record struct {
	totalWords  int
	longestWord int
	speedFinds  int
	perfect     int
	bestScore   int
	bestCombo   int
	games       int
}

type achievementDef struct {
	kind        AchievementKind
	title       string
	description string
	target      int
	progress    func(record) int
}

var achievementDefs = []achievementDef{
	{AchievementFirstWord, "First Word", "Find your first word", 1, func(r record) int { return r.totalWords }},
	{AchievementWordCollector, "Word Collector", "Find 100 words", 100, func(r record) int { return r.totalWords }},
	{AchievementLongWord, "Wordsmith", "Find a word of 7 letters or more", 7, func(r record) int { return r.longestWord }},
	{AchievementSpeedFinder, "Speed Finder", "Find a word within 3 seconds", 1, func(r record) int { return r.speedFinds }},
	{AchievementPerfectGame, "Flawless", "Finish a game with 5 words and no mistakes", 1, func(r record) int { return r.perfect }},
	{AchievementHighScorer, "High Scorer", "Score 500 points in one game", 500, func(r record) int { return r.bestScore }},
	{AchievementComboMaster, "Combo Master", "Chain 5 words in one combo", 5, func(r record) int { return r.bestCombo }},
	{AchievementMarathon, "Marathon", "Play 10 games", 10, func(r record) int { return r.games }},
}

// AchievementTracker keeps every achievement and queues new unlocks until
// they are drained.
type AchievementTracker struct {
	Achievements map[AchievementKind]*Achievement `json:"achievements"`
	// SpeedFinds counts words found within the speed window across games.
	SpeedFinds int `json:"speedFinds"`

	unlocked []Achievement
}

// NewAchievementTracker returns a tracker with nothing unlocked.
func NewAchievementTracker() *AchievementTracker {
	t := &AchievementTracker{}
	t.init()
	return t
}

// init fills in definitions missing from a decoded tracker.
func (t *AchievementTracker) init() {
	if t.Achievements == nil {
		t.Achievements = make(map[AchievementKind]*Achievement, len(achievementDefs))
	}
	for _, def := range achievementDefs {
		a, ok := t.Achievements[def.kind]
		if !ok {
			a = &Achievement{Kind: def.kind}
			t.Achievements[def.kind] = a
		}
		a.Title, a.Description, a.Target = def.title, def.description, def.target
	}
}

// OnWordFound updates progress after an accepted word. stats are the
// lifetime stats before the running game, snap the game after the word.
func (t *AchievementTracker) OnWordFound(stats Stats, snap game.Snapshot, now time.Time) {
	r := t.base(stats)
	r.totalWords += len(snap.Words)
	r.longestWord = max(r.longestWord, len(snap.LongestWord()))
	r.speedFinds += speedFinds(snap)
	r.bestScore = max(r.bestScore, snap.Score)
	r.bestCombo = max(r.bestCombo, snap.BestStreak)
	t.evaluate(r, now)
}

// OnGameCompleted updates progress after a game. stats already include snap.
func (t *AchievementTracker) OnGameCompleted(stats Stats, snap game.Snapshot, now time.Time) {
	t.SpeedFinds += speedFinds(snap)
	t.evaluate(t.base(stats), now)
}

// DrainUnlocked returns the achievements unlocked since the last call.
func (t *AchievementTracker) DrainUnlocked() []Achievement {
	out := t.unlocked
	t.unlocked = nil
	return out
}

// List returns every achievement in definition order.
func (t *AchievementTracker) List() []Achievement {
	return lo.Map(achievementDefs, func(def achievementDef, _ int) Achievement {
		return *t.Achievements[def.kind]
	})
}

// UnlockedCount returns how many achievements are unlocked.
func (t *AchievementTracker) UnlockedCount() int {
	return lo.CountBy(t.List(), func(a Achievement) bool { return a.Unlocked })
}

func (t *AchievementTracker) base(stats Stats) record {
	return record{
		totalWords:  stats.TotalWords,
		longestWord: len(stats.LongestWord),
		speedFinds:  t.SpeedFinds,
		perfect:     stats.PerfectGames,
		bestScore:   stats.BestScore,
		bestCombo:   stats.BestCombo,
		games:       stats.GamesPlayed,
	}
}

func (t *AchievementTracker) evaluate(r record, now time.Time) {
	for _, def := range achievementDefs {
		a := t.Achievements[def.kind]
		if a.Unlocked {
			continue
		}
		a.Progress = min(def.progress(r), def.target)
		if a.Progress >= def.target {
			a.Unlocked = true
			a.UnlockedAt = now
			t.unlocked = append(t.unlocked, *a)
		}
	}
}

func speedFinds(snap game.Snapshot) int {
	return lo.CountBy(snap.Words, func(w game.Word) bool { return w.TimeToFind <= speedFinderWindow })
}
