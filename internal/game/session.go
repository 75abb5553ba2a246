// Package game is the timed word-finding engine.
//
// A Session moves through NotStarted → Playing ⇄ Paused → Finished. Every
// mutation returns an immutable Snapshot; callers decide how to propagate it.
// Invalid transitions (pausing a session that is not playing, ticking a paused
// session, ...) are silent no-ops that return the unchanged snapshot. Once
// Finished, every mutation fails with ErrSessionFinished.
//
// A Session is not safe for concurrent use. Runner serializes user actions with
// the one-second timer.
package game

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phamduncc/find-word/internal/letters"
	"github.com/phamduncc/find-word/internal/words"
)

// State is the lifecycle state of a session.
type State string

const (
	StateNotStarted State = "not_started"
	StatePlaying    State = "playing"
	StatePaused     State = "paused"
	StateFinished   State = "finished"
)

// Mode selects between free play and a daily challenge attempt.
type Mode string

const (
	ModeClassic   Mode = "classic"
	ModeChallenge Mode = "challenge"
)

// GoalKind is what a challenge goal measures.
type GoalKind string

const (
	GoalScore    GoalKind = "score"
	GoalWords    GoalKind = "words"
	GoalLongWord GoalKind = "long_word"
)

// Goal is the target of a challenge-mode session.
type Goal struct {
	ChallengeID string   `json:"challengeId"`
	Kind        GoalKind `json:"kind"`
	Target      int      `json:"target"`
}

// Met reports whether the snapshot reaches the goal.
func (g Goal) Met(s Snapshot) bool {
	switch g.Kind {
	case GoalScore:
		return s.Score >= g.Target
	case GoalWords:
		return len(s.Words) >= g.Target
	case GoalLongWord:
		return len(s.LongestWord()) >= g.Target
	}
	return false
}

// MaxTimeLimitFactor caps a TimeLimitSeconds override at this multiple of the
// tier's time limit.
const MaxTimeLimitFactor = 3

// Settings configure a session at Start.
type Settings struct {
	Difficulty Difficulty `json:"difficulty"`
	Mode       Mode       `json:"mode"`
	Goal       *Goal      `json:"goal,omitempty"`
	// TimeLimitSeconds overrides the tier's time limit when positive.
	TimeLimitSeconds int `json:"timeLimitSeconds,omitempty"`
}

// Word is an accepted submission.
type Word struct {
	Text       string        `json:"text"`
	Tiles      []int         `json:"tiles"`
	Score      int           `json:"score"`
	FoundAt    time.Time     `json:"foundAt"`
	TimeToFind time.Duration `json:"timeToFind"`
}

// FinishReason records why a session ended.
type FinishReason string

const (
	FinishTimeUp FinishReason = "time_up"
	FinishEnded  FinishReason = "ended"
)

// SubmitResult is returned by SubmitWord.
type SubmitResult struct {
	Accepted bool         `json:"accepted"`
	Reason   words.Reason `json:"reason,omitempty"`
	Word     *Word        `json:"word,omitempty"`
	Snapshot Snapshot     `json:"session"`
}

// PowerUpOutcome is returned by ActivatePowerUp.
type PowerUpOutcome struct {
	Kind         PowerUpKind `json:"kind"`
	Applied      bool        `json:"applied"`
	Words        []string    `json:"words,omitempty"`
	SecondsAdded int         `json:"secondsAdded,omitempty"`
	Effect       *Effect     `json:"effect,omitempty"`
	Snapshot     Snapshot    `json:"session"`
}

// PoolSource produces and rearranges letter pools. *letters.Generator
// implements it.
type PoolSource interface {
	Generate(count, minWordLength int) letters.Pool
	Shuffle(p letters.Pool) letters.Pool
}

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithCombo replaces DefaultCombo.
func WithCombo(cfg ComboConfig) Option {
	return func(s *Session) { s.combo = NewComboTracker(cfg) }
}

// Session is one timed game.
type Session struct {
	id        string
	validator *words.Validator
	gen       PoolSource
	now       func() time.Time

	version    int
	state      State
	settings   Settings
	pool       letters.Pool
	found      []Word
	score      int
	mistakes   int
	remaining  int
	frozen     bool
	selected   []int
	input      string
	bestStreak int
	startedAt  time.Time
	finishedAt time.Time
	pausedAt   time.Time
	lastFindAt time.Time
	reason     FinishReason

	combo   *ComboTracker
	effects *EffectManager
	events  eventQueue
}

// NewSession returns a NotStarted session. An empty id is replaced by a UUID.
func NewSession(id string, v *words.Validator, gen PoolSource, opts ...Option) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	s := &Session{
		id:        id,
		validator: v,
		gen:       gen,
		now:       time.Now,
		state:     StateNotStarted,
		combo:     NewComboTracker(DefaultCombo),
		effects:   NewEffectManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Frozen reports whether a time freeze currently gates Tick.
func (s *Session) Frozen() bool { return s.frozen }

// FreezeExpiresAt returns when the running time freeze ends.
func (s *Session) FreezeExpiresAt() (time.Time, bool) {
	if !s.frozen {
		return time.Time{}, false
	}
	e, ok := s.effects.Get(PowerUpTimeFreeze)
	return e.ExpiresAt, ok
}

// Start generates the letter pool, arms the timer and moves to Playing.
// It is only effective from NotStarted.
func (s *Session) Start(settings Settings) (Snapshot, error) {
	if s.state == StateFinished {
		return s.snapshot(), ErrSessionFinished
	}
	if s.state != StateNotStarted {
		return s.snapshot(), nil
	}
	if settings.Difficulty == "" {
		settings.Difficulty = Easy
	}
	if !settings.Difficulty.Valid() {
		return s.snapshot(), fmt.Errorf("%w: %q", ErrUnknownDifficulty, settings.Difficulty)
	}
	if settings.Mode == "" {
		settings.Mode = ModeClassic
	}

	cfg := settings.Difficulty.Config()
	now := s.now()
	s.effects.Reset()
	s.combo.Reset()
	if settings.TimeLimitSeconds > 0 {
		settings.TimeLimitSeconds = min(settings.TimeLimitSeconds, cfg.TimeLimitSeconds*MaxTimeLimitFactor)
	}
	s.settings = settings
	s.pool = s.gen.Generate(cfg.LetterCount, cfg.MinWordLength)
	s.remaining = cfg.TimeLimitSeconds
	if settings.TimeLimitSeconds > 0 {
		s.remaining = settings.TimeLimitSeconds
	}
	s.startedAt = now
	s.lastFindAt = now
	s.state = StatePlaying
	s.events.push(Event{Kind: EventGameStarted, At: now, Seconds: s.remaining})
	return s.changed(), nil
}

// SelectLetter appends tile i to the current selection.
func (s *Session) SelectLetter(i int) (Snapshot, error) {
	if ok, err := s.playing(); !ok {
		return s.snapshot(), err
	}
	if i < 0 || i >= len(s.pool) || slices.Contains(s.selected, i) {
		return s.snapshot(), fmt.Errorf("%w: %d", ErrInvalidTile, i)
	}
	s.selected = append(s.selected, i)
	s.input += s.pool.Letter(i)
	return s.changed(), nil
}

// ClearSelection empties the selection and the current input.
func (s *Session) ClearSelection() (Snapshot, error) {
	if ok, err := s.playing(); !ok {
		return s.snapshot(), err
	}
	s.selected = nil
	s.input = ""
	return s.changed(), nil
}

// Backspace removes the last selected tile or typed letter.
func (s *Session) Backspace() (Snapshot, error) {
	if ok, err := s.playing(); !ok {
		return s.snapshot(), err
	}
	r := []rune(s.input)
	if len(r) == 0 {
		return s.snapshot(), nil
	}
	s.input = string(r[:len(r)-1])
	if len(s.selected) == len(r) {
		s.selected = s.selected[:len(s.selected)-1]
	} else {
		s.selected = assignTiles(s.pool, s.input)
	}
	return s.changed(), nil
}

// TypeInput replaces the current input with text typed on a keyboard. The
// selection becomes the first free tile for each typed letter, so tiles
// picked afterwards extend the same word. Letters missing from the pool
// leave the selection shorter than the input.
func (s *Session) TypeInput(text string) (Snapshot, error) {
	if ok, err := s.playing(); !ok {
		return s.snapshot(), err
	}
	s.input = strings.ToUpper(strings.TrimSpace(text))
	s.selected = assignTiles(s.pool, s.input)
	return s.changed(), nil
}

// SubmitWord validates the current input. An accepted word is scored and
// recorded and the input is cleared; a rejected word counts as a mistake and
// the input is kept.
func (s *Session) SubmitWord() (SubmitResult, error) {
	if ok, err := s.playing(); !ok {
		return SubmitResult{Snapshot: s.snapshot()}, err
	}
	now := s.now()
	s.expireEffects(now)

	cfg := s.settings.Difficulty.Config()
	text := strings.ToUpper(s.input)
	res := s.validator.Validate(text, s.pool, cfg.MinWordLength, s.foundTexts())
	if !res.Valid {
		s.mistakes++
		s.events.push(Event{Kind: EventWordRejected, At: now, Word: text, Detail: string(res.Reason)})
		return SubmitResult{Reason: res.Reason, Snapshot: s.changed()}, nil
	}

	tiles := slices.Clone(s.selected)
	if len(tiles) != len([]rune(text)) {
		tiles = assignTiles(s.pool, text)
	}
	streak := s.combo.Record(now)
	comboMult := streak.Multiplier
	if s.effects.IsActive(PowerUpComboBoost, now) {
		comboMult = s.combo.BoostedMultiplier(ComboBoostLevels)
	}
	w := Word{
		Text:       text,
		Tiles:      tiles,
		Score:      ScoreWord(len([]rune(text)), comboMult, PowerUpMultiplier(s.effects, now)),
		FoundAt:    now,
		TimeToFind: now.Sub(s.lastFindAt),
	}
	s.found = append(s.found, w)
	s.score += w.Score
	s.lastFindAt = now
	s.selected = nil
	s.input = ""

	s.events.push(Event{Kind: EventWordFound, At: now, Word: w.Text, Points: w.Score, Multiplier: comboMult})
	if streak.WordsInStreak > 1 {
		s.events.push(Event{Kind: EventComboUp, At: now, Multiplier: comboMult, Detail: fmt.Sprintf("x%d", streak.WordsInStreak)})
	}
	return SubmitResult{Accepted: true, Word: &w, Snapshot: s.changed()}, nil
}

// Tick advances the countdown by one second. The frozen flag is re-checked
// right before decrementing; reaching zero finishes the session.
func (s *Session) Tick() (Snapshot, error) {
	if ok, err := s.playing(); !ok {
		return s.snapshot(), err
	}
	now := s.now()
	s.expireEffects(now)
	if s.frozen {
		return s.snapshot(), nil
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.events.push(Event{Kind: EventTimeUp, At: now})
		s.finish(now, FinishTimeUp)
	}
	return s.changed(), nil
}

// Unfreeze ends a running time freeze. It is what the scheduled freeze
// callback calls; it does nothing when no freeze is running.
func (s *Session) Unfreeze() (Snapshot, error) {
	if s.state == StateFinished {
		return s.snapshot(), ErrSessionFinished
	}
	if !s.frozen {
		return s.snapshot(), nil
	}
	s.effects.Consume(PowerUpTimeFreeze)
	s.frozen = false
	s.events.push(Event{Kind: EventFreezeEnded, At: s.now(), PowerUp: PowerUpTimeFreeze})
	return s.changed(), nil
}

// Pause stops the countdown. Only effective while Playing.
func (s *Session) Pause() (Snapshot, error) {
	if ok, err := s.playing(); !ok {
		return s.snapshot(), err
	}
	now := s.now()
	s.state = StatePaused
	s.pausedAt = now
	s.events.push(Event{Kind: EventPaused, At: now})
	return s.changed(), nil
}

// Resume restarts the countdown. Only effective while Paused. Time spent
// paused does not count towards the next word's time-to-find.
func (s *Session) Resume() (Snapshot, error) {
	if s.state == StateFinished {
		return s.snapshot(), ErrSessionFinished
	}
	if s.state != StatePaused {
		return s.snapshot(), nil
	}
	now := s.now()
	s.lastFindAt = s.lastFindAt.Add(now.Sub(s.pausedAt))
	s.state = StatePlaying
	s.events.push(Event{Kind: EventResumed, At: now})
	return s.changed(), nil
}

// AddTimeBonus adds seconds to the countdown while Playing.
func (s *Session) AddTimeBonus(seconds int) (Snapshot, error) {
	if ok, err := s.playing(); !ok || seconds <= 0 {
		return s.snapshot(), err
	}
	s.remaining += seconds
	s.events.push(Event{Kind: EventTimeBonus, At: s.now(), Seconds: seconds})
	return s.changed(), nil
}

// EndGame finishes a Playing or Paused session immediately.
func (s *Session) EndGame() (Snapshot, error) {
	switch s.state {
	case StateFinished:
		return s.snapshot(), ErrSessionFinished
	case StateNotStarted:
		return s.snapshot(), nil
	}
	s.finish(s.now(), FinishEnded)
	return s.changed(), nil
}

// ActivatePowerUp applies kind to the session while Playing.
func (s *Session) ActivatePowerUp(kind PowerUpKind) (PowerUpOutcome, error) {
	if _, ok := kind.Config(); !ok {
		return PowerUpOutcome{Kind: kind, Snapshot: s.snapshot()}, fmt.Errorf("%w: %q", ErrUnknownPowerUp, kind)
	}
	if ok, err := s.playing(); !ok {
		return PowerUpOutcome{Kind: kind, Snapshot: s.snapshot()}, err
	}
	now := s.now()
	s.expireEffects(now)
	out := PowerUpOutcome{Kind: kind, Applied: true}

	switch kind {
	case PowerUpTimeFreeze:
		s.frozen = true
	case PowerUpDoublePoints, PowerUpComboBoost:
	case PowerUpWordHint, PowerUpXRayVision:
		c := s.unfoundCandidates()
		if len(c) == 0 {
			return PowerUpOutcome{Kind: kind, Snapshot: s.snapshot()}, nil
		}
		if kind == PowerUpWordHint {
			out.Words = c[len(c)-1:]
		} else {
			out.Words = c[:min(XRayWordCount, len(c))]
		}
	case PowerUpLetterShuffle:
		s.pool = s.gen.Shuffle(s.pool)
		s.selected = nil
		s.input = ""
	case PowerUpExtraTime:
		s.remaining += ExtraTimeSeconds
		out.SecondsAdded = ExtraTimeSeconds
	case PowerUpClearMistakes:
		s.mistakes = 0
	default:
		return PowerUpOutcome{Kind: kind, Snapshot: s.snapshot()}, fmt.Errorf("%w: %q has no handler", ErrUnknownPowerUp, kind)
	}

	eff, err := s.effects.Apply(kind, now)
	if err != nil {
		return PowerUpOutcome{Kind: kind, Snapshot: s.snapshot()}, err
	}
	out.Effect = &eff
	s.events.push(Event{Kind: EventPowerUpActivated, At: now, PowerUp: kind, Seconds: out.SecondsAdded})
	out.Snapshot = s.changed()
	return out, nil
}

// Publish queues an event raised outside the engine, such as an achievement
// unlocked by the progress trackers. Finished sessions still accept events.
func (s *Session) Publish(e Event) {
	if e.At.IsZero() {
		e.At = s.now()
	}
	s.events.push(e)
}

// DrainEvents returns the queued events and empties the queue.
func (s *Session) DrainEvents() []Event { return s.events.drain() }

// PendingEvents returns the number of queued events.
func (s *Session) PendingEvents() int { return s.events.len() }

// Snapshot returns a read-only copy of the session.
func (s *Session) Snapshot() Snapshot { return s.snapshot() }

// playing reports whether the session accepts gameplay mutations.
func (s *Session) playing() (bool, error) {
	switch s.state {
	case StateFinished:
		return false, ErrSessionFinished
	case StatePlaying:
		return true, nil
	}
	return false, nil
}

func (s *Session) changed() Snapshot {
	s.version++
	return s.snapshot()
}

// expireEffects drops elapsed effects and lifts an expired freeze.
func (s *Session) expireEffects(now time.Time) {
	s.effects.CleanupExpired(now)
	if s.frozen && !s.effects.IsActive(PowerUpTimeFreeze, now) {
		s.frozen = false
		s.events.push(Event{Kind: EventFreezeEnded, At: now, PowerUp: PowerUpTimeFreeze})
	}
}

func (s *Session) finish(now time.Time, reason FinishReason) {
	s.state = StateFinished
	s.finishedAt = now
	s.reason = reason
	s.frozen = false
	s.selected = nil
	s.input = ""
	s.bestStreak = max(s.bestStreak, s.combo.Best())
	s.combo.Reset()
	s.effects.Reset()
	s.events.push(Event{Kind: EventGameOver, At: now, Points: s.score, Detail: string(reason)})
}

func (s *Session) foundTexts() []string {
	out := make([]string, len(s.found))
	for i, w := range s.found {
		out[i] = w.Text
	}
	return out
}

func (s *Session) unfoundCandidates() []string {
	return s.validator.Candidates(s.pool, s.settings.Difficulty.Config().MinWordLength, s.foundTexts())
}

// assignTiles maps each letter of text to the first unused tile holding it.
func assignTiles(pool letters.Pool, text string) []int {
	used := make([]bool, len(pool))
	out := make([]int, 0, len(text))
	for _, r := range text {
		for i, t := range pool {
			if !used[i] && t == r {
				used[i] = true
				out = append(out, i)
				break
			}
		}
	}
	return out
}

func (s *Session) snapshot() Snapshot {
	now := s.now()
	snap := Snapshot{
		ID:               s.id,
		Version:          s.version,
		State:            s.state,
		Settings:         s.settings,
		Config:           s.settings.Difficulty.Config(),
		Pool:             s.pool.Clone(),
		Words:            slices.Clone(s.found),
		Score:            s.score,
		Mistakes:         s.mistakes,
		RemainingSeconds: s.remaining,
		Frozen:           s.frozen,
		Selected:         slices.Clone(s.selected),
		Input:            s.input,
		Combo:            s.combo.Streak(),
		HasActiveCombo:   s.combo.HasActiveCombo(now),
		BestStreak:       max(s.bestStreak, s.combo.Best()),
		Effects:          s.effects.ActiveEffects(now),
		StartedAt:        s.startedAt,
		FinishedAt:       s.finishedAt,
		FinishReason:     s.reason,
	}
	if snap.Words == nil {
		snap.Words = []Word{}
	}
	if snap.Selected == nil {
		snap.Selected = []int{}
	}
	return snap
}
