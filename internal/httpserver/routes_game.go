package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/game"
	"github.com/phamduncc/find-word/internal/progress"
)

// newGameRequest starts a classic game or today's challenge.
type newGameRequest struct {
	Difficulty       string `json:"difficulty"`
	Mode             string `json:"mode"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}

type selectRequest struct {
	Index int `json:"index"`
}

type typeRequest struct {
	Text string `json:"text"`
}

type powerUpRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) mountGameRoutes(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.With(s.limiter.middleware).Post("/new", s.handleNewGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Get("/events", s.handleEvents)

			r.Group(func(r chi.Router) {
				r.Use(s.limiter.middleware)
				r.Post("/select", s.handleSelect)
				r.Post("/clear", s.sessionAction((*game.Session).ClearSelection))
				r.Post("/backspace", s.sessionAction((*game.Session).Backspace))
				r.Post("/type", s.handleType)
				r.Post("/submit", s.handleSubmit)
				r.Post("/pause", s.sessionAction((*game.Session).Pause))
				r.Post("/resume", s.sessionAction((*game.Session).Resume))
				r.Post("/end", s.sessionAction((*game.Session).EndGame))
				r.Post("/powerup", s.handlePowerUp)
			})
		})
	})
	r.Get("/powerups", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, game.PowerUpCatalog())
	})
}

// handleNewGame creates and starts a session owned by the caller.
//
//	{ "difficulty": "medium", "mode": "classic" }
//	{ "mode": "challenge" }  // today's daily challenge
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var body newGameRequest
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	pid := playerID(r)
	profile := s.profiles.get(r.Context(), pid)

	var settings game.Settings
	switch game.Mode(strings.ToLower(strings.TrimSpace(body.Mode))) {
	case game.ModeChallenge:
		settings = s.deps.Challenges.ForDate(s.opts.Now()).Settings()
	case game.ModeClassic, "":
		d := profile.Settings().Difficulty
		if body.Difficulty != "" {
			var err error
			if d, err = game.ParseDifficulty(body.Difficulty); err != nil {
				writeGameError(w, err)
				return
			}
		}
		if d == "" {
			d = game.Medium
		}
		settings = game.Settings{Difficulty: d, Mode: game.ModeClassic, TimeLimitSeconds: body.TimeLimitSeconds}
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	sess := game.NewSession("", s.deps.Validator, s.deps.Pools)
	var runner *game.Runner
	runner = game.NewRunner(sess,
		game.WithTickInterval(s.opts.TickInterval),
		game.OnFinish(func(final game.Snapshot) {
			report := profile.RecordGame(final)
			for _, e := range report.Events(final.FinishedAt) {
				runner.Publish(e)
			}
			s.recordDailyResult(pid, final, report)
		}),
	)

	snap, err := runner.Start(s.ctx, settings)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.sessions.add(&liveSession{runner: runner, playerID: pid})
	log.Info().
		Str("player", pid).
		Str("session", snap.ID).
		Str("difficulty", string(settings.Difficulty)).
		Str("mode", string(settings.Mode)).
		Msg("game started")
	writeJSON(w, http.StatusCreated, snap)
}

// recordDailyResult adds a completed challenge to the daily leaderboard.
func (s *Server) recordDailyResult(pid string, final game.Snapshot, report progress.GameReport) {
	if s.dailyStore == nil || report.Challenge == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.dailyStore.InsertResult(ctx, daily.Result{
		PlayerID:   pid,
		Date:       report.Challenge.Date,
		Challenge:  report.Challenge.ChallengeID,
		Score:      final.Score,
		WordsFound: len(final.Words),
		ElapsedMs:  final.Duration().Milliseconds(),
	})
	if err != nil {
		log.Error().Err(err).Str("player", pid).Msg("record daily result")
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ls.runner.Snapshot())
}

// handleEvents drains the session's event queue.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": ls.runner.DrainEvents()})
}

// sessionAction adapts a body-less session mutation into a handler.
func (s *Server) sessionAction(fn func(*game.Session) (game.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, ok := s.lookup(w, r)
		if !ok {
			return
		}
		var snap game.Snapshot
		err := ls.runner.Do(func(sess *game.Session) error {
			var err error
			snap, err = fn(sess)
			return err
		})
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.sessionAction(func(sess *game.Session) (game.Snapshot, error) {
		return sess.SelectLetter(body.Index)
	})(w, r)
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	var body typeRequest
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.sessionAction(func(sess *game.Session) (game.Snapshot, error) {
		return sess.TypeInput(body.Text)
	})(w, r)
}

// handleSubmit submits the current input. Rejections are a 200 with
// accepted=false and a reason.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var res game.SubmitResult
	err := ls.runner.Do(func(sess *game.Session) error {
		var err error
		res, err = sess.SubmitWord()
		return err
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	if res.Accepted {
		profile := s.profiles.get(r.Context(), ls.playerID)
		for _, a := range profile.RecordWord(res.Snapshot) {
			ls.runner.Publish(game.Event{Kind: game.EventAchievementUnlocked, At: a.UnlockedAt, Detail: string(a.Kind)})
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePowerUp spends one owned power-up on the session. The item is given
// back when the session does not apply it.
func (s *Server) handlePowerUp(w http.ResponseWriter, r *http.Request) {
	var body powerUpRequest
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	kind, err := game.ParsePowerUp(body.Kind)
	if err != nil {
		writeGameError(w, err)
		return
	}
	ls, ok := s.lookup(w, r)
	if !ok {
		return
	}
	profile := s.profiles.get(r.Context(), ls.playerID)
	if err := profile.UsePowerUp(kind); err != nil {
		writeError(w, http.StatusPaymentRequired, "no_inventory")
		return
	}

	var out game.PowerUpOutcome
	err = ls.runner.Do(func(sess *game.Session) error {
		var err error
		out, err = sess.ActivatePowerUp(kind)
		return err
	})
	if err != nil || !out.Applied {
		profile.RestorePowerUp(kind)
	}
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// lookup resolves {id} to a session owned by the caller, writing 404 when
// there is none.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*liveSession, bool) {
	ls, ok := s.sessions.get(chi.URLParam(r, "id"), playerID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "game_not_found")
		return nil, false
	}
	return ls, true
}

// writeGameError maps engine errors to status codes.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrSessionFinished):
		writeError(w, http.StatusConflict, "game_finished")
	case errors.Is(err, game.ErrInvalidTile):
		writeError(w, http.StatusBadRequest, "invalid_tile")
	case errors.Is(err, game.ErrUnknownPowerUp):
		writeError(w, http.StatusBadRequest, "unknown_power_up")
	case errors.Is(err, game.ErrUnknownDifficulty):
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
	default:
		log.Error().Err(err).Msg("game action")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
