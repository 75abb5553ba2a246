package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/progress"
)

func (s *Server) mountDailyRoutes(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Get("/week", s.handleDailyWeek)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

// dailyStatus is today's challenge as seen by one player.
type dailyStatus struct {
	progress.ChallengeStatus
	OnLeaderboard bool `json:"onLeaderboard"`
}

// handleDaily returns today's challenge with the caller's completion and
// streak. Everyone gets the same challenge for the same UTC day.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	c := s.deps.Challenges.ForDate(s.opts.Now())
	out := dailyStatus{ChallengeStatus: s.profile(r).Challenge(c)}
	if s.dailyStore != nil {
		played, err := s.dailyStore.AlreadyPlayed(r.Context(), playerID(r), c.Date)
		if err != nil {
			log.Warn().Err(err).Msg("daily leaderboard lookup")
		}
		out.OnLeaderboard = played
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDailyWeek returns today's challenge and the next six.
func (s *Server) handleDailyWeek(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Challenges.Week(s.opts.Now()))
}

// handleDailyLeaderboard lists the best completions of a day.
// Query: ?date=YYYY-MM-DD (default today), ?limit=N (default 20, max 100).
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.dailyStore == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard_disabled")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	} else if _, err := daily.ParseDateKey(date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit = min(limit, 100)

	results, err := s.dailyStore.Leaderboard(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "results": results})
}
