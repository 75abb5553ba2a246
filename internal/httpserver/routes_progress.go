package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phamduncc/find-word/internal/game"
	"github.com/phamduncc/find-word/internal/progress"
)

func (s *Server) mountProgressRoutes(r chi.Router) {
	r.Get("/scores", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"scores": s.profile(r).AllHighScores()})
	})
	r.Get("/scores/{difficulty}", s.handleScores)
	r.Get("/achievements", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.profile(r).Achievements())
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		st := s.profile(r).Stats()
		writeJSON(w, http.StatusOK, map[string]any{"stats": st, "averageScore": st.AverageScore()})
	})
	r.Get("/wallet", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.profile(r).Wallet())
	})
	r.With(s.limiter.middleware).Post("/wallet/purchase", s.handlePurchase)
	r.Get("/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.profile(r).Settings())
	})
	r.Put("/settings", s.handleUpdateSettings)
}

func (s *Server) profile(r *http.Request) *progress.Profile {
	return s.profiles.get(r.Context(), playerID(r))
}

// handleScores returns the caller's ledger for one difficulty.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	d, err := game.ParseDifficulty(chi.URLParam(r, "difficulty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
		return
	}
	p := s.profile(r)
	writeJSON(w, http.StatusOK, map[string]any{"difficulty": d, "best": p.BestScore(d), "scores": p.HighScores(d)})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var body powerUpRequest
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	kind, err := game.ParsePowerUp(body.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_power_up")
		return
	}
	wallet, err := s.profile(r).Purchase(kind)
	switch {
	case errors.Is(err, progress.ErrInsufficientCoins):
		writeJSON(w, http.StatusPaymentRequired, map[string]any{"error": "insufficient_coins", "wallet": wallet})
	case err != nil:
		writeGameError(w, err)
	default:
		writeJSON(w, http.StatusOK, wallet)
	}
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body progress.Settings
	if !decodeBody(r, &body) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if len(body.PlayerName) > 24 {
		writeError(w, http.StatusBadRequest, "name_too_long")
		return
	}
	p := s.profile(r)
	if err := p.UpdateSettings(body); err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
		return
	}
	writeJSON(w, http.StatusOK, p.Settings())
}
