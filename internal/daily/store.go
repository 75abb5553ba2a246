package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one player's best completed attempt at a day's challenge.
type Result struct {
	PlayerID   string `json:"playerId"`
	Date       string `json:"date"`
	Challenge  string `json:"challenge"`
	Score      int    `json:"score"`
	WordsFound int    `json:"wordsFound"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// Store keeps daily results in the daily_results table.
type Store struct{ db *sql.DB }

// NewStore wraps db. The daily_results table must exist.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether playerID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same player and date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_results
            (player_id, date, challenge, score, words_found, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.PlayerID, r.Date, r.Challenge, r.Score, r.WordsFound, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

// Leaderboard returns the top results of date: highest score first, then
// fastest, then earliest. A limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, date, challenge, score, words_found, elapsed_ms
        FROM daily_results
        WHERE date=?
        ORDER BY score DESC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.PlayerID, &r.Date, &r.Challenge, &r.Score, &r.WordsFound, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
