// main.go
//
// Entry point of the find-word server.
//
// Startup:
//  1. Read .env and the environment (internal/config).
//  2. Load the dictionary (embedded unless DICTIONARY_FILE is set).
//  3. Open SQLite, run the embedded migrations, wrap the kv table in an
//     async writer so gameplay never waits on disk.
//  4. Serve HTTP until SIGINT/SIGTERM, then drain in-flight requests, stop
//     running games and flush pending writes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/assets"
	"github.com/phamduncc/find-word/internal/config"
	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/httpserver"
	"github.com/phamduncc/find-word/internal/letters"
	"github.com/phamduncc/find-word/internal/store"
	"github.com/phamduncc/find-word/internal/words"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.InitFrom(cfg.DictionaryFile); err != nil {
		log.Fatal().Err(err).Str("file", cfg.DictionaryFile).Msg("failed to load dictionary")
	}
	validator := words.NewValidator(words.Default())

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open db")
	}
	defer db.Close()
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	writer := store.NewAsyncWriter(store.NewSQLite(db), cfg.WriteQueue)

	srv := httpserver.New(httpserver.Deps{
		DB:         db,
		KV:         writer,
		Validator:  validator,
		Pools:      letters.NewGenerator(validator, nil),
		Challenges: daily.NewGenerator(cfg.DailySalt),
	}, httpserver.Options{
		JWTSecret:       cfg.JWTSecret,
		JWTExpiry:       cfg.JWTExpiry,
		AllowedOrigin:   cfg.AllowedOrigin,
		SecureCookies:   cfg.SecureCookies,
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
		SessionTTL:      cfg.SessionTTL,
		CleanupInterval: cfg.CleanupInterval,
	})

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Int("words", validator.Dictionary().Len()).Msg("starting find-word server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	srv.Close()
	if err := writer.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("flush pending writes")
	}
	writer.Close()
}
