package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"stagedoor/internal/auth"
	"stagedoor/internal/logging"
	"stagedoor/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	if err := bootstrapAdmin(context.Background(), dataStore); err != nil {
		log.Fatal().Err(err).Msg("bootstrap")
	}

	handler := newHTTPHandler(cfg, dataStore, tokens)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
