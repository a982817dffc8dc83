// cmd/ladderbot/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/Ladderbot/internal/api"
	"github.com/codr1/Ladderbot/internal/api/commands"
	"github.com/codr1/Ladderbot/internal/api/divisions"
	"github.com/codr1/Ladderbot/internal/bot"
	"github.com/codr1/Ladderbot/internal/config"
	"github.com/codr1/Ladderbot/internal/ratelimit"
)

func newServer(cfg *config.Config, dispatcher *bot.Dispatcher, reader divisions.Reader, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	commands.InitHandlers(dispatcher, limiter, cfg.App.TrustProxy)
	divisions.InitHandlers(reader)
	registerRoutes(router)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithToken(cfg.App.SecretKey),
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/commands", commands.HandleCommand)

	mux.HandleFunc("GET /api/v1/divisions/{division}/standings", divisions.HandleStandings)
	mux.HandleFunc("GET /api/v1/divisions/{division}/challenges", divisions.HandleChallenges)
}
