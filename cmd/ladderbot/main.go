// cmd/ladderbot/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Ladderbot/internal/board"
	"github.com/codr1/Ladderbot/internal/bot"
	"github.com/codr1/Ladderbot/internal/config"
	"github.com/codr1/Ladderbot/internal/db"
	"github.com/codr1/Ladderbot/internal/email"
	"github.com/codr1/Ladderbot/internal/ladder"
	"github.com/codr1/Ladderbot/internal/notify"
	"github.com/codr1/Ladderbot/internal/ratelimit"
	"github.com/codr1/Ladderbot/internal/scheduler"
	"github.com/codr1/Ladderbot/internal/store"
)

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// app holds everything main has to shut down.
type app struct {
	cfg       *config.Config
	engine    *ladder.Engine
	server    *http.Server
	scheduler *scheduler.Service
	limiter   *ratelimit.Limiter
	mailer    *email.Notifier
	database  *db.DB
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}
	setupLogger(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ladderbot")
	}

	if err := a.run(ctx); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

func build(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{cfg: cfg}
	defer func() {
		if err != nil {
			a.release()
		}
	}()

	var repo ladder.Repository
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory storage; ladder state is lost on restart")
		repo = store.NewMemoryStore()
	default:
		database, err := db.NewFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.database = database
		repo = store.NewSQLiteStore(database)
	}

	notifiers := notify.Multi{notify.LogNotifier{}}
	if cfg.Notifications.Driver == config.NotifierSES {
		client, err := email.NewSESClient(ctx, cfg.Notifications)
		if err != nil {
			return nil, fmt.Errorf("create ses client: %w", err)
		}
		a.mailer = email.NewNotifier(repo, client, cfg.App.Name)
		notifiers = append(notifiers, a.mailer)
	}

	engine, err := ladder.NewEngine(repo,
		ladder.WithNotifier(notifiers),
		ladder.WithChallengeRange(cfg.Ladder.ChallengeRange),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine = engine

	if cfg.Boards.Enabled {
		var publisher board.Publisher = board.LogPublisher{}
		if cfg.Boards.WebhookURL != "" {
			publisher = board.NewWebhookPublisher(cfg.Boards.WebhookURL, cfg.Boards.WebhookToken)
		}
		sched, err := scheduler.New()
		if err != nil {
			return nil, fmt.Errorf("create scheduler: %w", err)
		}
		if err := board.NewRefresher(engine, publisher).Schedule(sched, cfg.Boards.RefreshCron); err != nil {
			return nil, err
		}
		a.scheduler = sched
	}

	a.limiter = ratelimit.New(&ratelimit.Config{
		CommandCooldown:   cfg.RateLimit.CommandCooldown,
		CommandMaxPerHour: cfg.RateLimit.CommandMaxPerHour,
		IPMaxPerHour:      cfg.RateLimit.IPMaxPerHour,
	})

	if cfg.App.SecretKey == "" {
		if cfg.App.Environment == "production" {
			return nil, errors.New("APP_SECRET_KEY is required in production")
		}
		log.Warn().Msg("APP_SECRET_KEY not set; gateway token check disabled")
	}
	a.server = newServer(cfg, bot.New(engine), engine, a.limiter)
	return a, nil
}

func (a *app) run(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().Int("port", a.cfg.App.Port).Str("environment", a.cfg.App.Environment).Msg("Starting ladderbot")
		if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.close()
	return err
}

func (a *app) close() {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}
	if a.mailer != nil {
		a.mailer.Wait()
	}
	a.release()
}

// release closes what build opened. It is safe on a partially built app.
func (a *app) release() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		a.database = nil
	}
}
