// Package app assembles the broker: configuration, storage, the forecast
// client, the Discord gateway session and the diagnostics HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/config"
	"github.com/peake100/stalkbroker/internal/discord"
	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/forecast"
	"github.com/peake100/stalkbroker/internal/store"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	session *discordgo.Session
	httpSrv *http.Server
	repo    store.Repo
	router  *discord.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	// Guild messages drive commands, guild members drive membership upserts,
	// and message content is required to read the commands at all.
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, session: session, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting stalkbroker",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("forecast", a.cfg.ForecastAddr),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	forecaster, err := forecast.NewClient(a.cfg.ForecastAddr, a.log)
	if err != nil {
		a.log.Error("forecast client init failed", zap.Error(err))
		return err
	}

	a.router = discord.NewRouter(a.session, a.log, a.repo, forecaster, domain.SystemClock{})
	a.router.Register()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	if err := a.session.Open(); err != nil {
		a.log.Error("discord gateway open failed", zap.Error(err))
		return err
	}
	a.log.Info("discord gateway connected")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	a.log.Info("shutdown signal received")

	if err := a.session.Close(); err != nil {
		a.log.Warn("discord gateway close error", zap.Error(err))
	}

	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
	return nil
}
