package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Jukebox/internal/adapters/http"
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/app/orch"
	"github.com/dkeye/Jukebox/internal/config"
	"github.com/dkeye/Jukebox/internal/core"
	"github.com/dkeye/Jukebox/internal/domain"
)

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	fs := pflag.NewFlagSet("jukebox", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs, setLogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setLogLevel(cfg.LogLevel)

	manager := app.NewRoomManager(core.NowPlayingPolicyFor(cfg.NowPlayingMatch))
	reg := app.NewRegistry(app.IdentityMode(cfg.VoteIdentity))
	o := &orch.Orchestrator{
		Registry:  reg,
		Rooms:     manager,
		Broadcast: app.NewBroadcaster(reg, app.SimplePolicy{}),
		UserLimit: app.NewSlidingWindowLimiter(cfg.RateLimit.UserLimit, cfg.RateLimit.UserInterval),
	}

	room := manager.CreateRoom(domain.RoomConfig{
		Code:    cfg.Room.Code,
		Name:    cfg.Room.Name,
		Pin:     cfg.Room.Pin,
		TipsURL: cfg.Room.TipsURL,
	})
	log.Info().Str("code", string(room.Code())).Str("pin", room.Pin()).Msg("room ready")

	connLimit := app.NewSlidingWindowLimiter(cfg.RateLimit.ConnLimit, cfg.RateLimit.ConnInterval)
	r := router.SetupRouter(ctx, cfg, o, connLimit)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Jukebox server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}
