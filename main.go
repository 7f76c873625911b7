/*
Package main
File: main.go
Description: Server entry point. Loads the config and the universe, restores
the saved game (or starts a new one), runs the real-time WebSocket hub and
serves the travel API. Autosaves on a timer and on shutdown.
*/

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/everforgeworks/galaxies-warp/internal/api"
	"github.com/everforgeworks/galaxies-warp/internal/config"
	"github.com/everforgeworks/galaxies-warp/internal/game"
	"github.com/everforgeworks/galaxies-warp/internal/store"
)

func main() {
	// 1. Settings, then logging
	if err := config.Load("."); err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("Config Fail")
	}
	log, closeLog := setupLogging()
	defer closeLog()

	// 2. Load the static universe configuration from YAML
	uniPath := config.GetString("universe.path")
	uni, err := game.LoadUniverse(uniPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", uniPath).Msg("Universe Fail")
	}

	// 3. Restore the saved game or start a new one
	db, err := store.Open(config.GetString("store.path"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Store Fail")
	}
	defer db.Close()

	saveName := config.GetString("game.saveName")
	gs, err := loadOrCreateGame(db, uni, saveName)
	if err != nil {
		log.Fatal().Err(err).Msg("Game Fail")
	}

	seed := config.GetUint64("game.seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Initialize and start the Real-Time WebSocket Hub
	hub := api.NewHub(log)
	go hub.Run(ctx)

	srv := api.NewServer(api.Options{
		State:    gs,
		Rand:     game.NewRand(seed),
		Hub:      hub,
		Store:    db,
		SaveName: saveName,
		Log:      log,
	})

	save := func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Save(saveCtx, saveName, srv.Snapshot()); err != nil {
			log.Error().Err(err).Str("save", saveName).Msg("Autosave failed")
			return
		}
		log.Debug().Str("save", saveName).Msg("Autosaved")
	}

	// 5. Autosave heartbeat
	if every := config.GetDuration("store.autosave"); every > 0 {
		go func() {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					save()
				}
			}
		}()
	}

	// 6. Hot-reload logic: Listen for SIGHUP to refresh the universe without restart
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		defer signal.Stop(sigChan)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
			}
			log.Info().Str("path", uniPath).Msg("SIGNAL: Reloading Universe")
			fresh, err := game.LoadUniverse(uniPath)
			if err != nil {
				log.Error().Err(err).Msg("Reload failed, keeping the current universe")
				continue
			}
			if err := srv.ReloadUniverse(fresh); err != nil {
				log.Error().Err(err).Msg("Reload refused")
			}
		}
	}()

	// 7. Start the Server
	limiter := api.NewRateLimiter(config.GetFloat64("server.rateLimit"), config.GetInt("server.rateBurst"), log)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Prune()
			}
		}
	}()

	cors := api.NewCORS(config.GetStringSlice("server.corsOrigins"))
	httpSrv := &http.Server{
		Addr:              config.Addr(),
		Handler:           cors(limiter.Middleware(srv.Routes())),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Str("commander", gs.Ship.Crew[0].Name).Int("day", gs.Days).Msg("GALAXIES: WARP Server live")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	save()
}

// loadOrCreateGame restores the named save, or starts a new game from the
// game.* settings when there is none.
func loadOrCreateGame(db *store.Store, uni *game.Universe, name string) (*game.GameState, error) {
	gs, err := db.Load(context.Background(), name, uni)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return gs, err
	}

	difficulty, err := game.ParseDifficulty(config.GetString("game.difficulty"))
	if err != nil {
		return nil, err
	}
	return game.NewGame(uni, game.NewGameOptions{
		Commander:   game.CrewMember{Name: config.GetString("game.commander"), Pilot: 4, Fighter: 4, Trader: 4, Engineer: 4},
		Difficulty:  difficulty,
		StartSystem: config.GetString("game.startSystem"),
	})
}

// setupLogging builds the console logger, teeing into logFile when one is set.
func setupLogging() (zerolog.Logger, func()) {
	var level zerolog.Level
	switch strings.ToUpper(config.GetString("logLevel")) {
	case "DEBUG":
		level = zerolog.DebugLevel
	case "INFO":
		level = zerolog.InfoLevel
	case "WARN":
		level = zerolog.WarnLevel
	case "ERROR":
		level = zerolog.ErrorLevel
	case "TRACE":
		level = zerolog.TraceLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	closer := func() {}
	if path := config.GetString("logFile"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
			closer = func() { f.Close() }
		}
	}
	return zerolog.New(out).With().Timestamp().Logger(), closer
}
