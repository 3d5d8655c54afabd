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

	"car-flipper/internal/api"
	"car-flipper/internal/config"
	"car-flipper/internal/db"
	"car-flipper/internal/engine"
	"car-flipper/internal/logger"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// .env is optional; real env vars win either way.
	godotenv.Load()

	logger.Banner(version)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("Config", fmt.Sprintf("Bad environment: %v", err))
		os.Exit(1)
	}
	cfg.Version = version

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Resume the autosave slot if it holds a game, otherwise start fresh.
	game, slot := loadOrNewGame(cfg, database)

	logger.Section("Game")
	logger.Stats("Alias", game.Alias())
	logger.Stats("Slot", slot)
	logger.Stats("Parts tick", cfg.PartsTick)
	logger.Stats("Market tick", cfg.MarketTick)
	logger.Stats("Listing refresh", cfg.ListingRefresh)

	srv := api.NewServer(cfg, database, game, slot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runTickers(ctx, cfg, database, srv)

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}
	go func() {
		logger.Server(cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server", fmt.Sprintf("Failed: %v", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Server", "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpSrv.Shutdown(shutdownCtx)

	if cfg.Autosave {
		autosave(database, srv)
	}
}

// loadOrNewGame resumes the configured autosave slot, falling back to a
// fresh game when the slot is empty or unreadable.
func loadOrNewGame(cfg *config.Config, database *db.DB) (*engine.Game, int) {
	slot := cfg.AutosaveSlot
	if slot < 0 || slot >= db.SaveSlotCount {
		slot = 0
	}
	state, err := database.LoadState(slot)
	if err == nil {
		logger.Success("Game", fmt.Sprintf("Resumed %s (day %d) from slot %d", state.Alias, state.Day, slot))
		return engine.New(state, nil), slot
	}
	if err != db.ErrNoSave {
		logger.Warn("Game", fmt.Sprintf("Slot %d unreadable, starting fresh: %v", slot, err))
	}
	game := engine.NewGame(cfg.DefaultAlias, cfg.DefaultDifficulty, cfg.DefaultCurrency, nil)
	logger.Success("Game", fmt.Sprintf("New game for %s (%s, %s)", cfg.DefaultAlias, cfg.DefaultDifficulty, cfg.DefaultCurrency))
	return game, slot
}

// runTickers drives the simulation clocks: fast part-price drift, the
// wider market tick with heat events, and the periodic listing reroll.
func runTickers(ctx context.Context, cfg *config.Config, database *db.DB, srv *api.Server) {
	parts := time.NewTicker(cfg.PartsTick)
	market := time.NewTicker(cfg.MarketTick)
	listings := time.NewTicker(cfg.ListingRefresh)
	defer parts.Stop()
	defer market.Stop()
	defer listings.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-parts.C:
			srv.Game().TickParts()
			srv.Broadcast()
		case <-market.C:
			srv.Game().TickMarket()
			srv.Broadcast()
			if cfg.Autosave {
				autosave(database, srv)
			}
		case <-listings.C:
			srv.Game().RefreshListings()
			srv.Broadcast()
			if cfg.Autosave {
				autosave(database, srv)
			}
		}
	}
}

func autosave(database *db.DB, srv *api.Server) {
	state, err := srv.Game().Snapshot()
	if err != nil {
		logger.Warn("Save", fmt.Sprintf("Snapshot failed: %v", err))
		return
	}
	if err := database.SaveState(srv.Slot(), state); err != nil {
		logger.Warn("Save", fmt.Sprintf("Autosave failed: %v", err))
	}
}
