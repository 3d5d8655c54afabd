// Package config holds the server settings: listen address, database
// location, tick cadence, and new-game defaults. Values come from the
// environment (optionally via a .env file loaded in main) and fall back
// to Default().
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application settings (in-memory representation).
type Config struct {
	Addr    string `json:"addr"`
	DBPath  string `json:"db_path"`
	Version string `json:"version"`

	// Market cadence.
	PartsTick      time.Duration `json:"parts_tick"`
	MarketTick     time.Duration `json:"market_tick"`
	ListingRefresh time.Duration `json:"listing_refresh"`
	Autosave       bool          `json:"autosave"`
	AutosaveSlot   int           `json:"autosave_slot"`

	// New-game defaults.
	DefaultAlias      string `json:"default_alias"`
	DefaultDifficulty string `json:"default_difficulty"`
	DefaultCurrency   string `json:"default_currency"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Addr:              "127.0.0.1:8080",
		DBPath:            "garage.db",
		Version:           "dev",
		PartsTick:         8 * time.Second,
		MarketTick:        7 * time.Second,
		ListingRefresh:    3 * time.Minute,
		Autosave:          true,
		AutosaveSlot:      0,
		DefaultAlias:      "Crew Chief",
		DefaultDifficulty: "standard",
		DefaultCurrency:   "USD",
	}
}

// FromEnv builds a Config from the environment on top of Default().
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.Addr = envOrDefault("GARAGE_ADDR", cfg.Addr)
	cfg.DBPath = envOrDefault("GARAGE_DB", cfg.DBPath)
	cfg.DefaultAlias = envOrDefault("GARAGE_ALIAS", cfg.DefaultAlias)
	cfg.DefaultDifficulty = envOrDefault("GARAGE_DIFFICULTY", cfg.DefaultDifficulty)
	cfg.DefaultCurrency = envOrDefault("GARAGE_CURRENCY", cfg.DefaultCurrency)

	var err error
	if cfg.PartsTick, err = envDuration("GARAGE_PARTS_TICK", cfg.PartsTick); err != nil {
		return nil, err
	}
	if cfg.MarketTick, err = envDuration("GARAGE_MARKET_TICK", cfg.MarketTick); err != nil {
		return nil, err
	}
	if cfg.ListingRefresh, err = envDuration("GARAGE_LISTING_REFRESH", cfg.ListingRefresh); err != nil {
		return nil, err
	}
	if v := os.Getenv("GARAGE_AUTOSAVE"); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return nil, fmt.Errorf("parse GARAGE_AUTOSAVE: %w", perr)
		}
		cfg.Autosave = b
	}
	if v := os.Getenv("GARAGE_AUTOSAVE_SLOT"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil {
			return nil, fmt.Errorf("parse GARAGE_AUTOSAVE_SLOT: %w", perr)
		}
		cfg.AutosaveSlot = n
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
