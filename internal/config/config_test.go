package config

import (
	"testing"
	"time"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q, want 127.0.0.1:8080", c.Addr)
	}
	if c.PartsTick != 8*time.Second {
		t.Errorf("PartsTick = %v, want 8s", c.PartsTick)
	}
	if c.MarketTick != 7*time.Second {
		t.Errorf("MarketTick = %v, want 7s", c.MarketTick)
	}
	if c.ListingRefresh != 3*time.Minute {
		t.Errorf("ListingRefresh = %v, want 3m", c.ListingRefresh)
	}
	if !c.Autosave {
		t.Error("Autosave should default to true")
	}
	if c.DefaultDifficulty != "standard" || c.DefaultCurrency != "USD" {
		t.Errorf("new-game defaults = %q/%q", c.DefaultDifficulty, c.DefaultCurrency)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("GARAGE_ADDR", "0.0.0.0:9999")
	t.Setenv("GARAGE_MARKET_TICK", "500ms")
	t.Setenv("GARAGE_AUTOSAVE", "false")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Addr != "0.0.0.0:9999" {
		t.Errorf("Addr = %q", c.Addr)
	}
	if c.MarketTick != 500*time.Millisecond {
		t.Errorf("MarketTick = %v, want 500ms", c.MarketTick)
	}
	if c.Autosave {
		t.Error("Autosave override not applied")
	}
	// Untouched values keep their defaults.
	if c.PartsTick != 8*time.Second {
		t.Errorf("PartsTick = %v, want default 8s", c.PartsTick)
	}
}

func TestFromEnv_BadDuration(t *testing.T) {
	t.Setenv("GARAGE_PARTS_TICK", "not-a-duration")
	if _, err := FromEnv(); err == nil {
		t.Fatal("malformed duration must error")
	}
}
