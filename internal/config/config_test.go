package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DRAGSORT_CONFIG", "")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.UI.ItemHeight != 3 || !c.UI.Vibrate || !c.UI.HandleOnly {
		t.Fatalf("unexpected ui defaults: %+v", c.UI)
	}
	if c.UI.HandleClass != "drag-handle" || c.UI.CancelPolicy != "commit" {
		t.Fatalf("unexpected ui defaults: %+v", c.UI)
	}
	if got := c.UI.AnimationDuration(); got != 150*time.Millisecond {
		t.Fatalf("expected 150ms animation; got %v", got)
	}
	if got := c.UI.SettleDelay(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms settle; got %v", got)
	}
	if filepath.Base(c.Database.Path) != "dragsort.db" {
		t.Fatalf("unexpected db path %q", c.Database.Path)
	}
	if c.Log.Path != "" || c.Log.Level != "info" {
		t.Fatalf("unexpected log defaults: %+v", c.Log)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[database]
path = "/tmp/lists.db"

[ui]
item_height = 2
cancel_policy = "abort"
vibrate = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DRAGSORT_UI_ANIMATION_MS", "0")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Database.Path != "/tmp/lists.db" {
		t.Fatalf("expected db path from file; got %q", c.Database.Path)
	}
	if c.UI.ItemHeight != 2 || c.UI.CancelPolicy != "abort" || c.UI.Vibrate {
		t.Fatalf("expected file values; got %+v", c.UI)
	}
	if c.UI.AnimationMs != 0 {
		t.Fatalf("expected env override to disable animation; got %d", c.UI.AnimationMs)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DRAGSORT_CONFIG", "")
	t.Setenv("DRAGSORT_UI_ITEM_HEIGHT", "0")

	_, err := Load("")
	var inv *InvalidError
	if !errors.As(err, &inv) {
		t.Fatalf("expected *InvalidError; got %v", err)
	}
	if inv.Key != "ui.item_height" {
		t.Fatalf("expected ui.item_height; got %s", inv.Key)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Path: "x.db"},
		UI:       UIConfig{ItemHeight: 3, CancelPolicy: "commit"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config; got %v", err)
	}

	cases := map[string]func(c *Config){
		"database.path":    func(c *Config) { c.Database.Path = " " },
		"ui.item_height":   func(c *Config) { c.UI.ItemHeight = -1 },
		"ui.animation_ms":  func(c *Config) { c.UI.AnimationMs = -5 },
		"ui.settle_ms":     func(c *Config) { c.UI.SettleMs = -1 },
		"ui.cancel_policy": func(c *Config) { c.UI.CancelPolicy = "undo" },
		"log.level":        func(c *Config) { c.Log.Level = "loud" },
	}
	for key, mutate := range cases {
		c := base
		mutate(&c)
		var inv *InvalidError
		if err := c.Validate(); !errors.As(err, &inv) || inv.Key != key {
			t.Fatalf("%s: expected InvalidError for key; got %v", key, err)
		}
	}
}
