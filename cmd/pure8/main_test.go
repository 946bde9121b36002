package main

import (
	"path/filepath"
	"testing"

	"github.com/pure8plus/pure8/internal/config"
)

func TestApplyFlagsWebOnlyEnablesWeb(t *testing.T) {
	cfg := config.Default()
	applyFlags(&cfg, "/tmp/pure8/config.json", "", false, true, 0)

	if !cfg.WebEnabled {
		t.Fatal("-web-only should enable the web server by itself")
	}
	if cfg.WebPort != 8484 {
		t.Fatalf("web port = %d, want 8484", cfg.WebPort)
	}
}

func TestApplyFlagsDefaults(t *testing.T) {
	cfg := config.Default()
	applyFlags(&cfg, "/tmp/pure8/config.json", "", false, false, 0)

	if cfg.WebEnabled {
		t.Fatal("web server should stay off without -web")
	}
	want := filepath.Join("/tmp/pure8", "pure8.db")
	if cfg.DBPath != want {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, want)
	}
}

func TestApplyFlagsOverrides(t *testing.T) {
	cfg := config.Default()
	applyFlags(&cfg, "/tmp/pure8/config.json", "/data/p8.db", true, false, 9000)

	if cfg.DBPath != "/data/p8.db" {
		t.Fatalf("db path = %q, want /data/p8.db", cfg.DBPath)
	}
	if !cfg.WebEnabled || cfg.WebPort != 9000 {
		t.Fatalf("web = %v port = %d, want enabled on 9000", cfg.WebEnabled, cfg.WebPort)
	}
}
