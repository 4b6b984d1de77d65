package config

import (
	"testing"
	"time"
)

func TestDefaultBackendTimeouts(t *testing.T) {
	cfg := Default()
	if got := cfg.Backend.ConnectTimeout(); got != 30*time.Second {
		t.Fatalf("connect timeout want 30s got %s", got)
	}
	if got := cfg.Backend.ReadTimeout(); got != 30*time.Second {
		t.Fatalf("read timeout want 30s got %s", got)
	}
	if got := cfg.Backend.WriteTimeout(); got != 30*time.Second {
		t.Fatalf("write timeout want 30s got %s", got)
	}
	if cfg.Backend.APIPrefix != "/api" {
		t.Fatalf("api prefix want /api got %s", cfg.Backend.APIPrefix)
	}
}

func TestSecondsOrFallsBackForNonPositive(t *testing.T) {
	if got := secondsOr(0, 7); got != 7*time.Second {
		t.Fatalf("want 7s got %s", got)
	}
	if got := secondsOr(-3, 7); got != 7*time.Second {
		t.Fatalf("want 7s got %s", got)
	}
	if got := secondsOr(2, 7); got != 2*time.Second {
		t.Fatalf("want 2s got %s", got)
	}
}

func TestDefaultCatalogAndQueues(t *testing.T) {
	cfg := Default()
	if cfg.Catalog.BackfillConcurrency != 4 {
		t.Fatalf("backfill concurrency want 4 got %d", cfg.Catalog.BackfillConcurrency)
	}
	if cfg.Catalog.CacheTTL() != 5*time.Minute {
		t.Fatalf("cache ttl want 5m got %s", cfg.Catalog.CacheTTL())
	}
	if cfg.Queue.Queues["default"] != 1 {
		t.Fatalf("default queue weight want 1 got %v", cfg.Queue.Queues)
	}
	if cfg.Session.Database.Driver != "sqlite" {
		t.Fatalf("session driver want sqlite got %s", cfg.Session.Database.Driver)
	}
}
