package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AppName != "afs" {
		t.Fatalf("AppName = %q, want %q", cfg.AppName, "afs")
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "memory")
	}
	if cfg.API.ProductTimeout != 8*time.Second {
		t.Fatalf("API.ProductTimeout = %v, want 8s", cfg.API.ProductTimeout)
	}
	if cfg.Cache.FacetTTL != 5*time.Minute {
		t.Fatalf("Cache.FacetTTL = %v, want 5m", cfg.Cache.FacetTTL)
	}
	if cfg.Engine.Debounce != 250*time.Millisecond {
		t.Fatalf("Engine.Debounce = %v, want 250ms", cfg.Engine.Debounce)
	}
	if cfg.Shop.MoneyFormat != "${{amount}}" {
		t.Fatalf("Shop.MoneyFormat = %q, want the dollar default", cfg.Shop.MoneyFormat)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOP_DOMAIN", "demo.myshopify.com")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("ENGINE_DEBOUNCE", "100ms")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Shop.Domain != "demo.myshopify.com" {
		t.Fatalf("Shop.Domain = %q, want the env value", cfg.Shop.Domain)
	}
	if cfg.Cache.Backend != "redis" {
		t.Fatalf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Engine.Debounce != 100*time.Millisecond {
		t.Fatalf("Engine.Debounce = %v, want 100ms", cfg.Engine.Debounce)
	}
	if cfg.ENV != "production" {
		t.Fatalf("ENV = %q, want %q", cfg.ENV, "production")
	}
}
