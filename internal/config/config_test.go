package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "FEE_RATE", "PRICE_SOURCES", "PRICE_TIMEOUT", "TARGET_STOCK_FRACTION"} {
			t.Setenv(key, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Addr = %q, want localhost:5001", cfg.Server.Addr)
		}
		if cfg.Rules.FeeRate != 0.001425 || cfg.Rules.FeeDiscount != 0.28 || cfg.Rules.StockTaxRate != 0.001 {
			t.Errorf("unexpected rules %+v", cfg.Rules)
		}
		if cfg.Portfolio.TargetStockFraction != 0.6 {
			t.Errorf("TargetStockFraction = %v, want 0.6", cfg.Portfolio.TargetStockFraction)
		}
		if strings.Join(cfg.PriceSource.Sources, ",") != "twse,yahoo" {
			t.Errorf("Sources = %v, want [twse yahoo]", cfg.PriceSource.Sources)
		}
		if cfg.PriceSource.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", cfg.PriceSource.Timeout)
		}
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("FEE_DISCOUNT", "0.6")
		t.Setenv("PRICE_PROXIES", "https://proxy.one/?url=, https://proxy.two/raw?u=")
		t.Setenv("PRICE_TIMEOUT", "3s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Port = %q, want 8080", cfg.Server.Port)
		}
		if cfg.Rules.FeeDiscount != 0.6 {
			t.Errorf("FeeDiscount = %v, want 0.6", cfg.Rules.FeeDiscount)
		}
		if len(cfg.PriceSource.Proxies) != 2 || cfg.PriceSource.Proxies[1] != "https://proxy.two/raw?u=" {
			t.Errorf("Proxies = %v", cfg.PriceSource.Proxies)
		}
		if cfg.PriceSource.Timeout != 3*time.Second {
			t.Errorf("Timeout = %v, want 3s", cfg.PriceSource.Timeout)
		}
	})

	t.Run("rejects invalid numbers", func(t *testing.T) {
		t.Setenv("FEE_RATE", "abc")

		if _, err := Load(); err == nil {
			t.Error("expected error for non-numeric FEE_RATE")
		}
	})

	t.Run("rejects target fraction outside (0, 1)", func(t *testing.T) {
		t.Setenv("TARGET_STOCK_FRACTION", "1.2")

		if _, err := Load(); err == nil {
			t.Error("expected error for TARGET_STOCK_FRACTION=1.2")
		}
	})
}
