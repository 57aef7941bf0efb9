package main

import (
	"fmt"
	"log"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/abelbrown/shopper/internal/backend"
	"github.com/abelbrown/shopper/internal/config"
	"github.com/abelbrown/shopper/internal/logging"
	"github.com/abelbrown/shopper/internal/store"
)

// loadConfig loads the shared config or fatals. CLI logs go to stderr.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	level := logging.ParseLevel(cfg.Log.Level)
	if level < charmlog.WarnLevel {
		level = charmlog.WarnLevel
	}
	logging.InitWriter(os.Stderr, level)
	return cfg
}

// openDB opens the search log or fatals.
func openDB(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		log.Fatalf("failed to open search log: %v", err)
	}
	return st
}

// newClient builds a backend client, honoring --url when set.
func newClient(cfg *config.Config, url string) *backend.Client {
	if url == "" {
		url = cfg.Backend.URL
	}
	return backend.New(url, backend.WithTimeout(cfg.Timeout()))
}

// priceRange formats an optional min/max pair, "" when both are unset.
func priceRange(minPrice, maxPrice *float64) string {
	switch {
	case minPrice != nil && maxPrice != nil:
		return fmt.Sprintf("%g-%g", *minPrice, *maxPrice)
	case minPrice != nil:
		return fmt.Sprintf(">=%g", *minPrice)
	case maxPrice != nil:
		return fmt.Sprintf("<=%g", *maxPrice)
	}
	return ""
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
