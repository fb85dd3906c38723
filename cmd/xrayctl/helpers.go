package main

import (
	"log"
	"path/filepath"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/store"
)

// dbPath returns the path to xray.db.
func dbPath() string {
	dir, err := config.DataDir()
	if err != nil {
		log.Fatalf("failed to resolve data directory: %v", err)
	}
	return filepath.Join(dir, "xray.db")
}

// openDB opens the store or fatals.
func openDB() *store.Store {
	st, err := store.Open(dbPath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
