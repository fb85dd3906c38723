// Command xray-server runs the HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/content"
	"github.com/moeghashim/X-RAY/internal/gateway"
	"github.com/moeghashim/X-RAY/internal/logging"
	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/server"
	"github.com/moeghashim/X-RAY/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	dataDir, err := config.DataDir()
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}
	dbPath := filepath.Join(dataDir, "xray.db")

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	settings, err := gateway.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load generation settings: %v", err)
	}

	generator := gateway.NewOpenAI(cfg.OpenAI, settings)
	resolver := content.NewResolver(content.NewOEmbedFetcher(0))
	orchestrator := pipeline.New(st, generator, resolver)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(st, orchestrator, cfg.Server),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logging.Info("HTTP server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}

	// Finish writing outcomes for analyses still in flight.
	orchestrator.Wait()
}
