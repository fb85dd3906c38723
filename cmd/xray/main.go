// Command xray is the terminal client: submit tweets or text for analysis
// and browse the categorized library.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/content"
	"github.com/moeghashim/X-RAY/internal/gateway"
	"github.com/moeghashim/X-RAY/internal/logging"
	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/store"
	"github.com/moeghashim/X-RAY/internal/ui"
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
	if !generator.Available() {
		fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY not set; submissions will fail analysis")
	}

	resolver := content.NewResolver(content.NewOEmbedFetcher(0))
	orchestrator := pipeline.New(st, generator, resolver)

	logging.Info("Starting X-RAY TUI", "db", dbPath)

	program := tea.NewProgram(ui.New(st, orchestrator, cfg.UI.ItemLimit), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}

	// Let in-flight analyses write their outcome before the process exits.
	orchestrator.Wait()
}
