package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/content"
	"github.com/moeghashim/X-RAY/internal/gateway"
	"github.com/moeghashim/X-RAY/internal/pipeline"
	"github.com/moeghashim/X-RAY/internal/store"
)

func runSubmit() {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	category := fs.String("category", "learning", "Analysis category: learning, news, inspiration")
	fs.Parse(os.Args[1:])

	text := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: xrayctl submit [-category learning|news|inspiration] <text or link>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit: %v\n", err)
		os.Exit(1)
	}

	st := openDB()
	defer st.Close()

	settings, err := gateway.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit: %v\n", err)
		os.Exit(1)
	}

	generator := gateway.NewOpenAI(cfg.OpenAI, settings)
	if !generator.Available() {
		fmt.Fprintln(os.Stderr, "error: OPENAI_API_KEY environment variable is required")
		os.Exit(1)
	}

	resolver := content.NewResolver(content.NewOEmbedFetcher(0))
	orchestrator := pipeline.New(st, generator, resolver)

	id, err := orchestrator.Submit(context.Background(), text, store.Category(*category))
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Submitted %s\n", id)

	// Block until the analysis lands so the result is visible immediately.
	orchestrator.Wait()

	item, err := st.Get(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit: %v\n", err)
		os.Exit(1)
	}
	if item.Error != "" {
		fmt.Printf("Analysis failed: %s\n", item.Error)
		os.Exit(1)
	}
	fmt.Printf("Analysis complete [%s]\n", item.Category)
}
