package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moeghashim/X-RAY/internal/store"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	showErrors := fs.Bool("errors", false, "List items stuck in an error state")
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	counts, err := st.Counts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stats: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, category := range store.Categories() {
		fmt.Printf("%-14s %d\n", category, counts[category])
		total += counts[category]
	}
	fmt.Printf("%-14s %d\n", "total", total)

	errored, err := st.ItemsWithError()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWith errors:   %d\n", len(errored))

	if *showErrors {
		for _, item := range errored {
			fmt.Printf("  %s  [%s]  %s\n", item.ID, item.Category, truncate(item.Error, 60))
		}
	}
}
