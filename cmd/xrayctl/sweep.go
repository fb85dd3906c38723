package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moeghashim/X-RAY/internal/sweep"
)

func runSweep() {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "List matching items without clearing them")
	fs.Parse(os.Args[1:])

	st := openDB()
	defer st.Close()

	if *dryRun {
		items, err := st.ItemsWithError()
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
			os.Exit(1)
		}
		matches := 0
		for _, item := range items {
			if sweep.Obsolete(item.Error) {
				matches++
				fmt.Printf("  %s  %s\n", item.ID, truncate(item.Error, 70))
			}
		}
		fmt.Printf("Would clear %d of %d errored items\n", matches, len(items))
		return
	}

	cleaned, err := sweep.Run(st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cleared %d obsolete errors\n", cleaned)
}
