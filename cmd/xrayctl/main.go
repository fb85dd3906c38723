// Command xrayctl is the maintenance and debugging CLI.
//
// Usage:
//
//	xrayctl                 Show help
//	xrayctl stats           Library statistics
//	xrayctl sweep           Clear obsolete provider errors
//	xrayctl submit          Submit content for analysis from the shell
package main

import (
	"fmt"
	"os"
)

const usage = `xrayctl — X-RAY maintenance CLI

Usage:
  xrayctl <command> [flags]

Commands:
  stats       Per-category item counts and error totals
  sweep       Clear errors left by retired provider configurations
  submit      Submit text or a tweet link for analysis

Environment:
  OPENAI_API_KEY   OpenAI API key (required for submit)
  OPENAI_MODEL     Model override

Run 'xrayctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "stats":
		runStats()
	case "sweep":
		runSweep()
	case "submit":
		runSubmit()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "xrayctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
