// Command shopctl is the operator CLI for shopper.
//
// Usage:
//
//	shopctl                     Show help
//	shopctl find <query>        One-shot search, printed as result cards
//	shopctl find -f queries.txt Batch search, paced by --rps
//	shopctl history             Search log summary and recent searches
//	shopctl events              JSONL event log viewer
//	shopctl mock                Serve the mock recommendation backend
package main

import (
	"fmt"
	"os"
)

const usage = `shopctl - shopper operator CLI

Usage:
  shopctl <command> [flags]

Commands:
  find        Search the backend and print the result cards
  history     Search log summary and recent searches
  events      JSONL event log viewer
  mock        Serve the mock recommendation backend

Environment:
  SHOPPER_HOME         Data directory (default: ~/.shopper)
  SHOPPER_BACKEND_URL  Backend base URL (default: http://127.0.0.1:5000)
  SHOPPER_TIMEOUT_MS   Request timeout in milliseconds (default: none)

Run 'shopctl <command> -h' for command-specific help.
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
	case "find":
		runFind()
	case "history":
		runHistory()
	case "events":
		runEvents()
	case "mock":
		runMock()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "shopctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
