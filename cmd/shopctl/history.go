package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abelbrown/shopper/internal/store"
)

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "Number of recent searches to show")
	top := fs.Int("top", 5, "Number of top queries to show")
	prune := fs.Duration("prune", 0, "Delete searches older than this before reporting (e.g. 720h)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	st := openDB(cfg)
	defer st.Close()
	ctx := context.Background()

	if *prune > 0 {
		n, err := st.Prune(ctx, *prune)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Pruned %s searches older than %s\n\n", humanize.Comma(n), *prune)
	}

	sum, err := st.Summarize(ctx, *top)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if sum.Total == 0 {
		fmt.Printf("No searches recorded in %s\n", cfg.DBPath())
		return
	}

	// --- Summary ---
	fmt.Printf("Searches:        %s\n", humanize.Comma(int64(sum.Total)))
	fmt.Printf("Empty:           %s (%s)\n", humanize.Comma(int64(sum.Empty)), percent(sum.Empty, sum.Total))
	fmt.Printf("Failed:          %s (%s)\n", humanize.Comma(int64(sum.Failed)), percent(sum.Failed, sum.Total))
	fmt.Printf("Avg latency:     %s\n", sum.AvgDuration.Round(time.Millisecond))
	fmt.Printf("Last search:     %s\n", humanize.Time(sum.Last))

	if len(sum.TopQueries) > 0 {
		fmt.Printf("\nTop queries:\n")
		for _, q := range sum.TopQueries {
			fmt.Printf("  %4d  %s\n", q.Count, truncate(q.Query, 60))
		}
	}

	// --- Recent ---
	recent, err := st.RecentSearches(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nRecent (%d):\n", len(recent))
	for _, s := range recent {
		fmt.Println(historyLine(s))
	}
}

func historyLine(s store.Search) string {
	line := fmt.Sprintf("  %-16s %-15s %3d  %-40s", humanize.Time(s.At), s.Outcome, s.Results, truncate(s.Query, 40))
	if pr := priceRange(s.MinPrice, s.MaxPrice); pr != "" {
		line += "  " + pr
	}
	if s.TopTitle != "" {
		line += "  top=" + truncate(s.TopTitle, 30)
	}
	if s.Err != "" {
		line += "  err=" + truncate(s.Err, 50)
	}
	return line
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(total))
}
