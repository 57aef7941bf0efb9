package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"golang.org/x/time/rate"

	"github.com/abelbrown/shopper/internal/controller"
	"github.com/abelbrown/shopper/internal/render"
)

func runFind() {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	minPrice := fs.String("min", "", "Minimum price")
	maxPrice := fs.String("max", "", "Maximum price")
	notes := fs.String("notes", "", "Extra context for the recommender")
	htmlOut := fs.String("html", "", "Also write the results page to this HTML file")
	file := fs.String("f", "", "Read queries from a file, one per line ('-' for stdin)")
	rps := fs.Float64("rps", 1, "Queries per second when reading from a file")
	url := fs.String("url", "", "Backend base URL (default from config)")
	width := fs.Int("width", 80, "Output width in columns")
	noLog := fs.Bool("no-log", false, "Do not record searches in the search log")
	fs.Parse(os.Args[1:])

	var queries []string
	switch {
	case *file != "":
		var err error
		queries, err = readQueries(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case fs.NArg() > 0:
		queries = []string{strings.Join(fs.Args(), " ")}
	default:
		fmt.Fprintln(os.Stderr, "usage: shopctl find [flags] <query>")
		fmt.Fprintln(os.Stderr, "       shopctl find [flags] -f queries.txt")
		os.Exit(1)
	}
	if *htmlOut != "" && len(queries) != 1 {
		fmt.Fprintln(os.Stderr, "error: --html needs exactly one query")
		os.Exit(1)
	}
	if *rps <= 0 {
		fmt.Fprintln(os.Stderr, "error: --rps must be positive")
		os.Exit(1)
	}

	cfg := loadConfig()
	renderOpts := render.Options{Locale: cfg.UI.Locale, Currency: cfg.UI.Currency}

	var opts []controller.Option
	if !*noLog {
		st := openDB(cfg)
		defer st.Close()
		opts = append(opts, controller.WithSearchLog(st))
	}
	client := newClient(cfg, *url)
	ctrl := controller.New(client, controller.Config{Render: renderOpts}, opts...)
	term := render.NewTerminal(*width)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	limiter := rate.NewLimiter(rate.Limit(*rps), 1)

	failed := 0
	for i, q := range queries {
		if err := limiter.Wait(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "stopped: %v\n", err)
			break
		}
		if len(queries) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("== %s\n", q)
		}

		form := controller.SearchForm{Query: q, MinPrice: *minPrice, MaxPrice: *maxPrice, Notes: *notes}
		ran := runSearch(ctrl, form)
		st := ctrl.Status()
		fmt.Println(st.Text)
		if !ran || st.Tone == controller.ToneError {
			if ran {
				fmt.Fprintln(os.Stderr, failureNote(client.BaseURL(), st))
			}
			failed++
			continue
		}
		if v, ok := ctrl.View(); ok && !v.Empty {
			fmt.Print(term.Render(v, nil))
		}

		if *htmlOut != "" {
			v, _ := ctrl.View()
			if err := writeHTMLFile(*htmlOut, v, q); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", *htmlOut)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// failureNote names the backend a failed search went to.
func failureNote(base string, st controller.Status) string {
	return fmt.Sprintf("search failed against %s: %s", base, st.Text)
}

// runSearch drives one search through the controller synchronously. It
// reports false when the form was rejected before any request was sent.
func runSearch(ctrl *controller.Controller, form controller.SearchForm) bool {
	cmd := ctrl.HandleSearch(form)
	if cmd == nil {
		return false
	}
	done, ok := cmd().(controller.SearchCompleted)
	if !ok {
		return false
	}
	ctrl.ApplySearch(done)
	return true
}

// readQueries reads one query per line, skipping blanks and '#' comments.
func readQueries(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open queries: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parseQueries(r)
}

func parseQueries(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("no queries found")
	}
	return out, nil
}

// writeHTMLFile replaces path atomically with the rendered results page.
func writeHTMLFile(path string, v render.View, query string) error {
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer pf.Cleanup()

	if err := render.WriteHTML(pf, v, "Recommendations for "+query); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
