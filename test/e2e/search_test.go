package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"

	"github.com/abelbrown/shopper/internal/store"
)

// buildShopper builds the shopper binary for testing.
// Returns the path to the binary and a cleanup function.
func buildShopper(t *testing.T) (string, func()) {
	t.Helper()
	dir := t.TempDir()
	binPath := filepath.Join(dir, "shopper")

	// Get the project root directory
	rootDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// Assume we are in test/e2e, go up 2 levels
	rootDir = filepath.Join(rootDir, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/shopper")
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}

	return binPath, func() { os.RemoveAll(dir) }
}

func TestE2E_SearchAndChat(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e: builds and drives the TUI on a pty")
	}
	binPath, cleanup := buildShopper(t)
	defer cleanup()

	srv := startMockBackend()
	defer srv.Close()

	// A clean data directory keeps the test away from real config and history
	dataDir := t.TempDir()
	if err := seedConfig(dataDir, srv.URL); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	cmd := exec.Command(binPath)
	cmd.Env = append(os.Environ(),
		"SHOPPER_HOME="+dataDir,
		"SHOPPER_BACKEND_URL=",
		"SHOPPER_TRACE=1",
	)

	// Capture output for debugging
	var outputBuf bytes.Buffer

	console, err := expect.NewConsole(
		expect.WithStdout(&outputBuf),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}
	defer console.Close()

	if err := pty.Setsize(console.Tty(), &pty.Winsize{Cols: 120, Rows: 50}); err != nil {
		t.Fatalf("failed to set pty size: %v", err)
	}

	cmd.Stdin = console.Tty()
	cmd.Stdout = console.Tty()
	cmd.Stderr = console.Tty()
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start shopper: %v", err)
	}
	defer func() { _ = cmd.Process.Kill() }()

	dumpLogs := func() {
		matches, _ := filepath.Glob(filepath.Join(dataDir, "logs", "shopper-*.log"))
		for _, m := range matches {
			if logs, err := os.ReadFile(m); err == nil {
				t.Logf("%s:\n%s", filepath.Base(m), logs)
			}
		}
	}

	// 1. Wait for startup
	t.Log("Waiting for startup...")
	if _, err := console.ExpectString("Results appear here."); err != nil {
		dumpLogs()
		t.Fatalf("startup failed: %v\nScreen:\n%s", err, outputBuf.String())
	}

	// 2. Type a query and submit
	time.Sleep(300 * time.Millisecond) // Allow UI to stabilize
	if _, err := console.Send("standing desk"); err != nil {
		t.Fatalf("failed to type query: %v", err)
	}
	if _, err := console.Send("\r"); err != nil {
		t.Fatalf("failed to send Enter: %v", err)
	}

	// 3. Searching status, then results
	if _, err := console.ExpectString("Searching"); err != nil {
		t.Fatalf("searching status not found: %v\nOutput buffer:\n%s", err, outputBuf.String())
	}
	if _, err := console.ExpectString("Found 3 results."); err != nil {
		dumpLogs()
		t.Fatalf("results not shown: %v\nOutput buffer:\n%s", err, outputBuf.String())
	}
	if _, err := console.ExpectString("Budget standing desk"); err != nil {
		t.Fatalf("expected the budget card: %v\nOutput buffer:\n%s", err, outputBuf.String())
	}

	// 4. Chat hint appears after the configured delay
	if _, err := console.ExpectString("Press ctrl+o to chat"); err != nil {
		t.Fatalf("chat hint not shown: %v\nOutput buffer:\n%s", err, outputBuf.String())
	}

	// 5. Open chat and ask about price
	if _, err := console.Send("\x0f"); err != nil {
		t.Fatalf("failed to send ctrl+o: %v", err)
	}
	if _, err := console.ExpectString("Ask a follow-up question"); err != nil {
		t.Fatalf("chat panel not shown: %v\nOutput buffer:\n%s", err, outputBuf.String())
	}
	if _, err := console.Send("what about price?\r"); err != nil {
		t.Fatalf("failed to send chat: %v", err)
	}
	if _, err := console.ExpectString("lowest-cost"); err != nil {
		t.Fatalf("chat reply not shown: %v\nOutput buffer:\n%s", err, outputBuf.String())
	}

	// 6. Quit
	if _, err := console.Send("\x03"); err != nil {
		t.Fatalf("failed to send ctrl+c: %v", err)
	}

	done := make(chan error)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
		t.Log("Process exited successfully")
	case <-time.After(3 * time.Second):
		t.Fatal("Process did not exit after ctrl+c")
	}

	// 7. The search was recorded in the search log
	st, err := store.Open(filepath.Join(dataDir, "shopper.db"))
	if err != nil {
		t.Fatalf("open search log: %v", err)
	}
	defer st.Close()
	recent, err := st.RecentSearches(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentSearches: %v", err)
	}
	if len(recent) != 1 || recent[0].Query != "standing desk" || recent[0].Outcome != store.OutcomeOK {
		t.Errorf("search log = %+v", recent)
	}
}
