package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "shopper.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func ptr(v float64) *float64 { return &v }

func TestOpen(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	var name string
	err = st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='searches'").Scan(&name)
	if err != nil {
		t.Fatalf("searches table not created: %v", err)
	}
	if name != "searches" {
		t.Errorf("expected table name 'searches', got %q", name)
	}
}

func TestRecordAndRecent(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	entries := []Search{
		{Query: "headphones", MinPrice: ptr(50), MaxPrice: ptr(200), Results: 3, Source: "mock", TopTitle: "Premium headphones", Duration: 120 * time.Millisecond, At: base},
		{Query: "lamp", Outcome: OutcomeEmpty, At: base.Add(time.Minute)},
		{Query: "desk", Outcome: OutcomeTransport, Err: "connection refused", At: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := st.RecordSearch(ctx, e); err != nil {
			t.Fatalf("RecordSearch(%q): %v", e.Query, err)
		}
	}

	got, err := st.RecentSearches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSearches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 searches, got %d", len(got))
	}
	if got[0].Query != "desk" || got[2].Query != "headphones" {
		t.Errorf("expected newest first, got %q ... %q", got[0].Query, got[2].Query)
	}

	first := got[2]
	if first.Outcome != OutcomeOK {
		t.Errorf("default outcome = %q, want ok", first.Outcome)
	}
	if first.MinPrice == nil || *first.MinPrice != 50 || first.MaxPrice == nil || *first.MaxPrice != 200 {
		t.Errorf("price filters not round-tripped: %v %v", first.MinPrice, first.MaxPrice)
	}
	if first.Duration != 120*time.Millisecond {
		t.Errorf("Duration = %v", first.Duration)
	}
	if got[1].MinPrice != nil {
		t.Errorf("absent min price should stay nil, got %v", *got[1].MinPrice)
	}
	if got[0].Err != "connection refused" {
		t.Errorf("Err = %q", got[0].Err)
	}
}

func TestRecentSearchesLimit(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := st.RecordSearch(ctx, Search{Query: "q"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := st.RecentSearches(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2, got %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	for _, e := range []Search{
		{Query: "headphones", Duration: 100 * time.Millisecond},
		{Query: "headphones", Duration: 300 * time.Millisecond},
		{Query: "lamp", Outcome: OutcomeEmpty},
		{Query: "desk", Outcome: OutcomeBackend},
		{Query: "chair", Outcome: OutcomeTransport},
	} {
		if err := st.RecordSearch(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := st.Summarize(ctx, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Total != 5 || sum.Empty != 1 || sum.Failed != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.AvgDuration != 80*time.Millisecond {
		t.Errorf("AvgDuration = %v, want 80ms", sum.AvgDuration)
	}
	if len(sum.TopQueries) != 1 || sum.TopQueries[0].Query != "headphones" || sum.TopQueries[0].Count != 2 {
		t.Errorf("TopQueries = %+v", sum.TopQueries)
	}
	if sum.Last.IsZero() {
		t.Error("Last should be set")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	st := openTemp(t)
	sum, err := st.Summarize(context.Background(), 5)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Total != 0 || sum.AvgDuration != 0 || !sum.Last.IsZero() || len(sum.TopQueries) != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}
}

func TestPrune(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	if err := st.RecordSearch(ctx, Search{Query: "old", At: time.Now().Add(-48 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := st.RecordSearch(ctx, Search{Query: "new"}); err != nil {
		t.Fatal(err)
	}

	n, err := st.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	got, _ := st.RecentSearches(ctx, 10)
	if len(got) != 1 || got[0].Query != "new" {
		t.Errorf("remaining = %+v", got)
	}
}
