package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/djmoore711/brandfetch-mcp/dbopen"

	_ "modernc.org/sqlite"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t)
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return &Store{DB: db}
}

func TestMonthKey(t *testing.T) {
	ts := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	if got := MonthKey(ts); got != "2026-08" {
		t.Errorf("MonthKey = %q, want 2026-08", got)
	}

	// Late local-time evenings must not roll into the next UTC month.
	loc := time.FixedZone("UTC+14", 14*3600)
	ts = time.Date(2026, 9, 1, 10, 0, 0, 0, loc) // 2026-08-31T20:00Z
	if got := MonthKey(ts); got != "2026-08" {
		t.Errorf("MonthKey = %q, want 2026-08", got)
	}
}

func TestCountAbsentMonth(t *testing.T) {
	s := testStore(t)
	count, err := s.Count(context.Background(), "2026-01")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
}

func TestIncrementReturnsNewTotal(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.Increment(ctx, "2026-08", 1)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if got != 1 {
		t.Errorf("first increment = %d, want 1", got)
	}

	got, err = s.Increment(ctx, "2026-08", 4)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if got != 5 {
		t.Errorf("second increment = %d, want 5", got)
	}
}

func TestMonthsAreIndependent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Increment(ctx, "2026-08", 7); err != nil {
		t.Fatal(err)
	}
	count, err := s.Count(ctx, "2026-09")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("new month starts at %d, want 0", count)
	}
}

func TestConcurrentIncrementsLoseNothing(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	const workers = 20
	const perWorker = 5

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := s.Increment(ctx, "2026-08", 1); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Increment: %v", err)
	}

	count, err := s.Count(ctx, "2026-08")
	if err != nil {
		t.Fatal(err)
	}
	if count != workers*perWorker {
		t.Errorf("count = %d, want %d", count, workers*perWorker)
	}
}
