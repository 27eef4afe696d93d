package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	db, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestSQLiteMinesweeperRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)
	player, other := uuid.New(), uuid.New()

	results := []MinesweeperResult{
		{Size: 20, Dimensions: 2, CompletionTicks: 1200, Bombs: 40, Player: player},
		{Size: 20, Dimensions: 2, CompletionTicks: 1100, Bombs: 40, Player: player},
		{Size: 10, Dimensions: 3, CompletionTicks: 4000, Bombs: 130, Player: player},
		{Size: 20, Dimensions: 2, CompletionTicks: 10, Bombs: 40, Player: other},
	}
	for _, r := range results {
		n, err := db.InsertMinesweeper(ctx, r)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 row inserted, got %d", n)
		}
	}

	best, found, err := db.BestMinesweeper(ctx, player)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if !found || best != (Best{Size: 20, Dimensions: 2, Ticks: 1100}) {
		t.Fatalf("unexpected best: %+v found=%v", best, found)
	}

	records, err := db.MinesweeperRecords(ctx, player)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	want := []Best{
		{Size: 20, Dimensions: 2, Ticks: 1100},
		{Size: 10, Dimensions: 3, Ticks: 4000},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %+v", len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v; want %+v", i, records[i], want[i])
		}
	}
}

func TestSQLiteNoRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)

	if _, found, err := db.BestMinesweeper(ctx, uuid.New()); err != nil || found {
		t.Fatalf("expected no best record, found=%v err=%v", found, err)
	}
	if _, found, err := db.HighestStreak(ctx, uuid.New()); err != nil || found {
		t.Fatalf("expected no streak, found=%v err=%v", found, err)
	}
}

func TestSQLiteHighestStreak(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t)
	player := uuid.New()

	for _, streak := range []int{2, 9, 4} {
		if _, err := db.InsertSequence(ctx, SequenceResult{Size: 7, Streak: streak, Player: player}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	streak, found, err := db.HighestStreak(ctx, player)
	if err != nil || !found || streak != 9 {
		t.Fatalf("HighestStreak = %d, %v, %v; want 9, true, nil", streak, found, err)
	}
}
