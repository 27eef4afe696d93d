package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryBestMinesweeper(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice, bob := uuid.New(), uuid.New()

	if _, found, _ := m.BestMinesweeper(ctx, alice); found {
		t.Fatalf("expected no record for a new player")
	}

	results := []MinesweeperResult{
		{Size: 20, Dimensions: 2, CompletionTicks: 900, Bombs: 40, Player: alice},
		{Size: 20, Dimensions: 2, CompletionTicks: 700, Bombs: 40, Player: alice},
		{Size: 10, Dimensions: 3, CompletionTicks: 800, Bombs: 130, Player: alice},
		{Size: 20, Dimensions: 2, CompletionTicks: 100, Bombs: 40, Player: bob},
	}
	for _, r := range results {
		if n, err := m.InsertMinesweeper(ctx, r); err != nil || n != 1 {
			t.Fatalf("insert: n=%d err=%v", n, err)
		}
	}

	best, found, err := m.BestMinesweeper(ctx, alice)
	if err != nil || !found {
		t.Fatalf("expected a record, found=%v err=%v", found, err)
	}
	if best != (Best{Size: 20, Dimensions: 2, Ticks: 700}) {
		t.Fatalf("unexpected best: %+v", best)
	}

	records, _ := m.MinesweeperRecords(ctx, alice)
	if len(records) != 2 {
		t.Fatalf("expected one record per size/dimensions, got %+v", records)
	}
	if records[1] != (Best{Size: 10, Dimensions: 3, Ticks: 800}) {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestMemoryHighestStreak(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	player := uuid.New()

	if _, found, _ := m.HighestStreak(ctx, player); found {
		t.Fatalf("expected no streak for a new player")
	}
	for _, streak := range []int{3, 0, 7, 5} {
		m.InsertSequence(ctx, SequenceResult{Size: 5, Streak: streak, Player: player})
	}
	streak, found, err := m.HighestStreak(ctx, player)
	if err != nil || !found || streak != 7 {
		t.Fatalf("HighestStreak = %d, %v, %v; want 7, true, nil", streak, found, err)
	}
}
