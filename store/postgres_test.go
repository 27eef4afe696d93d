package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func TestPostgresConnectsLazily(t *testing.T) {
	dials := 0
	dialErr := errors.New("connection refused")

	p := NewPostgres("postgres://nowhere")
	p.connect = func(ctx context.Context, dsn string) (*pgx.Conn, error) {
		dials++
		return nil, dialErr
	}
	if dials != 0 {
		t.Fatalf("NewPostgres must not dial")
	}

	ctx := context.Background()
	if _, err := p.InsertMinesweeper(ctx, MinesweeperResult{Player: uuid.New()}); !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if _, _, err := p.BestMinesweeper(ctx, uuid.New()); !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if dials != 2 {
		t.Fatalf("expected a dial attempt per operation, got %d", dials)
	}
}

func TestPostgresIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	p := NewPostgres(dsn)
	defer p.Close(ctx)

	if err := p.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	player := uuid.New()
	if n, err := p.InsertMinesweeper(ctx, MinesweeperResult{Size: 20, Dimensions: 2, CompletionTicks: 321, Bombs: 40, Player: player}); err != nil || n != 1 {
		t.Fatalf("insert: n=%d err=%v", n, err)
	}

	// Drop the connection; the next call must reopen it.
	if err := p.conn.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	best, found, err := p.BestMinesweeper(ctx, player)
	if err != nil || !found {
		t.Fatalf("best: found=%v err=%v", found, err)
	}
	if best.Ticks != 321 {
		t.Fatalf("expected 321 ticks, got %d", best.Ticks)
	}

	if _, found, err := p.HighestStreak(ctx, player); err != nil || found {
		t.Fatalf("expected no streak, found=%v err=%v", found, err)
	}
}
