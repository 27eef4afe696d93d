package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Postgres is the production ResultStore. It holds a single connection
// behind a mutex and reopens it on demand once it has been closed.
type Postgres struct {
	mu   sync.Mutex
	dsn  string
	conn *pgx.Conn

	connect func(ctx context.Context, dsn string) (*pgx.Conn, error)
}

// NewPostgres does not dial; the first operation opens the connection.
func NewPostgres(dsn string) *Postgres {
	return &Postgres{dsn: dsn, connect: pgx.Connect}
}

// checkConnection returns an open connection, dialing a new one if the
// current one is missing or closed. The caller must hold p.mu.
func (p *Postgres) checkConnection(ctx context.Context) (*pgx.Conn, error) {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	if p.conn != nil {
		log.Info("the postgres connection has closed, opening a new one")
	}

	conn, err := p.connect(ctx, p.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	p.conn = conn
	return conn, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.checkConnection(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range []string{sequenceTable, minesweeperTable} {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (p *Postgres) InsertMinesweeper(ctx context.Context, result MinesweeperResult) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.checkConnection(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := conn.Exec(ctx,
		`INSERT INTO minesweeper_games (date, size, dim, comp_time, bomb_amt, player_uuid)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		time.Now(),
		result.Size,
		result.Dimensions,
		result.CompletionTicks,
		result.Bombs,
		result.Player[:],
	)
	if err != nil {
		return 0, fmt.Errorf("insert minesweeper game: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) BestMinesweeper(ctx context.Context, player uuid.UUID) (Best, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.checkConnection(ctx)
	if err != nil {
		return Best{}, false, err
	}

	var best Best
	err = conn.QueryRow(ctx,
		`SELECT size, dim, MIN(comp_time) AS best
		 FROM minesweeper_games
		 WHERE player_uuid = $1
		 GROUP BY size, dim
		 ORDER BY best ASC, size ASC, dim ASC
		 LIMIT 1`,
		player[:],
	).Scan(&best.Size, &best.Dimensions, &best.Ticks)
	if errors.Is(err, pgx.ErrNoRows) {
		return Best{}, false, nil
	}
	if err != nil {
		return Best{}, false, fmt.Errorf("query fastest minesweeper game: %w", err)
	}
	return best, true, nil
}

func (p *Postgres) MinesweeperRecords(ctx context.Context, player uuid.UUID) ([]Best, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.checkConnection(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx,
		`SELECT size, dim, MIN(comp_time) AS best
		 FROM minesweeper_games
		 WHERE player_uuid = $1
		 GROUP BY size, dim
		 ORDER BY best ASC, size ASC, dim ASC`,
		player[:],
	)
	if err != nil {
		return nil, fmt.Errorf("query minesweeper records: %w", err)
	}
	defer rows.Close()

	var records []Best
	for rows.Next() {
		var best Best
		if err := rows.Scan(&best.Size, &best.Dimensions, &best.Ticks); err != nil {
			return nil, err
		}
		records = append(records, best)
	}
	return records, rows.Err()
}

func (p *Postgres) InsertSequence(ctx context.Context, result SequenceResult) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.checkConnection(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := conn.Exec(ctx,
		`INSERT INTO rsg_games (date, size, streak, player_uuid) VALUES ($1, $2, $3, $4)`,
		time.Now(),
		result.Size,
		result.Streak,
		result.Player[:],
	)
	if err != nil {
		return 0, fmt.Errorf("insert repeat-sequence game: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) HighestStreak(ctx context.Context, player uuid.UUID) (int, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.checkConnection(ctx)
	if err != nil {
		return 0, false, err
	}

	var streak *int32
	err = conn.QueryRow(ctx,
		`SELECT MAX(streak) FROM rsg_games WHERE player_uuid = $1`,
		player[:],
	).Scan(&streak)
	if err != nil {
		return 0, false, fmt.Errorf("query highest streak: %w", err)
	}
	if streak == nil {
		return 0, false, nil
	}
	return int(*streak), true, nil
}

func (p *Postgres) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close(ctx)
	p.conn = nil
	return err
}
