package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite stores results in a local database file, for running the host
// without a postgres server.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Migrate(ctx context.Context) error {
	migrations := []string{
		strings.ReplaceAll(sequenceTable, "BYTEA", "BLOB"),
		strings.ReplaceAll(minesweeperTable, "BYTEA", "BLOB"),
		`CREATE INDEX IF NOT EXISTS idx_minesweeper_player ON minesweeper_games(player_uuid)`,
		`CREATE INDEX IF NOT EXISTS idx_rsg_player ON rsg_games(player_uuid)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLite) InsertMinesweeper(ctx context.Context, result MinesweeperResult) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO minesweeper_games (date, size, dim, comp_time, bomb_amt, player_uuid)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(),
		result.Size,
		result.Dimensions,
		result.CompletionTicks,
		result.Bombs,
		result.Player[:],
	)
	if err != nil {
		return 0, fmt.Errorf("insert minesweeper game: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLite) BestMinesweeper(ctx context.Context, player uuid.UUID) (Best, bool, error) {
	records, err := s.MinesweeperRecords(ctx, player)
	if err != nil || len(records) == 0 {
		return Best{}, false, err
	}
	return records[0], true, nil
}

func (s *SQLite) MinesweeperRecords(ctx context.Context, player uuid.UUID) ([]Best, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT size, dim, MIN(comp_time) AS best
		 FROM minesweeper_games
		 WHERE player_uuid = ?
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

func (s *SQLite) InsertSequence(ctx context.Context, result SequenceResult) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rsg_games (date, size, streak, player_uuid) VALUES (?, ?, ?, ?)`,
		time.Now().UTC(),
		result.Size,
		result.Streak,
		result.Player[:],
	)
	if err != nil {
		return 0, fmt.Errorf("insert repeat-sequence game: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLite) HighestStreak(ctx context.Context, player uuid.UUID) (int, bool, error) {
	var streak sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(streak) FROM rsg_games WHERE player_uuid = ?`,
		player[:],
	).Scan(&streak)
	if err != nil {
		return 0, false, fmt.Errorf("query highest streak: %w", err)
	}
	if !streak.Valid {
		return 0, false, nil
	}
	return int(streak.Int64), true, nil
}
