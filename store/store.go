package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "store")

// MinesweeperResult is one won minesweeper game.
type MinesweeperResult struct {
	Size            int
	Dimensions      int
	CompletionTicks int
	Bombs           int
	Player          uuid.UUID
}

// SequenceResult is one finished repeat-sequence game.
type SequenceResult struct {
	Size   int
	Streak int
	Player uuid.UUID
}

// Best is the fastest completion for a board size and dimensionality.
type Best struct {
	Size       int `json:"size"`
	Dimensions int `json:"dimensions"`
	Ticks      int `json:"ticks"`
}

// ResultStore is an append-only sink of game results, queried for a
// player's best records.
type ResultStore interface {
	InsertMinesweeper(ctx context.Context, result MinesweeperResult) (int64, error)
	// BestMinesweeper returns the player's fastest win over all sizes.
	BestMinesweeper(ctx context.Context, player uuid.UUID) (Best, bool, error)
	// MinesweeperRecords returns the fastest win per size and dimensionality.
	MinesweeperRecords(ctx context.Context, player uuid.UUID) ([]Best, error)

	InsertSequence(ctx context.Context, result SequenceResult) (int64, error)
	HighestStreak(ctx context.Context, player uuid.UUID) (int, bool, error)
}

const minesweeperTable = `CREATE TABLE IF NOT EXISTS minesweeper_games (
	date TIMESTAMP,
	size INT,
	dim INT,
	comp_time INT,
	bomb_amt INT,
	player_uuid BYTEA
)`

const sequenceTable = `CREATE TABLE IF NOT EXISTS rsg_games (
	date TIMESTAMP,
	size INT,
	streak INT,
	player_uuid BYTEA
)`
