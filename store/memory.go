package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps results in process. It backs the headless host when no
// database is configured.
type Memory struct {
	mu          sync.Mutex
	minesweeper []MinesweeperResult
	sequence    []SequenceResult
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) InsertMinesweeper(_ context.Context, result MinesweeperResult) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minesweeper = append(m.minesweeper, result)
	return 1, nil
}

func (m *Memory) BestMinesweeper(ctx context.Context, player uuid.UUID) (Best, bool, error) {
	records, _ := m.MinesweeperRecords(ctx, player)
	if len(records) == 0 {
		return Best{}, false, nil
	}
	return records[0], true, nil
}

func (m *Memory) MinesweeperRecords(_ context.Context, player uuid.UUID) ([]Best, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type key struct{ size, dim int }
	fastest := make(map[key]int)
	for _, result := range m.minesweeper {
		if result.Player != player {
			continue
		}
		k := key{result.Size, result.Dimensions}
		if ticks, ok := fastest[k]; !ok || result.CompletionTicks < ticks {
			fastest[k] = result.CompletionTicks
		}
	}

	records := make([]Best, 0, len(fastest))
	for k, ticks := range fastest {
		records = append(records, Best{Size: k.size, Dimensions: k.dim, Ticks: ticks})
	}
	sortRecords(records)
	return records, nil
}

func (m *Memory) InsertSequence(_ context.Context, result SequenceResult) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = append(m.sequence, result)
	return 1, nil
}

func (m *Memory) HighestStreak(_ context.Context, player uuid.UUID) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	highest, found := 0, false
	for _, result := range m.sequence {
		if result.Player == player && (!found || result.Streak > highest) {
			highest, found = result.Streak, true
		}
	}
	return highest, found, nil
}

// MinesweeperResults returns a copy of every stored minesweeper result.
func (m *Memory) MinesweeperResults() []MinesweeperResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MinesweeperResult, len(m.minesweeper))
	copy(out, m.minesweeper)
	return out
}

// SequenceResults returns a copy of every stored repeat-sequence result.
func (m *Memory) SequenceResults() []SequenceResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SequenceResult, len(m.sequence))
	copy(out, m.sequence)
	return out
}

// sortRecords orders fastest first, breaking ties by size then dimensions.
func sortRecords(records []Best) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Ticks != b.Ticks {
			return a.Ticks < b.Ticks
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.Dimensions < b.Dimensions
	})
}
