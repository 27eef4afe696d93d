package minesweeper

type CellState int
type BoardState int

const (
	Closed CellState = iota
	Opened
	Flagged
)

func (state CellState) String() string {
	switch state {
	case Closed:
		return "closed"
	case Opened:
		return "opened"
	case Flagged:
		return "flagged"
	}
	return "unknown"
}

// Content is what a cell hides: a bomb, nothing, or the number of bombs
// among its neighbours.
type Content int8

const (
	Bomb  Content = -1
	Empty Content = 0
)

const (
	Ongoing BoardState = iota
	Won
	Lost
)

const (
	// Each sweep of bomb placement marks a cell with a 1 in bombChance chance.
	bombChance = 100

	// Ticks a flag toggle locks out further flag input.
	flagCooldown = 4

	// Blocks between neighbouring cells of a 3D board, on every axis.
	spacing3D = 3

	// Regenerations tried before a first click is honored as is.
	maxRegenerations = 10000
)
