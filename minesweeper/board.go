package minesweeper

import (
	"math/rand"

	"github.com/they4kman/voxelsweep/world"
)

// Board is a square (2D) or cubic (3D) grid of cells anchored in the world.
type Board struct {
	size     int
	dims     int
	numBombs int
	anchor   world.BlockPos

	cells []Cell
	byPos map[world.BlockPos]int

	rand *rand.Rand
}

func (board *Board) Size() int {
	return board.size
}

func (board *Board) Dimensions() int {
	return board.dims
}

func (board *Board) NumBombs() int {
	return board.numBombs
}

func (board *Board) NumCells() int {
	return len(board.cells)
}

func (board *Board) Anchor() world.BlockPos {
	return board.anchor
}

// CellAt returns nil outside the board. z is ignored on 2D boards.
func (board *Board) CellAt(x, y, z int) *Cell {
	if board.dims == 2 {
		z = 0
	}
	if x < 0 || y < 0 || z < 0 || x >= board.size || y >= board.size || z >= board.size {
		return nil
	}
	return &board.cells[board.index(x, y, z)]
}

// CellAtPos returns the cell rendered at pos, or nil.
func (board *Board) CellAtPos(pos world.BlockPos) *Cell {
	idx, ok := board.byPos[pos]
	if !ok {
		return nil
	}
	return &board.cells[idx]
}

// Cells returns every cell in grid order.
func (board *Board) Cells() []*Cell {
	out := make([]*Cell, len(board.cells))
	for i := range board.cells {
		out[i] = &board.cells[i]
	}
	return out
}

func (board *Board) center() *Cell {
	mid := board.size / 2
	return board.CellAt(mid, mid, mid)
}

func (board *Board) index(x, y, z int) int {
	return x + board.size*(y+board.size*z)
}

// untouched reports whether no cell has been opened or flagged yet.
func (board *Board) untouched() bool {
	for i := range board.cells {
		if board.cells[i].state != Closed {
			return false
		}
	}
	return true
}

// solved reports whether every cell is either opened or a bomb.
func (board *Board) solved() bool {
	for i := range board.cells {
		cell := &board.cells[i]
		if cell.state != Opened && !cell.IsBomb() {
			return false
		}
	}
	return true
}

// canBeEmpty reports whether there are enough safe cells for cell and all
// of its neighbours to be bomb-free.
func (board *Board) canBeEmpty(cell *Cell) bool {
	return len(cell.Neighbors())+1 <= len(board.cells)-board.numBombs
}

func (board *Board) positionOf(x, y, z int) world.BlockPos {
	if board.dims == 3 {
		return board.anchor.Offset(int32(x*spacing3D), int32(z*spacing3D), int32(y*spacing3D))
	}
	return board.anchor.Offset(int32(x), 0, int32(y))
}

// createBoard lays out an all-Closed, bomb-free board.
func createBoard(size, dims, numBombs int, anchor world.BlockPos, rng *rand.Rand) *Board {
	depth := 1
	if dims == 3 {
		depth = size
	}

	board := &Board{
		size:     size,
		dims:     dims,
		numBombs: numBombs,
		anchor:   anchor,
		cells:    make([]Cell, size*size*depth),
		byPos:    make(map[world.BlockPos]int, size*size*depth),
		rand:     rng,
	}

	for z := 0; z < depth; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				idx := board.index(x, y, z)
				cell := &board.cells[idx]
				cell.board = board
				cell.idx = idx
				cell.x, cell.y, cell.z = x, y, z
				cell.state = Closed
				cell.content = Empty
				cell.pos = board.positionOf(x, y, z)

				board.byPos[cell.pos] = idx
			}
		}
	}

	return board
}

// generateBoard creates a board with exactly numBombs bombs, which must
// not exceed the number of cells.
func generateBoard(size, dims, numBombs int, anchor world.BlockPos, rng *rand.Rand) *Board {
	board := createBoard(size, dims, numBombs, anchor, rng)
	board.placeBombs()
	board.fillNumbers()
	return board
}

// placeBombs sweeps the whole grid, turning each closed, empty cell into a
// bomb with a 1 in bombChance chance, until numBombs bombs are placed.
// The placement is not uniform over all layouts.
func (board *Board) placeBombs() {
	placed := 0
	for i := range board.cells {
		if board.cells[i].IsBomb() {
			placed++
		}
	}

	for placed < board.numBombs {
		for i := range board.cells {
			if placed == board.numBombs {
				break
			}
			cell := &board.cells[i]
			if cell.state != Closed || cell.content != Empty {
				continue
			}
			if board.rand.Intn(bombChance) == 0 {
				cell.content = Bomb
				placed++
			}
		}
	}
}

func (board *Board) fillNumbers() {
	for i := range board.cells {
		cell := &board.cells[i]
		if cell.IsBomb() {
			continue
		}
		cell.content = Content(cell.countBombs())
	}
}
