package minesweeper

import (
	"fmt"

	"github.com/they4kman/voxelsweep/world"
)

type Cell struct {
	board *Board

	x, y, z int
	idx     int

	content Content
	state   CellState
	pos     world.BlockPos
}

func (cell *Cell) String() string {
	if cell.board.dims == 3 {
		return fmt.Sprintf("Cell(%v, %v, %v)", cell.x, cell.y, cell.z)
	}
	return fmt.Sprintf("Cell(%v, %v)", cell.x, cell.y)
}

func (cell *Cell) X() int {
	return cell.x
}

func (cell *Cell) Y() int {
	return cell.y
}

func (cell *Cell) Z() int {
	return cell.z
}

// Pos is the world block the cell renders to.
func (cell *Cell) Pos() world.BlockPos {
	return cell.pos
}

func (cell *Cell) State() CellState {
	return cell.state
}

func (cell *Cell) IsOpened() bool {
	return cell.state == Opened
}

func (cell *Cell) IsFlagged() bool {
	return cell.state == Flagged
}

func (cell *Cell) Content() Content {
	return cell.content
}

func (cell *Cell) IsBomb() bool {
	return cell.content == Bomb
}

// NumBombs is the number of bombs around a non-bomb cell.
func (cell *Cell) NumBombs() int {
	if cell.content < 0 {
		return 0
	}
	return int(cell.content)
}

// Neighbors returns the cells of the Moore neighbourhood that lie on the
// board: up to 8 in 2D, 26 in 3D.
func (cell *Cell) Neighbors() []*Cell {
	board := cell.board

	dzMin, dzMax := 0, 0
	if board.dims == 3 {
		dzMin, dzMax = -1, 1
	}

	neighbors := make([]*Cell, 0, 26)
	for dz := dzMin; dz <= dzMax; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if neighbor := board.CellAt(cell.x+dx, cell.y+dy, cell.z+dz); neighbor != nil {
					neighbors = append(neighbors, neighbor)
				}
			}
		}
	}
	return neighbors
}

func (cell *Cell) countBombs() int {
	count := 0
	for _, neighbor := range cell.Neighbors() {
		if neighbor.IsBomb() {
			count++
		}
	}
	return count
}

// revealedBlock is the block showing the cell's content.
func (cell *Cell) revealedBlock() world.BlockKind {
	switch {
	case cell.content == Bomb:
		return world.Bomb
	case cell.content == Empty:
		return world.Revealed
	}

	block, ok := world.NumberBlock(int(cell.content))
	if !ok {
		// 3D cells can border up to 26 bombs; anything past the last
		// numbered block shows as that block.
		log.WithField("cell", cell).Warnf("no block for %d bombs", cell.content)
		block, _ = world.NumberBlock(world.MaxNumber)
	}
	return block
}

func (cell *Cell) closedBlock() world.BlockKind {
	if cell.state == Flagged {
		return world.Flagged
	}
	return world.Unopened
}
