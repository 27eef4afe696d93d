package random

import (
	"math/rand"

	"github.com/they4kman/voxelsweep/director"
	"github.com/they4kman/voxelsweep/minesweeper"
)

// Director clicks closed cells in a shuffled order.
type Director struct {
	rand  *rand.Rand
	order []int
}

func New(rng *rand.Rand) *Director {
	return &Director{rand: rng}
}

func (d *Director) Act(board *minesweeper.Board) (director.Move, bool) {
	cells := board.Cells()
	if len(d.order) != len(cells) {
		d.order = d.rand.Perm(len(cells))
	}

	for _, i := range d.order {
		cell := cells[i]
		if cell.State() == minesweeper.Closed {
			return director.Move{Pos: cell.Pos()}, true
		}
	}
	return director.Move{}, false
}
