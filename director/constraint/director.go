package constraint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/director"
	"github.com/they4kman/voxelsweep/minesweeper"
	"github.com/they4kman/voxelsweep/util/collections"
)

var log = logrus.WithField("component", "director")

// Director makes moves it can prove safe from the opened numbers, and
// falls back to another director when it cannot.
type Director struct {
	fallback director.Director
}

func New(fallback director.Director) *Director {
	return &Director{fallback: fallback}
}

// Observation states that exactly numMines of cells are bombs.
type Observation struct {
	origin   *minesweeper.Cell
	numMines int
	cells    collections.Set[*minesweeper.Cell]
}

func (observation Observation) String() string {
	cells := sortedCells(observation.cells)
	reprs := make([]string, len(cells))
	for i, cell := range cells {
		reprs[i] = cell.String()
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = observation.origin.String()
	}

	return fmt.Sprintf("Obs[%s, %d ε %s]", originRepr, observation.numMines, strings.Join(reprs, ", "))
}

func (d *Director) Act(board *minesweeper.Board) (director.Move, bool) {
	observations := observe(board)

	if move, ok := deliberate(observations); ok {
		return move, true
	}
	if move, ok := deliberate(split(observations)); ok {
		return move, true
	}

	if d.fallback == nil {
		return director.Move{}, false
	}
	log.Debug("no deliberate move, guessing")
	return d.fallback.Act(board)
}

// observe turns every opened number with closed neighbours into an
// observation over those neighbours.
func observe(board *minesweeper.Board) []*Observation {
	var observations []*Observation

	for _, cell := range board.Cells() {
		if !cell.IsOpened() || cell.NumBombs() == 0 {
			continue
		}

		observation := &Observation{
			origin:   cell,
			numMines: cell.NumBombs(),
			cells:    make(collections.Set[*minesweeper.Cell]),
		}
		for _, neighbor := range cell.Neighbors() {
			switch neighbor.State() {
			case minesweeper.Flagged:
				observation.numMines--
			case minesweeper.Closed:
				observation.cells.Add(neighbor)
			}
		}

		if len(observation.cells) > 0 {
			observations = append(observations, observation)
		}
	}
	return observations
}

// split derives observations over the cells one observation has beyond
// another it fully contains.
func split(observations []*Observation) []*Observation {
	var derived []*Observation

	for _, inner := range observations {
		for _, outer := range observations {
			if inner == outer || len(inner.cells) >= len(outer.cells) {
				continue
			}
			if len(inner.cells.Intersection(outer.cells)) != len(inner.cells) {
				continue
			}

			derived = append(derived, &Observation{
				numMines: outer.numMines - inner.numMines,
				cells:    outer.cells.Difference(inner.cells),
			})
		}
	}
	return derived
}

func deliberate(observations []*Observation) (director.Move, bool) {
	for _, observation := range observations {
		switch observation.numMines {
		case 0:
			log.WithField("observation", observation).Debug("all clear")
			return director.Move{Pos: sortedCells(observation.cells)[0].Pos()}, true
		case len(observation.cells):
			log.WithField("observation", observation).Debug("all mines")
			return director.Move{Pos: sortedCells(observation.cells)[0].Pos(), Flag: true}, true
		}
	}
	return director.Move{}, false
}

func sortedCells(set collections.Set[*minesweeper.Cell]) []*minesweeper.Cell {
	cells := set.Slice()
	sort.Slice(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if a.Z() != b.Z() {
			return a.Z() < b.Z()
		}
		if a.Y() != b.Y() {
			return a.Y() < b.Y()
		}
		return a.X() < b.X()
	})
	return cells
}
