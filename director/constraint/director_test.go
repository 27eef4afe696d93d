package constraint

import (
	"math/rand"
	"testing"

	"github.com/they4kman/voxelsweep/director"
	"github.com/they4kman/voxelsweep/director/random"
	"github.com/they4kman/voxelsweep/minesweeper"
	"github.com/they4kman/voxelsweep/util/collections"
	"github.com/they4kman/voxelsweep/world"
)

func loadBoard(t *testing.T, serialized string) *minesweeper.Board {
	t.Helper()
	snapshot := &minesweeper.BoardSnapshot{Seed: 1, Dimensions: 2, SerializedBoard: serialized}
	board, err := snapshot.CreateBoard(world.BlockPos{}, false)
	if err != nil {
		t.Fatal(err)
	}
	return board
}

func TestFlagsProvenMine(t *testing.T) {
	board := loadBoard(t, ".O\n..\n")

	move, ok := New(nil).Act(board)
	if !ok {
		t.Fatal("no move")
	}
	if want := (director.Move{Pos: board.CellAt(1, 0, 0).Pos(), Flag: true}); move != want {
		t.Errorf("move %+v, want %+v", move, want)
	}
}

func TestClicksProvenSafe(t *testing.T) {
	board := loadBoard(t, ".F#\n..#\n###\n")

	move, ok := New(nil).Act(board)
	if !ok {
		t.Fatal("no move")
	}
	if want := (director.Move{Pos: board.CellAt(0, 2, 0).Pos()}); move != want {
		t.Errorf("move %+v, want %+v", move, want)
	}
}

func TestSplit(t *testing.T) {
	board := loadBoard(t, "###\n###\n###\n")
	a, b, c := board.CellAt(0, 0, 0), board.CellAt(1, 0, 0), board.CellAt(2, 0, 0)

	inner := &Observation{numMines: 1, cells: collections.NewSet(a, b)}
	outer := &Observation{numMines: 2, cells: collections.NewSet(a, b, c)}

	move, ok := deliberate(split([]*Observation{inner, outer}))
	if !ok || move != (director.Move{Pos: c.Pos(), Flag: true}) {
		t.Errorf("move %+v, %v; want flag on %v", move, ok, c)
	}

	outer.numMines = 1
	move, ok = deliberate(split([]*Observation{outer, inner}))
	if !ok || move != (director.Move{Pos: c.Pos()}) {
		t.Errorf("move %+v, %v; want click on %v", move, ok, c)
	}
}

func TestFallback(t *testing.T) {
	board := loadBoard(t, "###\n#O#\n###\n")

	if _, ok := New(nil).Act(board); ok {
		t.Error("moved without information or fallback")
	}

	move, ok := New(random.New(rand.New(rand.NewSource(1)))).Act(board)
	if !ok || board.CellAtPos(move.Pos) == nil || move.Flag {
		t.Errorf("fallback move %+v, %v", move, ok)
	}
}
