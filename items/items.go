package items

import (
	"fmt"

	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/minesweeper"
	"github.com/they4kman/voxelsweep/sequence"
)

// StartItem is a held item that starts a minigame when used.
type StartItem int

const (
	RepeatSequence5 StartItem = iota
	RepeatSequence7
	Minesweeper
	Minesweeper3D20
	Minesweeper3D10
)

var names = map[StartItem]string{
	RepeatSequence5: "Repeat Sequence 5x5",
	RepeatSequence7: "Repeat Sequence 7x7",
	Minesweeper:     "Minesweeper",
	Minesweeper3D20: "Minesweeper3d20x20",
	Minesweeper3D10: "Minesweeper3d10x10",
}

// All returns every start item, in the order they fill a new player's hotbar.
func All() []StartItem {
	return []StartItem{RepeatSequence5, RepeatSequence7, Minesweeper, Minesweeper3D20, Minesweeper3D10}
}

// Name is the item's display name.
func (item StartItem) Name() string {
	if name, ok := names[item]; ok {
		return name
	}
	return fmt.Sprintf("StartItem(%d)", int(item))
}

func (item StartItem) String() string {
	return item.Name()
}

// Parse returns the start item with the given display name.
func Parse(name string) (StartItem, bool) {
	for item, itemName := range names {
		if itemName == name {
			return item, true
		}
	}
	return 0, false
}

// Presets are the game settings behind each start item.
type Presets struct {
	Classic  minesweeper.Config
	Cube20   minesweeper.Config
	Cube10   minesweeper.Config
	Sequence sequence.Config
}

// Spawner turns item uses into games.
type Spawner struct {
	presets Presets
}

func NewSpawner(presets Presets) *Spawner {
	return &Spawner{presets: presets}
}

// Spawn implements game.SpawnFunc. Items that are not start items yield
// a nil game.
func (spawner *Spawner) Spawn(use game.ItemUse) (game.Game, error) {
	item, ok := Parse(use.Item)
	if !ok {
		return nil, nil
	}

	switch item {
	case RepeatSequence5, RepeatSequence7:
		config := spawner.presets.Sequence
		config.Size = 5
		if item == RepeatSequence7 {
			config.Size = 7
		}
		g, err := sequence.New(config, use.Position, use.Yaw, use.Player)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item, err)
		}
		return g, nil
	}

	var config minesweeper.Config
	switch item {
	case Minesweeper:
		config = spawner.presets.Classic
	case Minesweeper3D20:
		config = spawner.presets.Cube20
	case Minesweeper3D10:
		config = spawner.presets.Cube10
	}
	g, err := minesweeper.New(config, use.Position.Block(), use.Player)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item, err)
	}
	return g, nil
}
