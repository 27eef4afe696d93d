package world

import "fmt"

// BlockKind is the appearance of a block. The host maps each kind onto
// its own block states.
type BlockKind int

const (
	Air BlockKind = iota
	Unopened
	Flagged
	Revealed
	Bomb
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Number9
	Number10
	Number11
	Number12
	Wall
	WallLit
	Button
	Ground
)

const MaxNumber = 12

var blockNames = map[BlockKind]string{
	Air:      "air",
	Unopened: "unopened",
	Flagged:  "flagged",
	Revealed: "revealed",
	Bomb:     "bomb",
	Wall:     "wall",
	WallLit:  "wall_lit",
	Button:   "button",
	Ground:   "ground",
}

func (kind BlockKind) String() string {
	if n, ok := kind.Number(); ok {
		return fmt.Sprintf("number%d", n)
	}
	if name, ok := blockNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("BlockKind(%d)", int(kind))
}

func (kind BlockKind) IsAir() bool {
	return kind == Air
}

// Number returns the count shown by a numbered block.
func (kind BlockKind) Number() (int, bool) {
	if kind >= Number1 && kind <= Number12 {
		return int(kind-Number1) + 1, true
	}
	return 0, false
}

// NumberBlock returns the block showing n, for 1 <= n <= MaxNumber.
func NumberBlock(n int) (BlockKind, bool) {
	if n < 1 || n > MaxNumber {
		return Air, false
	}
	return Number1 + BlockKind(n-1), true
}

type Sound int

const (
	SoundExplode Sound = iota
	SoundStep
	SoundVictory
	SoundNote
	SoundSequenceDone
	SoundMiss
)

// Default volume and pitch the minigames play their sounds with.
const (
	SoundVolume = 20.0
	SoundPitch  = 1.0
)
