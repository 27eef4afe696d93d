package minesweeper

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/world"
	"gopkg.in/yaml.v2"
)

// BoardSnapshot is a board serialized as glyphs: one row per line, and for
// 3D boards one layer per block of rows, separated by a blank line.
//
//	#  closed    .  opened    f  flagged
//	O  bomb      F  flagged bomb
type BoardSnapshot struct {
	Seed            int64  `yaml:"seed"`
	Dimensions      int    `yaml:"dimensions"`
	SerializedBoard string `yaml:"board"`
}

func (snapshot *BoardSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (board *Board) snapshot(seed int64) *BoardSnapshot {
	var out strings.Builder

	depth := 1
	if board.dims == 3 {
		depth = board.size
	}
	for z := 0; z < depth; z++ {
		if z > 0 {
			out.WriteString("\n")
		}
		for y := 0; y < board.size; y++ {
			for x := 0; x < board.size; x++ {
				out.WriteByte(board.CellAt(x, y, z).serialize())
			}
			out.WriteString("\n")
		}
	}

	return &BoardSnapshot{
		Seed:            seed,
		Dimensions:      board.dims,
		SerializedBoard: out.String(),
	}
}

func (cell *Cell) serialize() byte {
	switch {
	case cell.IsBomb():
		if cell.state == Flagged {
			return 'F'
		}
		return 'O'
	case cell.state == Flagged:
		return 'f'
	case cell.state == Opened:
		return '.'
	default:
		return '#'
	}
}

func (cell *Cell) deserialize(c byte, fresh bool) bool {
	switch c {
	case 'O', 'F':
		cell.content = Bomb
		if c == 'F' && !fresh {
			cell.state = Flagged
		}
	case 'f':
		if !fresh {
			cell.state = Flagged
		}
	case '.':
		if !fresh {
			cell.state = Opened
		}
	case '#':
	default:
		return false
	}
	return true
}

// CreateBoard rebuilds the snapshot's board at anchor. With fresh set,
// every cell starts Closed and only the bomb layout is kept.
func (snapshot *BoardSnapshot) CreateBoard(anchor world.BlockPos, fresh bool) (*Board, error) {
	layers := strings.Split(strings.Trim(snapshot.SerializedBoard, "\n"), "\n\n")

	dims := snapshot.Dimensions
	if dims == 0 {
		dims = 2
		if len(layers) > 1 {
			dims = 3
		}
	}

	rows := strings.Split(layers[0], "\n")
	size := len(rows)
	if size == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("snapshot: empty board")
	}
	switch {
	case dims == 2 && len(layers) != 1:
		return nil, fmt.Errorf("snapshot: 2D board with %d layers", len(layers))
	case dims == 3 && len(layers) != size:
		return nil, fmt.Errorf("snapshot: 3D board of size %d with %d layers", size, len(layers))
	case dims != 2 && dims != 3:
		return nil, fmt.Errorf("snapshot: unsupported dimensions %d", dims)
	}

	board := createBoard(size, dims, 0, anchor, rand.New(rand.NewSource(snapshot.Seed)))

	for z, layer := range layers {
		rows := strings.Split(layer, "\n")
		if len(rows) != size {
			return nil, fmt.Errorf("snapshot: layer %d has %d rows, want %d", z, len(rows), size)
		}
		for y, row := range rows {
			if len(row) != size {
				return nil, fmt.Errorf("snapshot: row %d of layer %d has %d cells, want %d", y, z, len(row), size)
			}
			for x := 0; x < size; x++ {
				cell := board.CellAt(x, y, z)
				if !cell.deserialize(row[x], fresh) {
					return nil, fmt.Errorf("snapshot: unknown cell %q at (%d, %d, %d)", row[x], x, y, z)
				}
				if cell.IsBomb() {
					board.numBombs++
				}
			}
		}
	}

	board.fillNumbers()
	return board, nil
}

// Game starts a game on the snapshot's board. config supplies the
// settings a snapshot does not carry, such as IdleTicks.
func (snapshot *BoardSnapshot) Game(config Config, anchor world.BlockPos, owner game.Player, fresh bool) (*Game, error) {
	board, err := snapshot.CreateBoard(anchor, fresh)
	if err != nil {
		return nil, err
	}

	config.Size = board.size
	config.Dimensions = board.dims
	config.NumBombs = board.numBombs
	config.Seed = snapshot.Seed
	return newGame(config, board, owner), nil
}
