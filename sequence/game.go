package sequence

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/metrics"
	"github.com/they4kman/voxelsweep/store"
	"github.com/they4kman/voxelsweep/util/collections"
	"github.com/they4kman/voxelsweep/world"
)

var log = logrus.WithField("component", "sequence")

// The wall is built this many blocks in front of the player.
const distanceAhead = 4

type State int

const (
	Idle State = iota
	Displaying
	WaitForInput
)

func (state State) String() string {
	switch state {
	case Idle:
		return "idle"
	case Displaying:
		return "displaying"
	case WaitForInput:
		return "wait_for_input"
	}
	return fmt.Sprint(int(state))
}

type Config struct {
	// Side length of the button wall
	Size int

	// Ticks spent idle before the next step is shown
	IdleTicks int
	// Ticks each step stays lit
	DisplayTicks int
	// Ticks without a press before the game despawns
	InputTimeout int
	// Wrong presses before the game despawns
	MaxMisses int

	// Seed for step selection; 0 picks one from the clock
	Seed int64
}

func DefaultConfig(size int) Config {
	return Config{
		Size:         size,
		IdleTicks:    20,
		DisplayTicks: 20,
		InputTimeout: 200,
		MaxMisses:    3,
	}
}

func (config Config) Validate() error {
	switch {
	case config.Size < 2:
		return fmt.Errorf("sequence: wall size must be at least 2, got %d", config.Size)
	case config.DisplayTicks < 2:
		return fmt.Errorf("sequence: display ticks must be at least 2, got %d", config.DisplayTicks)
	case config.IdleTicks < 0 || config.InputTimeout < 1 || config.MaxMisses < 1:
		return fmt.Errorf("sequence: invalid timings %+v", config)
	}
	return nil
}

// Game shows a growing sequence of lit wall blocks which the owner repeats
// by pressing the buttons in front of them.
type Game struct {
	config Config
	owner  game.Player
	dir    world.Direction
	rand   *rand.Rand

	walls     []world.BlockPos
	buttons   []world.BlockPos
	buttonIdx map[world.BlockPos]int
	footprint collections.Set[world.BlockPos]

	sequence []int
	state    State
	ticks    int
	progress int
	streak   int
	misses   int

	isBuilt       bool
	shouldDespawn bool
	hasReset      bool
}

// New places the wall in front of a player standing at position and
// looking along yaw.
func New(config Config, position world.Vec3, yaw float32, owner game.Player) (*Game, error) {
	dir := world.DirectionFromYaw(yaw)
	return NewAt(config, bottomLeft(position.Block(), dir, config.Size), dir, owner)
}

// NewAt builds the wall from its bottom left block, facing dir.
func NewAt(config Config, bottomLeft world.BlockPos, dir world.Direction, owner game.Player) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	g := &Game{
		config:    config,
		owner:     owner,
		dir:       dir,
		rand:      rand.New(rand.NewSource(config.Seed)),
		buttonIdx: make(map[world.BlockPos]int, config.Size*config.Size),
		footprint: make(collections.Set[world.BlockPos], 2*config.Size*config.Size),
	}

	facing := dir.Opposite()
	for y := 0; y < config.Size; y++ {
		for xz := 0; xz < config.Size; xz++ {
			var wall world.BlockPos
			if dir == world.North || dir == world.South {
				wall = bottomLeft.Offset(int32(xz), int32(y), 0)
			} else {
				wall = bottomLeft.Offset(0, int32(y), int32(xz))
			}
			button := wall.InDirection(facing)

			g.buttonIdx[button] = len(g.buttons)
			g.walls = append(g.walls, wall)
			g.buttons = append(g.buttons, button)
			g.footprint.Add(wall)
			g.footprint.Add(button)
		}
	}
	return g, nil
}

func bottomLeft(pos world.BlockPos, dir world.Direction, size int) world.BlockPos {
	for i := 0; i < distanceAhead; i++ {
		pos = pos.InDirection(dir)
	}

	offset := int32(-(size / 2) - 1)
	if dir == world.North || dir == world.South {
		return pos.Offset(offset, 0, 0)
	}
	return pos.Offset(0, 0, offset)
}

func (g *Game) Kind() game.Kind {
	return game.KindRepeatSequence
}

func (g *Game) Owner() game.Player {
	return g.owner
}

func (g *Game) Contains(pos world.BlockPos) bool {
	return g.footprint.Contains(pos)
}

func (g *Game) Direction() world.Direction {
	return g.dir
}

func (g *Game) State() State {
	return g.state
}

// Streak is the number of sequences repeated correctly.
func (g *Game) Streak() int {
	return g.streak
}

func (g *Game) Misses() int {
	return g.misses
}

func (g *Game) IsBuilt() bool {
	return g.isBuilt
}

func (g *Game) ShouldDespawn() bool {
	return g.shouldDespawn
}

// Walls returns the wall blocks, row by row from the bottom.
func (g *Game) Walls() []world.BlockPos {
	return g.walls
}

// Buttons returns the button in front of each wall block.
func (g *Game) Buttons() []world.BlockPos {
	return g.buttons
}

// Sequence returns the button positions to press, in order.
func (g *Game) Sequence() []world.BlockPos {
	out := make([]world.BlockPos, len(g.sequence))
	for i, idx := range g.sequence {
		out[i] = g.buttons[idx]
	}
	return out
}

func (g *Game) Build(surface world.Surface) error {
	for pos := range g.footprint {
		if !surface.Block(pos).IsAir() {
			return game.ErrBlocksInTheWay
		}
	}
	for _, pos := range g.walls {
		surface.SetBlock(pos, world.Wall)
	}
	for _, pos := range g.buttons {
		surface.SetBlock(pos, world.Button)
	}
	g.isBuilt = true
	return nil
}

func (g *Game) Tick(surface world.Surface) {
	g.ticks++

	switch g.state {
	case Idle:
		if g.ticks > g.config.IdleTicks {
			g.state = Displaying
			g.ticks = 0
			g.extend()
		}

	case Displaying:
		if g.ticks%g.config.DisplayTicks != 1 {
			return
		}
		step := g.ticks / g.config.DisplayTicks
		if step > 0 {
			surface.SetBlock(g.walls[g.sequence[step-1]], world.Wall)
		}
		if step >= len(g.sequence) {
			g.state = WaitForInput
			g.ticks = 0
			return
		}
		surface.SetBlock(g.walls[g.sequence[step]], world.WallLit)

	case WaitForInput:
		if g.ticks > g.config.InputTimeout {
			log.WithField("player", g.owner).Debug("repeat sequence input timed out")
			g.shouldDespawn = true
		}
	}
}

// extend appends a random step, never repeating the previous one.
func (g *Game) extend() {
	next := g.rand.Intn(len(g.buttons))
	for len(g.sequence) > 0 && next == g.sequence[len(g.sequence)-1] {
		next = g.rand.Intn(len(g.buttons))
	}
	g.sequence = append(g.sequence, next)
}

func (g *Game) ClickPrimary(pos world.BlockPos, actor game.Player, surface world.Surface) {
	g.press(pos, actor, surface)
}

// ClickSecondary presses too; buttons do not tell the two apart.
func (g *Game) ClickSecondary(pos world.BlockPos, actor game.Player, surface world.Surface) {
	g.press(pos, actor, surface)
}

func (g *Game) press(pos world.BlockPos, actor game.Player, surface world.Surface) {
	if actor.ID != g.owner.ID || g.state != WaitForInput {
		return
	}
	idx, ok := g.buttonIdx[pos]
	if !ok {
		return
	}
	g.ticks = 0

	if idx != g.sequence[g.progress] {
		surface.PlaySound(world.SoundMiss, pos, world.SoundVolume, world.SoundPitch)
		g.misses++
		if g.misses >= g.config.MaxMisses {
			log.WithFields(logrus.Fields{"player": g.owner, "streak": g.streak}).Debug("too many missed presses")
			g.shouldDespawn = true
		}
		return
	}

	surface.PlaySound(world.SoundNote, pos, world.SoundVolume, world.SoundPitch)
	g.progress++
	if g.progress == len(g.sequence) {
		surface.PlaySound(world.SoundSequenceDone, pos, world.SoundVolume, world.SoundPitch)
		g.streak++
		g.progress = 0
		g.state = Idle
	}
}

func (g *Game) Reset(ctx context.Context, surface world.Surface, results store.ResultStore) {
	if g.hasReset {
		return
	}
	g.hasReset = true

	for _, pos := range g.walls {
		surface.SetBlock(pos, world.Air)
	}
	for _, pos := range g.buttons {
		surface.SetBlock(pos, world.Air)
	}
	outcome := metrics.OutcomeAbandoned
	if g.misses >= g.config.MaxMisses {
		outcome = metrics.OutcomeLost
	}
	metrics.GamesFinished.WithLabelValues(string(g.Kind()), outcome).Inc()

	if results == nil {
		return
	}
	n, err := results.InsertSequence(ctx, store.SequenceResult{
		Size:   g.config.Size,
		Streak: g.streak,
		Player: g.owner.ID,
	})
	switch {
	case err != nil:
		metrics.ResultStoreErrors.WithLabelValues("insert_sequence").Inc()
		log.WithError(err).Error("couldnt save repeat sequence game")
	case n != 1:
		log.WithField("rows", n).Error("wrong number of database entries modified")
	default:
		log.Debug("new database entry saved. (rsg)")
	}
}
