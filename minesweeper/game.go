package minesweeper

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/metrics"
	"github.com/they4kman/voxelsweep/store"
	"github.com/they4kman/voxelsweep/util/collections"
	"github.com/they4kman/voxelsweep/world"
)

var log = logrus.WithField("component", "minesweeper")

type Config struct {
	Size       int
	Dimensions int
	NumBombs   int

	// Seed for bomb placement; 0 picks one from the clock
	Seed int64

	// Ticks without input before the game despawns; 0 never times out
	IdleTicks int

	// Path to directory where final snapshots of boards should be saved
	SnapshotsDir string
}

func (config Config) Validate() error {
	if config.Dimensions != 2 && config.Dimensions != 3 {
		return fmt.Errorf("minesweeper: unsupported dimensions %d", config.Dimensions)
	}
	if config.Size < 1 {
		return fmt.Errorf("minesweeper: board size must be positive, got %d", config.Size)
	}
	numCells := config.Size * config.Size
	if config.Dimensions == 3 {
		numCells *= config.Size
	}
	if config.NumBombs < 0 || config.NumBombs > numCells {
		return fmt.Errorf("minesweeper: %d bombs do not fit in %d cells", config.NumBombs, numCells)
	}
	return nil
}

// Game is one minesweeper board living in the world.
type Game struct {
	config Config
	board  *Board
	owner  game.Player
	rand   *rand.Rand

	footprint collections.Set[world.BlockPos]

	isBuilt       bool
	shouldDespawn bool
	isOver        bool
	isWon         bool
	hasReset      bool

	flagLock  int
	compTime  int
	idleTicks int
}

// New generates a board anchored at anchor for owner.
func New(config Config, anchor world.BlockPos, owner game.Player) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(config.Seed))
	board := generateBoard(config.Size, config.Dimensions, config.NumBombs, anchor, rng)
	return newGame(config, board, owner), nil
}

func newGame(config Config, board *Board, owner game.Player) *Game {
	g := &Game{
		config:    config,
		board:     board,
		owner:     owner,
		rand:      board.rand,
		footprint: make(collections.Set[world.BlockPos], board.NumCells()),
	}
	for i := range board.cells {
		g.footprint.Add(board.cells[i].pos)
	}
	return g
}

func (g *Game) Kind() game.Kind {
	if g.board.dims == 3 {
		return game.KindMinesweeper3D
	}
	return game.KindMinesweeper
}

func (g *Game) Owner() game.Player {
	return g.owner
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Contains(pos world.BlockPos) bool {
	return g.footprint.Contains(pos)
}

func (g *Game) State() BoardState {
	switch {
	case g.isWon:
		return Won
	case g.isOver:
		return Lost
	}
	return Ongoing
}

func (g *Game) IsBuilt() bool {
	return g.isBuilt
}

func (g *Game) IsOver() bool {
	return g.isOver
}

func (g *Game) IsWon() bool {
	return g.isWon
}

func (g *Game) ShouldDespawn() bool {
	return g.shouldDespawn
}

// CompletionTicks is the number of ticks played before the game ended.
func (g *Game) CompletionTicks() int {
	return g.compTime
}

func (g *Game) Build(surface world.Surface) error {
	for pos := range g.footprint {
		if !surface.Block(pos).IsAir() {
			return game.ErrBlocksInTheWay
		}
	}
	for i := range g.board.cells {
		cell := &g.board.cells[i]
		if cell.state == Opened {
			surface.SetBlock(cell.pos, cell.revealedBlock())
		} else {
			surface.SetBlock(cell.pos, cell.closedBlock())
		}
	}
	g.isBuilt = true
	return nil
}

func (g *Game) Tick(surface world.Surface) {
	if !g.isOver {
		g.compTime++
	}
	if g.flagLock > 0 {
		g.flagLock--
	}
	if g.config.IdleTicks > 0 {
		g.idleTicks++
		if g.idleTicks >= g.config.IdleTicks {
			g.shouldDespawn = true
		}
	}
}

func (g *Game) ClickPrimary(pos world.BlockPos, actor game.Player, surface world.Surface) {
	g.idleTicks = 0

	if g.isOver {
		g.shouldDespawn = true
		return
	}

	cell := g.board.CellAtPos(pos)
	if cell == nil || cell.state != Closed {
		return
	}

	if cell.content != Empty && g.board.untouched() {
		cell = g.regenerateFor(cell)
	}

	switch {
	case cell.IsBomb():
		g.lose(cell, surface)
	case cell.content == Empty:
		surface.PlaySound(world.SoundStep, cell.pos, world.SoundVolume, world.SoundPitch)
		flood(cell, func(cell *Cell) {
			g.open(cell, surface)
		})
	default:
		surface.PlaySound(world.SoundStep, cell.pos, world.SoundVolume, world.SoundPitch)
		g.open(cell, surface)
	}

	if !g.isOver && g.board.solved() {
		g.win(surface)
	}
}

func (g *Game) ClickSecondary(pos world.BlockPos, actor game.Player, surface world.Surface) {
	g.idleTicks = 0

	if g.isOver || g.flagLock > 0 {
		return
	}

	cell := g.board.CellAtPos(pos)
	if cell == nil {
		return
	}

	switch cell.state {
	case Closed:
		cell.state = Flagged
		surface.SetBlock(cell.pos, world.Flagged)
	case Flagged:
		cell.state = Closed
		surface.SetBlock(cell.pos, world.Unopened)
	default:
		return
	}
	g.flagLock = flagCooldown
}

// regenerateFor replaces the untouched board until the cell at clicked's
// grid position is empty, and returns that cell of the new board.
func (g *Game) regenerateFor(clicked *Cell) *Cell {
	if !g.board.canBeEmpty(clicked) {
		log.WithField("cell", clicked).Debug("board too dense for an empty first click")
		return clicked
	}

	cell := clicked
	for attempt := 0; cell.content != Empty; attempt++ {
		if attempt == maxRegenerations {
			log.WithField("cell", cell).Warn("gave up regenerating board for first click")
			return cell
		}
		if attempt == 0 {
			log.WithField("player", g.owner).Warn("a bomb or number was the first clicked cell. Generating new board.")
		}

		old := g.board
		g.board = generateBoard(old.size, old.dims, old.numBombs, old.anchor, g.rand)
		metrics.BoardRegenerations.Inc()
		cell = &g.board.cells[clicked.idx]
	}
	return cell
}

func (g *Game) open(cell *Cell, surface world.Surface) {
	cell.state = Opened
	replaced := surface.SetBlock(cell.pos, cell.revealedBlock())
	if replaced != world.Unopened {
		log.WithFields(logrus.Fields{
			"cell":     cell,
			"replaced": replaced,
		}).Warn("something went wrong clicking a minesweeper field")
	}
}

func (g *Game) lose(cell *Cell, surface world.Surface) {
	surface.PlaySound(world.SoundExplode, cell.pos, world.SoundVolume, world.SoundPitch)
	for i := range g.board.cells {
		surface.SetBlock(g.board.cells[i].pos, g.board.cells[i].revealedBlock())
	}
	g.isOver = true
	g.endGame()
}

func (g *Game) win(surface world.Surface) {
	surface.PlaySound(world.SoundVictory, g.board.center().pos, world.SoundVolume, world.SoundPitch)
	g.isWon = true
	g.isOver = true
	g.endGame()
}

func (g *Game) endGame() {
	log.WithFields(logrus.Fields{
		"player": g.owner,
		"won":    g.isWon,
		"ticks":  g.compTime,
	}).Info("minesweeper game over")

	if g.config.SnapshotsDir != "" {
		if err := g.saveSnapshot(time.Now()); err != nil {
			log.WithError(err).Warn("could not save board snapshot")
		}
	}
}

func (g *Game) Reset(ctx context.Context, surface world.Surface, results store.ResultStore) {
	if g.hasReset {
		return
	}
	g.hasReset = true

	for i := range g.board.cells {
		surface.SetBlock(g.board.cells[i].pos, world.Air)
	}

	outcome := metrics.OutcomeAbandoned
	switch g.State() {
	case Won:
		outcome = metrics.OutcomeWon
	case Lost:
		outcome = metrics.OutcomeLost
	}
	metrics.GamesFinished.WithLabelValues(string(g.Kind()), outcome).Inc()

	if !g.isWon || results == nil {
		return
	}

	n, err := results.InsertMinesweeper(ctx, store.MinesweeperResult{
		Size:            g.board.size,
		Dimensions:      g.board.dims,
		CompletionTicks: g.compTime,
		Bombs:           g.board.numBombs,
		Player:          g.owner.ID,
	})
	switch {
	case err != nil:
		metrics.ResultStoreErrors.WithLabelValues("insert_minesweeper").Inc()
		log.WithError(err).Error("couldnt save minesweeper game")
	case n != 1:
		log.WithField("rows", n).Error("wrong number of database entries modified")
	default:
		log.Debug("new database entry saved. (minesweeper)")
	}
}

// Snapshot captures the current board.
func (g *Game) Snapshot() *BoardSnapshot {
	return g.board.snapshot(g.config.Seed)
}

func (g *Game) saveSnapshot(t time.Time) error {
	dir := g.config.SnapshotsDir

	stat, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	case err != nil:
		return err
	case !stat.Mode().IsDir():
		return fmt.Errorf("%s is not a directory; cannot save snapshots to it", dir)
	}

	path := filepath.Join(dir, g.snapshotFilename(t))
	return os.WriteFile(path, []byte(g.Snapshot().Serialize()), 0666)
}

func (g *Game) snapshotFilename(t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))
	filenameBuilder.WriteString(g.owner.ID.String()[:8])
	filenameBuilder.WriteString("_")

	var stateStr string
	switch g.State() {
	case Won:
		stateStr = "win"
	case Lost:
		stateStr = "loss"
	default:
		stateStr = "other"
	}
	filenameBuilder.WriteString(stateStr)

	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}
