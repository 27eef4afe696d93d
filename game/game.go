package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/store"
	"github.com/they4kman/voxelsweep/world"
)

var log = logrus.WithField("component", "game")

// TicksPerSecond is the rate the host drives the coordinator at.
const TicksPerSecond = 20

type Kind string

const (
	KindMinesweeper    Kind = "minesweeper"
	KindMinesweeper3D  Kind = "minesweeper3d"
	KindRepeatSequence Kind = "repeat_sequence"
)

var ErrBlocksInTheWay = errors.New("blocks in the way")

type Player struct {
	ID   uuid.UUID
	Name string
}

func (player Player) String() string {
	if player.Name != "" {
		return player.Name
	}
	return player.ID.String()
}

// Game is one live minigame instance anchored in the shared world.
type Game interface {
	Kind() Kind
	Owner() Player

	// Contains reports whether pos is part of the game's footprint.
	Contains(pos world.BlockPos) bool

	// Build places the game's blocks. It fails with ErrBlocksInTheWay,
	// leaving the world untouched, if any footprint block is not air.
	Build(surface world.Surface) error

	Tick(surface world.Surface)

	ClickPrimary(pos world.BlockPos, actor Player, surface world.Surface)
	ClickSecondary(pos world.BlockPos, actor Player, surface world.Surface)

	// Reset clears the footprint and records the result, if any. It is
	// called once, right before the instance is dropped.
	Reset(ctx context.Context, surface world.Surface, results store.ResultStore)

	ShouldDespawn() bool
}

// Notifier delivers chat feedback to a player.
type Notifier interface {
	SendMessage(player Player, message string)
}

type NotifierFunc func(player Player, message string)

func (f NotifierFunc) SendMessage(player Player, message string) {
	f(player, message)
}

// Click is a block interaction. Secondary is the flag/right-click button.
type Click struct {
	Pos       world.BlockPos
	Actor     Player
	Secondary bool
}

// ItemUse is a player using the item they hold.
type ItemUse struct {
	Player   Player
	Item     string
	Position world.Vec3
	Yaw      float32
}

// SpawnFunc turns an item use into a new game. It returns a nil Game
// when the item does not start one.
type SpawnFunc func(use ItemUse) (Game, error)

// WelcomeMessages returns the chat lines greeting a player with their
// best results.
func WelcomeMessages(ctx context.Context, results store.ResultStore, player Player) []string {
	var messages []string

	streak, found, err := results.HighestStreak(ctx, player.ID)
	if err != nil {
		log.WithError(err).WithField("player", player).Warn("a players highest streak couldnt be loaded")
	} else if found {
		messages = append(messages, fmt.Sprintf("Your Highest Streak: %d", streak))
	}

	best, found, err := results.BestMinesweeper(ctx, player.ID)
	if err != nil {
		log.WithError(err).WithField("player", player).Warn("a players best time couldnt be loaded")
	} else if found {
		messages = append(messages, fmt.Sprintf(
			"Your fastest minesweeper game took: %d seconds, it was a %dx%d %dD game",
			best.Ticks/TicksPerSecond, best.Size, best.Size, best.Dimensions,
		))
	}

	return messages
}
