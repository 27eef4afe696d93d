package director

import (
	"context"

	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/minesweeper"
	"github.com/they4kman/voxelsweep/world"
)

// Move is a single click a director wants to make.
type Move struct {
	Pos  world.BlockPos
	Flag bool
}

type Director interface {
	/**
	 * Pick the next move on the board, or report there is none
	 */
	Act(board *minesweeper.Board) (Move, bool)
}

// Play lets d play g through the coordinator, one move per step, until the
// game is over or maxSteps steps have passed. g stays live afterwards.
func Play(ctx context.Context, coordinator *game.Coordinator, g *minesweeper.Game, d Director, maxSteps int) int {
	coordinator.Start(g)

	for step := 1; step <= maxSteps; step++ {
		if g.IsBuilt() && !g.IsOver() {
			if move, ok := d.Act(g.Board()); ok {
				coordinator.HandleClick(game.Click{Pos: move.Pos, Actor: g.Owner(), Secondary: move.Flag})
			}
		}

		coordinator.Step(ctx)

		if g.IsOver() || ctx.Err() != nil {
			return step
		}
	}
	return maxSteps
}
