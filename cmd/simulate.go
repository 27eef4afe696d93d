package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/they4kman/voxelsweep/director"
	"github.com/they4kman/voxelsweep/director/constraint"
	"github.com/they4kman/voxelsweep/director/random"
	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/minesweeper"
	"github.com/they4kman/voxelsweep/world"
)

type directorKind int

const (
	directorConstraint directorKind = iota
	directorRandom
)

var directorKinds = map[string]directorKind{
	"constraint": directorConstraint,
	"random":     directorRandom,
}

type directorValue directorKind

func newDirectorValue(val directorKind, p *directorKind) *directorValue {
	*p = val
	return (*directorValue)(p)
}

func (v *directorValue) String() string {
	for name, kind := range directorKinds {
		if kind == directorKind(*v) {
			return name
		}
	}
	return fmt.Sprint(int(*v))
}

func (v *directorValue) Set(value string) error {
	kind, isValid := directorKinds[value]
	if !isValid {
		return fmt.Errorf("invalid director")
	}
	*v = directorValue(kind)
	return nil
}

func (v *directorValue) Type() string {
	return "director"
}

var simulation = struct {
	config   minesweeper.Config
	director directorKind
	maxSteps int
}{}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the computer play a minesweeper board",
	Long: `simulate builds one minesweeper board into an in-memory world and
lets a director play it through the coordinator, one move per tick. The
outcome and the final board are printed, and a win is recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config := simulation.config
		config.IdleTicks = 0
		config.SnapshotsDir = cfg.Minesweeper.SnapshotsDir
		if config.Seed == 0 {
			config.Seed = time.Now().UnixNano()
		}

		results, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		player := game.Player{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("voxelsweep/director")), Name: "director"}
		g, err := minesweeper.New(config, world.BlockPos{}, player)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(config.Seed))
		var d director.Director = random.New(rng)
		if simulation.director == directorConstraint {
			d = constraint.New(d)
		}

		coordinator := game.NewCoordinator(world.NewMemory(), results, nil, nil)
		steps := director.Play(ctx, coordinator, g, d, simulation.maxSteps)

		fmt.Printf("seed %d: %v after %d ticks\n", config.Seed, g.State(), steps)
		fmt.Print(g.Snapshot().SerializedBoard)

		coordinator.Shutdown(ctx)
		return nil
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.IntVar(&simulation.config.Size, "size", 16, "Side length of the board, in cells")
	flags.IntVar(&simulation.config.Dimensions, "dims", 2, "Board dimensions, 2 or 3")
	flags.IntVarP(&simulation.config.NumBombs, "bombs", "b", 40, "Number of bombs to place")
	flags.Int64Var(&simulation.config.Seed, "seed", 0, "Seed for bomb placement and guesses (default random)")
	flags.IntVar(&simulation.maxSteps, "max-steps", 100000, "Give up after this many ticks")
	flags.Var(newDirectorValue(directorConstraint, &simulation.director), "director", `Strategy playing the board
constraint: make provably safe moves, guess only when stuck
random: click closed cells at random`)

	rootCmd.AddCommand(simulateCmd)
}
