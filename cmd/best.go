package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/they4kman/voxelsweep/game"
)

var bestCmd = &cobra.Command{
	Use:   "best <player-uuid>",
	Short: "Print a player's best results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		player, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid player id: %w", err)
		}

		results, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		records, err := results.MinesweeperRecords(ctx, player)
		if err != nil {
			return err
		}
		streak, found, err := results.HighestStreak(ctx, player)
		if err != nil {
			return err
		}

		if len(records) == 0 && !found {
			fmt.Println("no results yet")
			return nil
		}
		for _, record := range records {
			fmt.Printf("minesweeper %dx%d %dD: %.2fs\n",
				record.Size, record.Size, record.Dimensions,
				float64(record.Ticks)/game.TicksPerSecond)
		}
		if found {
			fmt.Printf("highest streak: %d\n", streak)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bestCmd)
}
