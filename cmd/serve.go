package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/items"
	"github.com/they4kman/voxelsweep/status"
	"github.com/they4kman/voxelsweep/world"
)

var log = logrus.WithField("component", "cmd")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the minigame host",
	Long: `serve runs the coordinator loop against an in-memory world until
interrupted, together with the status server, which also accepts item
uses, clicks and joins from the host. Live games are torn down
and their results saved before it exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		chat := game.NotifierFunc(func(player game.Player, message string) {
			log.WithField("player", player).Info(message)
		})
		spawner := items.NewSpawner(cfg.Presets())
		coordinator := game.NewCoordinator(world.NewMemory(), results, chat, spawner.Spawn)

		statusErrs := make(chan error, 1)
		if cfg.Status.Addr != "" {
			router := status.NewRouter(status.NewHandler(results).WithEvents(coordinator, chat))
			go func() {
				err := status.Serve(ctx, cfg.Status.Addr, router)
				if err != nil {
					log.WithError(err).Error("status server failed")
					stop()
				}
				statusErrs <- err
			}()
		} else {
			close(statusErrs)
		}

		log.WithField("tick_rate", cfg.TickRate).Info("coordinator started")
		err = coordinator.Run(ctx, cfg.TickRate)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		log.Info("coordinator stopped")

		stop()
		if statusErr := <-statusErrs; statusErr != nil && err == nil {
			err = statusErr
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
