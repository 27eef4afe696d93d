package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the result tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		results, closeDatabase, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDatabase()

		m, ok := results.(migrator)
		if !ok {
			fmt.Printf("%s database needs no migration\n", cfg.Database.Driver)
			return nil
		}
		if err := m.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating %s database: %w", cfg.Database.Driver, err)
		}
		fmt.Println("result tables ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
