package commands

import (
	"context"
	"fmt"

	"github.com/safar/ekart/cmd/ekart/output"
	"github.com/safar/ekart/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or roll back the database schema",
	Long: `Run the embedded SQL migrations against DATABASE_URL.

Examples:
  ekart migrate up                       # Create every table
  ekart migrate down                     # Drop every table, newest migration first
  ekart migrate up --env-file .env.test  # Use another dotenv file`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction, err := database.ParseDirection(args[0])
		if err != nil {
			return err
		}
		return runMigrate(cmd.Context(), direction)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context, direction database.Direction) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		output.Error("Could not connect to database")
		return err
	}
	defer db.Close()

	output.Info("Running migrations %s", direction)

	n, err := database.Migrate(ctx, db, direction, output.Step)
	if err != nil {
		output.Error("Migration failed")
		return err
	}

	output.Success("Ran %d migration(s) %s", n, direction)
	return nil
}
