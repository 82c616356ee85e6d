package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/flashseed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var truncateCmd = &cobra.Command{
	Use:   "truncate [tables...]",
	Short: "Delete all rows from the schema's tables",
	Long: `
Empty the given tables, or every table of the configured schema when none are
named. Children are truncated before their parents and each TRUNCATE cascades.

⚠️  WARNING: This permanently deletes the data in those tables!

Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		s, err := openSession(ctx, cmd, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		target := "ALL tables"
		if len(args) > 0 {
			target = fmt.Sprintf("%d tables", len(args))
		}

		force, _ := cmd.Flags().GetBool("force")
		msg := fmt.Sprintf("Delete every row from %s in schema %s?", target, s.cfg.Database.Schema)
		if !utils.NewInputUtils().AskConfirmation(msg, force) {
			color.Yellow("Truncate cancelled")
			return nil
		}

		return s.seeder.Truncate(ctx, args)
	},
}

func init() {
	rootCmd.AddCommand(truncateCmd)
}
