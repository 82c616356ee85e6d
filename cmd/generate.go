package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/flashseed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill the schema with synthetic rows",
	Long: `
Generate synthetic rows for every table of the configured schema (or only the
ones named with --tables), parents before children, and load them with COPY.
Tables whose batch is rejected are retried row by row.

Row counts come from, in order: --counts, cantidad_por_tabla in the
generation document, the foreign key multiplier, and --count/cantidad_base.

Existing rows are kept unless --truncate is passed or limpieza_previa asks for
a cleanup first.`,
	Example: `  flashseed generate --count 500
  flashseed generate --tables clientes,pedidos --counts pedidos=2000 --seed 42
  flashseed generate --truncate --report reports/run.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		base, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		noCopy, _ := cmd.Flags().GetBool("no-copy")

		s, err := openSession(ctx, cmd, func(gen config.GenerationConfig) config.GenerationConfig {
			if cmd.Flags().Changed("count") {
				gen = gen.WithBaseCount(base)
			}
			if cmd.Flags().Changed("seed") {
				gen.Seeds.RandomSeed = seed
			}
			if noCopy {
				gen.Optimization.UseCopy = false
			}
			return gen
		})
		if err != nil {
			return err
		}
		defer s.Close()

		tables, _ := cmd.Flags().GetStringSlice("tables")
		counts, _ := cmd.Flags().GetStringToInt("counts")
		for table, n := range counts {
			if n < 0 {
				return fmt.Errorf("invalid row count %d for table %s", n, table)
			}
		}

		if err := cleanupBefore(ctx, cmd, s, tables); err != nil {
			return err
		}

		report, err := s.seeder.Generate(ctx, tables, counts)
		if err != nil {
			return err
		}

		printReport(report)

		reportPath, _ := cmd.Flags().GetString("report")
		if reportPath == "" {
			reportPath = s.cfg.ReportPath
		}
		if reportPath != "" {
			if err := report.WriteYAML(reportPath); err != nil {
				return err
			}
			color.Green("📄 Report written to %s", reportPath)
		}

		if failed := failedTables(report); failed > 0 {
			return fmt.Errorf("%d of %d tables failed", failed, len(report.Tables))
		}
		if ctx.Err() != nil {
			return fmt.Errorf("generation interrupted: %w", ctx.Err())
		}
		return nil
	},
}

// cleanupBefore applies limpieza_previa: --truncate or automatico empties the
// tables, preguntar asks first.
func cleanupBefore(ctx context.Context, cmd *cobra.Command, s *session, tables []string) error {
	truncate, _ := cmd.Flags().GetBool("truncate")
	force, _ := cmd.Flags().GetBool("force")

	switch {
	case truncate, s.gen.Cleanup.Automatic:
	case s.gen.Cleanup.Ask:
		target := "all tables"
		if len(tables) > 0 {
			target = fmt.Sprintf("%d tables", len(tables))
		}
		msg := fmt.Sprintf("Delete existing rows from %s in schema %s before generating?", target, s.cfg.Database.Schema)
		if !utils.NewInputUtils().AskConfirmation(msg, force) {
			return nil
		}
	default:
		return nil
	}

	if err := s.seeder.Truncate(ctx, tables); err != nil {
		return fmt.Errorf("failed to clean tables before generating: %w", err)
	}
	return nil
}

func printReport(report *seeder.Report) {
	rows := make([][]string, 0, len(report.Tables))
	for _, t := range report.Tables {
		rows = append(rows, []string{
			t.Table,
			strconv.Itoa(t.Requested),
			strconv.FormatInt(t.Inserted, 10),
			strconv.Itoa(t.Discarded),
			t.Path,
			t.State.String(),
		})
	}

	fmt.Println()
	utils.RenderTable(os.Stdout, []string{"table", "requested", "inserted", "discarded", "path", "state"}, rows)
	fmt.Printf("Total: %d rows in %s (seed %d)\n", report.Total, report.Elapsed.Round(time.Millisecond), report.Seed)

	if len(report.Errors) > 0 {
		fmt.Println()
		color.Yellow("⚠️  %d problems during generation:", len(report.Errors))
		for _, e := range report.Errors {
			color.Yellow("   • %s", e)
		}
	}
}

func failedTables(report *seeder.Report) int {
	n := 0
	for _, t := range report.Tables {
		if t.State == seeder.StateFailed {
			n++
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringSlice("tables", nil, "Only generate these tables (comma separated)")
	generateCmd.Flags().IntP("count", "n", 0, "Rows per table (overrides cantidad_base)")
	generateCmd.Flags().StringToInt("counts", nil, "Rows for specific tables, e.g. pedidos=2000,clientes=50")
	generateCmd.Flags().Int64("seed", 0, "Random seed for a reproducible run (overrides seeds.random_seed)")
	generateCmd.Flags().Bool("truncate", false, "Delete existing rows before generating")
	generateCmd.Flags().Bool("no-copy", false, "Load with INSERT only")
	generateCmd.Flags().String("report", "", "Write the run report to a YAML file (default report_path)")
}
