package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/flashseed/internal/types"
	"github.com/Lumos-Labs-HQ/flashseed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Inspect the target schema",
	Long: `
Read the catalog of the configured schema and print what generation will work
with: tables, primary and foreign keys, unique and check constraints,
sequences, and the order tables will be loaded in.

Use --columns to see the semantic category inferred for every column and
--output to save the full model as YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		s, err := openSession(ctx, cmd, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		model, err := s.seeder.Analyze(ctx)
		if err != nil {
			return err
		}

		withRows, _ := cmd.Flags().GetBool("rows")
		if err := printTables(ctx, s, model, withRows); err != nil {
			return err
		}

		if showColumns, _ := cmd.Flags().GetBool("columns"); showColumns {
			printColumns(model, s.gen)
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			if err := writeModel(output, model); err != nil {
				return err
			}
			color.Green("✅ Schema model written to %s", output)
		}
		return nil
	},
}

func printTables(ctx context.Context, s *session, model *types.SchemaModel, withRows bool) error {
	header := []string{"#", "table", "columns", "primary key", "references"}
	if withRows {
		header = append(header, "rows")
	}

	rows := make([][]string, 0, len(model.LoadOrder))
	for i, table := range model.LoadOrder {
		refs := make([]string, 0, len(model.ForeignKeys[table]))
		for _, fk := range model.ForeignKeys[table] {
			refs = append(refs, fmt.Sprintf("%s→%s.%s", fk.Column, fk.ReferencedTable, fk.ReferencedColumn))
		}
		row := []string{
			strconv.Itoa(i + 1),
			table,
			strconv.Itoa(len(model.Columns[table])),
			strings.Join(model.PrimaryKeys[table], ", "),
			strings.Join(refs, ", "),
		}
		if withRows {
			n, err := s.adapter.Count(ctx, model.Schema, table)
			if err != nil {
				return fmt.Errorf("failed to count rows in %s: %w", table, err)
			}
			row = append(row, strconv.FormatInt(n, 10))
		}
		rows = append(rows, row)
	}

	fmt.Println()
	color.New(color.FgCyan, color.Bold).Printf("Schema %s (load order)\n", model.Schema)
	utils.RenderTable(os.Stdout, header, rows)

	var checks, uniques int
	for _, t := range model.Tables {
		checks += len(model.CheckConstraints[t])
		uniques += len(model.UniqueConstraints[t])
	}
	fmt.Printf("Unique columns: %d  Check constraints: %d  Sequences: %d  Enums: %d\n",
		uniques, checks, len(model.Sequences), len(model.Enums))
	return nil
}

func printColumns(model *types.SchemaModel, gen config.GenerationConfig) {
	header := []string{"table", "column", "type", "null", "generated as"}
	var rows [][]string
	for _, table := range model.LoadOrder {
		for _, col := range model.Columns[table] {
			rows = append(rows, []string{table, col.Name, col.TypeName(), yesNo(col.Nullable), describeColumn(model, gen, table, col)})
		}
	}
	fmt.Println()
	utils.RenderTable(os.Stdout, header, rows)
}

func describeColumn(model *types.SchemaModel, gen config.GenerationConfig, table string, col types.ColumnDescriptor) string {
	if col.IsAutoIncrement() {
		return "database default"
	}
	if fk, ok := model.ForeignKeyFor(table, col.Name); ok {
		return fmt.Sprintf("reference to %s.%s", fk.ReferencedTable, fk.ReferencedColumn)
	}
	if o, ok := gen.Override(table, col.Name); ok {
		return "override " + o.Type
	}
	if len(col.EnumValues) > 0 {
		return "enum label"
	}
	if c := seeder.InferCategory(col.Name); c != seeder.CategoryNone {
		return c.String()
	}
	return "random " + col.TypeName()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeModel(path string, model *types.SchemaModel) error {
	data, err := yaml.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to encode schema model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("columns", false, "Show the inferred category of every column")
	analyzeCmd.Flags().Bool("rows", false, "Count the rows currently in each table")
	analyzeCmd.Flags().StringP("output", "o", "", "Write the schema model to a YAML file")
}
