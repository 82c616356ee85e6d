package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const projectConfigFile = "flashseed.config.json"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage flashseed configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the project config and a default generation document",
	Long: `
Create flashseed.config.json (database connection settings) and the
generation document it points at, filled with the default values.
Existing files are kept unless --force is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if writable(projectConfigFile, force) {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if err := os.WriteFile(projectConfigFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", projectConfigFile, err)
			}
			color.Green("✅ Created %s", projectConfigFile)
		}

		if writable(cfg.GenerationConfig, force) {
			if err := config.SaveGeneration(cfg.GenerationConfig, config.DefaultGeneration()); err != nil {
				return err
			}
			color.Green("✅ Created %s", cfg.GenerationConfig)
		}

		fmt.Println()
		color.Cyan("Next steps:")
		fmt.Printf("  1. Set %s in your environment or .env file\n", cfg.Database.URLEnv)
		fmt.Printf("  2. Adjust %s\n", cfg.GenerationConfig)
		fmt.Println("  3. Run: flashseed analyze")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective generation settings",
	Long: `
Print the generation document after it has been merged over the defaults,
which is exactly what generate will use.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, gen, err := loadSettings()
		if err != nil {
			return err
		}

		color.Cyan("# provider: %s  schema: %s  url from: $%s", cfg.Database.Provider, cfg.Database.Schema, cfg.Database.URLEnv)
		color.Cyan("# generation document: %s", cfg.GenerationConfig)

		data, err := yaml.Marshal(gen)
		if err != nil {
			return fmt.Errorf("failed to encode generation config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func writable(path string, force bool) bool {
	if _, err := os.Stat(path); err == nil && !force {
		color.Yellow("⚠️  %s already exists (use --force to overwrite)", path)
		return false
	}
	return true
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
