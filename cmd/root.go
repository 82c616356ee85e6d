package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.4.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════════╗",
		"║                                                              ║",
		"║     ███████╗███████╗███████╗██████╗                          ║",
		"║     ██╔════╝██╔════╝██╔════╝██╔══██╗                         ║",
		"║     ███████╗█████╗  █████╗  ██║  ██║   flashseed             ║",
		"║     ╚════██║██╔══╝  ██╔══╝  ██║  ██║                         ║",
		"║     ███████║███████╗███████╗██████╔╝                         ║",
		"║     ╚══════╝╚══════╝╚══════╝╚═════╝                          ║",
		"║                                                              ║",
		"║        🌱 Schema-Driven Test Data for PostgreSQL 🌱          ║",
		"║                                                              ║",
		"╚══════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:          "flashseed",
	SilenceUsage: true,
	Short:        "Fill a PostgreSQL schema with realistic, constraint-safe test data",
	Long: `
flashseed reads a live PostgreSQL schema and fills it with synthetic rows.

It works out a safe load order from the foreign keys, infers what each column
holds from its name (emails, phones, prices, dates...), and bulk-loads the rows
with COPY, falling back to row-by-row INSERT when the database rejects a batch.

Typical workflow:
  flashseed analyze                 inspect the schema
  flashseed config init             write the generation document
  flashseed generate --count 500    fill every table
  flashseed truncate                empty it again`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("flashseed CLI version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./flashseed.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().String("schema", "", "database schema to work on (overrides database.schema)")
	rootCmd.PersistentFlags().String("generation", "", "generation document (overrides generation_config)")

	viper.BindPFlag("database.schema", rootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("generation_config", rootCmd.PersistentFlags().Lookup("generation"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("flashseed.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}
