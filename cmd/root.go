package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
	"github.com/KaramelBytes/autolysis/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	envFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "autolysis",
	Short: "Autolysis: automated exploratory analysis for CSV datasets",
	Long: `Autolysis loads each configured CSV dataset, prints an overview, summary statistics and missing-value counts,
renders a correlation heatmap and a pairplot of the numeric columns, and writes a README.md report per dataset.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autolysis/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading config (default is ./.env if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log encoding: console|json (overrides config)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := cfgpkg.LoadEnvFile(envFile); err != nil {
		return err
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	l, err := logging.New(level, format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log = l
	return nil
}

// requireCredential aborts before any dataset is touched when the configured
// credential variable is missing. The value itself is never used.
func requireCredential() error {
	if _, err := cfgpkg.RequireCredential(cfg.CredentialEnv); err != nil {
		return fmt.Errorf("%w (set it in the environment or a .env file)", err)
	}
	return nil
}
