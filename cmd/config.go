package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Autolysis configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "results_dir: %s\n", cfg.ResultsDir)
		fmt.Fprintf(out, "credential_env: %s (%s)\n", cfg.CredentialEnv, credentialState(cfg.CredentialEnv))
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "decimal: %s\n", cfg.Decimal)
		if cfg.Thousands != "" {
			fmt.Fprintf(out, "thousands: %q\n", cfg.Thousands)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if len(cfg.Datasets) == 0 {
			fmt.Fprintln(out, "datasets: (none)")
			return nil
		}
		fmt.Fprintln(out, "datasets:")
		for _, d := range cfg.Datasets {
			fmt.Fprintf(out, "  %s: %s\n", d.Name, d.Path)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Keys: results_dir, credential_env, delimiter, decimal, thousands, log_level, log_format,
and dataset.<name> to add or replace the input path of a dataset.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "results_dir":
			cfg.ResultsDir = val
		case "credential_env":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("credential_env cannot be empty")
			}
			cfg.CredentialEnv = val
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "decimal":
			if _, err := cfgpkg.ParseDecimal(val); err != nil {
				return err
			}
			cfg.Decimal = val
		case "thousands":
			if _, err := cfgpkg.ParseThousands(val); err != nil {
				return err
			}
			cfg.Thousands = val
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			switch val {
			case "console", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		default:
			name, ok := strings.CutPrefix(key, "dataset.")
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			cfg.SetDataset(name, val)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// credentialState reports whether the credential is present, masked.
func credentialState(env string) string {
	v := os.Getenv(env)
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set: " + mask(v)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
