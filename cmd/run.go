package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
	"github.com/KaramelBytes/autolysis/internal/pipeline"
)

var (
	runResultsDir string
	runDatasets   []string
	runContinue   bool
	runDelimiter  string
	runDecimal    string
	runThousands  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze every configured dataset into <results-dir>/<name>/",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		applyReadingFlags(cmd)
		if cmd.Flags().Changed("results-dir") {
			cfg.ResultsDir = runResultsDir
		}
		if len(runDatasets) > 0 {
			ds, err := parseDatasetFlags(runDatasets)
			if err != nil {
				return err
			}
			cfg.Datasets = ds
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if len(cfg.Datasets) == 0 {
			return fmt.Errorf("no datasets configured (use --dataset name=path or `autolysis config set dataset.<name> <path>`)")
		}
		loadOpt, err := cfg.LoadOptions()
		if err != nil {
			return err
		}

		sources := make([]pipeline.Source, 0, len(cfg.Datasets))
		for _, d := range cfg.Datasets {
			sources = append(sources, pipeline.Source{Name: d.Name, Path: d.Path})
		}
		opt := pipeline.Options{
			ResultsDir:          cfg.ResultsDir,
			Load:                loadOpt,
			ContinueOnLoadError: runContinue,
		}
		return runPipeline(cmd, opt, sources)
	},
}

// runPipeline drives the runner and prints the per-dataset outcome.
func runPipeline(cmd *cobra.Command, opt pipeline.Options, sources []pipeline.Source) error {
	out := cmd.OutOrStdout()
	r := pipeline.NewRunner(opt, out, log)
	res, err := r.Run(sources)
	defer func() { _ = log.Sync() }()
	if err != nil {
		log.Error("run aborted", zap.String("run_id", res.RunID), zap.Error(err))
		return err
	}
	for _, d := range res.Datasets {
		if len(d.Errors) == 0 {
			fmt.Fprintf(out, "✓ %s: %d images, report %s\n", d.Name, d.Artifacts.Count(), d.Report)
			continue
		}
		fmt.Fprintf(out, "⚠ %s: completed with %d error(s)\n", d.Name, len(d.Errors))
		for _, e := range d.Errors {
			fmt.Fprintf(out, "   - %s: %v\n", e.Stage, e.Err)
		}
	}
	fmt.Fprintf(out, "✓ Processed %d datasets\n", len(res.Datasets))
	return nil
}

// parseDatasetFlags turns repeated name=path values into ordered entries.
func parseDatasetFlags(vals []string) ([]cfgpkg.Dataset, error) {
	out := make([]cfgpkg.Dataset, 0, len(vals))
	for _, v := range vals {
		name, path, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("invalid --dataset %q (want name=path)", v)
		}
		out = append(out, cfgpkg.Dataset{Name: strings.TrimSpace(name), Path: strings.TrimSpace(path)})
	}
	return out, nil
}

// applyReadingFlags copies explicitly set CSV flags over the config values.
func applyReadingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("delimiter") {
		cfg.Delimiter = runDelimiter
	}
	if f.Changed("decimal") {
		cfg.Decimal = runDecimal
	}
	if f.Changed("thousands") {
		cfg.Thousands = runThousands
	}
}

func addReadingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (default by extension)")
	cmd.Flags().StringVar(&runDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	cmd.Flags().StringVar(&runThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runResultsDir, "results-dir", "", "root directory for per-dataset outputs (overrides config)")
	runCmd.Flags().StringArrayVar(&runDatasets, "dataset", nil, "dataset as name=path (repeatable, replaces the configured mapping)")
	runCmd.Flags().BoolVar(&runContinue, "continue-on-load-error", false, "log load failures and move on instead of aborting the run")
	addReadingFlags(runCmd)
}
