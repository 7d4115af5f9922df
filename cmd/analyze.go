package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis/internal/pipeline"
)

var (
	anaName       string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single CSV/TSV into <output>/<name>/",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		path := args[0]
		applyReadingFlags(cmd)
		loadOpt, err := cfg.LoadOptions()
		if err != nil {
			return err
		}
		name := anaName
		if name == "" {
			base := filepath.Base(path)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		out := cfg.ResultsDir
		if anaOutputPath != "" {
			out = anaOutputPath
		}
		opt := pipeline.Options{ResultsDir: out, Load: loadOpt}
		return runPipeline(cmd, opt, []pipeline.Source{{Name: name, Path: path}})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaName, "name", "", "dataset name used for the output directory (default: file name without extension)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "results directory (overrides config)")
	addReadingFlags(analyzeCmd)
}
