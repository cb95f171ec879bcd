package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantware/finfeat/internal/config"
	"github.com/quantware/finfeat/internal/dataset"
	"github.com/quantware/finfeat/internal/logger"
	"github.com/quantware/finfeat/internal/metrics"
	"github.com/quantware/finfeat/internal/pipeline"
)

var (
	buildInput  string
	buildOutput string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the feature table from raw bar data",
	Long:  "Run the full preprocessing and feature pipeline over a raw OHLCV CSV and write the feature table",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildInput, "input", "", "raw bar CSV path (overrides config)")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "feature table CSV path (overrides config)")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := config.Defaults()
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
	}
	if buildInput != "" {
		cfg.Input.Path = buildInput
	}
	if buildOutput != "" {
		cfg.Output.Path = buildOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Must(debug)
	defer log.Sync()

	records, err := dataset.ReadCSV(cfg.Input.Path)
	if err != nil {
		return err
	}
	log.Info("raw data loaded",
		zap.String("path", cfg.Input.Path),
		zap.Int("rows", len(records)),
	)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	p := pipeline.New(pipeline.ParamsFromConfig(cfg), log, reg)
	tbl, report, err := p.Run(records)
	if err != nil {
		return err
	}

	if err := dataset.WriteCSV(cfg.Output.Path, tbl); err != nil {
		return err
	}

	fmt.Println("=== finfeat build ===")
	fmt.Printf("Input:            %s (%d rows)\n", cfg.Input.Path, report.RawRows)
	fmt.Printf("Tickers:          %d kept, %d excluded (min samples %d)\n",
		report.Tickers, report.ExcludedTickers, cfg.Pipeline.MinSamplesPerTicker)
	fmt.Printf("Contiguity drops: %d bars\n", report.DroppedRows)
	fmt.Printf("Output:           %s (%d rows, %d columns)\n",
		cfg.Output.Path, tbl.Len(), len(tbl.Columns()))

	return nil
}
