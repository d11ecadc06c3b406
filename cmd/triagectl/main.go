package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/LFAn0m3d/Heallthultra/internal/advice"
	"github.com/LFAn0m3d/Heallthultra/internal/catalog"
	"github.com/LFAn0m3d/Heallthultra/internal/config"
	"github.com/LFAn0m3d/Heallthultra/internal/trend"
	"github.com/LFAn0m3d/Heallthultra/internal/triage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "triagectl",
		Short: "Clinical trend and triage analysis",
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(trendCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	return logger
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.CatalogFile)
}

func buildEngine(cfg *config.Config, logger zerolog.Logger) (*triage.Engine, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	var provider advice.Provider
	if cfg.AdviceEnabled {
		provider = advice.NewHTTPProvider(cfg.AdviceURL, logger,
			advice.WithTimeout(time.Duration(cfg.AdviceTimeoutSeconds)*time.Second))
	}

	return triage.NewEngine(cat, provider, logger), nil
}

// readInput decodes JSON from a file path, or stdin when path is "-".
func readInput(path string, v any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a patient snapshot into a triage decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			engine, err := buildEngine(cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to build engine")
				return err
			}

			var snap triage.Snapshot
			if err := readInput(input, &snap); err != nil {
				return err
			}

			res, err := engine.Analyze(cmd.Context(), snap)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().String("input", "-", "Snapshot JSON file, or - for stdin")
	return cmd
}

func trendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Compute the trend summary for one metric's series",
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, _ := cmd.Flags().GetString("metric")
			input, _ := cmd.Flags().GetString("input")
			if metric == "" {
				return fmt.Errorf("--metric is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			var points []trend.Point
			if err := readInput(input, &points); err != nil {
				return err
			}

			res, err := trend.NewAnalyzer(cat).ComputeTrend(metric, points)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().String("metric", "", "Measurement code (e.g. bp_sys)")
	cmd.Flags().String("input", "-", "Series JSON file ([{timestamp, value}]), or - for stdin")
	return cmd
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the measurement catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("%-10s %-30s %-8s %-10s %s\n", "CODE", "NAME", "UNIT", "CATEGORY", "TREND THRESHOLD")
			for _, code := range cat.Codes() {
				def, err := cat.Definition(code)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %-30s %-8s %-10s %.2f/day\n",
					def.Code, def.DisplayName, def.Unit, def.Category, def.TrendThreshold)
			}
			return nil
		},
	}
}
