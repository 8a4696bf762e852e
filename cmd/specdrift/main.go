// Package main provides the specdrift binary entry point.
// Specdrift tracks drift between a specification document and its
// companion docs and test suite: it fingerprints spec sections, maps
// annotated tests to sections, and reports keyword and section-mapping
// coverage.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/specdrift/annotation"
	"github.com/c360studio/specdrift/config"
	"github.com/c360studio/specdrift/document"
	"github.com/c360studio/specdrift/report"
	"github.com/c360studio/specdrift/watch"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "specdrift"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Specification drift and test-traceability reporter",
		Long: `Specdrift detects drift between a specification document and the
artifacts around it.

It provides:
- Section fingerprinting with changed/new/removed classification
- Keyword coverage over companion documents
- Spec-to-test mapping from annotation tags in source files

Each run overwrites the previous report; the JSON report doubles as the
next run's snapshot.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(reportCmd(&configPath, &logLevel))
	cmd.AddCommand(mapCmd(&configPath, &logLevel))
	cmd.AddCommand(watchCmd(&configPath, &logLevel))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func reportCmd(configPath, logLevel *string) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the drift and coverage report",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := config.NewLoader(logger).Load(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Report.Threshold = threshold
			}

			rep, err := report.NewRunner(cfg, logger).Run()
			if err != nil {
				return err
			}

			fmt.Printf("Spec drift report written: %s\n", cfg.Report.JSONPath)
			fmt.Printf("Markdown report written: %s\n", cfg.Report.MarkdownPath)
			if !rep.ThresholdMet {
				fmt.Fprintf(os.Stderr, "WARNING: keyword coverage %.1f%% below threshold %.1f%%\n",
					rep.KeywordPercent, cfg.Report.Threshold)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 70.0, "Minimum keyword coverage percent (warning only)")
	return cmd
}

func mapCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Build the spec-to-test mapping artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := config.NewLoader(logger).Load(*configPath)
			if err != nil {
				return err
			}

			specText, err := os.ReadFile(cfg.Spec.Path)
			if err != nil {
				return fmt.Errorf("read specification document %s: %w", cfg.Spec.Path, err)
			}
			titles := document.Titles(document.Extract(string(specText)))

			scanner := annotation.NewScanner(cfg.Annotations.Root, cfg.Annotations.Patterns, cfg.Annotations.Tag, logger)
			mapping, err := scanner.Scan()
			if err != nil {
				return err
			}
			mapping.Summarize(titles)

			if err := mapping.WriteFile(cfg.Annotations.ArtifactPath); err != nil {
				return err
			}
			if err := annotation.UpdateMarkdownFile(cfg.Annotations.MarkdownPath, cfg.Annotations.Marker, mapping); err != nil {
				return err
			}

			fmt.Printf("Mapping artifact written: %s\n", cfg.Annotations.ArtifactPath)
			fmt.Printf("Mapping document updated: %s\n", cfg.Annotations.MarkdownPath)
			fmt.Printf("Section coverage: %.1f%% (%d/%d)\n", mapping.Percent, mapping.MappedCount, mapping.TotalCount)
			return nil
		},
	}
}

func watchCmd(configPath, logLevel *string) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the report when watched inputs change",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := config.NewLoader(logger).Load(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = watch.New(cfg, debounce, logger).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Delay before re-running after a change")
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
