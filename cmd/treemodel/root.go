package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/internal/config"
	"github.com/CrimsonAS/treemodel/internal/logger"
)

var (
	// Global flags
	configPath  string
	libraryPath string
	logLevel    string
	quiet       bool
	jsonOut     bool

	// cfg is loaded before any command runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "treemodel",
	Short: "Show, edit and serve a hierarchical music library",
	Long: `treemodel maintains a music library of folders and songs. The library is
shown as a tree of rows with one column per field, edited cell by cell with
the same validation a display surface gets, and served to external display
programs over the treemodel connection protocol.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Configuration file")
	rootCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "Library file (overrides the configuration)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

// setup loads the configuration, applies the global flags on top of it and
// starts logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if libraryPath != "" {
		cfg.Library = libraryPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Level: level, File: cfg.Log.File}); err != nil {
		return fmt.Errorf("failed to start logging: %w", err)
	}
	logger.Debug("configuration loaded", "path", configPath, "library", cfg.Library)
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
