package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/examples/music"
	"github.com/CrimsonAS/treemodel/internal/config"
	"github.com/CrimsonAS/treemodel/internal/logger"
)

var initForce bool

func init() {
	cmd := newInitCmd()
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing library")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the demo library and a default configuration",
		Long: `The init command writes the "My Music" demo library to the library file,
and a default configuration file if there is none yet.

Example:
  treemodel init
  treemodel init --library music.msgpack --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
	return cmd
}

func runInit(args []string) error {
	// The configuration may live elsewhere, so it must not get a path relative
	// to the working directory
	library, err := filepath.Abs(cfg.Library)
	if err != nil {
		return err
	}
	cfg.Library = library

	if _, err := os.Stat(cfg.Library); err == nil && !initForce {
		return fmt.Errorf("library %s already exists, use --force to overwrite it", cfg.Library)
	}

	tree := music.Initial()
	if err := music.Save(tree, cfg.Library); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}
	logger.Info("library created", "path", cfg.Library, "nodes", tree.Len())
	printInfo("Created %s (%d nodes)\n", cfg.Library, tree.Len())

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		def := config.Default()
		def.Library = cfg.Library
		if err := config.Save(def, configPath); err != nil {
			return err
		}
		printInfo("Created %s\n", configPath)
	}
	return nil
}
