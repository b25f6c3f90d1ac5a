package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/internal/logger"
)

func init() {
	rootCmd.AddCommand(newRemoveCmd())
}

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove a song or folder",
		Long: `The remove command deletes the node at path, together with everything
below it.

Example:
  treemodel remove "My Music/Pop music/Take a bow"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args)
		},
	}
	return cmd
}

func runRemove(args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	item, err := lib.Lookup(args[0])
	if err != nil {
		return err
	}
	if item.IsRoot() {
		return fmt.Errorf("cannot remove the library root")
	}

	path := lib.PathOf(item)
	before := lib.Tree().Len()
	if err := lib.Remove(item); err != nil {
		return err
	}
	if err := saveLibrary(lib); err != nil {
		return err
	}
	removed := before - lib.Tree().Len()
	logger.Info("node removed", "path", path, "nodes", removed)

	if jsonOut {
		return printJSON(map[string]interface{}{"path": path, "removed": removed})
	}
	printInfo("Removed %s (%d node(s))\n", path, removed)
	return nil
}
