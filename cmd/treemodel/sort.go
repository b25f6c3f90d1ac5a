package main

import (
	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/internal/logger"
)

var sortDesc bool

func init() {
	cmd := newSortCmd()
	cmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort descending")
	rootCmd.AddCommand(cmd)
}

func newSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <column>",
		Short: "Reorder every folder of the library by a column",
		Long: `The sort command sorts the children of every folder by column and saves
the new order. Titles and other text sort case-insensitively; songs without
a year sort as year 0.

Example:
  treemodel sort title
  treemodel sort year --desc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(args)
		},
	}
	return cmd
}

func runSort(args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	column, err := findColumn(lib.Model().Columns(), args[0])
	if err != nil {
		return err
	}
	if err := lib.Sort(column, !sortDesc); err != nil {
		return err
	}
	if err := saveLibrary(lib); err != nil {
		return err
	}

	title := lib.Model().Columns()[column].Title
	logger.Info("library sorted", "column", title, "ascending", !sortDesc)
	printInfo("Sorted by %s\n", title)
	return nil
}
