package main

import (
	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/backend"
	"github.com/CrimsonAS/treemodel/internal/logger"
)

func init() {
	rootCmd.AddCommand(newEditCmd())
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <path> <column> <value>",
		Short: "Change one cell of a node",
		Long: `The edit command changes one field of the node at path, with the same
checks an edit in a display surface gets: folders only have a title, years
must be numbers, and an empty value clears an optional field.

Example:
  treemodel edit "My Music/Pop music/Yesterday" year 1965
  treemodel edit "My Music/Pop music/Yesterday" Judgement ""`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(args)
		},
	}
	return cmd
}

func runEdit(args []string) error {
	path, columnName, text := args[0], args[1], args[2]

	lib, err := openLibrary()
	if err != nil {
		return err
	}
	item, err := lib.Lookup(path)
	if err != nil {
		return err
	}
	columns, err := cfg.Apply(lib.Model().Columns())
	if err != nil {
		return err
	}
	column, err := findColumn(columns, columnName)
	if err != nil {
		if column, err = findColumn(lib.Model().Columns(), columnName); err != nil {
			return err
		}
	}

	if err := lib.Edit(item, column, treemodel.StringValue(text)); err != nil {
		logger.Debug("edit rejected", "path", path, "column", column, "error", err)
		return err
	}
	if err := saveLibrary(lib); err != nil {
		return err
	}

	value := lib.Model().GetValue(item, column)
	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":   lib.PathOf(item),
			"column": columns[column].Title,
			"value":  value,
		})
	}
	printInfo("%s: %s = %q\n", lib.PathOf(item), columns[column].Title, value.String())
	return nil
}
