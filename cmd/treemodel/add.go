package main

import (
	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/backend"
	"github.com/CrimsonAS/treemodel/examples/music"
	"github.com/CrimsonAS/treemodel/internal/logger"
)

var (
	addFolder  bool
	addArtist  string
	addYear    string
	addQuality string
)

func init() {
	cmd := newAddCmd()
	cmd.Flags().BoolVar(&addFolder, "folder", false, "Add a folder instead of a song")
	cmd.Flags().StringVar(&addArtist, "artist", "", "Artist of the song")
	cmd.Flags().StringVar(&addYear, "year", "", "Year of the song")
	cmd.Flags().StringVar(&addQuality, "quality", "", "Judgement of the song")
	rootCmd.AddCommand(cmd)
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <parent> <title>",
		Short: "Add a song or folder",
		Long: `The add command adds a song, or with --folder a folder, as the last child
of the folder at parent. An empty parent adds a top-level node.

Example:
  treemodel add "My Music/Pop music" "Vogue" --artist Madonna --year 1990
  treemodel add "My Music" "Jazz" --folder`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args)
		},
	}
	return cmd
}

func runAdd(args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	parent, err := lib.Lookup(args[0])
	if err != nil {
		return err
	}

	kind := treemodel.Leaf
	if addFolder {
		kind = treemodel.Branch
	}
	item, err := lib.Add(parent, kind, music.Node{Title: args[1]})
	if err != nil {
		return err
	}

	// Song fields go through the column setters, so they are checked like edits
	if kind == treemodel.Leaf {
		fields := map[int]string{
			music.ColumnArtist:  addArtist,
			music.ColumnYear:    addYear,
			music.ColumnQuality: addQuality,
		}
		for column, text := range fields {
			if text == "" {
				continue
			}
			if err := lib.Edit(item, column, treemodel.StringValue(text)); err != nil {
				return err
			}
		}
	}

	if err := saveLibrary(lib); err != nil {
		return err
	}
	logger.Info("node added", "path", lib.PathOf(item), "kind", kind)

	if jsonOut {
		return printJSON(map[string]interface{}{"path": lib.PathOf(item), "kind": kind.String()})
	}
	printInfo("Added %s\n", lib.PathOf(item))
	return nil
}
