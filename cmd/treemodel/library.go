package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/CrimsonAS/treemodel/backend"
	"github.com/CrimsonAS/treemodel/examples/music"
	"github.com/CrimsonAS/treemodel/internal/logger"
)

// openLibrary loads the configured library.
func openLibrary() (*music.Library, error) {
	tree, err := music.Load(cfg.Library)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("library %s does not exist, create it with \"treemodel init\"", cfg.Library)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	logger.Debug("library loaded", "path", cfg.Library, "nodes", tree.Len())
	return music.NewLibrary(tree, treemodel.WithLogger(logger.L))
}

func saveLibrary(lib *music.Library) error {
	if err := music.Save(lib.Tree(), cfg.Library); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}
	logger.Debug("library saved", "path", cfg.Library, "nodes", lib.Tree().Len())
	return nil
}

// findColumn accepts a column index or a case-insensitive column title.
func findColumn(columns []treemodel.Column, name string) (int, error) {
	if i, err := strconv.Atoi(name); err == nil {
		if i < 0 || i >= len(columns) {
			return 0, fmt.Errorf("column %d out of range (0-%d)", i, len(columns)-1)
		}
		return i, nil
	}
	for i, c := range columns {
		if strings.EqualFold(c.Title, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column %q", name)
}
