package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	treemodel "github.com/CrimsonAS/treemodel/backend"
)

func TestLoadMissing(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	data := `
library = "music.msgpack"

[log]
level = "debug"

[view]
sort_column = 2
ascending = false

[[columns]]
title = "Name"

[[columns]]
width = 80
align = "right"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "music.msgpack"), config.Library)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, 2, config.View.SortColumn)
	assert.False(t, config.View.Ascending)
	assert.True(t, config.View.ExpandAll, "unset keys keep their defaults")
	assert.Equal(t, "music", config.Serve.Dataset)
	require.Len(t, config.Columns, 2)
	assert.Equal(t, "right", config.Columns[1].Align)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("library = [1"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	config := Default()
	config.Library = "/srv/music.json"
	config.Serve.Frontend = "treeview-gtk"
	config.Columns = []ColumnOverride{{Title: "Song"}}
	require.NoError(t, Save(config, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestApply(t *testing.T) {
	columns := []treemodel.Column{
		{Index: 0, Title: "Title", Width: 250},
		{Index: 1, Title: "Year", Width: 100, Align: treemodel.AlignCenter, Type: treemodel.TypeInt},
	}

	config := Default()
	got, err := config.Apply(columns)
	require.NoError(t, err)
	assert.Equal(t, columns, got)

	config.Columns = []ColumnOverride{{Title: "Song"}, {Width: 60, Align: "right"}}
	got, err = config.Apply(columns)
	require.NoError(t, err)
	assert.Equal(t, "Song", got[0].Title)
	assert.Equal(t, 250, got[0].Width)
	assert.Equal(t, treemodel.Column{Index: 1, Title: "Year", Width: 60, Align: treemodel.AlignRight, Type: treemodel.TypeInt}, got[1])
	assert.Equal(t, "Title", columns[0].Title, "input is not modified")
	require.NoError(t, treemodel.MatchColumns(columns, got))

	config.Columns = []ColumnOverride{{Title: "Song"}}
	_, err = config.Apply(columns)
	assert.ErrorIs(t, err, treemodel.ErrColumnMismatch)

	config.Columns = []ColumnOverride{{}, {Align: "justify"}}
	_, err = config.Apply(columns)
	assert.Error(t, err)
}
