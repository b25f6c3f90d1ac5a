package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CrimsonAS/treemodel/examples/music"
	"github.com/CrimsonAS/treemodel/internal/config"
)

// setupLibrary points the global configuration at a fresh copy of the demo
// library in a temporary directory and resets the command flags.
func setupLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg = config.Default()
	cfg.Library = filepath.Join(dir, "library.json")
	configPath = filepath.Join(dir, config.FileName)
	quiet = false
	jsonOut = false

	showDepth, showSort, showDesc = 0, "", false
	addFolder, addArtist, addYear, addQuality = false, "", "", ""
	sortDesc = false
	initForce = false
	serveDataset, serveFrontend, serveServers = "", "", ""

	if err := music.Save(music.Initial(), cfg.Library); err != nil {
		t.Fatalf("failed to write library: %v", err)
	}
	return dir
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("output missing expected string %q\nOutput:\n%s", exp, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(output, u) {
			t.Errorf("output contains unwanted string %q\nOutput:\n%s", u, output)
		}
	}
}
