package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag variable; cobra keeps values between runs.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	configPath, levelsFlag, skipFlag = "", 0, 0
	buildPresorted = false
	rangeLimit = 20
	benchKeys, benchQueries, benchDist, benchWidth, benchSeed = 1_000_000, 100_000, "dense", 1000, 1
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return <-done, fnErr
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return captureOutput(t, rootCmd.Execute)
}

// writeFile creates name under a test temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// buildColumn encodes keys (one per line) into a column file.
func buildColumn(t *testing.T, keys ...string) string {
	t.Helper()
	in := writeFile(t, "keys.txt", strings.Join(keys, "\n")+"\n")
	out := filepath.Join(t.TempDir(), "keys.col")
	_, err := run(t, "build", in, out)
	require.NoError(t, err)
	return out
}

// decodeJSON unmarshals command output into v.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
}
