package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/metailurini/fastlane"
	"github.com/metailurini/fastlane/internal/column"
	"github.com/spf13/cobra"
)

var buildPresorted bool

func init() {
	cmd := newBuildCmd()
	cmd.Flags().BoolVar(&buildPresorted, "presorted", false, "Input is already sorted; fail on the first out-of-order key")
	rootCmd.AddCommand(cmd)
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <keys.txt> <out.col>",
		Short: "Encode a text key list as a column file",
		Long: `The build command reads one decimal int32 key per line and writes a
compressed key column that the other commands load. Blank lines and lines
starting with # are ignored. Keys are sorted unless --presorted is given.

Example:
  fastlane build keys.txt keys.col
  fastlane build --presorted sorted.txt keys.col`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args)
		},
	}
	return cmd
}

func runBuild(args []string) error {
	inPath, outPath := args[0], args[1]

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open keys: %w", err)
	}
	defer in.Close()

	keys, err := readKeys(in)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if !buildPresorted {
		slices.Sort(keys)
	}
	printVerbose("Read %d keys from %s\n", len(keys), inPath)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create column: %w", err)
	}
	defer out.Close()

	w, err := column.NewWriter(out)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.Write(k); err != nil {
			return fmt.Errorf("%s: %w", inPath, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to flush column: %w", err)
	}
	if err := out.Sync(); err != nil {
		return err
	}

	info, err := out.Stat()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]any{
			"path":  outPath,
			"keys":  w.Count(),
			"bytes": info.Size(),
		})
	}
	printInfo("Wrote %d keys to %s (%s)\n", w.Count(), outPath, formatBytes(int(info.Size())))
	return nil
}

func readKeys(r io.Reader) ([]int32, error) {
	var keys []int32
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		k, err := parseKey(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		keys = append(keys, k)
	}
	return keys, sc.Err()
}

func parseKey(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", s, err)
	}
	if int32(v) == fastlane.Sentinel {
		return 0, fmt.Errorf("invalid key %q: %w", s, fastlane.ErrReservedKey)
	}
	return int32(v), nil
}
