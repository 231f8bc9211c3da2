package main

import (
	"strings"

	"github.com/metailurini/fastlane"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <column>",
		Short: "Show index shape and memory use",
		Long: `The stats command loads a column into an index built from the active
profile and reports lane capacity and fill per level, bucket count, resizes
and the memory held by each structure.

Example:
  fastlane stats keys.col
  fastlane stats keys.col --levels 4 --skip 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

type statsReport struct {
	Path    string                   `json:"path"`
	Index   fastlane.Stats           `json:"index"`
	Metrics fastlane.MetricsSnapshot `json:"metrics"`
}

func runStats(args []string) error {
	m := fastlane.NewMetrics()
	ix, err := openIndex(args[0], m)
	if err != nil {
		return err
	}

	report := statsReport{Path: args[0], Index: ix.Stats(), Metrics: m.Snapshot()}
	if jsonOut {
		return printJSON(report)
	}

	s := report.Index
	printInfo("\nIndex Statistics: %s\n", report.Path)
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Shape:\n")
	printInfo("  Keys: %d\n", s.Len)
	printInfo("  Levels: %d\n", s.Levels)
	printInfo("  Skip factor: %d\n", s.SkipFactor)
	printInfo("  Buckets: %d\n", s.Buckets)
	printInfo("  Resizes: %d\n", s.Resizes)
	printInfo("  Scan batch width: %d\n\n", s.ScanBatchWidth)

	printInfo("Fast lanes (level: fill / capacity):\n")
	for level := s.Levels - 1; level >= 0; level-- {
		pct := 0.0
		if s.LaneCapacity[level] > 0 {
			pct = float64(s.LaneFill[level]) * 100 / float64(s.LaneCapacity[level])
		}
		printInfo("  Level %d: %d / %d (%.1f%%)\n", level, s.LaneFill[level], s.LaneCapacity[level], pct)
	}
	printInfo("\n")

	printInfo("Memory:\n")
	printInfo("  Lanes: %s\n", formatBytes(s.LaneBytes))
	printInfo("  Buckets: %s\n", formatBytes(s.BucketBytes))
	printInfo("  Backbone: %s\n", formatBytes(s.BackboneBytes))

	if verbose {
		printInfo("\nPromotions by level:\n")
		for level, n := range report.Metrics.Promotions {
			printInfo("  Level %d: %d\n", level, n)
		}
	}
	return nil
}
