package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/metailurini/fastlane"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	benchKeys    int
	benchQueries int
	benchDist    string
	benchWidth   int32
	benchSeed    uint64
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVarP(&benchKeys, "keys", "n", 1_000_000, "Number of keys to insert")
	cmd.Flags().IntVar(&benchQueries, "queries", 100_000, "Number of lookups and range queries")
	cmd.Flags().StringVar(&benchDist, "dist", "dense", "Key distribution: dense, dup or sparse")
	cmd.Flags().Int32Var(&benchWidth, "width", 1000, "Key span of each range query")
	cmd.Flags().Uint64Var(&benchSeed, "seed", 1, "Random seed for query keys")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time inserts, lookups and range queries",
		Long: `The bench command fills an index from a synthetic key distribution
and times bulk insertion, random Contains probes and random SearchRange
queries under the active profile.

Distributions:
  dense   0, 1, 2, ...
  dup     every key three times
  sparse  every 100th key

Example:
  fastlane bench -n 5000000
  fastlane bench --dist sparse --levels 6 --skip 4 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
	return cmd
}

type phaseResult struct {
	Ops     int     `json:"ops"`
	Elapsed string  `json:"elapsed"`
	NsPerOp float64 `json:"ns_per_op"`
}

type benchReport struct {
	Profile  profile                  `json:"profile"`
	Dist     string                   `json:"dist"`
	Insert   phaseResult              `json:"insert"`
	Contains phaseResult              `json:"contains"`
	Range    phaseResult              `json:"range"`
	Hits     int                      `json:"hits"`
	Scanned  int                      `json:"scanned"`
	Metrics  fastlane.MetricsSnapshot `json:"metrics"`
}

func distKey(dist string, i int) (int32, error) {
	var v int64
	switch dist {
	case "dense":
		v = int64(i)
	case "dup":
		v = int64(i / 3)
	case "sparse":
		v = int64(i) * 100
	default:
		return 0, fmt.Errorf("unknown distribution %q", dist)
	}
	if v >= int64(fastlane.Sentinel) {
		return 0, fmt.Errorf("key %d of %s does not fit in int32", i, dist)
	}
	return int32(v), nil
}

func phase(ops int, d time.Duration) phaseResult {
	r := phaseResult{Ops: ops, Elapsed: d.String()}
	if ops > 0 {
		r.NsPerOp = float64(d.Nanoseconds()) / float64(ops)
	}
	return r
}

func runBench() error {
	if benchKeys <= 0 || benchQueries < 0 {
		return fmt.Errorf("--keys must be positive and --queries non-negative")
	}
	maxKey, err := distKey(benchDist, benchKeys-1)
	if err != nil {
		return err
	}

	m := fastlane.NewMetrics()
	ix, p, err := newIndex(m)
	if err != nil {
		return err
	}
	report := benchReport{Profile: p, Dist: benchDist}

	logger.Info("bench starting",
		zap.Int("keys", benchKeys),
		zap.Int("queries", benchQueries),
		zap.String("dist", benchDist))

	begin := time.Now()
	for i := range benchKeys {
		k, _ := distKey(benchDist, i)
		ix.Insert(k)
	}
	report.Insert = phase(benchKeys, time.Since(begin))

	r := rand.New(rand.NewPCG(benchSeed, uint64(benchKeys)))
	probes := make([]int32, benchQueries)
	for i := range probes {
		probes[i] = r.Int32N(maxKey + 1)
	}

	begin = time.Now()
	for _, k := range probes {
		if ix.Contains(k) {
			report.Hits++
		}
	}
	report.Contains = phase(benchQueries, time.Since(begin))

	begin = time.Now()
	for _, k := range probes {
		end := k + benchWidth
		if end < k {
			end = fastlane.Sentinel
		}
		report.Scanned += ix.SearchRange(k, end).Count()
	}
	report.Range = phase(benchQueries, time.Since(begin))
	report.Metrics = m.Snapshot()

	if jsonOut {
		return printJSON(report)
	}

	printInfo("Profile: levels=%d skip=%d dist=%s\n", p.Levels, p.Skip, benchDist)
	printInfo("  insert:   %d keys in %s (%.1f ns/op)\n",
		report.Insert.Ops, report.Insert.Elapsed, report.Insert.NsPerOp)
	printInfo("  contains: %d probes in %s (%.1f ns/op, %d hits)\n",
		report.Contains.Ops, report.Contains.Elapsed, report.Contains.NsPerOp, report.Hits)
	printInfo("  range:    %d queries in %s (%.1f ns/op, %d keys counted)\n",
		report.Range.Ops, report.Range.Elapsed, report.Range.NsPerOp, report.Scanned)
	printVerbose("  lane hops: %d batched, %d single\n",
		report.Metrics.BatchHops, report.Metrics.SingleHops)
	return nil
}
