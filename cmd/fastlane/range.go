package main

import (
	"github.com/spf13/cobra"
)

var rangeLimit int

func init() {
	cmd := newRangeCmd()
	cmd.Flags().IntVar(&rangeLimit, "limit", 20, "Maximum keys to print (0 prints none, -1 prints all)")
	rootCmd.AddCommand(cmd)
}

func newRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range <column> <start> <end>",
		Short: "Count and list keys in [start, end)",
		Long: `The range command loads a column and reports every key k with
start <= k < end: how many there are, where the run starts and ends on the
backbone, and the first --limit keys.

Example:
  fastlane range keys.col 100 200
  fastlane range keys.col 100 200 --limit -1 --json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRange(args)
		},
	}
	return cmd
}

type rangeResult struct {
	Start    int32   `json:"start"`
	End      int32   `json:"end"`
	Count    int     `json:"count"`
	StartRef uint32  `json:"start_ref"`
	EndRef   uint32  `json:"end_ref"`
	FirstKey *int32  `json:"first_key,omitempty"`
	NextKey  *int32  `json:"next_key,omitempty"`
	Keys     []int32 `json:"keys,omitempty"`
}

func runRange(args []string) error {
	start, err := parseKey(args[1])
	if err != nil {
		return err
	}
	end, err := parseKey(args[2])
	if err != nil {
		return err
	}

	ix, err := openIndex(args[0], nil)
	if err != nil {
		return err
	}

	v := ix.SearchRange(start, end)
	res := rangeResult{
		Start:    start,
		End:      end,
		Count:    v.Count(),
		StartRef: uint32(v.Start()),
		EndRef:   uint32(v.End()),
	}
	if v.Count() > 0 {
		if k, ok := v.StartKey(); ok {
			res.FirstKey = &k
		}
	}
	if k, ok := v.EndKey(); ok {
		res.NextKey = &k
	}
	for k := range v.Keys() {
		if rangeLimit >= 0 && len(res.Keys) >= rangeLimit {
			break
		}
		res.Keys = append(res.Keys, k)
	}

	if jsonOut {
		return printJSON(res)
	}

	printInfo("Range [%d, %d): %d keys\n", start, end, res.Count)
	printVerbose("  Backbone refs: %d..%d\n", res.StartRef, res.EndRef)
	if res.FirstKey != nil {
		printInfo("  First key: %d\n", *res.FirstKey)
	}
	if res.NextKey != nil {
		printInfo("  Next key after range: %d\n", *res.NextKey)
	}
	for _, k := range res.Keys {
		printInfo("  %d\n", k)
	}
	if len(res.Keys) < res.Count && rangeLimit >= 0 {
		printInfo("  ... (%d more)\n", res.Count-len(res.Keys))
	}
	return nil
}
