package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newContainsCmd())
}

func newContainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contains <column> <key>...",
		Short: "Check keys for membership",
		Long: `The contains command loads a column and reports, for each key given,
whether it was inserted. It exits with an error if any key is missing.

Example:
  fastlane contains keys.col 42
  fastlane contains keys.col 1 2 3 --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContains(args)
		},
	}
	return cmd
}

type membership struct {
	Key   int32 `json:"key"`
	Found bool  `json:"found"`
}

func runContains(args []string) error {
	keys := make([]int32, 0, len(args)-1)
	for _, s := range args[1:] {
		k, err := parseKey(s)
		if err != nil {
			return err
		}
		keys = append(keys, k)
	}

	ix, err := openIndex(args[0], nil)
	if err != nil {
		return err
	}

	results := make([]membership, len(keys))
	missing := 0
	for i, k := range keys {
		results[i] = membership{Key: k, Found: ix.Contains(k)}
		if !results[i].Found {
			missing++
		}
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Found {
				printInfo("%d: found\n", r.Key)
			} else {
				printInfo("%d: missing\n", r.Key)
			}
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d keys missing", missing, len(keys))
	}
	return nil
}
