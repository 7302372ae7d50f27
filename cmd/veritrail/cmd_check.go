package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbeats/veritrail/internal/scenario"
	"github.com/agentbeats/veritrail/internal/validation"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scenario.yaml> [more...]",
		Short: "Validate scenario files",
		Long: `Check validates scenario files against the scenario schema and the
engine's semantic rules (date ordering, seed positivity) without
running anything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: checkCommandE,
	}
}

func checkCommandE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failures := 0

	rows := make([][2]string, 0, len(args))
	for _, path := range args {
		sc, err := scenario.Load(path)
		switch {
		case err != nil:
			failures++
			rows = append(rows, [2]string{path, fmt.Sprintf("FAIL  %v", err)})
		default:
			rows = append(rows, [2]string{path, fmt.Sprintf("OK    id=%s seed=%d tools=%d",
				sc.ID, sc.RootSeed, len(validation.KnownTools()))})
		}
	}
	printTable(out, rows)

	if failures > 0 {
		return fmt.Errorf("%d of %d scenario files failed validation", failures, len(args))
	}
	return nil
}
