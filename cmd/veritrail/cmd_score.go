package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/runner"
	"github.com/agentbeats/veritrail/internal/scenario"
	"github.com/agentbeats/veritrail/internal/scoring"
	"github.com/agentbeats/veritrail/internal/submission"
)

var (
	submissionPath string
	ledgerPath     string
)

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <scenario.yaml>",
		Short: "Score a submission against an exported ledger",
		Long: `Score re-runs the scoring pipeline over an already-exported ledger and
a submission file, without replaying any tool calls. Useful for
re-scoring after validator changes.`,
		Args: cobra.ExactArgs(1),
		RunE: scoreCommandE,
	}

	cmd.Flags().StringVarP(&submissionPath, "submission", "s", "", "Submission JSON file (required)")
	cmd.Flags().StringVarP(&ledgerPath, "ledger", "l", "", "Exported ledger JSON file (required)")
	cmd.MarkFlagRequired("submission") //nolint:errcheck
	cmd.MarkFlagRequired("ledger")     //nolint:errcheck

	return cmd
}

func scoreCommandE(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	raw, err := readFile(submissionPath)
	if err != nil {
		return err
	}
	ledgerRaw, err := readFile(ledgerPath)
	if err != nil {
		return err
	}

	var records []models.ToolCallRecord
	if err := json.Unmarshal(ledgerRaw, &records); err != nil {
		return fmt.Errorf("parsing ledger %s: %w", ledgerPath, err)
	}

	orch := scoring.New()
	report := orch.Score(scoring.Input{
		RunID:      runner.DeriveRunID(sc, nil),
		Scenario:   sc,
		Validation: submission.Validate(raw),
		Records:    records,
	})

	printReport(cmd.OutOrStdout(), report)
	return nil
}
