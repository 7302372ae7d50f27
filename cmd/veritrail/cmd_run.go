package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentbeats/veritrail/internal/artifact"
	"github.com/agentbeats/veritrail/internal/runner"
	"github.com/agentbeats/veritrail/internal/scenario"
	"github.com/agentbeats/veritrail/internal/stability"
)

var (
	transcriptPath string
	outputDir      string
	archiveBundle  bool
	withStability  bool
	dbPath         string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Evaluate a recorded agent transcript against a scenario",
		Long: `Run replays a recorded transcript of tool calls and a final submission
against the scenario's seeded fixture world, then scores the outcome.

With --stability, the transcript is additionally replayed against
perturbed fixture worlds and the score spread is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Transcript file (YAML or JSON) to replay (required)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Directory to write the artifact bundle into")
	cmd.Flags().BoolVar(&archiveBundle, "archive", false, "Also pack the bundle into a .tar.zst archive")
	cmd.Flags().BoolVar(&withStability, "stability", false, "Run perturbation reruns and report score stability")
	cmd.Flags().StringVar(&dbPath, "db", "", "Sqlite run store to save the outcome into")
	cmd.MarkFlagRequired("transcript") //nolint:errcheck

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	transcript, err := runner.LoadTranscript(transcriptPath)
	if err != nil {
		return err
	}
	newStream := func() runner.ToolCallStream { return transcript.Clone() }

	engine := runner.New(runner.WithLogger(slog.Default()))
	out, err := engine.Run(cmd.Context(), sc, newStream())
	if err != nil {
		return err
	}

	if withStability {
		eval := stability.New(slog.Default())
		result, err := eval.Evaluate(cmd.Context(), sc, newStream)
		if err != nil {
			return err
		}
		// The canonical report is published without stability; attach it
		// to a copy for output.
		withStab := *out.Report
		withStab.Stability = result
		out.Report = &withStab
	}

	printReport(cmd.OutOrStdout(), out.Report)

	if outputDir != "" {
		if _, err := artifact.WriteBundle(outputDir, out); err != nil {
			return err
		}
		if archiveBundle {
			path, err := artifact.Archive(outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archive written to %s\n", path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "artifacts written to %s\n", outputDir)
	}

	if dbPath != "" {
		store, err := artifact.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(cmd.Context(), out); err != nil {
			return err
		}
	}

	if f := out.Report.Failure; f != nil && f.Fatal {
		return &RunFailureError{Message: fmt.Sprintf("run aborted: %s: %s", f.Kind, f.Reason)}
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
