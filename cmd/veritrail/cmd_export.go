package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbeats/veritrail/internal/artifact"
)

var (
	exportDB      string
	exportOut     string
	exportArchive bool
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Re-export the artifact bundle for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCommandE,
	}

	cmd.Flags().StringVar(&exportDB, "db", "veritrail.db", "Sqlite run store to read from")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "Directory to write the bundle into (default: <run-id>)")
	cmd.Flags().BoolVar(&exportArchive, "archive", false, "Also pack the bundle into a .tar.zst archive")

	return cmd
}

func exportCommandE(cmd *cobra.Command, args []string) error {
	store, err := artifact.OpenStore(exportDB)
	if err != nil {
		return err
	}
	defer store.Close()

	out, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	dir := exportOut
	if dir == "" {
		dir = out.RunID
	}
	if _, err := artifact.WriteBundle(dir, out); err != nil {
		return err
	}
	if exportArchive {
		path, err := artifact.Archive(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "archive written to %s\n", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "artifacts written to %s\n", dir)
	return nil
}

var runsScenario string

func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE:  runsCommandE,
	}

	cmd.Flags().StringVar(&exportDB, "db", "veritrail.db", "Sqlite run store to read from")
	cmd.Flags().StringVar(&runsScenario, "scenario", "", "Only list runs of this scenario")

	return cmd
}

func runsCommandE(cmd *cobra.Command, args []string) error {
	store, err := artifact.OpenStore(exportDB)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(cmd.Context(), runsScenario)
	if err != nil {
		return err
	}

	rows := make([][2]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, [2]string{
			s.RunID,
			fmt.Sprintf("%-24s seed=%-8d total=%.4f  %s",
				s.ScenarioID, s.RootSeed, s.Total, s.CreatedAt.Format("2006-01-02 15:04")),
		})
	}
	printTable(cmd.OutOrStdout(), rows)
	return nil
}
