package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentbeats/veritrail/internal/wizard"
)

var initOutput string

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [scenario-id]",
		Short: "Create a new scenario file interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initCommandE,
	}

	cmd.Flags().StringVarP(&initOutput, "output", "o", "", "Output file (default: <scenario-id>.yaml)")
	return cmd
}

func initCommandE(cmd *cobra.Command, args []string) error {
	initialID := ""
	if len(args) == 1 {
		initialID = args[0]
	}

	spec, err := wizard.RunScenarioWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialID)
	if err != nil {
		return err
	}

	content, err := wizard.GenerateScenarioYAML(spec)
	if err != nil {
		return err
	}

	path := initOutput
	if path == "" {
		path = spec.ID + ".yaml"
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scenario written to %s\n", path)
	return nil
}
