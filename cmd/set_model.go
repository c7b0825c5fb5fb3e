package cmd

import (
	"fmt"

	"jose/internal/config"

	"github.com/spf13/cobra"
)

// newSetModelCmd creates the set-model command.
func newSetModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-model <model>",
		Short: "Set the default model",
		Long: `Set the model used when --model is not given.

Examples:
  jose set-model gpt-5-codex
  jose set-model gpt-5`,
		Args: cobra.ExactArgs(1),
		RunE: runSetModel,
	}
}

func runSetModel(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cfg.DefaultModel = args[0]
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Default model set to: %s\n", args[0])
	return nil
}
