package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/tuboc/chip8/debugger"
)

var debugCmd = &cobra.Command{
	Use:   "debug [rom]",
	Short: "inspect and step a ROM in an interactive debugger",
	Args:  cobra.MaximumNArgs(1),
	RunE:  debugROM,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

func debugROM(cmd *cobra.Command, args []string) error {
	_, logger, err := settings()
	if err != nil {
		return err
	}

	repl := debugger.New(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if len(args) == 1 {
		if err := repl.Open(args[0]); err != nil {
			return err
		}
	}

	err = repl.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
