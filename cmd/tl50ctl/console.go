package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/tui"
)

func init() {
	rootCmd.AddCommand(consoleCmd)
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive preset picker",
	Long: `Open a full-screen console listing the configured presets.

Select a preset and press Enter to send it, 'o' to switch the light off, or
'c' to type any light state the send command accepts. Press '/' to filter
the list and 'q' to quit. The light keeps its last state after exiting.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sender := openSender(cfg)
	defer func() { _ = sender.Close() }()

	final, err := tui.Run(tui.NewConsoleModel(cfg, sender, portNames(cfg)))
	if err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), final.Summary())
	return nil
}
