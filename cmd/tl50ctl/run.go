package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/sequence"
	"github.com/muurk/tl50ctl/internal/ui"
)

// Run command flags
var (
	loopFlag   bool
	passesFlag int
)

func init() {
	runCmd.Flags().BoolVar(&loopFlag, "loop", false, "Repeat the sequence until interrupted")
	runCmd.Flags().IntVar(&passesFlag, "passes", 0, "Stop after this many passes of a looping sequence (0 = no limit)")

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <sequence>",
	Short: "Play a sequence from the config file",
	Long: `Play a named sequence of light states, holding each for its configured
time. Looping sequences repeat until Ctrl+C.

When interrupted the light is switched off before exiting, so it is never
left showing a half-finished sequence.`,
	Example: `  # Play the built-in demo
  tl50ctl run demo

  # Loop a sequence three times on two lights
  tl50ctl run blink --loop --passes 3 -p /dev/ttyUSB0 -p /dev/ttyUSB1`,
	Args: cobra.ExactArgs(1),
	RunE: runSequence,
}

func runSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if passesFlag < 0 {
		return fmt.Errorf("--passes must not be negative")
	}
	if src, ok := cfg.Sequences[args[0]]; ok && src != nil && loopFlag {
		src.Loop = true
	}

	seq, err := sequence.FromConfig(cfg, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := openSender(cfg)
	defer func() { _ = sender.Close() }()

	params := map[string]string{"Port": portNames(cfg)}
	if passesFlag > 0 && seq.Loop {
		params["Passes"] = fmt.Sprint(passesFlag)
	}

	display := ui.NewSequenceRunner(ui.SequenceRunnerConfig{
		Title:   "Run Sequence",
		Command: "tl50ctl run " + seq.Name,
		Params:  params,
		Output:  cmd.OutOrStdout(),
	}, seq)

	runner := sequence.NewRunner(sender,
		sequence.WithObserver(display),
		sequence.WithMaxPasses(passesFlag),
	)

	err = display.Run(ctx, runner)
	if errors.Is(err, context.Canceled) {
		logging.Info("Sequence interrupted", zap.String("sequence", seq.Name))
		return nil
	}
	return err
}
