package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/sequence"
)

func init() {
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(sequencesCmd)
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets available to send and sequences",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "List the sequences available to run",
	Args:  cobra.NoArgs,
	RunE:  runSequences,
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tANIMATION\tCOLOR\tAUDIBLE")
	for _, name := range cfg.PresetNames() {
		p := cfg.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Animation, p.Color1, p.Audible)
	}
	return w.Flush()
}

func runSequences(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tDURATION\tLOOP")
	for _, name := range cfg.SequenceNames() {
		seq, err := sequence.FromConfig(cfg, name)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\tinvalid: %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%t\n", name, len(seq.Steps), seq.Duration(), seq.Loop)
	}
	return w.Flush()
}
