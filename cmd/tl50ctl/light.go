package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/config"
	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/ui"
)

// Light command flags
var (
	audibleFlag string
	explain     bool
	sendTimeout time.Duration
)

func init() {
	for _, c := range []*cobra.Command{encodeCmd, sendCmd} {
		c.Flags().StringVar(&audibleFlag, "audible", "", "Buzzer override (off, steady, pulsed, sos)")
	}
	encodeCmd.Flags().BoolVar(&explain, "explain", false, "Show an annotated byte table")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 5*time.Second, "Give up if the port does not accept the frame in time")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(sendCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <mode> [values...]",
	Short: "Print the frame for a light state",
	Long: `Encode a light state into the 38-byte TL50 command frame and print it as
hex. No light needs to be attached.

Modes and their arguments:
` + modeHelp() + `
Accepted values:
` + valueHelp(),
	Example: `  # Steady blue at full brightness
  tl50ctl encode steady blue high

  # Red strobe with the buzzer pulsing, explained byte by byte
  tl50ctl encode flash red high fast strobe --audible pulsed --explain

  # A preset from the config file
  tl50ctl encode preset alarm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Check and explain a captured frame",
	Long: `Decode a 38-byte frame given as hex. Spaces, colons and a leading 0x are
ignored, so dumps from a serial sniffer can be pasted as they are.

The header, reserved bytes and checksum are verified before the fields are
shown.`,
	Example: `  tl50ctl decode f441c11f00090100000000000000000000000000000000000000000000000000000000e0fd
  tl50ctl decode "F4 41 C1 1F 00 09 01 00 ..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

var sendCmd = &cobra.Command{
	Use:   "send <mode> [values...]",
	Short: "Set the light to a state",
	Long: `Encode a light state and write it to the light. The light keeps showing
the state until it receives another frame.

Use --port more than once to set several lights to the same state.`,
	Example: `  tl50ctl send steady green high
  tl50ctl send chase red high blue high fast clockwise
  tl50ctl send preset off -p /dev/ttyUSB0 -p /dev/ttyUSB1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

// resolveFrame turns arguments into a command and its frame.
func resolveFrame(cfg *config.Config, args []string) (protocol.Command, protocol.Frame, string, error) {
	cmd, label, err := commandFromArgs(cfg, args)
	if err != nil {
		return protocol.Command{}, protocol.Frame{}, "", err
	}
	cmd, err = applyAudible(cmd, audibleFlag)
	if err != nil {
		return protocol.Command{}, protocol.Frame{}, "", err
	}
	f, err := cmd.Frame()
	if err != nil {
		return protocol.Command{}, protocol.Frame{}, "", err
	}
	return cmd, f, label, nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, f, _, err := resolveFrame(cfg, args)
	if err != nil {
		return err
	}

	if !explain {
		fmt.Fprintln(cmd.OutOrStdout(), f.Hex())
		return nil
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintFrame(f)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	f, err := protocol.ParseHex(strings.Join(args, " "))
	if err != nil {
		return err
	}
	c, err := protocol.DecodeFrame(f.Bytes())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, line := range describeCommand(c) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// describeCommand lists the fields the command's animation uses.
func describeCommand(c protocol.Command) []string {
	lines := []string{fmt.Sprintf("%-11s %s", "animation:", c.Animation)}
	if c.Animation != protocol.AnimationOff {
		lines = append(lines,
			fmt.Sprintf("%-11s %s", "color1:", ui.ColorSwatch(c.Color1)),
			fmt.Sprintf("%-11s %s", "intensity1:", c.Intensity1),
		)
	}
	switch c.Animation {
	case protocol.AnimationTwoColorFlash, protocol.AnimationHalfHalf,
		protocol.AnimationHalfHalfRotate, protocol.AnimationChase:
		lines = append(lines,
			fmt.Sprintf("%-11s %s", "color2:", ui.ColorSwatch(c.Color2)),
			fmt.Sprintf("%-11s %s", "intensity2:", c.Intensity2),
		)
	}
	switch c.Animation {
	case protocol.AnimationFlash, protocol.AnimationTwoColorFlash:
		lines = append(lines,
			fmt.Sprintf("%-11s %s", "speed:", c.Speed),
			fmt.Sprintf("%-11s %s", "pattern:", c.Pattern),
		)
	case protocol.AnimationHalfHalfRotate, protocol.AnimationChase:
		lines = append(lines,
			fmt.Sprintf("%-11s %s", "speed:", c.Speed),
			fmt.Sprintf("%-11s %s", "rotation:", c.Rotation),
		)
	case protocol.AnimationIntensitySweep:
		lines = append(lines, fmt.Sprintf("%-11s %s", "speed:", c.Speed))
	}
	return append(lines, fmt.Sprintf("%-11s %s", "audible:", c.Audible))
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, f, label, err := resolveFrame(cfg, args)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Send", "tl50ctl send "+strings.Join(args, " "), map[string]string{
		"Port": portNames(cfg),
		"Baud": fmt.Sprint(cfg.Baud),
	})
	p.Newline()

	sender := openSender(cfg)
	defer func() { _ = sender.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	if err := sendWithRetry(ctx, sender, f); err != nil {
		p.PrintError("Send failed", err, ui.SerialTroubleshooting)
		return fmt.Errorf("send failed: %w", err)
	}

	p.PrintSuccess("Light updated", map[string]string{
		"State": label,
		"Frame": f.Hex(),
	})
	return nil
}
