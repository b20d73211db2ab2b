package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/config"
	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/serial"
)

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baud != 0 {
		cfg.Baud = baud
	}
	if rootCmd.PersistentFlags().Changed("write-delay") {
		d := writeDelay
		cfg.WriteDelay = &d
	}
	return cfg, nil
}

// serialConfigs returns one serial configuration per --port, or the
// configured port when none was given.
func serialConfigs(cfg *config.Config) []serial.Config {
	names := ports
	if len(names) == 0 {
		names = []string{cfg.Port}
	}
	out := make([]serial.Config, 0, len(names))
	for _, name := range names {
		sc := serial.DefaultConfig(name)
		sc.Baud = cfg.Baud
		sc.WriteDelay = cfg.SettleDelay()
		out = append(out, sc)
	}
	return out
}

// portNames lists the ports a command writes to, for display.
func portNames(cfg *config.Config) string {
	var names []string
	for _, sc := range serialConfigs(cfg) {
		names = append(names, sc.Name)
	}
	return strings.Join(names, ", ")
}

// openSender returns a sender for every selected port. Ports open lazily.
func openSender(cfg *config.Config) serial.Sender {
	cfgs := serialConfigs(cfg)
	if len(cfgs) == 1 {
		return serial.NewDriver(cfgs[0])
	}
	return serial.OpenAll(cfgs)
}

// sendWithRetry sends once more when the first attempt failed in a way a
// fresh port handle may fix (e.g. the USB adapter was re-plugged).
func sendWithRetry(ctx context.Context, s serial.Sender, f protocol.Frame) error {
	err := s.Send(ctx, f)
	if err != nil && serial.IsRetryable(err) && ctx.Err() == nil {
		logging.Warn("Retrying send after port reset", zap.Error(err))
		err = s.Send(ctx, f)
	}
	return err
}

// commandFromArgs builds a command from "<mode> [values...]" or
// "preset <name>".
func commandFromArgs(cfg *config.Config, args []string) (protocol.Command, string, error) {
	if len(args) == 0 {
		return protocol.Command{}, "", fmt.Errorf("a mode is required (%s)", strings.Join(modeNames(), ", "))
	}

	if strings.EqualFold(args[0], "preset") {
		if len(args) != 2 {
			return protocol.Command{}, "", fmt.Errorf("preset takes exactly one name (have: %s)", strings.Join(cfg.PresetNames(), ", "))
		}
		cmd, err := cfg.Preset(args[1])
		return cmd, "preset " + args[1], err
	}

	mode, ok := protocol.LookupMode(args[0])
	if !ok {
		return protocol.Command{}, "", fmt.Errorf("unknown mode %q (modes: %s, preset)", args[0], strings.Join(modeNames(), ", "))
	}
	cmd, err := mode.Command(args[1:])
	return cmd, mode.Name, err
}

// applyAudible overrides the buzzer when --audible was given.
func applyAudible(cmd protocol.Command, name string) (protocol.Command, error) {
	if name == "" {
		return cmd, nil
	}
	a, err := protocol.ParseAudible(name)
	if err != nil {
		return protocol.Command{}, err
	}
	return cmd.WithAudible(a), nil
}

func modeNames() []string {
	var names []string
	for _, m := range protocol.Modes() {
		names = append(names, m.Name)
	}
	return names
}

// modeHelp renders the argument synopsis of every mode for command help.
func modeHelp() string {
	var b strings.Builder
	for _, m := range protocol.Modes() {
		fmt.Fprintf(&b, "  %-17s %s\n", m.Name, m.Usage())
	}
	fmt.Fprintf(&b, "  %-17s %s\n", "preset", "<name>")
	return b.String()
}

// valueHelp lists the names each field accepts.
func valueHelp() string {
	var b strings.Builder
	for _, k := range []protocol.FieldKind{
		protocol.FieldColor1, protocol.FieldIntensity1, protocol.FieldSpeed,
		protocol.FieldPattern, protocol.FieldRotation, protocol.FieldAudible,
	} {
		name := strings.TrimSuffix(k.String(), "1")
		fmt.Fprintf(&b, "  %-10s %s\n", name+":", strings.Join(k.Names(), ", "))
	}
	return b.String()
}
