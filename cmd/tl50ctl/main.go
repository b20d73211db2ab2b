// Tl50ctl drives Banner TL50 tower lights over a serial link.
//
// It encodes light states (color, intensity, animation, speed, pattern,
// rotation and buzzer) into the light's 38-byte command frame, writes them
// to one or more serial ports, plays scripted sequences, and can expose a
// light to other machines through a WebSocket bridge.
//
// Usage:
//
//	tl50ctl [command] [flags]
//
// See 'tl50ctl --help' for available commands.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	ports      []string
	baud       int
	writeDelay time.Duration
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tl50ctl",
	Short: "Banner TL50 tower light controller",
	Long: `Control Banner TL50 Pro tower lights over a serial (USB) connection.

Light states are given by name (colors such as sky_blue, animations such as
two-color-flash) or taken from presets in the configuration file. Frames can
be printed without a light attached using 'encode', checked with 'decode',
written with 'send', and scripted with 'run'.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel != "" {
			return logging.Initialize(logLevel)
		}
		return logging.InitializeFromEnv()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (default: OS config dir)")
	flags.StringArrayVarP(&ports, "port", "p", nil, "Serial port (repeat to drive several lights)")
	flags.IntVar(&baud, "baud", 0, "Serial line speed (default from config, 19200)")
	flags.DurationVar(&writeDelay, "write-delay", 0, "Settle time after each frame, 0 disables (default from config, 90ms)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "tl50ctl "+version.Full())
	},
}
