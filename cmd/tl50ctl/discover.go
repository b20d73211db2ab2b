package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/discovery"
	"github.com/muurk/tl50ctl/internal/ui"
)

// Discover command flags
var (
	discoverTimeout time.Duration
	discoverJSON    bool
)

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for bridges")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Print bridges as JSON")

	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover [instance]",
	Short: "Find WebSocket bridges on the local network",
	Long: `Find tl50ctl bridges announced over mDNS (started with 'tl50ctl serve
--advertise'). With an instance name, wait for that bridge only and print
its WebSocket URL.`,
	Example: `  # List every bridge that answers within 10 seconds
  tl50ctl discover

  # Quick 3-second scan
  tl50ctl discover --timeout 3s

  # Print the URL of one bridge, for scripts
  tl50ctl discover lab-light`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

// bridgeJSON is the --json form of a discovered bridge.
type bridgeJSON struct {
	Instance string            `json:"instance"`
	Hostname string            `json:"hostname"`
	URL      string            `json:"url"`
	Health   string            `json:"health"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoverTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	scanner := discovery.NewScanner()
	scanner.Timeout = discoverTimeout
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		b, err := scanner.WaitForBridge(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, b.URL())
		return nil
	}

	if !discoverJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scanning for bridges (timeout: %s)...\n", discoverTimeout)
	}
	bridges, err := scanner.ScanForBridges(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if discoverJSON {
		list := make([]bridgeJSON, 0, len(bridges))
		for _, b := range bridges {
			list = append(list, bridgeJSON{
				Instance: b.Instance,
				Hostname: b.Hostname,
				URL:      b.URL(),
				Health:   b.HealthURL(),
				Metadata: b.Metadata,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(bridges) == 0 {
		ui.NewPrinter(out).PrintLines(
			"No bridges found.",
			"",
			"Troubleshooting:",
			"  - Ensure the bridge was started with --advertise",
			"  - Check both machines are on the same network segment",
			"  - Some networks block multicast; connect by address instead",
			"  - Try increasing --timeout",
		)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTANCE\tURL\tSERIAL\tVERSION")
	for _, b := range bridges {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Instance, b.URL(), b.GetMetadata("serial"), b.GetMetadata("version"))
	}
	return w.Flush()
}
