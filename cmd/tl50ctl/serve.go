package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/bridge"
	"github.com/muurk/tl50ctl/internal/ui"
)

// Serve command flags
var (
	listenAddr string
	advertise  bool
	noAdvert   bool
	bridgeName string
)

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (default from config, :8750)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the bridge over mDNS")
	serveCmd.Flags().BoolVar(&noAdvert, "no-advertise", false, "Do not announce the bridge, even if the config says so")
	serveCmd.Flags().StringVar(&bridgeName, "name", "", "mDNS instance name (default from config)")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the light through a WebSocket bridge",
	Long: `Run a WebSocket bridge so other programs (dashboards, CI jobs, browsers)
can set the light. Each text message is a JSON request:

  {"id": 1, "preset": "alarm"}
  {"id": 2, "mode": "steady", "color1": "blue", "intensity1": "high"}
  {"id": 3, "command": {"animation": "flash", "color1": "red", "intensity1": "high"}}

and gets a reply such as {"id": 1, "ok": true, "frame": "f441..."}.

GET /healthz reports the bridge status and GET /presets lists preset names.
With --advertise the bridge is announced as _tl50._tcp over mDNS so
'tl50ctl discover' can find it.`,
	Example: `  tl50ctl serve
  tl50ctl serve --listen 127.0.0.1:9000 --advertise --name lab-light`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	bc := bridge.Config{
		Listen:    cfg.Bridge.Listen,
		Origins:   cfg.Bridge.Origins,
		Advertise: cfg.Bridge.Advertise,
		Name:      cfg.Bridge.Name,
		Port:      portNames(cfg),
	}
	if listenAddr != "" {
		bc.Listen = listenAddr
	}
	if advertise {
		bc.Advertise = true
	}
	if noAdvert {
		bc.Advertise = false
	}
	if bridgeName != "" {
		bc.Name = bridgeName
	}

	sender := openSender(cfg)
	defer func() { _ = sender.Close() }()

	srv, err := bridge.New(bc, sender, cfg)
	if err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	params := map[string]string{
		"Listen":    srv.Addr().String(),
		"Port":      bc.Port,
		"Advertise": fmt.Sprint(bc.Advertise),
	}
	if bc.Advertise {
		params["Name"] = bc.Name
	}
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("WebSocket Bridge", "tl50ctl serve", params)
	p.Newline()
	p.Println(ui.StepNoteStyle.Render("Press Ctrl+C to stop"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
