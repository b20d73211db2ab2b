package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/tl50ctl/internal/config"
	"github.com/muurk/tl50ctl/internal/ui"
)

var forceInit bool

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manage the tl50ctl configuration file.

The file holds the serial port settings, named presets, sequences and bridge
settings. Built-in presets (off, ok, warning, alarm) and sequences (demo,
blink) are always available unless the file redefines them.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(path)
	if statErr == nil && !forceInit {
		if !ui.ConfirmOverwrite(cmd.InOrStdin(), cmd.OutOrStdout(), path) {
			return errors.New("aborted, existing file kept")
		}
	} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", statErr)
	}

	cfg := config.Default()
	if err := cfg.Save(path); err != nil {
		return err
	}

	box := ui.NewSuccessResult("Configuration written", map[string]string{
		"Path":      path,
		"Port":      cfg.Port,
		"Presets":   fmt.Sprint(len(cfg.Presets)),
		"Sequences": fmt.Sprint(len(cfg.Sequences)),
	}).SetWidth(ui.GetTerminalWidth())
	return ui.RenderOnceTo(cmd.OutOrStdout(), box.Render())
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
