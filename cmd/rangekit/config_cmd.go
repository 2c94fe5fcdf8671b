package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/config"
)

var initForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfig(current, cmd.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with default values to --config, or to
` + config.DefaultConfigPath() + `. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	// The file may not exist yet, so skip the root's config loading.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultConfigPath()
		}
		return runConfigInit(cmd.OutOrStdout(), path, initForce)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(a *app, w io.Writer) error {
	cfg := a.cfg
	file := cfg.ConfigFile()
	if file == "" {
		file = "(none, using defaults)"
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "(system)"
	}
	source := cfg.Source.URL
	if source == "" {
		source = "(none)"
	}

	rows := [][2]string{
		{"Config file", file},
		{"Timezone", fmt.Sprintf("%s -> %s", tz, a.engine.ResolveZone(cfg.Timezone))},
		{"Fallback timezone", cfg.FallbackTimezone},
		{"Default preset", cfg.Preset().String()},
		{"Log level", cfg.LogLevel},
		{"Store", fmt.Sprintf("%s at %s", cfg.Store.Driver, cfg.StorePath())},
		{"Allowed zones", formatPatterns(cfg.Zones.Allow)},
		{"Denied zones", formatPatterns(cfg.Zones.Deny)},
		{"Source", source},
		{"Source timeout", cfg.Source.Timeout.String()},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprintf("%-18s", row[0]+":"), row[1])
	}
	return cfg.Validate()
}

func runConfigInit(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}

// formatPatterns renders a pattern list for display.
func formatPatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "(none)"
	}
	return "[" + strings.Join(patterns, ", ") + "]"
}
