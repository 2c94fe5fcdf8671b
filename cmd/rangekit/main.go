package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/config"
)

// Version information, injected at build time via ldflags.
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = "unknown"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "rangekit",
	Short: "Resolve timezone-correct date ranges and reporting buckets",
	Long: `rangekit resolves preset and custom date ranges into zone-correct instants.

Ranges are computed in an authoritative IANA timezone, serialized as URL-safe
records, realigned when that timezone changes, and split into day or month
buckets for reporting. Configuration is via YAML file with RANGEKIT_* overrides.`,
	Version:           fmt.Sprintf("%s (build %s, %s)", Version, Build, BuildTime),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
