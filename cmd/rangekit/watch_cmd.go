package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/config"
	"github.com/chrisedwards/rangekit/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Realign saved ranges whenever the configured timezone changes",
	Long: `Watch the config file and, each time its timezone setting changes, realign
every saved range to the new zone. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, current, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, a *app, w io.Writer) error {
	path := a.cfg.ConfigFile()
	if path == "" {
		return errors.New("no config file to watch (create one with: rangekit config init)")
	}

	watcher, err := watch.New(path, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s %s\n", labelColor.Sprint("watching"), path, dimColor.Sprintf("(timezone %s)", a.engine.ResolveZone(a.cfg.Timezone)))

	return watcher.Run(ctx, a.cfg.Timezone, func(ctx context.Context, _, newZone string, cfg *config.Config) {
		next := newApp(cfg, a.logger)
		zone := next.engine.ResolveZone(newZone)

		s, err := next.openStore()
		if err != nil {
			a.logger.Error("opening range store", "error", err)
			return
		}
		defer s.Close()

		n, err := next.realignAll(ctx, s, zone)
		if err != nil {
			a.logger.Error("realigning saved ranges", "timezone", zone, "error", err)
			return
		}
		fmt.Fprintf(w, "%s %d saved ranges to %s\n", labelColor.Sprint("realigned"), n, keyColor.Sprint(zone))
	})
}
