package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/config"
	"github.com/chrisedwards/rangekit/internal/daterange"
	"github.com/chrisedwards/rangekit/internal/store"
	"github.com/chrisedwards/rangekit/internal/zones"
)

// app is the state shared by every command after config is loaded.
type app struct {
	cfg    *config.Config
	engine *daterange.Engine
	logger *slog.Logger
}

var current *app

var (
	labelColor = color.New(color.FgCyan)
	keyColor   = color.New(color.FgYellow)
	dimColor   = color.New(color.FgHiBlack)
)

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if _, err := config.ParseLevel(level); err != nil {
		return err
	}
	logger := config.SetupLogger(cmd.ErrOrStderr(), level)
	current = newApp(cfg, logger)
	return nil
}

func newApp(cfg *config.Config, logger *slog.Logger, opts ...daterange.Option) *app {
	filter := zones.NewFilter(cfg.Zones.Allow, cfg.Zones.Deny)
	base := []daterange.Option{
		daterange.WithResolver(zones.NewResolver(cfg.FallbackTimezone)),
		daterange.WithLoader(zones.NewLoader(filter)),
		daterange.WithLogger(logger),
	}
	return &app{
		cfg:    cfg,
		engine: daterange.New(append(base, opts...)...),
		logger: logger,
	}
}

// zone picks the --tz flag, then the configured timezone. An empty result is
// resolved by the engine.
func (a *app) zone(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return a.cfg.Timezone
}

func (a *app) openStore() (store.Store, error) {
	return store.Open(a.cfg.Store.Driver, a.cfg.StorePath(), a.logger)
}

// rangeOutput is the --json form of a resolved range.
type rangeOutput struct {
	Key         string                    `json:"key,omitempty"`
	Preset      string                    `json:"preset"`
	Label       string                    `json:"label"`
	Timezone    string                    `json:"timezone"`
	Start       string                    `json:"start"`
	End         string                    `json:"end"`
	Days        int                       `json:"days"`
	Granularity daterange.Granularity     `json:"granularity"`
	Record      daterange.TransportRecord `json:"record"`
	Query       string                    `json:"query"`
}

func newRangeOutput(key string, r daterange.DateRange) rangeOutput {
	rec := daterange.Serialize(r)
	return rangeOutput{
		Key:         key,
		Preset:      r.Preset.String(),
		Label:       r.Preset.Label(),
		Timezone:    r.Zone,
		Start:       r.Start.Format(timeLayout),
		End:         r.End.Format(timeLayout),
		Days:        r.Days(),
		Granularity: r.Granularity(),
		Record:      rec,
		Query:       rec.Values().Encode(),
	}
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func printRange(w io.Writer, key string, r daterange.DateRange) {
	o := newRangeOutput(key, r)
	if key != "" {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("key:      "), keyColor.Sprint(key))
	}
	fmt.Fprintf(w, "%s %s %s\n", labelColor.Sprint("preset:   "), o.Preset, dimColor.Sprintf("(%s)", o.Label))
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("timezone: "), o.Timezone)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("start:    "), o.Start)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("end:      "), o.End)
	fmt.Fprintf(w, "%s %d %s\n", labelColor.Sprint("days:     "), o.Days, dimColor.Sprintf("(%s buckets)", o.Granularity))
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("query:    "), o.Query)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
