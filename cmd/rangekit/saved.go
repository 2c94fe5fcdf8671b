package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/daterange"
	"github.com/chrisedwards/rangekit/internal/source"
	"github.com/chrisedwards/rangekit/internal/store"
)

var (
	parseJSON   bool
	showJSON    bool
	realignTZ   string
	realignURL  string
	realignJSON bool
)

var parseCmd = &cobra.Command{
	Use:   "parse QUERY",
	Short: "Decode a URL query string into a range",
	Long: `Decode a URL query string such as "range=30d&tz=UTC" or
"range=custom&from=2024-03-01&to=2024-03-15&tz=Europe/London" into a range.

Relative presets are recomputed for today. Custom ranges need from, to and tz.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(current, cmd.OutOrStdout(), args[0], parseJSON)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Show saved ranges",
	Long: `Show the saved range stored under key, re-resolved for today.
With no key, every saved range is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return runShow(cmd.Context(), current, cmd.OutOrStdout(), key, showJSON)
	},
}

var realignCmd = &cobra.Command{
	Use:   "realign KEY",
	Short: "Move a saved range to a new authoritative timezone",
	Long: `Realign the saved range under KEY to a new timezone and save it.

The zone comes from --tz, or is fetched from --source (default source.url from
config). Relative presets are recomputed in the new zone; custom ranges keep
their calendar dates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRealign(cmd.Context(), current, cmd.OutOrStdout(), args[0], realignTZ, realignURL, realignJSON)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print JSON")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	realignCmd.Flags().StringVar(&realignTZ, "tz", "", "target IANA timezone")
	realignCmd.Flags().StringVar(&realignURL, "source", "", "URL reporting the target timezone")
	realignCmd.Flags().BoolVar(&realignJSON, "json", false, "print JSON")
	realignCmd.MarkFlagsMutuallyExclusive("tz", "source")
	rootCmd.AddCommand(parseCmd, showCmd, realignCmd)
}

var errUnusableRange = errors.New("record does not describe a usable range")

func runParse(a *app, w io.Writer, query string, asJSON bool) error {
	rec, err := daterange.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}
	r, ok := a.engine.Parse(rec)
	if !ok {
		return errUnusableRange
	}
	if asJSON {
		return writeJSON(w, newRangeOutput("", r))
	}
	printRange(w, "", r)
	return nil
}

func runShow(ctx context.Context, a *app, w io.Writer, key string, asJSON bool) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var entries []store.Entry
	if key != "" {
		rec, ok, err := s.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no saved range %q", key)
		}
		entries = []store.Entry{{Key: key, Record: rec}}
	} else if entries, err = s.List(ctx); err != nil {
		return err
	}

	outputs := make([]rangeOutput, 0, len(entries))
	for i, e := range entries {
		r, ok := a.engine.Parse(e.Record)
		if !ok {
			if key != "" {
				return fmt.Errorf("saved range %q: %w", key, errUnusableRange)
			}
			a.logger.Warn("skipping unusable saved range", "key", e.Key)
			continue
		}
		if asJSON {
			outputs = append(outputs, newRangeOutput(e.Key, r))
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		printRange(w, e.Key, r)
	}
	if asJSON {
		if key != "" && len(outputs) == 1 {
			return writeJSON(w, outputs[0])
		}
		return writeJSON(w, outputs)
	}
	if key == "" && len(entries) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("no saved ranges"))
	}
	return nil
}

// targetZone returns tz if set, else the zone reported by sourceURL or the
// configured source.
func (a *app) targetZone(ctx context.Context, tz, sourceURL string) (string, error) {
	if tz != "" {
		return tz, nil
	}
	if sourceURL == "" {
		sourceURL = a.cfg.Source.URL
	}
	if sourceURL == "" {
		return "", errors.New("no target zone: pass --tz or --source, or set source.url")
	}
	return source.NewClient(sourceURL, a.cfg.Source.Timeout).WithLogger(a.logger).Zone(ctx)
}

func runRealign(ctx context.Context, a *app, w io.Writer, key, tz, sourceURL string, asJSON bool) error {
	zone, err := a.targetZone(ctx, tz, sourceURL)
	if err != nil {
		return err
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rec, ok, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no saved range %q", key)
	}
	r, err := a.realignRecord(ctx, s, key, rec, zone)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, newRangeOutput(key, r))
	}
	printRange(w, key, r)
	return nil
}

// realignRecord parses rec, moves it to zone and stores the result under key.
func (a *app) realignRecord(ctx context.Context, s store.Store, key string, rec daterange.TransportRecord, zone string) (daterange.DateRange, error) {
	r, ok := a.engine.Parse(rec)
	if !ok {
		return daterange.DateRange{}, fmt.Errorf("saved range %q: %w", key, errUnusableRange)
	}
	moved, err := a.engine.Realign(r, zone)
	if err != nil {
		return daterange.DateRange{}, err
	}
	if err := s.Put(ctx, key, daterange.Serialize(moved)); err != nil {
		return daterange.DateRange{}, err
	}
	a.logger.Debug("realigned saved range", "key", key, "from", r.String(), "to", moved.String())
	return moved, nil
}

// realignAll moves every saved range to zone and returns how many were updated.
func (a *app) realignAll(ctx context.Context, s store.Store, zone string) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if _, err := a.realignRecord(ctx, s, e.Key, e.Record, zone); err != nil {
			a.logger.Warn("skipping saved range", "key", e.Key, "error", err)
			continue
		}
		n++
	}
	return n, nil
}
