package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/daterange"
)

// rangeFlags are shared by resolve and buckets.
type rangeFlags struct {
	tz   string
	from string
	to   string
	save string
	json bool
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tz, "tz", "", "IANA timezone (default from config, then system)")
	cmd.Flags().StringVar(&f.from, "from", "", "custom range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "custom range end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.save, "save", "", "save the resolved range under this key")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON")
}

var (
	resolveFlags rangeFlags
	bucketsFlags rangeFlags
	granularity  string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [preset]",
	Short: "Resolve a preset or custom range to start and end instants",
	Long: `Resolve a preset (7d, 30d, 90d, 12m, ytd) or a custom range to zone-correct
start and end instants.

With no preset the configured default_preset is used. --from and --to select a
custom range and must be given together; an end before the start is swapped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), current, cmd.OutOrStdout(), args, resolveFlags)
	},
}

var bucketsCmd = &cobra.Command{
	Use:   "buckets [preset]",
	Short: "Split a range into day or month buckets",
	Long: `Split a preset or custom range into contiguous, keyed buckets.

Ranges of up to 45 days are bucketed by day, longer ones by month, unless
--granularity is given. Month buckets cover whole calendar months.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuckets(cmd.Context(), current, cmd.OutOrStdout(), args, bucketsFlags, granularity)
	},
}

func init() {
	resolveFlags.register(resolveCmd)
	bucketsFlags.register(bucketsCmd)
	bucketsCmd.Flags().StringVar(&granularity, "granularity", "", "day or month (default by range length)")
	rootCmd.AddCommand(resolveCmd, bucketsCmd)
}

// rangeFromArgs resolves the optional preset argument and range flags.
func (a *app) rangeFromArgs(args []string, f rangeFlags) (daterange.DateRange, error) {
	zone := a.zone(f.tz)

	if f.from != "" || f.to != "" {
		var start, end daterange.Date
		var err error
		if f.from != "" {
			if start, err = daterange.ParseDate(f.from); err != nil {
				return daterange.DateRange{}, fmt.Errorf("--from: %w", err)
			}
		}
		if f.to != "" {
			if end, err = daterange.ParseDate(f.to); err != nil {
				return daterange.DateRange{}, fmt.Errorf("--to: %w", err)
			}
		}
		return a.engine.CustomDates(start, end, zone)
	}

	p := a.cfg.Preset()
	if len(args) == 1 {
		var ok bool
		if p, ok = daterange.ParsePreset(args[0]); !ok {
			return daterange.DateRange{}, fmt.Errorf("unknown preset %q", args[0])
		}
	}
	if p == daterange.Custom {
		return daterange.DateRange{}, daterange.ErrIncompleteRange
	}
	return a.engine.Preset(p, zone)
}

func (a *app) saveRange(ctx context.Context, key string, r daterange.DateRange) error {
	if key == "" {
		return nil
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Put(ctx, key, daterange.Serialize(r)); err != nil {
		return err
	}
	a.logger.Info("saved range", "key", key, "range", r.String())
	return nil
}

func runResolve(ctx context.Context, a *app, w io.Writer, args []string, f rangeFlags) error {
	r, err := a.rangeFromArgs(args, f)
	if err != nil {
		return err
	}
	if err := a.saveRange(ctx, f.save, r); err != nil {
		return err
	}
	if f.json {
		return writeJSON(w, newRangeOutput(f.save, r))
	}
	printRange(w, f.save, r)
	return nil
}

// bucketsOutput is the --json form of a bucket plan.
type bucketsOutput struct {
	Range       rangeOutput           `json:"range"`
	Granularity daterange.Granularity `json:"granularity"`
	Buckets     []daterange.Bucket    `json:"buckets"`
}

func runBuckets(ctx context.Context, a *app, w io.Writer, args []string, f rangeFlags, gran string) error {
	r, err := a.rangeFromArgs(args, f)
	if err != nil {
		return err
	}

	var g daterange.Granularity
	var buckets []daterange.Bucket
	if gran == "" {
		g, buckets, err = a.engine.Plan(r)
	} else {
		if g, err = daterange.ParseGranularity(gran); err != nil {
			return err
		}
		buckets, err = a.engine.Buckets(r, g)
	}
	if err != nil {
		return err
	}

	if err := a.saveRange(ctx, f.save, r); err != nil {
		return err
	}

	if f.json {
		return writeJSON(w, bucketsOutput{Range: newRangeOutput(f.save, r), Granularity: g, Buckets: buckets})
	}

	fmt.Fprintf(w, "%s %s %s\n", labelColor.Sprint("range:"), r.String(), dimColor.Sprintf("(%d %s buckets)", len(buckets), g))
	for _, b := range buckets {
		fmt.Fprintf(w, "  %s  %s  %s\n", keyColor.Sprintf("%-10s", b.Key), b.Start.Format(timeLayout), b.End.Format(timeLayout))
	}
	return nil
}
