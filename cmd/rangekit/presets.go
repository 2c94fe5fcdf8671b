package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/rangekit/internal/daterange"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available range presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPresets(cmd.OutOrStdout(), presetsJSON)
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(presetsCmd)
}

type presetOutput struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

func runPresets(w io.Writer, asJSON bool) error {
	presets := daterange.Presets()
	if asJSON {
		out := make([]presetOutput, len(presets))
		for i, p := range presets {
			out[i] = presetOutput{Tag: p.String(), Label: p.Label()}
		}
		return writeJSON(w, out)
	}
	for _, p := range presets {
		fmt.Fprintf(w, "%s %s\n", keyColor.Sprintf("%-7s", p.String()), p.Label())
	}
	return nil
}
