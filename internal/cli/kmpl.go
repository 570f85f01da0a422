package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ukydev/motomaint/internal/fuel"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/numfmt"
)

// NewKMPLCommand creates the kmpl command.
func NewKMPLCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kmpl <first-odometer> <second-odometer> <liters>",
		Short: "Calculate fuel efficiency between two fill-ups",
		Long: `Calculate kilometers per liter between two odometer readings.

Readings may contain thousands separators, e.g. "12,345".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := fuel.Compute(args[0], args[1], args[2])
			if err != nil {
				if fuel.IsWarning(err) {
					return fmt.Errorf("warning: %w", err)
				}
				return err
			}
			out := struct {
				fuel.Result
				Display string `json:"display"`
			}{res, res.Display()}
			return newPrinter(cmd, rootOpts).print(out, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Distance:   %s km\nFuel:       %s L\nEfficiency: %s (%s)\n",
					strconv.FormatFloat(res.Distance, 'f', -1, 64),
					strconv.FormatFloat(res.Fuel, 'f', -1, 64),
					res.Display(), res.Rating)
				return err
			})
		},
	}
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List maintenance interval presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := maintenance.Presets()
			return newPrinter(cmd, rootOpts).print(presets, func(w io.Writer) error {
				for i, p := range presets {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "%s (%s)\n", p.Name, p.Key)
					rows := [][]string{}
					for _, typ := range maintenance.Types(p.Key) {
						rows = append(rows, []string{"  " + typ, numfmt.FormatInt(p.Intervals[typ]) + " km"})
					}
					if err := table(w, rows); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
