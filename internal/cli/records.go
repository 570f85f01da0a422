package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/motomaint/internal/garage"
	"github.com/ukydev/motomaint/internal/maintenance"
	"github.com/ukydev/motomaint/internal/numfmt"
	"github.com/ukydev/motomaint/internal/server"
)

const dateLayout = "2006-01-02"

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		draft       maintenance.Draft
		lastMileage string
	)
	cmd := &cobra.Command{
		Use:   "record <motorcycle-id>",
		Short: "Record a completed maintenance item",
		Long: `Record a completed maintenance item. The next service mileage is derived
from the default interval for the type, 3,000 km for unknown types.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := numfmt.ParseMileage(lastMileage)
			if err != nil {
				km = -1
			}
			draft.LastMileage = km
			if draft.LastDate == "" {
				draft.LastDate = time.Now().Format(dateLayout)
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				rec, err := app.Garage.AddRecord(ctx, rootOpts.Owner, args[0], draft)
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(rec, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Recorded %s at %s km, next at %s km\n",
						rec.Type, numfmt.FormatInt(rec.LastMileage), numfmt.FormatInt(rec.NextMileage))
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&draft.Type, "type", "", `maintenance type, or "Custom" with --custom-type`)
	cmd.Flags().StringVar(&draft.CustomType, "custom-type", "", "label for a custom maintenance type")
	cmd.Flags().StringVar(&lastMileage, "mileage", "", "odometer reading when the service was done")
	cmd.Flags().StringVar(&draft.LastDate, "date", "", "service date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&draft.PartNumber, "part", "", "part number")
	cmd.Flags().StringVar(&draft.Notes, "notes", "", "notes")
	return cmd
}

// NewDueCommand creates the due command.
func NewDueCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "due <motorcycle-id>",
		Short: "Show a motorcycle's maintenance schedule, due items first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				report, err := app.Garage.DueReport(ctx, rootOpts.Owner, args[0])
				if err != nil {
					return err
				}
				m, err := app.Garage.GetMotorcycle(ctx, rootOpts.Owner, args[0])
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(report, func(w io.Writer) error {
					return writeDueReport(w, bikeLabel(*m), report)
				})
			})
		},
	}
}

func writeDueReport(w io.Writer, bike string, report garage.DueReport) error {
	fmt.Fprintf(w, "%s (%s)\n", report.Name, bike)
	fmt.Fprintf(w, "Current mileage: %s km\n", numfmt.FormatInt(report.CurrentMileage))
	if report.NextDueDistance != nil {
		fmt.Fprintf(w, "Due: %d, next in %s km\n", report.DueCount, numfmt.FormatInt(*report.NextDueDistance))
	} else {
		fmt.Fprintf(w, "Due: %d\n", report.DueCount)
	}
	if len(report.Items) == 0 {
		_, err := fmt.Fprintln(w, "\nNo maintenance recorded.")
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-24s  %9s  %-10s  %s\n", "TYPE", "NEXT (KM)", "LAST DONE", "STATUS")
	for _, item := range report.Items {
		if _, err := fmt.Fprintf(w, "%-24s  %9s  %-10s  %s\n",
			item.Record.Type, numfmt.FormatInt(item.Record.NextMileage), item.Record.LastDate, item.StatusText); err != nil {
			return err
		}
	}
	return nil
}

// NewServiceLogCommand creates the service-log command.
func NewServiceLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service-log <motorcycle-id>",
		Short: "Show a motorcycle's service history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				entries, err := app.Garage.ServiceLog(ctx, rootOpts.Owner, args[0])
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(entries, func(w io.Writer) error {
					rows := [][]string{{"DATE", "PROCEDURE", "ODOMETER", "AMOUNT"}}
					for _, e := range entries {
						amount := "-"
						if e.Amount != nil {
							amount = strconv.FormatFloat(*e.Amount, 'f', 2, 64)
						}
						rows = append(rows, []string{e.Date, e.Procedure, numfmt.FormatInt(e.Odometer) + " km", amount})
					}
					return table(w, rows)
				})
			})
		},
	}
	cmd.AddCommand(newServiceLogAddCommand(rootOpts))
	return cmd
}

func newServiceLogAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		draft    garage.ServiceLogDraft
		odometer string
		amount   float64
	)
	cmd := &cobra.Command{
		Use:   "add <motorcycle-id>",
		Short: "Add a service log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := numfmt.ParseMileage(odometer)
			if err != nil {
				return garage.ErrInvalidOdometer
			}
			draft.Odometer = km
			if cmd.Flags().Changed("amount") {
				draft.Amount = &amount
			}
			if draft.Date == "" {
				draft.Date = time.Now().Format(dateLayout)
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				entry, err := app.Garage.AddServiceLogEntry(ctx, rootOpts.Owner, args[0], draft)
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(entry, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Logged %s on %s\n", entry.Procedure, entry.Date)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&draft.Date, "date", "", "service date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&draft.Procedure, "procedure", "", "work performed")
	cmd.Flags().StringVar(&draft.Notes, "notes", "", "notes")
	cmd.Flags().StringVar(&odometer, "odometer", "", "odometer reading in km")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount paid")
	return cmd
}
