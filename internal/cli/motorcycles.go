package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ukydev/motomaint/internal/garage"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/numfmt"
	"github.com/ukydev/motomaint/internal/server"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List motorcycles with their due counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				list, err := app.Garage.ListMotorcycles(ctx, rootOpts.Owner)
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(list, func(w io.Writer) error {
					if len(list) == 0 {
						_, err := fmt.Fprintln(w, "No motorcycles yet. Add one with \"motomaint add\".")
						return err
					}
					rows := [][]string{{"ID", "NAME", "BIKE", "MILEAGE", "DUE", "NEXT DUE"}}
					for _, s := range list {
						next := "-"
						if s.NextDueDistance != nil {
							next = numfmt.FormatInt(*s.NextDueDistance) + " km"
						}
						rows = append(rows, []string{
							s.ID, s.Name, bikeLabel(s.Motorcycle),
							numfmt.FormatInt(s.CurrentMileage) + " km",
							strconv.Itoa(s.DueCount), next,
						})
					}
					return table(w, rows)
				})
			})
		},
	}
}

func bikeLabel(m models.Motorcycle) string {
	label := m.Make + " " + m.Model
	if m.Year != nil {
		label = fmt.Sprintf("%d %s", *m.Year, label)
	}
	return label
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		draft   garage.MotorcycleDraft
		year    int
		mileage string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a motorcycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := numfmt.ParseMileage(mileage)
			if err != nil {
				return err
			}
			draft.CurrentMileage = km
			if cmd.Flags().Changed("year") {
				draft.Year = &year
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				m, err := app.Garage.AddMotorcycle(ctx, rootOpts.Owner, draft)
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(m, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added %s (%s) with id %s\n", m.Name, bikeLabel(*m), m.ID)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "display name")
	cmd.Flags().StringVar(&draft.Make, "make", "", "manufacturer")
	cmd.Flags().StringVar(&draft.Model, "model", "", "model")
	cmd.Flags().IntVar(&year, "year", 0, "model year")
	cmd.Flags().StringVar(&draft.Preset, "preset", "", "motorcycle class (scooter|sport|cruiser|custom)")
	cmd.Flags().StringVar(&mileage, "mileage", "0", "current odometer reading in km")
	cmd.Flags().StringVar(&draft.ImageURI, "image", "", "image URI")
	return cmd
}

// NewMileageCommand creates the mileage command.
func NewMileageCommand(rootOpts *RootOptions) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "mileage <motorcycle-id> <km>",
		Short: "Update a motorcycle's odometer reading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := numfmt.ParseMileage(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				m, err := app.Garage.UpdateMileage(ctx, rootOpts.Owner, args[0], km, confirm)
				if errors.Is(err, garage.ErrMileageRegression) {
					return fmt.Errorf("%w; rerun with --confirm to apply", err)
				}
				if err != nil {
					return err
				}
				report := garage.NewDueReport(*m)
				return newPrinter(cmd, rootOpts).print(report, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s is now at %s km (%d due)\n",
						m.Name, numfmt.FormatInt(m.CurrentMileage), report.DueCount)
					return err
				})
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "accept a reading lower than the current one")
	return cmd
}
