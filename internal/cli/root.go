// Package cli implements the motomaint command line.
package cli

import (
	"context"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukydev/motomaint/internal/config"
	"github.com/ukydev/motomaint/internal/garage"
	"github.com/ukydev/motomaint/internal/logging"
	"github.com/ukydev/motomaint/internal/server"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Owner      string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "motomaint",
		Short: "Motorcycle maintenance tracker",
		Long: `Track motorcycle mileage, maintenance schedules and service history.

Run "motomaint serve" for the HTTP API. The other commands work directly on
the configured store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Owner, "owner", garage.LocalOwner, "garage owner for offline commands")

	cmd.AddCommand(
		NewServeCommand(opts),
		NewKMPLCommand(opts),
		NewPresetsCommand(opts),
		NewListCommand(opts),
		NewAddCommand(opts),
		NewMileageCommand(opts),
		NewRecordCommand(opts),
		NewDueCommand(opts),
		NewServiceLogCommand(opts),
		NewExportCommand(opts),
		NewImportCommand(opts),
		NewUserCommand(opts),
	)

	return cmd
}

// loadConfig reads the configuration and applies its logging section.
// Logs go to stderr so they never mix with command output.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := logging.Configure(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// withApp runs fn against an App built from the configuration and closes it
// afterwards.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *server.App) error) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close storage")
		}
	}()
	return fn(ctx, app)
}
