package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukydev/motomaint/internal/export"
	"github.com/ukydev/motomaint/internal/server"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output  string
		archive bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the garage document",
		Long: `Write the whole garage (motorcycles and settings) as a JSON document to
stdout, to a file with --output, or to the configured S3 bucket with --archive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if archive {
					a, err := app.Garage.Archive(ctx, rootOpts.Owner)
					if err != nil {
						return err
					}
					return newPrinter(cmd, rootOpts).print(a, func(w io.Writer) error {
						_, err := fmt.Fprintf(w, "Archived to %s\n", a.URL)
						return err
					})
				}

				doc, err := app.Garage.Export(ctx, rootOpts.Owner)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return export.WriteDocument(cmd.OutOrStdout(), doc)
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := export.WriteDocument(f, doc); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d motorcycles to %s\n", len(doc.Motorcycles), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	cmd.Flags().BoolVar(&archive, "archive", false, "upload to the configured S3 bucket instead")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the garage with a previously exported document",
		Long: `Replace every motorcycle and the settings with the contents of an exported
garage document. Use "-" to read from stdin. The document is validated in
full before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			doc, err := export.ReadDocument(r)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if err := app.Garage.Import(ctx, rootOpts.Owner, doc); err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(map[string]int{"motorcycles": len(doc.Motorcycles)}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Imported %d motorcycles\n", len(doc.Motorcycles))
					return err
				})
			})
		},
	}
}
