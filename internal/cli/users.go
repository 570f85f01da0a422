package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/motomaint/internal/models"
	"github.com/ukydev/motomaint/internal/server"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API accounts",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts), newUserListCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var req models.RegisterRequest
	var role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account, including administrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.Role(role)
			if !models.IsValidRole(req.Role) {
				return fmt.Errorf("%w: unknown role %q", models.ErrInvalidInput, role)
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if err := app.Auth.ValidateUsername(req.Username); err != nil {
					return err
				}
				if err := app.Auth.ValidateEmail(req.Email); err != nil {
					return err
				}
				if err := app.Auth.ValidatePassword(req.Password); err != nil {
					return err
				}
				if _, err := app.Stores.Users.FindUserByUsername(ctx, req.Username); err == nil {
					return fmt.Errorf("username %q already exists", req.Username)
				}
				hash, err := app.Auth.HashPassword(req.Password)
				if err != nil {
					return err
				}
				now := time.Now().UTC()
				user := models.User{
					ID:           primitive.NewObjectID(),
					Username:     req.Username,
					Email:        req.Email,
					PasswordHash: hash,
					Role:         req.Role,
					FirstName:    req.FirstName,
					LastName:     req.LastName,
					IsActive:     true,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := app.Stores.Users.InsertUser(ctx, user); err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(user, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Created %s %s (%s)\n", user.Role, user.Username, user.ID.Hex())
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleRider), "admin, rider or viewer")
	return cmd
}

func newUserListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				users, err := app.Stores.Users.FindUsers(ctx)
				if err != nil {
					return err
				}
				return newPrinter(cmd, rootOpts).print(users, func(w io.Writer) error {
					rows := [][]string{{"ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE"}}
					for _, u := range users {
						rows = append(rows, []string{u.ID.Hex(), u.Username, u.Email, string(u.Role), fmt.Sprint(u.IsActive)})
					}
					return table(w, rows)
				})
			})
		},
	}
}
