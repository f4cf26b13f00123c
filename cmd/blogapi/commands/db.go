package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/factory"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

// demoUsers are created by db seed.
var demoUsers = []domain.RegisterInput{
	{Username: "john", Email: "john@email.com", Password: "abc123"},
	{Username: "pam", Email: "pam@email.com", Password: "123abc"},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database schema and seed data",
}

var dbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app factory.Factory) error {
			if err := app.GetMigrationService().RunMigrations(ctx); err != nil {
				return err
			}
			cmd.Println("Tables created")
			return nil
		})
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo users and optionally a super admin",
	Long: `Create the demo users john and pam. Users that already exist are skipped.

Examples:
  blogapi db seed
  blogapi db seed --admin-email root@example.com --admin-password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app factory.Factory) error {
			if err := app.GetMigrationService().RunMigrations(ctx); err != nil {
				return err
			}
			if err := seed(ctx, app); err != nil {
				return err
			}
			cmd.Println("Tables have been seeded")
			return nil
		})
	},
}

var dbDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app factory.Factory) error {
			if err := app.GetMigrationService().DropAll(ctx); err != nil {
				return err
			}
			cmd.Println("Tables dropped")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbCreateCmd, dbSeedCmd, dbDropCmd)

	dbSeedCmd.Flags().StringVar(&adminUsername, "admin-username", "admin", "username of the super admin")
	dbSeedCmd.Flags().StringVar(&adminEmail, "admin-email", "", "create a super admin with this email")
	dbSeedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the super admin")
	dbSeedCmd.MarkFlagsRequiredTogether("admin-email", "admin-password")
}

func withApp(ctx context.Context, fn func(ctx context.Context, app factory.Factory) error) error {
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func seed(ctx context.Context, app factory.Factory) error {
	log := app.GetLogger()

	for _, in := range demoUsers {
		if _, err := register(ctx, app, in); err != nil {
			return err
		}
	}

	if adminEmail == "" {
		return nil
	}

	admin, err := register(ctx, app, domain.RegisterInput{
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
	})
	if err != nil {
		return err
	}
	if admin == nil {
		return nil
	}

	// Nobody can grant the first super admin through the API.
	err = app.GetStore().WithinTx(ctx, func(tx domain.Tx) error {
		role, err := tx.Roles().FindByName(ctx, authz.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if role == nil {
			return fmt.Errorf("role %q is missing", authz.RoleSuperAdmin)
		}
		return tx.Roles().Assign(ctx, admin.ID, role.ID)
	})
	if err != nil {
		return fmt.Errorf("super admin role could not be assigned: %w", err)
	}

	log.Info("Super admin created", map[string]interface{}{"user_id": admin.ID, "email": adminEmail})
	return nil
}

// register creates the user, returning nil when it already exists.
func register(ctx context.Context, app factory.Factory, in domain.RegisterInput) (*domain.User, error) {
	res, err := app.GetUserService().Register(ctx, in)
	if err == nil {
		return res.User, nil
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindConflict {
		app.GetLogger().Info("User already exists, skipping", map[string]interface{}{"email": in.Email})
		return nil, nil
	}
	return nil, fmt.Errorf("user %s could not be created: %w", in.Username, err)
}
