package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datastore-web/datastore/internal/daemon"
	"github.com/datastore-web/datastore/internal/db/controller/user"
	"github.com/datastore-web/datastore/internal/db/models"
	"github.com/datastore-web/datastore/internal/schema"
)

func init() { //nolint: gochecknoinits
	userCreateCmd.Flags().StringVar(&newUser.Username, "username", "", "Username (3-20 letters, digits or underscores)")
	userCreateCmd.Flags().StringVar(&newUser.Email, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&newUser.Password, "password", "", "Password")
	userCreateCmd.Flags().StringVar(&newUserRole, "role", string(models.RoleUser), "Role: ADMIN, SUPPORT or USER")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	newUser     schema.Register
	newUserRole string

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	userCreateCmd = &cobra.Command{
		Use:     "create",
		Short:   "Create an account with the given role",
		PreRunE: func(_ *cobra.Command, _ []string) error { return loadConfig() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			newUser.ConfirmPassword = newUser.Password

			if err := schema.Validate(newUser); err != nil {
				return err //nolint:wrapcheck
			}

			role := models.Role(newUserRole)
			if !role.Valid() {
				return user.ErrInvalidRole
			}

			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err = daemon.Migrate(db); err != nil {
				return err //nolint:wrapcheck
			}

			hash, err := models.HashPassword(newUser.Password)
			if err != nil {
				return err //nolint:wrapcheck
			}

			u := &models.User{
				Active:   true,
				Username: newUser.Username,
				Email:    newUser.Email,
				Password: hash,
				Role:     role,
			}

			if err = user.Create(db, u); err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %d)\n", u.Role, u.Username, u.ID)

			return err //nolint:wrapcheck
		},
	}
)
