package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telconova/portal/internal/shared/validation"
)

// PasswordEnv lets scripts pass the password without a flag.
const PasswordEnv = "TELCONOVA_PASSWORD"

func (a *app) loginCommand() *cobra.Command {
	var form validation.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Password == "" {
				form.Password = os.Getenv(PasswordEnv)
			}
			result, err := a.env.Auth.Login(cmd.Context(), LocalNamespace, form)
			if err != nil {
				return err
			}
			if result.User == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Sesión iniciada")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s\n", displayUser(result.User.Name, result.User.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password (or "+PasswordEnv+")")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.env.Auth.Logout(cmd.Context(), sess); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.requireLogin(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.env.Auth.CurrentUser(cmd.Context(), sess)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", displayUser(user.Name, user.Email))
			if user.Role != "" {
				fmt.Fprintf(out, "rol: %s\n", user.Role)
			}
			return nil
		},
	}
}

func displayUser(name, email string) string {
	name = strings.TrimSpace(name)
	switch {
	case name != "" && email != "":
		return name + " <" + email + ">"
	case name != "":
		return name
	}
	return email
}
