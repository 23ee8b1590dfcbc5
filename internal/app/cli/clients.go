package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) clientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Clients in the local cache",
	}
	cmd.AddCommand(a.clientsSyncCommand(), a.clientsSearchCommand())
	return cmd
}

func (a *app) clientsSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download clients from the backend into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.requireLogin(cmd.Context())
			if err != nil {
				return err
			}
			clients, err := a.env.Clients.Sync(cmd.Context(), sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d clientes sincronizados\n", len(clients))
			return nil
		},
	}
}

func (a *app) clientsSearchCommand() *cobra.Command {
	var name, identification string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find a cached client by name or identification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" && identification == "" {
				return fmt.Errorf("pass --name or --identification")
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			result, err := a.env.Clients.Search(cmd.Context(), sess, name, identification)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Message)
			if result.Client != nil {
				c := result.Client
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", c.ID.String(), c.Name, c.Identification, c.Phone)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&identification, "identification", "", "identification number")
	return cmd
}
