package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/telconova/portal/internal/domains/orders/domain"
)

func (a *app) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work orders in the local cache",
	}
	cmd.AddCommand(a.ordersSyncCommand(), a.ordersListCommand(), a.ordersShowCommand(), a.ordersNextNumberCommand())
	return cmd
}

func (a *app) ordersSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download work orders from the backend into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.requireLogin(cmd.Context())
			if err != nil {
				return err
			}
			orders, err := a.env.Orders.Sync(cmd.Context(), sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d órdenes sincronizadas\n", len(orders))
			return nil
		},
	}
}

func (a *app) ordersListCommand() *cobra.Command {
	var criteria domain.Criteria
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached work orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			listing, err := a.env.Orders.List(cmd.Context(), sess, criteria)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch listing.State {
			case domain.ListingUnloaded:
				fmt.Fprintln(out, "No hay órdenes en caché; ejecuta portalctl orders sync")
				return nil
			case domain.ListingEmpty:
				fmt.Fprintln(out, listing.Message)
				return nil
			}
			return writeOrderTable(out, listing.Orders)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&criteria.Query, "query", "q", "", "free-text search")
	flags.StringVar(&criteria.Status, "status", "", "status filter")
	flags.StringVar(&criteria.Activity, "activity", "", "activity filter")
	flags.StringVar(&criteria.Priority, "priority", "", "priority filter")
	return cmd
}

func (a *app) ordersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Print one cached work order as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			order, err := a.env.Orders.Get(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(order)
		},
	}
}

func (a *app) ordersNextNumberCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next-number",
		Short: "Print the number the next local order will get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			number, err := a.env.Orders.NextOrderNumber(cmd.Context(), sess)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), number)
			return nil
		},
	}
}

func writeOrderTable(w io.Writer, orders []domain.EnrichedOrder) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NRO\tCLIENTE\tACTIVIDAD\tPRIORIDAD\tESTADO")
	for _, o := range orders {
		client := o.ClientName.String()
		if o.Client != nil {
			client = o.Client.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.OrderNumber.String(), client, o.Activity, o.Priority, o.Status)
	}
	return tw.Flush()
}
