package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/wonny/stockapp/internal/domain/order"
	"github.com/wonny/stockapp/internal/export/pdf"
	"github.com/wonny/stockapp/internal/service/trading"
)

func newOrdersCmd(opts *options) *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect stored orders",
	}
	ordersCmd.AddCommand(newOrdersListCmd(opts))
	ordersCmd.AddCommand(newOrdersExportCmd(opts))
	return ordersCmd
}

func loadOrders(ctx context.Context, svc *trading.Service, side string) ([]*order.Response, error) {
	switch strings.ToLower(side) {
	case "", "all":
		return svc.GetAllOrders(ctx)
	case "buy":
		return svc.GetBuyOrders(ctx)
	case "sell":
		return svc.GetSellOrders(ctx)
	}
	return nil, fmt.Errorf("%w: %q (want buy, sell or all)", order.ErrInvalidSide, side)
}

func newOrdersListCmd(opts *options) *cobra.Command {
	var side string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := loadOrders(cmd.Context(), a.Orders, side)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), orders)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tSYMBOL\tNAME\tDATE\tQTY\tPRICE\tAMOUNT")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
					o.Side, o.StockSymbol, o.StockName,
					o.DateAndTimeOfOrder.UTC().Format("2006-01-02 15:04:05"),
					o.Quantity, o.Price, o.TradeAmount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&side, "side", "all", "buy, sell or all")
	return cmd
}

func newOrdersExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all orders as a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := a.Orders.GetAllOrders(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := pdf.WriteOrders(f, orders, time.Now()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}

			a.Metrics.PDFExported()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %s\n", len(orders), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "orders.pdf", "output file")
	return cmd
}
