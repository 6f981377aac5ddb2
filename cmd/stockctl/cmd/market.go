package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newQuoteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Show the latest price quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			q, err := a.Market.GetStockPriceQuote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), q)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Current\t%.2f\n", q.CurrentPrice)
			fmt.Fprintf(w, "Change\t%+.2f (%+.2f%%)\n", q.Change, q.PercentChange)
			fmt.Fprintf(w, "Open\t%.2f\n", q.Open)
			fmt.Fprintf(w, "High\t%.2f\n", q.High)
			fmt.Fprintf(w, "Low\t%.2f\n", q.Low)
			fmt.Fprintf(w, "Prev close\t%.2f\n", q.PreviousClose)
			if t := q.Time(); !t.IsZero() {
				fmt.Fprintf(w, "Time\t%s\n", t.UTC().Format("2006-01-02 15:04:05 MST"))
			}
			return w.Flush()
		},
	}
}

func newProfileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <symbol>",
		Short: "Show the company profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Market.GetCompanyProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), p)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Ticker\t%s\n", p.Ticker)
			fmt.Fprintf(w, "Name\t%s\n", p.Name)
			fmt.Fprintf(w, "Exchange\t%s\n", p.Exchange)
			fmt.Fprintf(w, "Industry\t%s\n", p.Industry)
			fmt.Fprintf(w, "Country\t%s\n", p.Country)
			fmt.Fprintf(w, "Currency\t%s\n", p.Currency)
			fmt.Fprintf(w, "IPO\t%s\n", p.IPO)
			fmt.Fprintf(w, "Market cap\t%.2f\n", p.MarketCap)
			fmt.Fprintf(w, "Web\t%s\n", p.WebURL)
			return w.Flush()
		},
	}
}
