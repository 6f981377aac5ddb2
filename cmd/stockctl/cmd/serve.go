package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var port, adminPort string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web and admin servers",
		Long:  `Runs the trade pages, JSON API and admin server in-process. Ctrl+C stops it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				opts.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("admin-port") {
				opts.cfg.Server.AdminPort = adminPort
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			log.Info().
				Str("port", opts.cfg.Server.Port).
				Str("admin_port", opts.cfg.Server.AdminPort).
				Str("store", opts.cfg.Database.Store).
				Msg("Starting StockApp servers")

			return a.Serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (default $PORT or 8080)")
	cmd.Flags().StringVar(&adminPort, "admin-port", "", "admin port; empty disables the admin server")
	return cmd
}
