// Package cmd - stockctl commands
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wonny/stockapp/internal/app"
	"github.com/wonny/stockapp/internal/pkg/config"
	"github.com/wonny/stockapp/internal/pkg/logger"
)

const version = "1.0.0"

// options shared by every subcommand
type options struct {
	envFile string
	verbose bool
	jsonOut bool
	cfg     *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "stockctl",
		Short: "StockApp command line",
		Long: `StockApp command line

Commands:
    quote     <symbol>     - latest price quote from Finnhub
    profile   <symbol>     - company profile from Finnhub
    orders    list|export  - stored buy and sell orders
    serve                  - run the web and admin servers
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "env file to load (default .env)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(newQuoteCmd(opts))
	root.AddCommand(newProfileCmd(opts))
	root.AddCommand(newOrdersCmd(opts))
	root.AddCommand(newServeCmd(opts))

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) init(cmd *cobra.Command) error {
	files := []string{}
	if o.envFile != "" {
		files = append(files, o.envFile)
	}
	if err := godotenv.Load(files...); err != nil && (o.envFile != "" || o.verbose) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: env file not loaded, using environment variables")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	if cmd.Name() == "serve" {
		level = cfg.Logging.Level
	}

	return logger.Init(logger.Config{
		Level:          level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cmd.Name() == "serve" && cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    "stockctl",
		ServiceVersion: version,
	})
}

func (o *options) newApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, o.cfg, version)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
