package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lexmart/internal/app"
	"github.com/vango-dev/lexmart/internal/config"
	"github.com/vango-dev/lexmart/internal/errors"
)

type serveFlags struct {
	port    int
	host    string
	store   string
	noLive  bool
	logLvl  string
	logJSON bool
}

func serveCmd(configPath *string) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the marketplace web server.

Settings come from lexmart.json or lexmart.yaml; flags override them.

Examples:
  lexmart serve
  lexmart serve --port=9000 --host=0.0.0.0
  lexmart serve --store=s3 --log-json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&flags.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&flags.store, "store", "", "Media store: disk or s3")
	cmd.Flags().BoolVar(&flags.noLive, "no-live", false, "Disable live tooltip sessions")
	cmd.Flags().StringVar(&flags.logLvl, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&flags.logJSON, "log-json", false, "Log as JSON")

	return cmd
}

// apply copies flags the user set onto cfg.
func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("port") {
		if f.port <= 0 || f.port > 65535 {
			return errors.New("E400").WithDetail("--port must be between 1 and 65535")
		}
		cfg.Server.Port = f.port
	}
	if f.host != "" {
		cfg.Server.Host = f.host
	}
	if f.store != "" {
		cfg.Upload.Store = f.store
	}
	if f.noLive {
		cfg.Live.Enabled = false
	}
	if f.logLvl != "" {
		cfg.Log.Level = f.logLvl
	}
	if f.logJSON {
		cfg.Log.Format = "json"
	}
	return nil
}

func runServe(parent context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}

	printBanner()
	success("Serving %s at %s", cfg.Name, cfg.URL())
	info("Media store: %s", cfg.Upload.Store)
	if cfg.Live.Enabled {
		info("Live tooltips: %s", cfg.Live.Path)
	} else {
		warn("Live tooltips disabled; tooltips will not appear")
	}

	return a.Run(ctx)
}
