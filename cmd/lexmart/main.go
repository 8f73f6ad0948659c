package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/lexmart/internal/config"
	"github.com/vango-dev/lexmart/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ┌─┐─┐ ┬┌┬┐┌─┐┬─┐┌┬┐
  ║  ├┤ ┌┴┬┘│││├─┤├┬┘ │
  ╩═╝└─┘┴ └─┴ ┴┴ ┴┴└─ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "lexmart",
		Short: "A marketplace for finding and hiring lawyers",
		Long: `Lexmart serves the lawyer directory, profile and dashboard pages.

Tooltips on every page are positioned by the server over a WebSocket
session, and avatars posted to /api/upload are handed to the configured
media store (local disk or S3).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to lexmart.json or lexmart.yaml")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		configCmd(&configPath),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the file given by --config, or the nearest config in
// the working directory tree. Without either, defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.LoadFromWorkingDir()
	if errors.CodeOf(err) == "E100" {
		return config.New(), nil
	}
	return cfg, err
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
