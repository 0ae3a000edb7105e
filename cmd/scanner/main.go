package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roman-kulish/spectrum-scanner/cmd/scanner/app"
)

var (
	configPath  string
	requestPath string
	chartPath   string

	logLevel slog.LevelVar
	config   *app.Config
)

var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "RF spectrum scanner",
	Long: `RF spectrum scanner

Sweeps the configured frequency ranges with an SDR backend (rtl_power,
hackrf_sweep) or the built-in mock generator and reports signal strength
per frequency.

Configuration is read from the file given with --config and can be
overridden with SCANNER_* environment variables, e.g.
SCANNER_BACKEND_TYPE=hackrf.

Examples:
  scanner serve --config scanner.yaml
  scanner scan --request fm.yaml --chart fm.png
  scanner tui
  scanner bands`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if config, err = app.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err = logLevel.UnmarshalText([]byte(config.Settings.LogLevel)); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
		if requestPath == "" {
			requestPath = config.Scan.Request
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Serve(cmd.Context(), config, newLogger(os.Stdout))
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan and print the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := app.LoadScanRequest(requestPath)
		if err != nil {
			return err
		}
		return app.Scan(cmd.Context(), config, raw, cmd.OutOrStdout(), chartPath, newLogger(os.Stderr))
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal scanner",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := app.LoadScanRequest(requestPath)
		if err != nil {
			return err
		}

		// the terminal belongs to the UI; logs go to a file or nowhere
		var out io.Writer = io.Discard
		if config.Settings.LogFile != "" {
			f, err := os.OpenFile(config.Settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return app.RunTUI(cmd.Context(), config, raw, newLogger(out))
	},
}

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "List the frequency bands results are classified into",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.PrintBands(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")

	scanCmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to a YAML or JSON scan request")
	scanCmd.Flags().StringVar(&chartPath, "chart", "", "Write the chart to this PNG file")
	tuiCmd.Flags().StringVarP(&requestPath, "request", "r", "", "Path to a YAML or JSON scan request")

	rootCmd.AddCommand(serveCmd, scanCmd, tuiCmd, bandsCmd)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &logLevel}))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
