package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"operadoras/internal/config"
	applog "operadoras/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "operadoras",
	Short: "Read-only API over health-plan operators and their quarterly expenses",
	// Running without a subcommand starts the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Int64("seed", 0, "seed for the generated expenses (0 picks one at random; overrides SEED)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json (overrides LOG_FORMAT)")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(statsCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads .env (if present) and the environment, then applies any
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	flags := cmd.Flags()

	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		cfg.Port = f.Value.String()
	}
	if f := flags.Lookup("backend"); f != nil && f.Changed {
		cfg.DataBackend = f.Value.String()
	}
	if f := flags.Lookup("db"); f != nil && f.Changed {
		cfg.SQLiteDBPath = f.Value.String()
	}
	if f := flags.Lookup("trusted-proxies"); f != nil && f.Changed {
		cfg.TrustedProxies, _ = flags.GetStringSlice("trusted-proxies")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *applog.Logger {
	logger := applog.NewFromSettings(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	applog.SetDefault(logger)
	return logger
}
