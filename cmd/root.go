package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/tonscope/internal/config"
	"github.com/Mohsinsiddi/tonscope/internal/keys"
	"github.com/Mohsinsiddi/tonscope/internal/network"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/tonscope/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	testnet bool
	mainnet bool

	logger   = slog.New(slog.DiscardHandler)
	registry = network.NewRegistry()

	// keyStore is opened on first use so commands that never touch API keys
	// do not trigger a keychain prompt.
	keyStore keys.Store
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tonscope",
	Short: "TON transactions and traces from the terminal",
	Long: `tonscope — inspect TON accounts, transactions and traces.

  List an account's transactions through toncenter, fetch and verify a full
  message trace through tonapi, and wait for a sent message to land.
  Every fetch is saved as JSON under the configured output directory.

API keys are read from TONCENTER_API_KEY / TONAPI_API_KEY or the OS keychain
(tonscope config set-key). Both APIs work without a key at a lower rate limit.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. Persist with: tonscope config set-network-mode <mode>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		logger = newLogger(verbose)

		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.NetworkMode = network.Testnet
		}
		if mainnet {
			cfg.NetworkMode = network.Mainnet
		}
		logger.Debug("config loaded", "dir", cfg.Dir(), "network", cfg.NetworkMode)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Banner(Version))
		return cmd.Help()
	},
}

// newLogger logs to stderr; debug records only with --verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command. Ctrl+C cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		stop()
		os.Exit(1)
	}
}

func init() {
	// TONSCOPE_CONFIG_DIR env var is the default for --config.
	cfgDir = os.Getenv(config.DirEnv)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.tonscope)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and responses to stderr")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		txsCmd,
		txCmd,
		traceCmd,
		confirmCmd,
		sendBocCmd,
		configCmd,
		networkCmd,
		convertCmd,
	)
}
