package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
	"github.com/Mohsinsiddi/tonscope/internal/toncenter"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var (
	confirmInterval time.Duration
	confirmTimeout  time.Duration
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <address> <hash>",
	Short: "Wait until a transaction or message lands on an account",
	Long: `Poll the account's latest transactions until one matches the hash, either
as the transaction hash or as the hash of its incoming message (what
send-boc returns). Hex and base64 hashes are both accepted.

Defaults come from poll_interval and confirm_timeout in the config.

Examples:
  tonscope confirm EQD4... 9Hcd...=
  tonscope confirm EQD4... 13c2db63... --timeout 2m --interval 3s`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newToncenter()
		if err != nil {
			return err
		}
		n, err := activeNetwork()
		if err != nil {
			return err
		}
		return waitAndReport(cmd.Context(), cmd.OutOrStdout(), client, n.TxURL, args[0], args[1])
	},
}

// waitAndReport blocks until hash shows up on address or the timeout passes.
func waitAndReport(ctx context.Context, out io.Writer, client *toncenter.Client, txURL func(string) string, address, hash string) error {
	interval := confirmInterval
	if interval <= 0 {
		interval = cfg.PollIntervalDuration()
	}
	timeout := confirmTimeout
	if timeout <= 0 {
		timeout = cfg.ConfirmTimeoutDuration()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spin := ui.NewSpinner(fmt.Sprintf("Waiting for %s (timeout %s)...", ui.TruncateAddr(hash), timeout))
	spin.Start()
	tx, err := client.WaitForTransaction(ctx, address, hash, interval)
	spin.Stop()
	if errors.Is(err, toncenter.ErrNotConfirmed) {
		return fmt.Errorf("%w after %s", err, timeout)
	}
	if err != nil {
		return err
	}

	rec := ton.ExtractRecord(*tx)
	fmt.Fprintln(out, ui.Success("Transaction confirmed"))
	fmt.Fprintln(out, ui.KeyValueBlock("", [][2]string{
		{"Hash", rec.Hash},
		{"Logical time", fmt.Sprintf("%d", rec.Lt)},
		{"Time (UTC)", formatTime(rec.Timestamp)},
		{"Amount", fmt.Sprintf("%g TON", rec.Amount)},
		{"Explorer", txURL(rec.Hash)},
	}))
	return nil
}

func init() {
	confirmCmd.Flags().DurationVar(&confirmInterval, "interval", 0, "delay between polls (default from config)")
	confirmCmd.Flags().DurationVar(&confirmTimeout, "timeout", 0, "give up after this long (default from config)")
}
