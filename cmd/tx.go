package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx <address> <hash>",
	Short: "Show one of an account's recent transactions",
	Long: `Look up a transaction among the account's latest transactions by its hash
or the hash of its incoming message, and show its details.

Example:
  tonscope tx EQD4... 9Hcd...=`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, hash := args[0], args[1]
		if _, err := ton.NormalizeHash(hash); err != nil {
			return err
		}
		client, err := newToncenter()
		if err != nil {
			return err
		}
		n, err := activeNetwork()
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Fetching transaction...")
		spin.Start()
		tx, err := client.FindTransaction(cmd.Context(), address, hash)
		spin.Stop()
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("transaction %s not found among the latest transactions of %s", hash, address)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Transaction Details", txDetails(*tx, n.TxURL)))
		return nil
	},
}

func txDetails(tx ton.RawTransaction, txURL func(string) string) [][2]string {
	rec := ton.ExtractRecord(tx)
	orDash := func(s *string) string {
		if s == nil || *s == "" {
			return "—"
		}
		return *s
	}
	fee := "—"
	if tx.Fee != nil {
		fee = ton.FormatTON(int64(*tx.Fee)) + " TON"
	}
	pairs := [][2]string{
		{"Hash", ui.Addr(rec.Hash)},
		{"Logical time", fmt.Sprintf("%d", rec.Lt)},
		{"Time (UTC)", formatTime(rec.Timestamp)},
		{"From", ui.Addr(orDash(rec.Sender))},
		{"To", ui.Addr(orDash(rec.Receiver))},
		{"Amount", fmt.Sprintf("%g TON", rec.Amount)},
		{"Fee", fee},
		{"Out messages", fmt.Sprintf("%d", len(tx.OutMsgs))},
		{"Status", ui.Status(rec.Success)},
	}
	if rec.Comment != "" {
		pairs = append(pairs, [2]string{"Comment", rec.Comment})
	}
	if rec.Hash != "" {
		pairs = append(pairs, [2]string{"Explorer", txURL(rec.Hash)})
	}
	return pairs
}
