package cmd

import (
	"fmt"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/query"
	"github.com/Mohsinsiddi/tonscope/internal/ton"
	"github.com/Mohsinsiddi/tonscope/internal/toncenter"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var (
	txsLimit       int
	txsLt          int64
	txsHash        string
	txsToLt        int64
	txsArchival    bool
	txsJQ          string
	txsInteractive bool
	txsNoSave      bool
)

var txsCmd = &cobra.Command{
	Use:   "txs <address>",
	Short: "List an account's transactions",
	Long: `Fetch an account's transactions from toncenter, newest first, and save
them as transactions_<address>.json in the output directory.

Pagination: pass the lt and hash of the last transaction you saw to continue
from it. --to-lt stops at a logical time.

Examples:
  tonscope txs EQD4FPq-PRDieyQKkizFTRtSDyucUIqrj0v_zXJmqaDp6_0t
  tonscope txs EQD4... --limit 50 --archival
  tonscope txs EQD4... --lt 47597573000001 --hash 9Hcd...=
  tonscope txs EQD4... --jq '.[] | select(.amount > 1) | .hash'
  tonscope txs EQD4... --interactive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]
		limit := txsLimit
		if limit <= 0 {
			limit = cfg.DefaultLimit
		}
		q := toncenter.TransactionsQuery{
			Address:  address,
			Limit:    limit,
			Lt:       txsLt,
			Hash:     txsHash,
			ToLt:     txsToLt,
			Archival: txsArchival || cfg.Archival,
		}
		if err := q.Validate(); err != nil {
			return err
		}
		filter, err := compileJQ(txsJQ)
		if err != nil {
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

		spin := ui.NewSpinner(fmt.Sprintf("Fetching transactions on %s...", ui.NetworkName(cfg.NetworkMode)))
		spin.Start()
		raw, err := client.GetTransactions(cmd.Context(), q)
		spin.Stop()
		if err != nil {
			return err
		}
		records := ton.ExtractRecords(raw)

		out := cmd.OutOrStdout()
		savedPath := ""
		if !txsNoSave {
			savedPath, err = newWriter().SaveRecords(address, records)
			if err != nil {
				return err
			}
			logger.Debug("records saved", "path", savedPath, "count", len(records))
		}

		if filter != nil {
			values, err := filter.Run(cmd.Context(), records)
			if err != nil {
				return err
			}
			return query.Write(out, values)
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Found %d transactions", len(records))))
		if savedPath != "" {
			fmt.Fprintln(out, ui.Meta("Saved to "+savedPath))
		}
		if len(records) == 0 {
			return nil
		}

		t, rows := recordTable(records, n.TxURL)
		title := fmt.Sprintf("%s  %s", ui.StyleTitle.Render("Transactions"),
			ui.Meta(fmt.Sprintf("(%s, %s)", ui.TruncateAddr(address), cfg.NetworkMode)))
		if txsInteractive {
			return ui.RunRecordList(title, t, rows)
		}

		fmt.Fprintf(out, "\n%s\n\n", title)
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta("Explorer: "+n.AddressURL(address)))
		if last := raw[len(raw)-1]; len(raw) == limit {
			fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Next page: tonscope txs %s --lt %d --hash %s",
				address, last.LogicalTime(), last.ID())))
		}
		return nil
	},
}

// recordTable renders records as table rows plus the data the interactive
// list needs for each row.
func recordTable(records []ton.TransactionRecord, txURL func(string) string) (*ui.Table, []ui.RecordRow) {
	t := ui.NewTable([]ui.Column{
		{Title: "Hash", Width: 16},
		{Title: "Sender", Width: 16},
		{Title: "Amount (TON)", Width: 16},
		{Title: "Time (UTC)", Width: 19},
		{Title: "Status", Width: 8},
	})
	rows := make([]ui.RecordRow, 0, len(records))
	for _, r := range records {
		sender := "—"
		if r.Sender != nil {
			sender = ui.TruncateAddr(*r.Sender)
		}
		t.AddRow(ui.Row{
			ui.TruncateAddr(r.Hash),
			sender,
			fmt.Sprintf("%g", r.Amount),
			formatTime(r.Timestamp),
			ui.StatusText(r.Success),
		})
		row := ui.RecordRow{FullHash: r.Hash}
		if r.Hash != "" {
			row.ExplorerURL = txURL(r.Hash)
		}
		rows = append(rows, row)
	}
	return t, rows
}

func formatTime(unix int64) string {
	if unix == 0 {
		return "—"
	}
	return time.Unix(unix, 0).UTC().Format(time.DateTime)
}

func init() {
	txsCmd.Flags().IntVar(&txsLimit, "limit", 0, "number of transactions to fetch (default from config)")
	txsCmd.Flags().Int64Var(&txsLt, "lt", 0, "logical time to start from (requires --hash)")
	txsCmd.Flags().StringVar(&txsHash, "hash", "", "hash of the transaction at --lt")
	txsCmd.Flags().Int64Var(&txsToLt, "to-lt", 0, "stop at this logical time")
	txsCmd.Flags().BoolVar(&txsArchival, "archival", false, "query archival nodes for old transactions")
	txsCmd.Flags().StringVar(&txsJQ, "jq", "", "print a jq projection of the records instead of the table")
	txsCmd.Flags().BoolVarP(&txsInteractive, "interactive", "i", false, "browse results interactively")
	txsCmd.Flags().BoolVar(&txsNoSave, "no-save", false, "do not write the JSON file")
}
