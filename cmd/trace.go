package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/tonscope/internal/query"
	"github.com/Mohsinsiddi/tonscope/internal/ton"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

// ErrTraceFailed is returned with --strict when a transaction in the trace
// failed.
var ErrTraceFailed = errors.New("trace contains a failed transaction")

var (
	traceJQ          string
	traceInteractive bool
	traceNoSave      bool
	traceNoTimestamp bool
	traceStrict      bool
)

var traceCmd = &cobra.Command{
	Use:   "trace <trace-id>",
	Short: "Fetch a trace and check every transaction in it",
	Long: `Fetch the full message trace of a transaction from tonapi, report the
sender and amount of the root transaction, and walk the whole tree to find
the first failed transaction (depth-first, in message order).

The trace id is the hash of the root transaction, in hex or base64. The raw
response is saved as <trace-id>_<YYYYMMDD_HHMMSS>.json in the output
directory.

Examples:
  tonscope trace 13c2db63d9090a009f52c73d83bb233729412e7dd27b1540f53728f3020bec28
  tonscope trace E8LbY9kJCgCfUsc9g7sjNylBLn3SexVA9Tco8wIL7Cg= --interactive
  tonscope trace <id> --jq '.children | length'
  tonscope trace <id> --strict      # exit 1 if any transaction failed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		traceID := strings.TrimSpace(args[0])
		filter, err := compileJQ(traceJQ)
		if err != nil {
			return err
		}
		client, err := newTonapi()
		if err != nil {
			return err
		}
		n, err := activeNetwork()
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(fmt.Sprintf("Fetching trace on %s...", ui.NetworkName(cfg.NetworkMode)))
		spin.Start()
		resp, err := client.GetTrace(cmd.Context(), traceID)
		spin.Stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		savedPath := ""
		if !traceNoSave {
			stamp := cfg.TimestampTraces && !traceNoTimestamp
			savedPath, err = newWriter().SaveTrace(traceID, resp.Raw, stamp)
			if err != nil {
				return err
			}
			logger.Debug("trace saved", "path", savedPath, "bytes", len(resp.Raw))
		}

		verdict := ton.CheckTrace(resp.Root)
		if filter != nil {
			values, err := filter.RunJSON(cmd.Context(), resp.Raw)
			if err != nil {
				return err
			}
			if err := query.Write(out, values); err != nil {
				return err
			}
			return strictErr(verdict)
		}

		if traceInteractive {
			title := fmt.Sprintf("%s  %s", ui.StyleTitle.Render("Trace"),
				ui.Meta(fmt.Sprintf("(%s, %s)", ui.TruncateAddr(traceID), cfg.NetworkMode)))
			if err := ui.RunTraceTree(title, resp.Root, n.TxURL); err != nil {
				return err
			}
			return strictErr(verdict)
		}

		fmt.Fprintln(out, ui.KeyValueBlock("Trace", traceSummary(traceID, resp.Root, verdict, n.TxURL)))
		if savedPath != "" {
			fmt.Fprintln(out, ui.Meta("Saved to "+savedPath))
		}
		return strictErr(verdict)
	},
}

// traceSummary builds the key/value pairs printed for a trace.
func traceSummary(traceID string, root *ton.TraceNode, verdict ton.TraceVerdict, txURL func(string) string) [][2]string {
	var rootOK bool
	if root != nil {
		rootOK = root.Transaction.Succeeded()
	}
	pairs := [][2]string{
		{"Trace ID", traceID},
		{"Sender", ton.SenderAddress(root)},
		{"Amount", strconv.FormatFloat(ton.TransactionAmount(root), 'f', -1, 64) + " TON"},
		{"Transactions", strconv.Itoa(len(ton.Flatten(root)))},
		{"Root status", ui.Status(rootOK)},
	}
	if verdict.OK() {
		pairs = append(pairs, [2]string{"Trace status", ui.Status(true)})
	} else {
		pairs = append(pairs, [2]string{"Trace status", ui.Status(false)})
		if tx := verdict.ErrorTransaction(); tx != nil && tx.Hash != "" {
			pairs = append(pairs,
				[2]string{"Error transaction", tx.Hash},
				[2]string{"Error account", tx.Account.String()},
			)
		} else {
			pairs = append(pairs, [2]string{"Error transaction", "(node has no transaction)"})
		}
		pairs = append(pairs, [2]string{"Error path", formatPath(verdict.Path)})
	}
	if root != nil && root.Transaction != nil && root.Transaction.Hash != "" {
		pairs = append(pairs, [2]string{"Explorer", txURL(root.Transaction.Hash)})
	}
	return pairs
}

// formatPath renders a child-index path as root/1/0.
func formatPath(path []int) string {
	parts := []string{"root"}
	for _, i := range path {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, "/")
}

func strictErr(v ton.TraceVerdict) error {
	if traceStrict && !v.OK() {
		return ErrTraceFailed
	}
	return nil
}

func init() {
	traceCmd.Flags().StringVar(&traceJQ, "jq", "", "print a jq projection of the raw trace instead of the summary")
	traceCmd.Flags().BoolVarP(&traceInteractive, "interactive", "i", false, "browse the trace tree interactively")
	traceCmd.Flags().BoolVar(&traceNoSave, "no-save", false, "do not write the JSON file")
	traceCmd.Flags().BoolVar(&traceNoTimestamp, "no-timestamp", false, "save as <trace-id>.json without a timestamp")
	traceCmd.Flags().BoolVar(&traceStrict, "strict", false, "exit non-zero when any transaction in the trace failed")
}
