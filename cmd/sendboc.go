package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var (
	sendBocWait    bool
	sendBocAddress string
)

var sendBocCmd = &cobra.Command{
	Use:   "send-boc <boc|->",
	Short: "Submit a signed external message",
	Long: `Send a base64-encoded bag of cells (a signed external message) through
toncenter and print the message hash. Pass - to read the BoC from stdin.

With --wait and --address, poll the destination account until the message
is processed (same as running confirm with the returned hash).

Examples:
  tonscope send-boc te6cckEBAQEA...
  cat msg.boc.b64 | tonscope send-boc - --wait --address EQD4...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendBocWait && sendBocAddress == "" {
			return fmt.Errorf("--wait requires --address")
		}
		boc, err := readBoc(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		client, err := newToncenter()
		if err != nil {
			return err
		}

		hash, err := client.SendBoc(cmd.Context(), boc)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success("Message accepted"))
		fmt.Fprintln(out, ui.Meta("Message hash: ")+ui.Addr(hash))

		if !sendBocWait {
			fmt.Fprintln(out, ui.Hint("Track it with: tonscope confirm <address> "+hash))
			return nil
		}
		n, err := activeNetwork()
		if err != nil {
			return err
		}
		return waitAndReport(cmd.Context(), out, client, n.TxURL, sendBocAddress, hash)
	},
}

// readBoc returns arg, or stdin when arg is "-".
func readBoc(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading BoC from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	sendBocCmd.Flags().BoolVar(&sendBocWait, "wait", false, "wait for the message to be processed")
	sendBocCmd.Flags().StringVar(&sendBocAddress, "address", "", "account that receives the message (for --wait)")
}
