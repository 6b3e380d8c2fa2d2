package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <amount> [unit]",
	Short: "Convert between TON and nanoton",
	Long: `Convert between TON and nanoton (1 TON = 1,000,000,000 nanoton).

Units: ton (default), nano

Examples:
  tonscope convert 1.5            # → 1500000000 nanoton
  tonscope convert 2500000000 nano  # → 2.5 TON`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := "ton"
		if len(args) > 1 {
			unit = strings.ToLower(args[1])
		}
		pairs, err := convertAmount(args[0], unit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("Unit Conversion", pairs))
		return nil
	},
}

// convertAmount returns the rows printed by convert.
func convertAmount(amount, unit string) ([][2]string, error) {
	switch unit {
	case "ton":
		nano, err := ton.ParseTON(amount)
		if err != nil {
			return nil, err
		}
		return [][2]string{
			{"Input", ui.Val(amount + " TON")},
			{"Nanoton", ui.Val(strconv.FormatInt(nano, 10) + " nanoton")},
		}, nil
	case "nano", "nanoton":
		nano, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid nanoton amount: %s", amount)
		}
		return [][2]string{
			{"Input", ui.Val(amount + " nanoton")},
			{"TON", ui.Val(ton.FormatTON(nano) + " TON")},
		}, nil
	default:
		return nil, fmt.Errorf("unknown unit %q — use ton or nano", unit)
	}
}
