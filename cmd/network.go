package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported networks and their endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t := ui.NewTable([]ui.Column{
			{Title: " ", Width: 1},
			{Title: "Name", Width: 8},
			{Title: "Toncenter", Width: 38},
			{Title: "Tonapi", Width: 26},
			{Title: "Explorer", Width: 30},
		})
		for _, n := range registry.All() {
			marker := ""
			if n.Name == cfg.NetworkMode {
				marker = "*"
			}
			t.AddRow(ui.Row{marker, n.Name, n.ToncenterURL, n.TonapiURL, n.Explorer})
		}
		fmt.Fprintln(out, t.Render())

		ep, err := endpoints()
		if err != nil {
			return err
		}
		if cfg.ToncenterURL != "" || cfg.TonapiURL != "" {
			fmt.Fprintln(out, ui.Warn("Endpoint overrides from config are active"))
			fmt.Fprintln(out, ui.Meta("  toncenter: "+ep.Toncenter))
			fmt.Fprintln(out, ui.Meta("  tonapi:    "+ep.Tonapi))
		}
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("Active: %s (* above)", cfg.NetworkMode)))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use [mainnet|testnet]",
	Short: "Set the default network",
	Long: `Set the default network. Without an argument, pick one interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			items := make([]ui.PickerItem, 0, len(registry.All()))
			for _, n := range registry.All() {
				items = append(items, ui.PickerItem{Label: n.DisplayName, SubLabel: n.ToncenterURL, Value: n.Name})
			}
			picked, err := ui.PickItem("Select network", items, cfg.NetworkMode)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Aborted."))
				return nil
			}
			name = picked
		}
		if _, err := registry.Get(name); err != nil {
			return fmt.Errorf("unknown network %q — run `tonscope network list`", name)
		}
		if err := cfg.SetNetworkMode(name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Default network set to "+ui.NetworkName(cfg.NetworkMode)))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
