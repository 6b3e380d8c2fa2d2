package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/tonscope/internal/keys"
	"github.com/Mohsinsiddi/tonscope/internal/ui"
	"github.com/spf13/cobra"
)

var deleteKeyYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration and API keys",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Fprintln(out, string(data))

		var pairs [][2]string
		for _, svc := range keys.Services() {
			key, err := keys.Resolve(stores(), svc)
			if err != nil {
				logger.Warn("reading API key", "service", svc, "error", err)
			}
			shown := ui.Meta("not set (free tier)")
			if key != "" {
				shown = keys.Mask(key) + ui.Meta("  ("+keys.Source(stores(), svc)+")")
			}
			pairs = append(pairs, [2]string{svc, shown})
		}
		fmt.Fprintln(out, ui.KeyValueBlock("API keys", pairs))
		fmt.Fprintln(out, ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <toncenter|tonapi> [key]",
	Short: "Store an API key in the OS keychain",
	Long: `Store an API key in the OS keychain. When the key argument is omitted it
is read from stdin, which keeps it out of shell history.

Environment variables TONCENTER_API_KEY and TONAPI_API_KEY take precedence
over stored keys.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := strings.ToLower(args[0])
		var key string
		if len(args) == 2 {
			key = args[1]
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading key: %w", err)
			}
			key = line
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("API key must not be empty")
		}
		if err := stores().Set(service, key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s API key saved (%s)", service, keys.Mask(key))))
		if env := keys.EnvVar(service); env != "" && keys.Source(stores(), service) != "keychain" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn(env+" is set and overrides the stored key"))
		}
		return nil
	},
}

var configDeleteKeyCmd = &cobra.Command{
	Use:   "delete-key <toncenter|tonapi>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := strings.ToLower(args[0])
		if !deleteKeyYes && !ui.ConfirmFrom(cmd.InOrStdin(), cmd.ErrOrStderr(), ui.StyleWarning.Render("Delete the stored "+service+" API key?")) {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Aborted."))
			return nil
		}
		if err := stores().Delete(service); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(service+" API key removed"))
		return nil
	},
}

var configSetOutputDirCmd = &cobra.Command{
	Use:   "set-output-dir <dir>",
	Short: "Set where transaction and trace files are written",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetOutputDir(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Output directory set to %q", cfg.OutputDir)))
		return nil
	},
}

var configSetNetworkModeCmd = &cobra.Command{
	Use:   "set-network-mode <mainnet|testnet>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetNetworkMode(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Network mode set to "+ui.NetworkName(cfg.NetworkMode)))
		return nil
	},
}

func init() {
	configDeleteKeyCmd.Flags().BoolVarP(&deleteKeyYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(
		configListCmd,
		configSetKeyCmd,
		configDeleteKeyCmd,
		configSetOutputDirCmd,
		configSetNetworkModeCmd,
	)
}
