package main

import (
	"github.com/spf13/cobra"

	"sovtrack-engine/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the SerpAPI key in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <api-key>",
	Short: "Store the SerpAPI key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, _, err := bootstrap()
		if err != nil {
			return err
		}
		if err := secrets.SetSerpAPIKey(cfg.SerpAPI.KeyringAccount, args[0]); err != nil {
			return err
		}
		cmd.Printf("stored SerpAPI key for account %q\n", cfg.SerpAPI.KeyringAccount)
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the SerpAPI key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, _, err := bootstrap()
		if err != nil {
			return err
		}
		if err := secrets.DeleteSerpAPIKey(cfg.SerpAPI.KeyringAccount); err != nil {
			return err
		}
		cmd.Printf("removed SerpAPI key for account %q\n", cfg.SerpAPI.KeyringAccount)
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
