package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/depeter/couchosd/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("path", false, "print the config file path only")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if only, _ := cmd.Flags().GetBool("path"); only {
			path := configPath
			if path == "" {
				path = config.ConfigPath()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Server.Token = redact(cfg.Server.Token)
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
