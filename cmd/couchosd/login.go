package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/jellyfin"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("server", "s", "", "Jellyfin server URL (default from config)")
	loginCmd.Flags().StringP("user", "u", "", "user name (default from config)")
	loginCmd.Flags().StringP("password", "p", "", "password, read from stdin when empty")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to a Jellyfin server and store the access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if s, _ := cmd.Flags().GetString("server"); s != "" {
			cfg.Server.URL = s
		}
		if u, _ := cmd.Flags().GetString("user"); u != "" {
			cfg.Server.Username = u
		}
		if cfg.Server.URL == "" || cfg.Server.Username == "" {
			return errors.New("login: server and user are required")
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			if password, err = readPassword(cmd); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		client := jellyfin.NewClient(cfg.Server.URL)
		if err := client.Authenticate(ctx, cfg.Server.Username, password); err != nil {
			return err
		}
		cfg.Server.URL = client.ServerURL()
		cfg.Server.Token = client.Token()
		cfg.Server.UserID = client.UserID()
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		log.Info("signed in", zap.String("server", cfg.Server.URL), zap.String("user", cfg.Server.Username))
		return nil
	},
}

func readPassword(cmd *cobra.Command) (string, error) {
	cmd.Print("Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
