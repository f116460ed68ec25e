package main

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/config"
	"github.com/depeter/couchosd/internal/logging"
)

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var rootCmd = &cobra.Command{
	Use:           "couchosd",
	Short:         "Fullscreen player with a remote-friendly overlay",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig reads the config named by --config, or the default one.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// saveConfig writes cfg back where loadConfig read it.
func saveConfig(cfg *config.Config) error {
	if configPath != "" {
		return cfg.SaveFile(configPath)
	}
	return cfg.Save()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level, cfg.Log.File)
}
