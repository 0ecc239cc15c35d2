// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the case-analyzer CLI. It serves the
// web interface and runs one-off analyses from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/case-analyzer/internal/secrets"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built from the telemetry settings before any command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the case-analyzer CLI.
var rootCmd = &cobra.Command{
	Use:   "case-analyzer",
	Short: "Compare a court case document with the case record found online",
	Long: `case-analyzer sends a case document, or a case number and court entered by
hand, to a generative model and produces a comparison report: document data
against online data, discrepancies, key points, a timeline and next steps.

Use "serve" for the web interface and "analyze" for a one-off report in the
terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := telemetry.NewLogger(cfg.Telemetry)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./case-analyzer.yaml or ~/.config/case-analyzer/case-analyzer.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("provider", "", "model provider: gemini, openai, anthropic")
	rootCmd.PersistentFlags().String("model", "", "model identifier (default depends on provider)")
	_ = viper.BindPFlag("telemetry.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("ai.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("case-analyzer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "case-analyzer"))
		}
	}

	viper.SetEnvPrefix("CASE_ANALYZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
