// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gdoc-down CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gdoc-down/internal/logger"
	"github.com/pdiddy/gdoc-down/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds credential files, one per key.
const secretsDir = ".secrets/"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var rootCmd = &cobra.Command{
	Use:   "gdoc-down",
	Short: "Download Google Docs by their local reference files",
	Long: `gdoc-down exports the Google Drive documents behind local .gdoc, .gsheet,
and .gslides reference files and writes them to disk. Documents can be
exported as docx, html, odt, pdf, rtf, txt, and more, or as LaTeX text (tex)
with comments turned into \pdfcomment annotations.

The Drive access token is read from --access-token, the access_token config
key, GDOC_DOWN_ACCESS_TOKEN, or .secrets/google-access-token.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(cmd); err != nil {
			return err
		}
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./gdoc-down.yaml or ~/.config/gdoc-down/gdoc-down.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log-json", false, "write logs as JSON")

	viper.BindPFlag("log.json", flags.Lookup("log-json"))
	viper.SetDefault("log.level", "info")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gdoc-down")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gdoc-down"))
		}
	}

	viper.SetEnvPrefix("GDOC_DOWN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogger configures the process logger from flags and config.
// --verbose wins over the configured level.
func initLogger(cmd *cobra.Command) error {
	level := viper.GetString("log.level")
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = "debug"
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	return logger.Init(logger.Options{
		Level:  level,
		Quiet:  quiet,
		JSON:   viper.GetBool("log.json"),
		Output: os.Stderr,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
