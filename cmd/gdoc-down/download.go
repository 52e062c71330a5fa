// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gdoc-down/internal/download"
	"github.com/pdiddy/gdoc-down/internal/gdrive"
	"github.com/pdiddy/gdoc-down/internal/history"
	"github.com/pdiddy/gdoc-down/internal/logger"
	"github.com/pdiddy/gdoc-down/internal/secrets"
	"github.com/pdiddy/gdoc-down/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "gdoc-down/0.1"
	tokenEnv         = "GOOGLE_ACCESS_TOKEN"
)

var downloadCmd = &cobra.Command{
	Use:   "download [reference files...]",
	Short: "Export Google Docs named by .gdoc, .gsheet, or .gslides files",
	Long: `Download reads each reference file, exports the document from Google Drive
in the requested format, and writes it to --out. When --out is a directory
the output is named after the reference file; otherwise --out is the output
file and only one reference file may be given.

Formats for documents: docx, epub, html, odt, pdf, rtf, tex, txt, zip.
Spreadsheets: csv, ods, pdf, tsv, xlsx. Presentations: odp, pdf, pptx, txt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func init() {
	flags := downloadCmd.Flags()
	flags.StringP("format", "f", "docx", "output format")
	flags.StringP("out", "o", ".", "output directory or file")
	flags.StringP("extension", "e", "", "output file extension (only when --out is a directory)")
	flags.String("access-token", "", "OAuth 2.0 access token for the Drive API")
	flags.Duration("timeout", 0, "HTTP request timeout (default 60s)")
	flags.Duration("delay", 0, "delay between consecutive documents")
	flags.Int("max-retries", 0, "retries on rate limiting and server errors (default 5)")
	flags.String("user-agent", "", "User-Agent header (default gdoc-down/0.1)")
	flags.String("history-dir", "", "directory for the download history database")
	flags.Bool("no-history", false, "do not record downloads")

	viper.BindPFlag("access_token", flags.Lookup("access-token"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
	viper.BindPFlag("delay", flags.Lookup("delay"))
	viper.BindPFlag("max_retries", flags.Lookup("max-retries"))
	viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	viper.BindPFlag("history_dir", flags.Lookup("history-dir"))

	rootCmd.AddCommand(downloadCmd)
}

// downloadConfig assembles download settings from flags, config, the
// environment, and loaded secrets, then validates them.
func downloadConfig(cmd *cobra.Command) (types.DownloadConfig, error) {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	ext, _ := cmd.Flags().GetString("extension")

	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent + " (" + version + ")"
	}

	cfg := types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    timeout,
			UserAgent:  userAgent,
			MaxRetries: viper.GetInt("max_retries"),
		},
		AccessToken:   secrets.Lookup(viper.GetString("access_token"), loadedSecrets, secrets.AccessTokenKey, tokenEnv),
		Format:        format,
		OutPath:       out,
		Extension:     ext,
		DownloadDelay: viper.GetDuration("delay"),
	}
	if err := types.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// historyDir returns the configured history directory, defaulting to the
// user config directory.
func historyDir() string {
	if dir := viper.GetString("history_dir"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".gdoc-down"
	}
	return filepath.Join(base, "gdoc-down")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := downloadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 1 && !download.IsDir(cfg.OutPath) {
		return fmt.Errorf("--out must be an existing directory when downloading %d documents", len(args))
	}

	req := download.RequestFrom(cfg)
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		store, err := history.Open(historyDir())
		if err != nil {
			logger.Warn("download history disabled", "error", err)
		} else {
			defer store.Close()
			req.Recorder = store
		}
	}

	client := gdrive.NewClient(cfg)
	result := download.Batch(cmd.Context(), client, args, req, cmd.OutOrStdout())
	logger.Info("download finished", "downloaded", result.Downloaded, "failed", result.Failed)
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed to download", result.Failed)
	}
	return cmd.Context().Err()
}
