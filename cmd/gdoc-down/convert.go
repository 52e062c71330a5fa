// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gdoc-down/internal/convert"
	"github.com/pdiddy/gdoc-down/internal/latex"
	"github.com/pdiddy/gdoc-down/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [html or zip exports...]",
	Short: "Convert downloaded HTML exports to LaTeX text",
	Long: `Convert turns Google Docs HTML exports already on disk (.html, or the .zip
Drive produces for zipped HTML) into .tex files without contacting Drive.
Comments become \pdfcomment annotations. Existing .tex files are skipped
unless --force is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		force, _ := cmd.Flags().GetBool("force")

		cfg := types.ConversionConfig{OutDir: outDir, Force: force}
		result := convert.Batch(latex.NewConverter(), args, cfg, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) failed conversion", result.Failed)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("out-dir", "", "directory for .tex output (default: next to each input)")
	convertCmd.Flags().Bool("force", false, "overwrite existing .tex files")

	rootCmd.AddCommand(convertCmd)
}
