// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns HTML exports already on disk (.html, or .zip as
// Drive serves zipped HTML) into LaTeX text files without contacting Drive.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/gdoc-down/pkg/types"
)

// Converter transforms an HTML export into LaTeX. *latex.Converter
// implements it.
type Converter interface {
	Convert(content []byte) ([]byte, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// TexPath returns the .tex path for an input file. An empty outDir places
// the output next to the input.
func TexPath(path, outDir string) string {
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(outDir, base+".tex")
}

// File converts the export at path and writes the .tex file. An existing
// output is left alone unless force is set.
func File(c Converter, path, outDir string, force bool, w io.Writer) types.ConversionStatus {
	texPath := TexPath(path, outDir)
	name := filepath.Base(path)

	if !force {
		if _, err := os.Stat(texPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", texPath)
			return types.ConversionSkipped
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	tex, err := c.Convert(content)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	if err := os.MkdirAll(filepath.Dir(texPath), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}
	if err := os.WriteFile(texPath, tex, 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", name, texPath)
	return types.ConversionDone
}

// Batch converts every path, printing per-file status to w and returning
// a summary.
func Batch(c Converter, paths []string, cfg types.ConversionConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		switch File(c, p, cfg.OutDir, cfg.Force, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
