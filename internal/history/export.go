// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gdoc-down/pkg/types"
)

// Output formats accepted by Write.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Write renders downloads to w as a table, YAML, or JSON.
func Write(w io.Writer, downloads []types.Download, format string, now time.Time) error {
	switch format {
	case "", FormatTable:
		return writeTable(w, downloads, now)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(downloads); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(downloads); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml, or json)", format)
	}
}

func writeTable(w io.Writer, downloads []types.Download, now time.Time) error {
	if len(downloads) == 0 {
		_, err := fmt.Fprintln(w, "No downloads recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tDOC ID\tFORMAT\tSIZE\tOUTPUT")
	for _, d := range downloads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			humanize.RelTime(d.DownloadedAt, now, "ago", "from now"),
			d.DocID, d.Format, humanize.Bytes(uint64(d.Bytes)), d.OutputPath)
	}
	return tw.Flush()
}
