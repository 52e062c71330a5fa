// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Kind identifies the type of a Drive document.
type Kind string

const (
	KindDocument     Kind = "document"
	KindSpreadsheet  Kind = "spreadsheet"
	KindPresentation Kind = "presentation"
)

// ConversionStatus indicates the outcome of converting one local export to LaTeX.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionFailed  ConversionStatus = "failed"
	ConversionSkipped ConversionStatus = "skipped"
)

// Download records one exported document written to disk.
type Download struct {
	// DocID is the Drive file identifier.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Kind is the document kind derived from the reference file extension.
	Kind Kind `json:"kind" yaml:"kind"`

	// Format is the requested output format (e.g. "tex").
	Format string `json:"format" yaml:"format"`

	// MIMEType is the export MIME type requested from Drive.
	MIMEType string `json:"mime_type" yaml:"mime_type"`

	// SourcePath is the local reference file (.gdoc, .gsheet, .gslides).
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputPath is where the exported content was written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Bytes is the size of the written file.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// SHA256 is the hex digest of the written file.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// DownloadedAt is when the file was written.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}
