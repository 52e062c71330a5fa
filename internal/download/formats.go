// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/gdoc-down/pkg/types"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is an output format a document kind can be exported to.
type Format struct {
	Name string
	// MIMEType is the export type requested from Drive. It differs from the
	// written file's type when the export is post-processed (tex).
	MIMEType string
	// Extension is the default file extension, without the dot.
	Extension string
}

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	mimeODT  = "application/vnd.oasis.opendocument.text"
	mimeODS  = "application/x-vnd.oasis.opendocument.spreadsheet"
	mimeODP  = "application/vnd.oasis.opendocument.presentation"
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
	mimeHTML = "text/html"
)

var formats = map[types.Kind][]Format{
	types.KindDocument: {
		{"docx", mimeDocx, "docx"},
		{"epub", "application/epub+zip", "epub"},
		{"html", mimeHTML, "html"},
		{"odt", mimeODT, "odt"},
		{"pdf", mimePDF, "pdf"},
		{"rtf", "application/rtf", "rtf"},
		{"tex", mimeHTML, "tex"},
		{"txt", mimeText, "txt"},
		{"zip", "application/zip", "zip"},
	},
	types.KindSpreadsheet: {
		{"csv", "text/csv", "csv"},
		{"ods", mimeODS, "ods"},
		{"pdf", mimePDF, "pdf"},
		{"tsv", "text/tab-separated-values", "tsv"},
		{"xlsx", mimeXlsx, "xlsx"},
	},
	types.KindPresentation: {
		{"odp", mimeODP, "odp"},
		{"pdf", mimePDF, "pdf"},
		{"pptx", mimePptx, "pptx"},
		{"txt", mimeText, "txt"},
	},
}

// LookupFormat returns the export format named name for kind.
func LookupFormat(kind types.Kind, name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	list := formats[kind]
	i := slices.IndexFunc(list, func(f Format) bool { return f.Name == name })
	if i < 0 {
		return Format{}, fmt.Errorf("%w: %q for %s (supported: %s)",
			ErrUnsupportedFormat, name, kind, strings.Join(FormatNames(kind), ", "))
	}
	return list[i], nil
}

// FormatNames lists the format names available for kind.
func FormatNames(kind types.Kind) []string {
	names := make([]string, 0, len(formats[kind]))
	for _, f := range formats[kind] {
		names = append(names, f.Name)
	}
	return names
}
