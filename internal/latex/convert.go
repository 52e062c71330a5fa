// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex converts documents exported as HTML into LaTeX source.
//
// The conversion keeps only the plain text of the document body, one
// paragraph per top-level block, and turns the document's footnote-style
// comments into inline \pdfcomment commands at the point where each comment
// was attached. Images, page breaks, inline styles, and the document head
// are discarded. LaTeX special characters are passed through unescaped.
//
// Pipeline: StripNoise, Normalizer (lenient HTML to XML), ParseTree,
// RelocateComments, BodyText.
package latex

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/gdoc-down/internal/logger"
)

// MaxArchiveMemberBytes caps the decompressed size of the HTML member read
// from a zipped export.
var MaxArchiveMemberBytes int64 = 100 << 20

var (
	zipSignature = []byte("PK\x03\x04")
	utf8BOM      = []byte("\xef\xbb\xbf")
)

// Converter turns exported HTML into LaTeX. The zero value is not usable;
// create one with NewConverter.
type Converter struct {
	normalizer Normalizer
}

// Option configures a Converter.
type Option func(*Converter)

// WithNormalizer replaces the lenient HTML normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(c *Converter) {
		c.normalizer = n
	}
}

// NewConverter returns a Converter that uses HTMLNormalizer unless an
// option says otherwise.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{normalizer: HTMLNormalizer{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertHTML converts content with a default Converter.
func ConvertHTML(content []byte) ([]byte, error) {
	return NewConverter().Convert(content)
}

// Convert converts an HTML document, or a ZIP archive holding exactly one
// HTML document, into LaTeX text. Each call works on its own tree, so a
// Converter may be shared between goroutines.
func (c *Converter) Convert(content []byte) ([]byte, error) {
	if bytes.HasPrefix(content, zipSignature) {
		member, err := htmlFromArchive(content)
		if err != nil {
			return nil, err
		}
		content = member
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrParse)
	}

	markup, err := c.normalizer.Normalize(StripNoise(string(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	root, err := ParseTree(markup)
	if err != nil {
		return nil, err
	}

	comments, err := RelocateComments(root)
	if err != nil {
		return nil, err
	}

	text, err := BodyText(root)
	if err != nil {
		return nil, err
	}

	logger.Debug("converted html to latex",
		"input_bytes", len(content),
		"output_bytes", len(text),
		"comments", comments,
	)
	return []byte(text), nil
}

// htmlFromArchive returns the single .html or .htm member of a ZIP archive.
func htmlFromArchive(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	var found []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".html", ".htm":
			found = append(found, f)
		}
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrArchive, len(found))
	}

	rc, err := found[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrArchive, found[0].Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxArchiveMemberBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrArchive, found[0].Name, err)
	}
	if int64(len(data)) > MaxArchiveMemberBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrArchive, found[0].Name, MaxArchiveMemberBytes)
	}
	return data, nil
}
