// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download exports Drive documents named by local reference files
// and writes them to disk, converting to LaTeX when asked.
package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pdiddy/gdoc-down/internal/docref"
	"github.com/pdiddy/gdoc-down/internal/latex"
	"github.com/pdiddy/gdoc-down/internal/logger"
	"github.com/pdiddy/gdoc-down/pkg/types"
)

var ErrConflictingOutput = errors.New("output file path and extension cannot both be specified")

var utf8BOM = []byte("\xef\xbb\xbf")

// Fetcher exports a Drive file as mimeType. *gdrive.Client implements it.
type Fetcher interface {
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)
}

// Recorder stores completed downloads. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, d types.Download) error
}

// Request describes where and how documents are written.
type Request struct {
	Format    string
	OutPath   string
	Extension string
	// Delay is the pause between consecutive documents in a batch.
	Delay time.Duration
	// Recorder, when set, receives every successful download.
	Recorder Recorder
	// Converter turns tex exports into LaTeX. Nil uses the default converter.
	Converter *latex.Converter
}

// RequestFrom builds a Request from validated download settings.
func RequestFrom(cfg types.DownloadConfig) Request {
	return Request{
		Format:    cfg.Format,
		OutPath:   cfg.OutPath,
		Extension: cfg.Extension,
		Delay:     cfg.DownloadDelay,
	}
}

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Failed     int
	Downloads  []*types.Download
}

// Total returns the number of reference files processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath picks the file a document is written to. When outPath is an
// existing directory the file is named after the reference file with
// extension (or the format's default extension). Otherwise outPath is the
// file itself and extension must be empty.
func OutputPath(refPath, outPath string, format Format, extension string) (string, error) {
	if IsDir(outPath) {
		if extension == "" {
			extension = format.Extension
		}
		base := filepath.Base(refPath)
		stem := base[:len(base)-len(filepath.Ext(base))]
		return filepath.Join(outPath, stem+"."+extension), nil
	}
	if extension != "" {
		return "", ErrConflictingOutput
	}
	return outPath, nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Document resolves the reference file at path, exports it, post-processes
// it for the requested format, and writes it. The format and output path are
// checked before any network call.
func Document(ctx context.Context, f Fetcher, path string, req Request, w io.Writer) (*types.Download, error) {
	ref, err := docref.Resolve(path)
	if err != nil {
		return nil, err
	}

	format, err := LookupFormat(ref.Kind, req.Format)
	if err != nil {
		return nil, err
	}

	outFile, err := OutputPath(path, req.OutPath, format, req.Extension)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "downloading: %s (%s as %s)\n", ref.Name, ref.Kind, format.Name)
	log := logger.With("doc_id", ref.ID, "format", format.Name)

	content, err := f.Export(ctx, ref.ID, format.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", ref.Name, err)
	}
	log.DebugContext(ctx, "exported document", "bytes", len(content), "output", outFile)

	content, err = postProcess(format, content, req.Converter)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", ref.Name, err)
	}

	if err := writeFile(outFile, content); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outFile, err)
	}

	sum := sha256.Sum256(content)
	d := &types.Download{
		DocID:        ref.ID,
		Kind:         ref.Kind,
		Format:       format.Name,
		MIMEType:     format.MIMEType,
		SourcePath:   path,
		OutputPath:   outFile,
		Bytes:        int64(len(content)),
		SHA256:       hex.EncodeToString(sum[:]),
		DownloadedAt: time.Now().UTC(),
	}
	fmt.Fprintf(w, "  wrote: %s (%s)\n", outFile, humanize.Bytes(uint64(d.Bytes)))

	if req.Recorder != nil {
		if err := req.Recorder.Record(ctx, *d); err != nil {
			log.WarnContext(ctx, "could not record download", "error", err)
		}
	}
	return d, nil
}

// Batch downloads every reference file in paths, printing per-item status
// and a summary. It continues after individual failures and waits
// req.Delay between consecutive documents. A cancelled context stops the
// batch; the remaining files are not counted.
func Batch(ctx context.Context, f Fetcher, paths []string, req Request, w io.Writer) BatchResult {
	var result BatchResult
	for i, path := range paths {
		if i > 0 && req.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(req.Delay):
			}
		}
		if ctx.Err() != nil {
			fmt.Fprintf(w, "cancelled: %d remaining\n", len(paths)-i)
			break
		}

		d, err := Document(ctx, f, path, req, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
			result.Failed++
			continue
		}
		result.Downloaded++
		result.Downloads = append(result.Downloads, d)
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d failed (total: %d)\n",
		result.Downloaded, result.Failed, result.Total())
	return result
}

func postProcess(format Format, content []byte, c *latex.Converter) ([]byte, error) {
	switch format.Name {
	case "txt":
		return bytes.TrimPrefix(content, utf8BOM), nil
	case "tex":
		if c == nil {
			return latex.ConvertHTML(content)
		}
		return c.Convert(content)
	}
	return content, nil
}

// writeFile writes content to destPath through a temporary file in the same
// directory, so a failed write never leaves a partial file behind.
func writeFile(destPath string, content []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".gdoc-down-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
