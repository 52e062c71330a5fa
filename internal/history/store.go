// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite ledger of completed downloads.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gdoc-down/pkg/types"
)

const (
	dbFile            = "history.db"
	defaultMaxResults = 20

	// timeLayout is fixed width so downloaded_at sorts chronologically as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNoRecord is returned by Last when no download matches.
var ErrNoRecord = errors.New("no download recorded")

// Store manages the history database.
type Store struct {
	db         *sql.DB
	path       string
	maxResults int
}

// ListOptions filters List results. Zero values mean no filter; a zero
// Limit uses the store's default.
type ListOptions struct {
	DocID  string
	Format string
	Limit  int
}

// Open opens or creates dir/history.db with default settings.
func Open(dir string) (*Store, error) {
	return NewStore(types.HistoryConfig{Dir: dir})
}

// NewStore opens or creates the history database in cfg.Dir and creates the
// schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	path := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, path: path, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			format TEXT NOT NULL,
			mime_type TEXT,
			source_path TEXT,
			output_path TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			sha256 TEXT,
			downloaded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_doc_id ON downloads(doc_id)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_downloaded_at ON downloads(downloaded_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends a download to the ledger.
func (s *Store) Record(ctx context.Context, d types.Download) error {
	at := d.DownloadedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO downloads
			(doc_id, kind, format, mime_type, source_path, output_path, bytes, sha256, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DocID, string(d.Kind), d.Format, d.MIMEType, d.SourcePath, d.OutputPath,
		d.Bytes, d.SHA256, at.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording download of %s: %w", d.DocID, err)
	}
	return nil
}

// List returns downloads newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Download, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT doc_id, kind, format, mime_type, source_path, output_path, bytes, sha256, downloaded_at
		FROM downloads
		WHERE 1=1`)
	if opts.DocID != "" {
		qb.WriteString(` AND doc_id = ?`)
		args = append(args, opts.DocID)
	}
	if opts.Format != "" {
		qb.WriteString(` AND format = ?`)
		args = append(args, opts.Format)
	}
	qb.WriteString(` ORDER BY downloaded_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []types.Download
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Last returns the most recent download of docID in format.
func (s *Store) Last(ctx context.Context, docID, format string) (types.Download, error) {
	list, err := s.List(ctx, ListOptions{DocID: docID, Format: format, Limit: 1})
	if err != nil {
		return types.Download{}, err
	}
	if len(list) == 0 {
		return types.Download{}, fmt.Errorf("%w: %s as %s", ErrNoRecord, docID, format)
	}
	return list[0], nil
}

func scanDownload(rows *sql.Rows) (types.Download, error) {
	var (
		d                      types.Download
		kind, at               string
		mime, source, checksum sql.NullString
	)
	if err := rows.Scan(&d.DocID, &kind, &d.Format, &mime, &source, &d.OutputPath, &d.Bytes, &checksum, &at); err != nil {
		return d, fmt.Errorf("scanning row: %w", err)
	}
	d.Kind = types.Kind(kind)
	d.MIMEType = mime.String
	d.SourcePath = source.String
	d.SHA256 = checksum.String

	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return d, fmt.Errorf("parsing downloaded_at %q: %w", at, err)
	}
	d.DownloadedAt = t
	return d, nil
}
