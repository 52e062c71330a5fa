// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docref reads the small JSON reference files that Google Drive for
// desktop leaves on disk in place of native documents (.gdoc, .gsheet,
// .gslides) and resolves them to a Drive file id and document kind.
package docref

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/gdoc-down/pkg/types"
)

var (
	ErrUnknownKind      = errors.New("unrecognized reference file extension")
	ErrInvalidReference = errors.New("invalid reference file")
)

// extensions maps reference file extensions to document kinds.
var extensions = map[string]types.Kind{
	".gdoc":    types.KindDocument,
	".gsheet":  types.KindSpreadsheet,
	".gslides": types.KindPresentation,
}

// urlIDPattern extracts the id from URLs like
// "https://docs.google.com/document/d/<id>/edit".
var urlIDPattern = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)

// Reference is a resolved reference file.
type Reference struct {
	Path string
	ID   string
	Kind types.Kind
	// Name is the file name without its extension.
	Name string
}

type refFile struct {
	DocID      string `json:"doc_id"`
	ResourceID string `json:"resource_id"`
	URL        string `json:"url"`
}

// KindOf returns the document kind for a reference file path.
func KindOf(path string) (types.Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (want .gdoc, .gsheet, or .gslides)", ErrUnknownKind, ext)
	}
	return kind, nil
}

// Resolve reads the reference file at path. The id comes from doc_id, then
// from the part of resource_id after the colon ("document:<id>"), then from
// the /d/<id> segment of url.
func Resolve(path string) (Reference, error) {
	kind, err := KindOf(path)
	if err != nil {
		return Reference{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Reference{}, fmt.Errorf("reading reference %s: %w", path, err)
	}

	var rf refFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return Reference{}, fmt.Errorf("%w: %s: %w", ErrInvalidReference, path, err)
	}

	id := idOf(rf)
	if id == "" {
		return Reference{}, fmt.Errorf("%w: %s: no document id", ErrInvalidReference, path)
	}

	base := filepath.Base(path)
	return Reference{
		Path: path,
		ID:   id,
		Kind: kind,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}, nil
}

func idOf(rf refFile) string {
	if id := strings.TrimSpace(rf.DocID); id != "" {
		return id
	}
	if _, id, ok := strings.Cut(rf.ResourceID, ":"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if m := urlIDPattern.FindStringSubmatch(rf.URL); m != nil {
		return m[1]
	}
	return ""
}
