// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docref

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gdoc-down/pkg/types"
)

func writeRef(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantID   string
		wantKind types.Kind
		wantName string
	}{
		{
			name:     "doc_id",
			file:     "example.gdoc",
			content:  `{"url": "https://docs.google.com/open?id=1mgPojZVReTAMBIVvt6LSQ59AGTsxx2-myLR9oIYIJ2s", "doc_id": "1mgPojZVReTAMBIVvt6LSQ59AGTsxx2-myLR9oIYIJ2s", "email": "user@example.com"}`,
			wantID:   "1mgPojZVReTAMBIVvt6LSQ59AGTsxx2-myLR9oIYIJ2s",
			wantKind: types.KindDocument,
			wantName: "example",
		},
		{
			name:     "resource_id fallback",
			file:     "Budget 2026.gsheet",
			content:  `{"resource_id": "spreadsheet:1AbC_dEf-123"}`,
			wantID:   "1AbC_dEf-123",
			wantKind: types.KindSpreadsheet,
			wantName: "Budget 2026",
		},
		{
			name:     "url fallback",
			file:     "deck.GSLIDES",
			content:  `{"url": "https://docs.google.com/presentation/d/1XyZ-987/edit"}`,
			wantID:   "1XyZ-987",
			wantKind: types.KindPresentation,
			wantName: "deck",
		},
		{
			name:     "doc_id wins over others",
			file:     "a.gdoc",
			content:  `{"doc_id": " first ", "resource_id": "document:second", "url": "https://x/d/third/edit"}`,
			wantID:   "first",
			wantKind: types.KindDocument,
			wantName: "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRef(t, tt.file, tt.content)

			ref, err := Resolve(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.wantKind, ref.Kind)
			assert.Equal(t, tt.wantName, ref.Name)
			assert.Equal(t, path, ref.Path)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"unknown extension", "notes.txt", `{"doc_id": "x"}`, ErrUnknownKind},
		{"no extension", "README", `{"doc_id": "x"}`, ErrUnknownKind},
		{"not json", "bad.gdoc", `doc_id=x`, ErrInvalidReference},
		{"no id", "empty.gdoc", `{"email": "user@example.com"}`, ErrInvalidReference},
		{"resource_id without id", "r.gdoc", `{"resource_id": "document:"}`, ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeRef(t, tt.file, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "gone.gdoc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKindOf(t *testing.T) {
	kind, err := KindOf("/some/dir/file.gdoc")
	require.NoError(t, err)
	assert.Equal(t, types.KindDocument, kind)

	_, err = KindOf("file.docx")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
