// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exportedDoc mirrors the shape of an HTML export: a head with styles,
// inline style attributes, an image, a page break, entities, a line break,
// and one comment.
const exportedDoc = `<html><head><meta content="text/html; charset=UTF-8" http-equiv="content-type"><style type="text/css">.c1{color:#000}</style></head>` +
	`<body class="c5" style="background-color:#ffffff;max-width:468pt">` +
	`<p class="c1" style="margin:0"><span>gdoc_down example file</span></p>` +
	`<hr style="page-break-before:always;display:none;">` +
	`<p class="c1"><span>Caf&eacute; &amp; cr&egrave;me<br>second line</span>` +
	`<span style="overflow: hidden"><img alt="" src="images/image1.png" style="width: 10px"></span>` +
	`<sup><a href="#cmnt1" id="cmnt_ref1">[a]</a></sup></p>` +
	`<div style="border:1px solid black"><p class="c3"><a href="#cmnt_ref1" id="cmnt1">[a]</a><span class="c2">note &ldquo;text&rdquo;</span></p></div>` +
	`</body></html>`

const exportedTeX = "gdoc_down example file\n\n" +
	"Café & crème\nsecond line\\pdfcomment{note “text”}\n\n"

func TestConvertHTML(t *testing.T) {
	got, err := ConvertHTML([]byte(exportedDoc))
	require.NoError(t, err)
	assert.Equal(t, exportedTeX, string(got))
}

func TestConvertHTML_NoComments(t *testing.T) {
	doc := `<html><head><title>x</title></head><body><p><span>Hello</span></p><p><span>World</span></p></body></html>`

	got, err := ConvertHTML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Hello\n\nWorld\n\n", string(got))
	assert.NotContains(t, string(got), `\pdfcomment{`)
}

func TestConvertHTML_CommentCount(t *testing.T) {
	for k := 0; k <= 4; k++ {
		t.Run(fmt.Sprintf("%d comments", k), func(t *testing.T) {
			got, err := ConvertHTML([]byte(commentedDoc(k)))
			require.NoError(t, err)
			assert.Equal(t, k, strings.Count(string(got), `\pdfcomment{`))
		})
	}
}

func TestConvertHTML_SingleCommentFootnoteRemoved(t *testing.T) {
	doc := `<html><body><p><span>Body</span>` + reference(1) + `</p>` + footnote(1, "note text") + `</body></html>`

	got, err := ConvertHTML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Body\\pdfcomment{note text}\n\n", string(got))
}

func TestConvertHTML_BOM(t *testing.T) {
	got, err := ConvertHTML(append([]byte("\xef\xbb\xbf"), `<body><p>x</p></body>`...))
	require.NoError(t, err)
	assert.Equal(t, "x\n\n", string(got))
}

func TestConvertHTML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"several top-level elements", []byte(`<p>a</p><p>b</p>`), ErrParse},
		{"text outside the document", []byte(`preamble <html><body></body></html>`), ErrParse},
		{"invalid utf-8", []byte("<body><p>\xff\xfe</p></body>"), ErrParse},
		{"no body", []byte(`<html><div>x</div></html>`), ErrStructure},
		{"orphan comment", []byte(`<html><body><p>a</p>` + footnote(1, "x") + `</body></html>`), ErrStructure},
		{"empty input", nil, ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertHTML(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

// identityNormalizer passes markup through unchanged so malformed input
// reaches the strict parser.
type identityNormalizer struct{}

func (identityNormalizer) Normalize(markup string) (string, error) { return markup, nil }

type failingNormalizer struct{}

func (failingNormalizer) Normalize(string) (string, error) {
	return "", fmt.Errorf("read failure")
}

func TestConverter_WithNormalizer(t *testing.T) {
	c := NewConverter(WithNormalizer(identityNormalizer{}))

	_, err := c.Convert([]byte(`<body><p>unbalanced</body>`))
	assert.ErrorIs(t, err, ErrParse)

	got, err := c.Convert([]byte(`<body><p>fine</p></body>`))
	require.NoError(t, err)
	assert.Equal(t, "fine\n\n", string(got))

	_, err = NewConverter(WithNormalizer(failingNormalizer{})).Convert([]byte(`<body/>`))
	assert.ErrorIs(t, err, ErrParse)
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestConvertHTML_Archive(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr error
	}{
		{
			name:  "single html member",
			files: map[string]string{"Example.html": exportedDoc},
			want:  exportedTeX,
		},
		{
			name: "html member among images",
			files: map[string]string{
				"images/image1.png": "\x89PNG",
				"Example.HTML":      exportedDoc,
				"images/":           "",
			},
			want: exportedTeX,
		},
		{
			name:  "htm extension",
			files: map[string]string{"doc.htm": `<body><p>x</p></body>`},
			want:  "x\n\n",
		},
		{
			name:    "no html member",
			files:   map[string]string{"images/image1.png": "\x89PNG"},
			wantErr: ErrArchive,
		},
		{
			name: "two html members",
			files: map[string]string{
				"a.html": `<body/>`,
				"b.html": `<body/>`,
			},
			wantErr: ErrArchive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertHTML(zipOf(t, tt.files))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestConvertHTML_CorruptArchive(t *testing.T) {
	_, err := ConvertHTML([]byte("PK\x03\x04 truncated"))
	assert.ErrorIs(t, err, ErrArchive)
}

func TestConvertHTML_ArchiveMemberTooLarge(t *testing.T) {
	old := MaxArchiveMemberBytes
	MaxArchiveMemberBytes = 64
	defer func() { MaxArchiveMemberBytes = old }()

	member := `<body><p>` + strings.Repeat("a", 200) + `</p></body>`
	_, err := ConvertHTML(zipOf(t, map[string]string{"big.html": member}))
	assert.ErrorIs(t, err, ErrArchive)
	assert.Contains(t, err.Error(), "larger than 64 bytes")

	small := `<body><p>ok</p></body>`
	got, err := ConvertHTML(zipOf(t, map[string]string{"small.html": small}))
	require.NoError(t, err)
	assert.Equal(t, "ok\n\n", string(got))
}

func TestConvertHTML_LaTeXSpecialsPassThrough(t *testing.T) {
	got, err := ConvertHTML([]byte(`<body><p>50% of $x_1$ &amp; #3 {y}</p></body>`))
	require.NoError(t, err)
	assert.Equal(t, "50% of $x_1$ & #3 {y}\n\n", string(got))
}
