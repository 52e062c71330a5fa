// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripNoise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "head block",
			input: `<html><head><meta charset="utf-8"><title>t</title></head><body>a</body></html>`,
			want:  `<html><body>a</body></html>`,
		},
		{
			name:  "head spanning lines",
			input: "<html><head>\n<title>t</title>\n</head><body>a</body></html>",
			want:  `<html><body>a</body></html>`,
		},
		{
			name:  "head match is greedy",
			input: `<head>a</head><p>kept?</p><head>b</head><p>x</p>`,
			want:  `<p>x</p>`,
		},
		{
			name:  "style attributes",
			input: `<p class="c1" style="margin:0;color:#000"><span style="">a</span></p>`,
			want:  `<p class="c1"><span>a</span></p>`,
		},
		{
			name:  "page break marker",
			input: `<p>a</p><hr style="page-break-before:always;display:none;"><p>b</p>`,
			want:  `<p>a</p><p>b</p>`,
		},
		{
			name:  "ordinary rule keeps its tag",
			input: `<p>a</p><hr style="border:0"><p>b</p>`,
			want:  `<p>a</p><hr><p>b</p>`,
		},
		{
			name:  "line breaks",
			input: `<p>a<br>b<br/>c</p>`,
			want:  "<p>a\nb<br/>c</p>",
		},
		{
			name:  "images",
			input: `<p>a<img alt="" src="images/image1.png">b<IMG SRC="x.png">c</p>`,
			want:  `<p>abc</p>`,
		},
		{
			name:  "styled image",
			input: `<span><img src="a.png" style="width: 10px; height: 5px"></span>`,
			want:  `<span></span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripNoise(tt.input))
		})
	}
}

func TestHTMLNormalizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "named entities decoded",
			input: `<p>caf&eacute; &amp; &lt;tag&gt;&nbsp;x&rsquo;</p>`,
			want:  "<p>caf\u00e9 &amp; &lt;tag&gt;\u00a0x\u2019</p>",
		},
		{
			name:  "void elements self-closed",
			input: `<meta content="text/html; charset=UTF-8" http-equiv="content-type"><p>a<hr>b</p>`,
			want:  `<meta content="text/html; charset=UTF-8" http-equiv="content-type"/><p>a<hr/>b</p>`,
		},
		{
			name:  "unclosed elements closed at end",
			input: `<body><p>one<p>two`,
			want:  `<body><p>one<p>two</p></p></body>`,
		},
		{
			name:  "end tag closes inner elements",
			input: `<body><p><span>a</body>`,
			want:  `<body><p><span>a</span></p></body>`,
		},
		{
			name:  "stray end tag dropped",
			input: `<p>a</span></p></br>`,
			want:  `<p>a</p>`,
		},
		{
			name:  "comments and doctype dropped",
			input: `<!DOCTYPE html><!-- generated --><p>a</p>`,
			want:  `<p>a</p>`,
		},
		{
			name:  "attribute values re-escaped",
			input: `<a href="?a=1&amp;b=2" title='say "hi"'>x</a>`,
			want:  `<a href="?a=1&amp;b=2" title="say &quot;hi&quot;">x</a>`,
		},
		{
			name:  "tag and attribute names lowercased",
			input: `<P CLASS="c1">a</P>`,
			want:  `<p class="c1">a</p>`,
		},
		{
			name:  "duplicate attributes keep the first",
			input: `<p id="a" id="b">x</p>`,
			want:  `<p id="a">x</p>`,
		},
		{
			name:  "self-closing syntax kept",
			input: `<body><p/><br/></body>`,
			want:  `<body><p/><br/></body>`,
		},
		{
			name:  "whitespace kept in place",
			input: "<body>\n  <p>a</p>\n</body>",
			want:  "<body>\n  <p>a</p>\n</body>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTMLNormalizer{}.Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_ProducesParseableMarkup(t *testing.T) {
	raw := `<html><head><style>.c1{}</style></head><body class="c5" style="x"><p>Fish &amp; chips&nbsp;<br>menu<p>unclosed<img src="a.png"></body></html>`

	out, err := Sanitize(raw)
	require.NoError(t, err)

	root, err := ParseTree(out)
	require.NoError(t, err)
	assert.Equal(t, "html", root.Tag)

	text, err := BodyText(root)
	require.NoError(t, err)
	assert.Equal(t, "Fish & chips\u00a0\nmenuunclosed\n\n", text)
}

func TestSanitize_PageBreakMarker(t *testing.T) {
	out, err := Sanitize(`<body><p>a</p>` + PageBreakMarker + `<p>b</p></body>`)
	require.NoError(t, err)
	assert.Equal(t, `<body><p>a</p><p>b</p></body>`, out)
	assert.NotContains(t, out, "<hr")

	// A rule that is not the exact marker loses its style but stays.
	out, err = Sanitize(`<body><p>a</p><hr style="page-break-before:always"><p>b</p></body>`)
	require.NoError(t, err)
	assert.Equal(t, `<body><p>a</p><hr/><p>b</p></body>`, out)
}

func TestSanitize_NoImages(t *testing.T) {
	inputs := []string{
		`<p><img src="a.png"></p>`,
		`<p><IMG SRC="a.png"/></p>`,
		"<p><img\nsrc=\"a.png\"\nalt=\"multi line\"></p>",
		`<p>text <img src="never closed"`,
		`<p><<img>>`,
		`<p>&lt;img src="escaped"&gt;</p>`,
		`<span><img style="width:1px" src="x"></span><img>`,
	}
	for _, in := range inputs {
		out, err := Sanitize(in)
		require.NoError(t, err, in)
		assert.NotContains(t, out, "<img", in)
	}
}

func TestSanitize_LineBreaksBecomeNewlines(t *testing.T) {
	inputs := []string{
		`<body><p>a<br>b</p></body>`,
		`<body><p>a<br><br><br>b</p><p><br></p></body>`,
		"<body><p>already\nhas<br>newlines\n</p></body>",
		`<body><br></body>`,
	}
	for _, in := range inputs {
		out, err := Sanitize(in)
		require.NoError(t, err, in)
		assert.GreaterOrEqual(t, strings.Count(out, "\n"), strings.Count(in, "<br>"), in)
	}
}
