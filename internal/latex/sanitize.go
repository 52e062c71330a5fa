// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// PageBreakMarker is the element exported documents use for forced page
// breaks.
const PageBreakMarker = `<hr style="page-break-before:always;display:none;">`

var (
	headPattern  = regexp.MustCompile(`(?s)<head>.*</head>`)
	stylePattern = regexp.MustCompile(` style="[^"]*"`)
	imgPattern   = regexp.MustCompile(`(?is)<img.*?>`)

	// xmlNamePattern matches attribute names that are also valid XML names.
	xmlNamePattern = regexp.MustCompile(`^[A-Za-z_:][-A-Za-z0-9_:.]*$`)
)

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Normalizer rewrites lenient HTML into well-formed XML.
type Normalizer interface {
	Normalize(markup string) (string, error)
}

// StripNoise removes the head block, the page-break marker, inline style
// attributes, and images, and turns <br> into newlines. The page-break
// marker is matched before style attributes are removed because stripping
// the style leaves a bare <hr> that no longer matches the marker.
func StripNoise(markup string) string {
	markup = headPattern.ReplaceAllString(markup, "")
	markup = strings.ReplaceAll(markup, PageBreakMarker, "")
	markup = stylePattern.ReplaceAllString(markup, "")
	markup = strings.ReplaceAll(markup, "<br>", "\n")
	markup = imgPattern.ReplaceAllString(markup, "")
	return markup
}

// Sanitize strips noise from raw exported HTML and normalizes the result
// into well-formed XML using the default HTMLNormalizer.
func Sanitize(markup string) (string, error) {
	return HTMLNormalizer{}.Normalize(StripNoise(markup))
}

// HTMLNormalizer tokenizes HTML with golang.org/x/net/html and re-emits it
// as XML. Character references are decoded and re-escaped, void elements
// are self-closed, end tags without a matching open element are dropped,
// and elements still open at the end of input are closed. Text is kept
// exactly where it appears; no elements are inserted. Comments, doctype
// declarations, and images are dropped.
type HTMLNormalizer struct{}

// Normalize implements Normalizer.
func (HTMLNormalizer) Normalize(markup string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(markup))

	var (
		b    strings.Builder
		open []string
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("tokenizing markup: %w", err)
			}
			for i := len(open) - 1; i >= 0; i-- {
				writeEndTag(&b, open[i])
			}
			return b.String(), nil

		case html.TextToken:
			b.WriteString(escapeText(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data == "img" {
				continue
			}
			selfClosing := tt == html.SelfClosingTagToken || voidElements[tok.Data]
			writeStartTag(&b, tok, selfClosing)
			if !selfClosing {
				open = append(open, tok.Data)
			}

		case html.EndTagToken:
			tok := z.Token()
			idx := lastIndex(open, tok.Data)
			if idx < 0 {
				continue
			}
			for j := len(open) - 1; j >= idx; j-- {
				writeEndTag(&b, open[j])
			}
			open = open[:idx]
		}
	}
}

func writeStartTag(b *strings.Builder, tok html.Token, selfClosing bool) {
	b.WriteByte('<')
	b.WriteString(tok.Data)
	seen := make(map[string]bool, len(tok.Attr))
	for _, a := range tok.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		if seen[name] || !xmlNamePattern.MatchString(name) {
			continue
		}
		seen[name] = true
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Val))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
}

func writeEndTag(b *strings.Builder, tag string) {
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func lastIndex(s []string, v string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			return i
		}
	}
	return -1
}
