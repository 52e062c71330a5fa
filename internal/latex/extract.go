// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"fmt"
	"strings"
)

// paragraphSep follows every top-level body block in the output.
const paragraphSep = "\n\n"

// ElementText returns e's own text followed by the text of each child,
// depth first, with nothing inserted between the parts.
func ElementText(e *Element) string {
	var b strings.Builder
	writeText(&b, e)
	return b.String()
}

func writeText(b *strings.Builder, e *Element) {
	b.WriteString(e.Text)
	for _, c := range e.Children {
		writeText(b, c)
	}
}

// BodyText extracts the text of each direct child of the document body and
// terminates each block with a blank line. The body is root itself when
// root is a body element, otherwise root's first body child.
func BodyText(root *Element) (string, error) {
	body := root
	if root.Tag != "body" {
		body = root.Child("body")
	}
	if body == nil {
		return "", fmt.Errorf("%w: document has no body", ErrStructure)
	}

	var b strings.Builder
	for _, c := range body.Children {
		writeText(&b, c)
		b.WriteString(paragraphSep)
	}
	return b.String(), nil
}
