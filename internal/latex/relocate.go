// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import "fmt"

// Element ids used by exported documents for comment footnotes.
const (
	anchorIDFormat    = "cmnt%d"
	referenceIDFormat = "cmnt_ref%d"
)

// Comment renders text as an inline PDF annotation command.
func Comment(text string) string {
	return `\pdfcomment{` + text + `}`
}

// RelocateComments moves every footnote comment to the point in the body
// where it was attached. Comments are visited as cmnt1, cmnt2, ... and the
// scan stops at the first number with no anchor. For each comment the anchor
// marker is dropped, the reference marker is replaced by a \pdfcomment
// command holding the text of the anchor's parent, and the footnote item
// (the anchor's grandparent) is deleted.
//
// The tree is modified in place and is not restored on error. It returns the
// number of comments relocated.
func RelocateComments(root *Element) (int, error) {
	n := 0
	for {
		id := n + 1
		anchor := root.FindID(fmt.Sprintf(anchorIDFormat, id))
		if anchor == nil {
			return n, nil
		}

		text := anchor.Parent()
		if text == nil {
			return n, &StructureError{Comment: id, Missing: "anchor parent"}
		}
		item := text.Parent()
		if item == nil {
			return n, &StructureError{Comment: id, Missing: "footnote item"}
		}
		container := item.Parent()
		if container == nil {
			return n, &StructureError{Comment: id, Missing: "footnote container"}
		}

		ref := root.FindID(fmt.Sprintf(referenceIDFormat, id))
		if ref == nil {
			return n, &StructureError{Comment: id, Missing: fmt.Sprintf("reference %q", fmt.Sprintf(referenceIDFormat, id))}
		}
		refParent := ref.Parent()
		if refParent == nil {
			return n, &StructureError{Comment: id, Missing: "reference parent"}
		}

		text.RemoveChild(anchor)
		refParent.RemoveChild(ref)
		refParent.Text = Comment(ElementText(text))
		container.RemoveChild(item)

		n = id
	}
}
