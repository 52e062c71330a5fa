// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of a parsed markup document. Text holds the character
// data that appears before the first child element; character data that
// follows a child is not kept.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element

	parent *Element
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the element's id attribute, or "" if it has none.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Parent returns the element's parent, or nil for the root and for
// elements that have been removed from the tree.
func (e *Element) Parent() *Element {
	return e.parent
}

// AppendChild adds child as the last child of e.
func (e *Element) AppendChild(child *Element) {
	child.parent = e
	e.Children = append(e.Children, child)
}

// RemoveChild detaches child from e. It reports whether child was found.
func (e *Element) RemoveChild(child *Element) bool {
	for i, c := range e.Children {
		if c != child {
			continue
		}
		kept := make([]*Element, 0, len(e.Children)-1)
		kept = append(kept, e.Children[:i]...)
		kept = append(kept, e.Children[i+1:]...)
		e.Children = kept
		child.parent = nil
		return true
	}
	return false
}

// FindID returns the first descendant of e, in document order, whose id
// attribute equals id. The element itself is not considered.
func (e *Element) FindID(id string) *Element {
	for _, c := range e.Children {
		if c.ID() == id {
			return c
		}
		if found := c.FindID(id); found != nil {
			return found
		}
	}
	return nil
}

// Child returns the first direct child with the given tag.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ParseTree parses well-formed XML markup into an Element tree. Comments,
// processing instructions, and directives are skipped. Any syntax error,
// a missing root, more than one root, or text outside the root element
// fails with ErrParse.
func ParseTree(markup string) (*Element, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: tok.Name.Local, Attrs: attrsOf(tok.Attr)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: line %d: more than one root element", ErrParse, lineOf(dec))
				}
				root = el
			} else {
				stack[len(stack)-1].AppendChild(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(tok)) != "" {
					return nil, fmt.Errorf("%w: line %d: text outside the root element", ErrParse, lineOf(dec))
				}
				continue
			}
			top := stack[len(stack)-1]
			if len(top.Children) == 0 {
				top.Text += string(tok)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrParse, stack[len(stack)-1].Tag)
	}
	return root, nil
}

func attrsOf(xattrs []xml.Attr) []Attr {
	if len(xattrs) == 0 {
		return nil
	}
	attrs := make([]Attr, 0, len(xattrs))
	for _, a := range xattrs {
		name := a.Name.Local
		if a.Name.Space == "xmlns" {
			name = "xmlns:" + name
		}
		attrs = append(attrs, Attr{Name: name, Value: a.Value})
	}
	return attrs
}

func lineOf(dec *xml.Decoder) int {
	line, _ := dec.InputPos()
	return line
}
