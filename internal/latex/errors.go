// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion failures.
var (
	ErrParse     = errors.New("markup is not well-formed")
	ErrStructure = errors.New("unexpected document structure")
	ErrArchive   = errors.New("archive does not contain exactly one HTML document")
)

// StructureError reports a comment whose anchor, reference, or ancestors
// are missing from the document tree.
type StructureError struct {
	Comment int    // comment number N
	Missing string // the element or relationship that was not found
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%v: comment %d: %s not found", ErrStructure, e.Comment, e.Missing)
}

func (e *StructureError) Unwrap() error { return ErrStructure }
