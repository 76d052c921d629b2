// Package store persists regression reference documents. The on-disk
// artifact is a single YAML file holding the recorded values mapping and a
// metadata mapping; reads validate the decoded document against an
// embedded JSON schema before trusting its shape.
package store

import (
	"github.com/YuminosukeSato/regtest/value"
)

// Document is the full content of one reference file: the recorded entries
// in registration order plus the metadata side-channel.
type Document struct {
	Values   *value.Map
	Metadata map[string]any
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		Values:   value.NewMap(),
		Metadata: make(map[string]any),
	}
}

// Store is the persistence backend contract. Write replaces any existing
// artifact at path; Read fails with ReferenceNotFoundError when path does
// not exist and CorruptReferenceError when the artifact does not parse
// into a valid document. Only the orchestrating rank may call either.
type Store interface {
	Write(path string, doc *Document) error
	Read(path string) (*Document, error)
}
