package store

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/regtest/pkg/errors"
	"github.com/YuminosukeSato/regtest/value"
)

// FileStore reads and writes reference documents as YAML files.
type FileStore struct{}

// NewFileStore creates a YAML-backed reference store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// fileDoc is the serialized document layout. value.Value carries its own
// order-preserving YAML (un)marshaling.
type fileDoc struct {
	Values   value.Value    `yaml:"values"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// Write serializes the document to path, replacing any existing file. The
// content lands in a temp file first and is moved into place with a rename
// so a crash mid-write cannot leave a truncated reference behind.
func (s *FileStore) Write(path string, doc *Document) error {
	out := fileDoc{Values: value.FromMap(doc.Values)}
	if len(doc.Metadata) > 0 {
		out.Metadata = doc.Metadata
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return errors.Wrapf(err, "regtest: serializing reference %q", path)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "regtest: creating temp file in %q", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "regtest: writing reference %q", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "regtest: closing reference %q", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "regtest: replacing reference %q", path)
	}
	return nil
}

// Read deserializes the document at path. The raw document is first
// decoded generically and checked against the embedded schema, then
// rebuilt into the ordered value variant.
func (s *FileStore) Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewReferenceNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "regtest: reading reference %q", path)
	}

	if err := validateDocument(data); err != nil {
		return nil, errors.NewCorruptReferenceError(path, err)
	}

	var in fileDoc
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, errors.NewCorruptReferenceError(path, err)
	}
	if in.Values.Kind() != value.KindMap {
		return nil, errors.NewCorruptReferenceError(path, errors.New("values is not a mapping"))
	}

	doc := &Document{Values: in.Values.AsMap(), Metadata: in.Metadata}
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	return doc, nil
}
