package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/regtest/pkg/errors"
	"github.com/YuminosukeSato/regtest/value"
)

func referenceDocument(t *testing.T) *Document {
	t.Helper()

	doc := NewDocument()
	doc.Values.Set("scalar", value.Scalar(1.0))

	simple, err := value.FromAny("simple dictionary", map[string]any{"a": 1.0})
	if err != nil {
		t.Fatal(err)
	}
	doc.Values.Set("simple dictionary", simple)

	nested, err := value.FromAny("nested dictionary", map[string]any{"a": map[string]any{"b": 1.0, "c": 2.0}})
	if err != nil {
		t.Fatal(err)
	}
	doc.Values.Set("nested dictionary", nested)

	doc.Values.Set("par val", value.Vector([]float64{0.5, 1.5}))
	doc.Metadata["version"] = "1.2.3"
	return doc
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_root.ref")
	st := NewFileStore()

	doc := referenceDocument(t)
	if err := st.Write(path, doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	back, err := st.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if !value.FromMap(back.Values).Equal(value.FromMap(doc.Values)) {
		t.Error("read-back values differ from written values")
	}
	if back.Metadata["version"] != "1.2.3" {
		t.Errorf("metadata version = %v, want 1.2.3", back.Metadata["version"])
	}

	// Registration order must survive the round trip.
	wantKeys := []string{"scalar", "simple dictionary", "nested dictionary", "par val"}
	gotKeys := back.Values.Keys()
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("key order[%d] = %q, want %q", i, gotKeys[i], wantKeys[i])
		}
	}
}

func TestFileStoreWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_root.ref")
	st := NewFileStore()

	first := NewDocument()
	first.Values.Set("scalar", value.Scalar(1.0))
	first.Values.Set("stale", value.Scalar(9.0))
	if err := st.Write(path, first); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	second := NewDocument()
	second.Values.Set("scalar", value.Scalar(2.0))
	if err := st.Write(path, second); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	back, err := st.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if _, ok := back.Values.Get("stale"); ok {
		t.Error("rewrite should drop entries from the previous document")
	}
	if v, _ := back.Values.Get("scalar"); v.AsScalar() != 2.0 {
		t.Errorf("scalar = %v, want 2.0", v.AsScalar())
	}
}

func TestFileStoreHumanReadableOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_root.ref")
	st := NewFileStore()

	if err := st.Write(path, referenceDocument(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	for _, want := range []string{"values:", "scalar: 1.0", "nested dictionary:", "metadata:"} {
		if !strings.Contains(text, want) {
			t.Errorf("artifact should contain %q, got:\n%s", want, text)
		}
	}
}

func TestFileStoreReadMissing(t *testing.T) {
	st := NewFileStore()

	_, err := st.Read(filepath.Join(t.TempDir(), "does_not_exist.ref"))
	var nfErr *errors.ReferenceNotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error should be castable to *ReferenceNotFoundError, got %v", err)
	}
}

func TestFileStoreReadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not YAML at all",
			content: "values: [unclosed\n",
		},
		{
			name:    "missing values mapping",
			content: "metadata:\n  version: \"1.2.3\"\n",
		},
		{
			name:    "string leaf in values",
			content: "values:\n  scalar: not-a-number\n",
		},
		{
			name:    "values is a sequence",
			content: "values:\n  - 1.0\n",
		},
	}

	st := NewFileStore()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.ref")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := st.Read(path)
			var corErr *errors.CorruptReferenceError
			if !errors.As(err, &corErr) {
				t.Fatalf("error should be castable to *CorruptReferenceError, got %v", err)
			}
		})
	}
}

func TestFileStoreFullPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "precision.ref")
	st := NewFileStore()

	awkward := []float64{0.1 + 0.2, 1.0 / 3.0, 1e-300, 123456789.123456789}
	doc := NewDocument()
	doc.Values.Set("awkward", value.Vector(awkward))
	if err := st.Write(path, doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	back, err := st.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	v, _ := back.Values.Get("awkward")
	got := v.AsVector()
	for i := range awkward {
		if got[i] != awkward[i] {
			t.Errorf("element %d = %v, want bit-identical %v", i, got[i], awkward[i])
		}
	}
}
