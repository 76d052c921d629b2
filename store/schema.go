package store

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed refdoc.schema.json
var schemaData []byte

var (
	docSchema   *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchema compiles the embedded document schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal reference schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("refdoc.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add reference schema resource: %w", err)
			return
		}

		docSchema, compileErr = compiler.Compile("refdoc.schema.json")
	})

	return compileErr
}

// validateDocument checks the raw YAML bytes against the document schema.
func validateDocument(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	if err := docSchema.Validate(normalize(v)); err != nil {
		return fmt.Errorf("reference validation failed: %w", err)
	}

	return nil
}

// normalize converts a YAML-decoded tree into the JSON-shaped types the
// schema validator expects: string-keyed maps and float64 numbers.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			out[k] = normalize(elem)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			out[fmt.Sprint(k)] = normalize(elem)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = normalize(elem)
		}
		return out
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
