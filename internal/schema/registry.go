// =============================================================================
// Vendor Normalizer - Schema Registry
// =============================================================================
//
// This package holds the fixed set of required target fields that every
// vendor file is normalized onto. The registry is built once at startup and
// is read-only afterwards; its order is the output column order.
//
// DEFAULT SCHEMA:
//   sku          SKU/Product ID
//   product_name Product Name
//   unit_price   Unit Price
//   date         Date
//
// A different registry can be loaded from an XLSX template (see template.go).
//
// =============================================================================

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a single required target field. Its identity is Key.
type Field struct {
	// Key is the field name used in normalized output.
	Key string `yaml:"key" json:"key"`

	// Label is the human readable name shown to users.
	Label string `yaml:"label" json:"label"`
}

// String returns "Label (key)".
func (f Field) String() string {
	if f.Label == "" {
		return f.Key
	}
	return fmt.Sprintf("%s (%s)", f.Label, f.Key)
}

// DefaultFields is the standard product schema.
var DefaultFields = []Field{
	{Key: "sku", Label: "SKU/Product ID"},
	{Key: "product_name", Label: "Product Name"},
	{Key: "unit_price", Label: "Unit Price"},
	{Key: "date", Label: "Date"},
}

// ErrEmptySchema is returned when a registry would contain no fields.
var ErrEmptySchema = errors.New("schema has no fields")

// Registry is an ordered, immutable list of required fields.
type Registry struct {
	fields []Field
	index  map[string]int
}

// Default returns a registry holding DefaultFields.
func Default() *Registry {
	r, err := New(DefaultFields)
	if err != nil {
		panic(err)
	}
	return r
}

// New builds a registry from fields. Keys must be non-empty and unique;
// surrounding whitespace is trimmed. The input slice is copied.
func New(fields []Field) (*Registry, error) {
	if len(fields) == 0 {
		return nil, ErrEmptySchema
	}

	r := &Registry{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		f.Key = strings.TrimSpace(f.Key)
		f.Label = strings.TrimSpace(f.Label)
		if f.Key == "" {
			return nil, fmt.Errorf("field %d: empty key", i+1)
		}
		if _, dup := r.index[f.Key]; dup {
			return nil, fmt.Errorf("field %d: duplicate key %q", i+1, f.Key)
		}
		if f.Label == "" {
			f.Label = f.Key
		}
		r.index[f.Key] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r, nil
}

// Fields returns a copy of the fields in order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Keys returns the field keys in order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (r *Registry) Len() int {
	return len(r.fields)
}

// Has reports whether key is a required field.
func (r *Registry) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Field returns the field with the given key.
func (r *Registry) Field(key string) (Field, bool) {
	i, ok := r.index[key]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// Label returns the label of key, or false if key is not registered.
func (r *Registry) Label(key string) (string, bool) {
	f, ok := r.Field(key)
	return f.Label, ok
}
