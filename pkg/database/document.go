package database

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Document is a named JSON object. Top-level values are kept raw so keys the code does
// not know about survive a load/save round trip untouched.
type Document map[string]json.RawMessage

// NewDocument encodes every top-level value of shape.
func NewDocument(shape map[string]any) (Document, error) {
	doc := make(Document, len(shape))
	for k, v := range shape {
		if err := doc.Encode(k, v); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// MustDocument is NewDocument for static default shapes.
func MustDocument(shape map[string]any) Document {
	doc, err := NewDocument(shape)
	if err != nil {
		panic(err)
	}
	return doc
}

// Has reports whether key is present at the top level.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Decode unmarshals the value stored under key into v. A missing key leaves v untouched.
func (d Document) Decode(key string, v any) error {
	raw, ok := d[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	return nil
}

// Encode replaces the value stored under key.
func (d Document) Encode(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	d[key] = raw
	return nil
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// backfill inserts every key of defaults missing from d and reports whether it did.
func (d Document) backfill(defaults Document) bool {
	changed := false
	for k, v := range defaults {
		if _, ok := d[k]; !ok {
			d[k] = append(json.RawMessage(nil), v...)
			changed = true
		}
	}
	return changed
}

// marshal renders the document the way it is stored on disk.
func (d Document) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]json.RawMessage(d), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// parseDocument decodes stored bytes. Anything that is not a JSON object is corrupt.
func parseDocument(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorruptDocument)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not an object", ErrCorruptDocument)
	}
	return doc, nil
}
