package database

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// DataManager is a typed view over one document. T describes the top-level keys the
// code cares about; keys T does not declare are carried through untouched.
//
// Top-level fields of T must not use omitempty, otherwise clearing a field would leave
// the previously stored value in place.
type DataManager[T any] struct {
	store *Store
	name  string
}

// NewDataManager registers defaults for name (when non-nil) and returns a view over it.
func NewDataManager[T any](store *Store, name string, defaults *T) (*DataManager[T], error) {
	if defaults != nil {
		doc := make(Document)
		if err := encodeOnto(doc, defaults); err != nil {
			return nil, fmt.Errorf("encoding defaults for %s: %w", name, err)
		}
		store.Register(name, doc)
	}
	store.RequireShape(name, func(doc Document) error {
		_, err := decodeInto[T](name, doc)
		return err
	})
	return &DataManager[T]{store: store, name: name}, nil
}

// Name returns the document name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// Get returns a snapshot of the document. Changes to it are not persisted.
func (dm *DataManager[T]) Get(ctx context.Context) (*T, error) {
	var out *T
	err := dm.store.View(ctx, dm.name, func(doc Document) error {
		v, err := decodeInto[T](dm.name, doc)
		if err != nil {
			return &PersistenceError{Op: "decode", Document: dm.name, Err: err}
		}
		out = v
		return nil
	})
	return out, err
}

// Update applies fn to the decoded document and persists the result in the same
// locked read-modify-write. Returning an error from fn discards the change.
func (dm *DataManager[T]) Update(ctx context.Context, fn func(*T) error) error {
	return dm.store.Update(ctx, dm.name, func(doc Document) error {
		v, err := decodeInto[T](dm.name, doc)
		if err != nil {
			return &PersistenceError{Op: "decode", Document: dm.name, Err: err}
		}
		if err := fn(v); err != nil {
			return err
		}
		return encodeOnto(doc, v)
	})
}

func decodeInto[T any](name string, doc Document) (*T, error) {
	data, err := json.Marshal(map[string]json.RawMessage(doc))
	if err != nil {
		return nil, fmt.Errorf("re-encoding %s: %w", name, err)
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return v, nil
}

func encodeOnto(doc Document, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for k, raw := range fields {
		doc[k] = raw
	}
	return nil
}
