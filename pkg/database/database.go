// Package database provides the document store every ledger persists through.
// Documents are whole JSON objects read and replaced in one piece, with at most one
// read-modify-write in flight per document name.
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

// Store serializes access to named documents and applies their default shapes.
type Store struct {
	backend  Backend
	mu       sync.Mutex
	defaults map[string]Document
	shapes   map[string]ShapeCheck
	locks    map[string]chan struct{}

	// OnCorrupt is called after a corrupt document has been replaced by its defaults.
	OnCorrupt func(name string, cause error)
}

// StoreStatus summarizes the store for status endpoints. Connection is only set by
// backends that hold a connection, such as MongoDB.
type StoreStatus struct {
	Backend    string   `json:"backend"`
	Documents  []string `json:"documents"`
	Connection string   `json:"connection,omitempty"`
}

var (
	store     *Store
	storeOnce sync.Once
)

// Init initializes the global store instance
func Init(backend Backend) *Store {
	storeOnce.Do(func() {
		store = NewStore(backend)
	})
	return store
}

// Get returns the global store instance
func Get() *Store {
	return store
}

// NewStore creates a Store on top of backend.
func NewStore(backend Backend) *Store {
	return &Store{
		backend:  backend,
		defaults: make(map[string]Document),
		shapes:   make(map[string]ShapeCheck),
		locks:    make(map[string]chan struct{}),
	}
}

// Register declares a document and its default shape. Registering a name twice
// replaces the shape.
func (s *Store) Register(name string, defaults Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[name] = defaults.Clone()
}

// ShapeCheck validates a parsed document against the shape its users decode it into.
type ShapeCheck func(Document) error

// RequireShape makes load treat a document that fails check like an unparseable one:
// it is replaced by its defaults and reported through OnCorrupt.
func (s *Store) RequireShape(name string, check ShapeCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes[name] = check
}

// Documents lists the registered document names.
func (s *Store) Documents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status reports the backend and registered documents
func (s *Store) Status() StoreStatus {
	st := StoreStatus{Backend: s.backend.Name(), Documents: s.Documents()}
	if c, ok := s.backend.(interface{ GetStatus() (string, bool) }); ok {
		st.Connection, _ = c.GetStatus()
	}
	return st
}

// Load returns the current contents of a document. Missing documents are created from
// their defaults. Corrupt documents are overwritten with their defaults, which loses
// whatever was stored; OnCorrupt is told when that happens.
func (s *Store) Load(ctx context.Context, name string) (Document, error) {
	unlock, err := s.lock(ctx, name)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.load(ctx, name)
}

// Save replaces a document. Missing top-level keys are backfilled before writing.
func (s *Store) Save(ctx context.Context, name string, doc Document) error {
	defaults, _, err := s.defaultsFor(name)
	if err != nil {
		return err
	}
	unlock, err := s.lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock()

	out := doc.Clone()
	out.backfill(defaults)
	return s.write(ctx, name, out)
}

// Update runs fn against the current document and saves the result, holding the
// document's lock throughout. If fn fails nothing is written and its error is returned.
func (s *Store) Update(ctx context.Context, name string, fn func(Document) error) error {
	defaults, _, err := s.defaultsFor(name)
	if err != nil {
		return err
	}
	unlock, err := s.lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.load(ctx, name)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	doc.backfill(defaults)
	return s.write(ctx, name, doc)
}

// View runs fn against the current document under its lock without saving.
func (s *Store) View(ctx context.Context, name string, fn func(Document) error) error {
	unlock, err := s.lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.load(ctx, name)
	if err != nil {
		return err
	}
	return fn(doc)
}

// lock takes the per-name slot, giving up if ctx is done first.
func (s *Store) lock(ctx context.Context, name string) (func(), error) {
	s.mu.Lock()
	slot, ok := s.locks[name]
	if !ok {
		slot = make(chan struct{}, 1)
		s.locks[name] = slot
	}
	s.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) defaultsFor(name string) (Document, ShapeCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defaults, ok := s.defaults[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}
	return defaults, s.shapes[name], nil
}

// load must be called with the document's lock held.
func (s *Store) load(ctx context.Context, name string) (Document, error) {
	defaults, check, err := s.defaultsFor(name)
	if err != nil {
		return nil, err
	}

	data, err := s.backend.Read(ctx, name)
	if errors.Is(err, ErrNoDocument) {
		doc := defaults.Clone()
		if err := s.write(ctx, name, doc); err != nil {
			return nil, err
		}
		logger.Info(fmt.Sprintf("Documento %q creado con valores por defecto", name), "Store")
		return doc, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Document: name, Err: err}
	}

	doc, perr := parseDocument(data)
	if perr != nil {
		return s.reset(ctx, name, defaults, perr)
	}

	backfilled := doc.backfill(defaults)
	if check != nil {
		if err := check(doc); err != nil {
			return s.reset(ctx, name, defaults, fmt.Errorf("%w: %v", ErrCorruptDocument, err))
		}
	}
	if backfilled {
		if err := s.write(ctx, name, doc); err != nil {
			return nil, err
		}
		logger.Debug(fmt.Sprintf("Documento %q completado con claves por defecto", name), "Store")
	}
	return doc, nil
}

// reset replaces a corrupt document with its defaults and reports it.
func (s *Store) reset(ctx context.Context, name string, defaults Document, cause error) (Document, error) {
	logger.Warn(fmt.Sprintf("Documento %q corrupto, se descarta y se restablece: %v", name, cause), "Store")
	doc := defaults.Clone()
	if err := s.write(ctx, name, doc); err != nil {
		return nil, err
	}
	if s.OnCorrupt != nil {
		s.OnCorrupt(name, cause)
	}
	return doc, nil
}

func (s *Store) write(ctx context.Context, name string, doc Document) error {
	data, err := doc.marshal()
	if err != nil {
		return &PersistenceError{Op: "encode", Document: name, Err: err}
	}
	if err := s.backend.Write(ctx, name, data); err != nil {
		logger.Error(fmt.Sprintf("Error guardando documento %q: %v", name, err), "Store")
		return &PersistenceError{Op: "save", Document: name, Err: err}
	}
	return nil
}
