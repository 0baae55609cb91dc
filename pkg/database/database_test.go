package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var counterDefaults = database.MustDocument(map[string]any{
	"count":  0,
	"guilds": map[string]any{},
})

func newFileStore(t *testing.T) (*database.Store, *database.FileBackend) {
	t.Helper()
	backend, err := database.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := database.NewStore(backend)
	s.Register("counter", counterDefaults)
	return s, backend
}

func TestLoadMissingCreatesDefaults(t *testing.T) {
	t.Parallel()
	s, backend := newFileStore(t)

	doc, err := s.Load(context.Background(), "counter")
	require.NoError(t, err)

	assert.JSONEq(t, `0`, string(doc["count"]))
	assert.JSONEq(t, `{}`, string(doc["guilds"]))

	data, err := os.ReadFile(backend.Path("counter"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"guilds":{}}`, string(data))
}

func TestLoadBackfillsAndPreservesUnknownKeys(t *testing.T) {
	t.Parallel()
	s, backend := newFileStore(t)

	stored := `{"count": 7, "other": {"note": "kept"}}`
	require.NoError(t, os.WriteFile(backend.Path("counter"), []byte(stored), 0o644))

	doc, err := s.Load(context.Background(), "counter")
	require.NoError(t, err)

	assert.JSONEq(t, `7`, string(doc["count"]))
	assert.JSONEq(t, `{}`, string(doc["guilds"]))
	assert.JSONEq(t, `{"note":"kept"}`, string(doc["other"]))

	// The repaired shape is written back
	data, err := os.ReadFile(backend.Path("counter"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":7,"guilds":{},"other":{"note":"kept"}}`, string(data))
}

func TestLoadSaveLoadIsIdempotent(t *testing.T) {
	t.Parallel()
	s, backend := newFileStore(t)
	ctx := context.Background()

	stored := `{"count": 3, "guilds": {"1": 2}, "extra": [1, 2, 3]}`
	require.NoError(t, os.WriteFile(backend.Path("counter"), []byte(stored), 0o644))

	first, err := s.Load(ctx, "counter")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "counter", first))
	second, err := s.Load(ctx, "counter")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Len(t, second, 3)
}

func TestCorruptDocumentIsResetAndReported(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"truncated": `{"count": 4, "gui`,
		"empty":     ``,
		"array":     `[1, 2]`,
		"null":      `null`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s, backend := newFileStore(t)

			var reported []string
			s.OnCorrupt = func(doc string, cause error) {
				assert.ErrorIs(t, cause, database.ErrCorruptDocument)
				reported = append(reported, doc)
			}

			require.NoError(t, os.WriteFile(backend.Path("counter"), []byte(content), 0o644))

			doc, err := s.Load(context.Background(), "counter")
			require.NoError(t, err)
			assert.JSONEq(t, `0`, string(doc["count"]))
			assert.Equal(t, []string{"counter"}, reported)

			data, err := os.ReadFile(backend.Path("counter"))
			require.NoError(t, err)
			assert.JSONEq(t, `{"count":0,"guilds":{}}`, string(data))
		})
	}
}

func TestUpdateHasNoLostUpdates(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)
	ctx := context.Background()

	const writers = 64
	p := pool.New().WithErrors()
	for i := 0; i < writers; i++ {
		p.Go(func() error {
			return s.Update(ctx, "counter", func(doc database.Document) error {
				var n int
				if err := doc.Decode("count", &n); err != nil {
					return err
				}
				return doc.Encode("count", n+1)
			})
		})
	}
	require.NoError(t, p.Wait())

	doc, err := s.Load(ctx, "counter")
	require.NoError(t, err)
	assert.JSONEq(t, `64`, string(doc["count"]))
}

func TestUpdateErrorDiscardsChanges(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, "counter", func(doc database.Document) error {
		if err := doc.Encode("count", 99); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	doc, err := s.Load(ctx, "counter")
	require.NoError(t, err)
	assert.JSONEq(t, `0`, string(doc["count"]))
}

func TestUpdateCannotDropDefaultKeys(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, "counter", func(doc database.Document) error {
		delete(doc, "guilds")
		return nil
	}))

	doc, err := s.Load(ctx, "counter")
	require.NoError(t, err)
	assert.True(t, doc.Has("guilds"))
}

func TestUnknownDocument(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)

	_, err := s.Load(context.Background(), "nope")
	require.ErrorIs(t, err, database.ErrUnknownDocument)

	err = s.Update(context.Background(), "nope", func(database.Document) error { return nil })
	require.ErrorIs(t, err, database.ErrUnknownDocument)
}

func TestLockHonoursContext(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Update(context.Background(), "counter", func(database.Document) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Load(ctx, "counter")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}

func TestDifferentDocumentsDoNotBlockEachOther(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)
	s.Register("other", database.MustDocument(map[string]any{"x": 1}))

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Update(context.Background(), "counter", func(database.Document) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := s.Load(ctx, "other")
	require.NoError(t, err)
}

type failingBackend struct {
	readErr  error
	writeErr error
}

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Read(context.Context, string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return []byte(`{"count":1,"guilds":{}}`), nil
}

func (f *failingBackend) Write(context.Context, string, []byte) error { return f.writeErr }

func TestSaveFailureIsPersistenceError(t *testing.T) {
	t.Parallel()
	diskFull := errors.New("no space left on device")
	s := database.NewStore(&failingBackend{writeErr: diskFull})
	s.Register("counter", counterDefaults)

	err := s.Update(context.Background(), "counter", func(doc database.Document) error {
		return doc.Encode("count", 2)
	})
	require.ErrorIs(t, err, database.ErrPersistence)
	require.ErrorIs(t, err, diskFull)

	var perr *database.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)
	assert.Equal(t, "counter", perr.Document)
}

func TestLoadFailureIsPersistenceError(t *testing.T) {
	t.Parallel()
	s := database.NewStore(&failingBackend{readErr: errors.New("permission denied")})
	s.Register("counter", counterDefaults)

	_, err := s.Load(context.Background(), "counter")
	require.ErrorIs(t, err, database.ErrPersistence)
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	backend, err := database.NewFileBackend(dir)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, backend.Write(context.Background(), "doc", []byte(`{"i":1}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "stray temp file %s", e.Name())
	}
	assert.FileExists(t, filepath.Join(dir, "doc.json"))

	_, err = backend.Read(context.Background(), "absent")
	assert.ErrorIs(t, err, database.ErrNoDocument)
}

func TestStatus(t *testing.T) {
	t.Parallel()
	s, _ := newFileStore(t)
	s.Register("alpha", database.MustDocument(map[string]any{}))

	status := s.Status()
	assert.Equal(t, "file", status.Backend)
	assert.Equal(t, []string{"alpha", "counter"}, status.Documents)
}
