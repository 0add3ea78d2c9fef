package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/lexiscreen/internal/db"
)

// mockStore implements the reader and writer consumer interfaces for tests.
type mockStore struct {
	data       map[string][]byte
	getMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	setMultiFn func(ctx context.Context, items []db.SetItem) error
}

func (m *mockStore) GetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, keys)
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		v, ok := m.data[k]
		if !ok {
			return nil, &db.Error{Op: db.OpGet, Key: k, Err: db.ErrKeyNotFound}
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockStore) SetMulti(ctx context.Context, items []db.SetItem) error {
	if m.setMultiFn != nil {
		return m.setMultiFn(ctx, items)
	}
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	for _, it := range items {
		m.data[it.Key] = it.Value
	}
	return nil
}

func testBlobs(t *testing.T) Blobs {
	t.Helper()
	b, err := NewDirSource("testdata").Load(context.Background())
	if err != nil {
		t.Fatalf("load testdata: %v", err)
	}
	return b
}

// writeDir writes blobs into a temporary artifact directory.
func writeDir(t *testing.T, b Blobs) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range map[string][]byte{
		FeaturesFile: b.Features,
		DefaultsFile: b.Defaults,
		ModelFile:    b.Model,
	} {
		if data == nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}
