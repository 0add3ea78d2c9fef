package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/lexiscreen/internal/db"
	"github.com/kailas-cloud/lexiscreen/internal/domain"
)

// Registry key suffixes, appended to the configured prefix.
const (
	keyFeatures = "artifact:features"
	keyDefaults = "artifact:defaults"
	keyModel    = "artifact:model"
)

// Keys returns the registry keys for prefix, in Blobs field order.
func Keys(prefix string) []string {
	return []string{prefix + keyFeatures, prefix + keyDefaults, prefix + keyModel}
}

// reader is the consumer interface for loading (ISP).
type reader interface {
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// writer is the consumer interface for publishing (ISP).
type writer interface {
	SetMulti(ctx context.Context, items []db.SetItem) error
}

// KVSource reads artifacts from a Valkey/Redis registry.
type KVSource struct {
	store  reader
	prefix string
}

// NewKVSource creates a registry-backed source.
func NewKVSource(store reader, prefix string) *KVSource {
	return &KVSource{store: store, prefix: prefix}
}

// Load fetches all three blobs in one round-trip.
func (s *KVSource) Load(ctx context.Context) (Blobs, error) {
	data, err := s.store.GetMulti(ctx, Keys(s.prefix))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Blobs{}, fmt.Errorf("artifact registry %q: %w: %w", s.prefix, domain.ErrNotFound, err)
		}
		return Blobs{}, fmt.Errorf("load artifacts: %w", err)
	}
	if len(data) != 3 {
		return Blobs{}, fmt.Errorf("load artifacts: got %d values, want 3", len(data))
	}
	return Blobs{Features: data[0], Defaults: data[1], Model: data[2]}, nil
}

// Publish validates blobs and uploads them under prefix. Nothing is written
// when validation fails.
func Publish(ctx context.Context, w writer, prefix string, b Blobs) (Bundle, error) {
	bundle, err := Parse(b)
	if err != nil {
		return Bundle{}, err
	}
	keys := Keys(prefix)
	items := []db.SetItem{
		{Key: keys[0], Value: b.Features},
		{Key: keys[1], Value: b.Defaults},
		{Key: keys[2], Value: b.Model},
	}
	if err := w.SetMulti(ctx, items); err != nil {
		return Bundle{}, fmt.Errorf("publish artifacts: %w", err)
	}
	return bundle, nil
}
