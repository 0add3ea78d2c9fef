package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
)

// DirSource reads artifacts from a local directory.
type DirSource struct {
	dir string
}

// NewDirSource creates a directory-backed source.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Load reads the three artifact files.
func (s *DirSource) Load(ctx context.Context) (Blobs, error) {
	if err := ctx.Err(); err != nil {
		return Blobs{}, err
	}
	var b Blobs
	for _, f := range []struct {
		name string
		dst  *[]byte
	}{
		{FeaturesFile, &b.Features},
		{DefaultsFile, &b.Defaults},
		{ModelFile, &b.Model},
	} {
		data, err := os.ReadFile(filepath.Join(s.dir, f.name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Blobs{}, fmt.Errorf("artifact %s in %s: %w", f.name, s.dir, domain.ErrNotFound)
			}
			return Blobs{}, fmt.Errorf("read artifact %s: %w", f.name, err)
		}
		*f.dst = data
	}
	return b, nil
}
