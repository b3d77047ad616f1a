package rendercache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store persists render artifacts keyed by themed identity. Implementations
// need no locking: concurrent writers for the same key race harmlessly
// because the renderer is deterministic for fixed input.
type Store interface {
	// Get returns the artifact and whether it was present. A missing key is
	// not an error.
	Get(key string) ([]byte, bool, error)
	Put(key string, artifact []byte) error
}

// FileStore keeps artifacts as individual SVG files, by default under the
// system temp directory. Nothing is ever evicted; artifacts persist until the
// environment reclaims the directory.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a FileStore on fs rooted at dir. A nil fs means the OS
// filesystem, an empty dir means os.TempDir().
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileStore{fs: fs, dir: dir}
}

func (s *FileStore) artifactPath(key string) string {
	return filepath.Join(s.dir, key+".svg")
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(s.fs, s.artifactPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached artifact %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes atomically: tmp file then rename, so readers never observe a
// partial artifact.
func (s *FileStore) Put(key string, artifact []byte) error {
	path := s.artifactPath(key)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, artifact, 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("commit artifact %s: %w", key, err)
	}
	return nil
}

// Exists reports whether an artifact is already cached.
func (s *FileStore) Exists(key string) bool {
	ok, err := afero.Exists(s.fs, s.artifactPath(key))
	return err == nil && ok
}
