// Package store persists document blobs and their thumbnails.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrPersistence = errors.New("persistence failure")
)

// Store loads and saves documents by key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob, thumbnail []byte) error
	List(ctx context.Context) ([]string, error)
}

const (
	blobExt  = ".json"
	thumbExt = ".png"
)

// FileStore keeps <key>.json and <key>.png side by side in one directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Key derives a store key from a file name by dropping directory and extension.
func Key(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: invalid key %q", ErrPersistence, key)
	}
	return nil
}

// BlobPath returns the path of the JSON blob for key.
func (s *FileStore) BlobPath(key string) string {
	return filepath.Join(s.dir, key+blobExt)
}

// ThumbnailPath returns the path of the PNG preview for key.
func (s *FileStore) ThumbnailPath(key string) string {
	return filepath.Join(s.dir, key+thumbExt)
}

// Load reads the blob for key. A missing blob is ErrNotFound.
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.BlobPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %q: %v", ErrPersistence, key, err)
	}
	return data, nil
}

// LoadThumbnail returns the stored thumbnail for key.
func (s *FileStore) LoadThumbnail(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.ThumbnailPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("thumbnail %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: thumbnail %q: %v", ErrPersistence, key, err)
	}
	return data, nil
}

// Save writes the blob and, when given, the thumbnail. Each file is written to
// a temporary file first and renamed into place.
func (s *FileStore) Save(ctx context.Context, key string, blob, thumbnail []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := writeAtomic(s.BlobPath(key), blob); err != nil {
		return fmt.Errorf("%w: save %q: %v", ErrPersistence, key, err)
	}
	if thumbnail != nil {
		if err := writeAtomic(s.ThumbnailPath(key), thumbnail); err != nil {
			return fmt.Errorf("%w: save thumbnail %q: %v", ErrPersistence, key, err)
		}
	}
	return nil
}

// List returns the keys of every stored blob, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrPersistence, err)
	}
	keys := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != blobExt {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), blobExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
