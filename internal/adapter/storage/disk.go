// Package storage is the attachment file store: content lives on
// disk, only the path travels through the database.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/faha1999/team-to-do-app-sub000/internal/core/domain"
	"github.com/faha1999/team-to-do-app-sub000/internal/core/ports"
)

type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the content under a fresh id. The original name is kept
// in the stored name only; on disk the id plus the original extension
// prevents collisions and path tricks.
func (s *DiskStore) Save(name string, content []byte) (domain.StoredFile, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+filepath.Ext(filepath.Base(name)))

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return domain.StoredFile{}, fmt.Errorf("write attachment: %w", err)
	}

	return domain.StoredFile{ID: id, Name: filepath.Base(name), Path: path}, nil
}

func (s *DiskStore) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ ports.FileStore = (*DiskStore)(nil)
