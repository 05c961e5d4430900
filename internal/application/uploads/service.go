package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFile describes a persisted upload.
type StoredFile struct {
	Name      string `json:"name"`
	PublicURL string `json:"public_url"`
	Path      string `json:"-"`
}

// Storage persists uploaded files under generated names.
type Storage interface {
	Save(originalName string, r io.Reader) (*StoredFile, error)
}

// DiskStorage writes uploads below Dir and serves them under URLPrefix.
// Files keep their extension but get a random name, so user-supplied names
// never touch the filesystem.
type DiskStorage struct {
	Dir       string
	URLPrefix string
}

func (d *DiskStorage) Save(originalName string, r io.Reader) (*StoredFile, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(d.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("uploads: create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("uploads: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("uploads: close file: %w", err)
	}

	prefix := strings.TrimRight(d.URLPrefix, "/")
	return &StoredFile{
		Name:      name,
		PublicURL: prefix + "/" + name,
		Path:      path,
	}, nil
}

// Service encapsulates upload persistence for handlers.
type Service struct {
	Storage Storage
}

// SaveMultipart streams a multipart file header into storage.
func (s *Service) SaveMultipart(fh *multipart.FileHeader) (*StoredFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("uploads: open multipart file: %w", err)
	}
	defer f.Close()
	return s.Storage.Save(fh.Filename, f)
}
