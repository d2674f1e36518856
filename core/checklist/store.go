package checklist

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// errors
	ErrNotFound    = errors.New("checklist not found")
	ErrInvalidName = errors.New("invalid checklist name")
)

// extensions are probed in this order.
var extensions = []string{".hwpx", ".hwp", ".zip", ".pdf"}

// Document is an opened checklist; the caller must close it.
type Document struct {
	afero.File
	Name string
	Size int64
}

// Store serves the checklist documents kept under a single directory.
type Store struct {
	fs afero.Fs
}

func NewStore(base afero.Fs, dir string) *Store {
	return &Store{fs: afero.NewBasePathFs(base, dir)}
}

// NewOsStore serves the checklists of `dir` on the local disk.
func NewOsStore(dir string) *Store {
	return NewStore(afero.NewOsFs(), dir)
}

// Find opens the first document named `name` with a known extension.
func (s *Store) Find(name string) (*Document, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, ErrInvalidName
	}

	for _, ext := range extensions {
		filename := name + ext
		info, err := s.fs.Stat(filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		f, err := s.fs.Open(filename)
		if err != nil {
			return nil, err
		}
		return &Document{File: f, Name: filename, Size: info.Size()}, nil
	}
	return nil, ErrNotFound
}

// Empty removes every document of the store and returns how many files were deleted.
func (s *Store) Empty() (int, error) {
	entries, err := afero.ReadDir(s.fs, string(filepath.Separator))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	var removed int
	for _, entry := range entries {
		if err = s.fs.RemoveAll(entry.Name()); err != nil {
			return removed, err
		}
		if !entry.IsDir() {
			removed++
		}
	}
	return removed, nil
}
