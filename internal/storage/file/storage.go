package file

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Storage provides a simple file-based storage backend.
// It stores files under a specified base path of an afero filesystem.
type Storage struct {
	fs       afero.Fs
	basePath string
}

// NewStorage creates a new Storage instance rooted at basePath on fsys.
// An empty basePath resolves paths as given.
func NewStorage(fsys afero.Fs, basePath string) *Storage {
	return &Storage{fs: fsys, basePath: basePath}
}

// NewOSStorage creates a Storage backed by the host filesystem.
func NewOSStorage(basePath string) *Storage {
	return NewStorage(afero.NewOsFs(), basePath)
}

// Path returns the full path of name inside subdir.
func (s *Storage) Path(subdir, name string) string {
	return filepath.Join(s.basePath, subdir, name)
}

// Save stores src in the given subdirectory with the provided filename,
// creating the directory when needed. It returns the written path.
func (s *Storage) Save(subdir, filename string, src io.Reader) (string, error) {
	dir := filepath.Join(s.basePath, subdir)
	if err := s.fs.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	dstPath := filepath.Join(dir, filename)
	dst, err := s.fs.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", dstPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = s.fs.Remove(dstPath)
		return "", fmt.Errorf("failed to save file %s: %w", dstPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close file %s: %w", dstPath, err)
	}

	return dstPath, nil
}

// Load opens the file and returns a reader.
func (s *Storage) Load(subdir, filename string) (io.ReadCloser, error) {
	return s.fs.Open(s.Path(subdir, filename))
}

// Stat returns file info for a stored file.
func (s *Storage) Stat(subdir, filename string) (fs.FileInfo, error) {
	return s.fs.Stat(s.Path(subdir, filename))
}

// List returns the regular files of subdir sorted by name.
func (s *Storage) List(subdir string) ([]fs.FileInfo, error) {
	dir := filepath.Join(s.basePath, subdir)

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]fs.FileInfo, 0, len(infos))
	for _, info := range infos {
		if info.Mode().IsRegular() {
			files = append(files, info)
		}
	}

	return files, nil
}

// DirExists reports whether subdir exists and is a directory.
func (s *Storage) DirExists(subdir string) (bool, error) {
	return afero.DirExists(s.fs, filepath.Join(s.basePath, subdir))
}

// WriteAtomic writes a file through a temporary sibling and renames it into place,
// so readers never observe a partially written file. If gen fails the target is untouched.
func (s *Storage) WriteAtomic(subdir, filename string, gen func(w io.Writer) error) (string, error) {
	dir := filepath.Join(s.basePath, subdir)
	if err := s.fs.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
	}()

	if err := gen(tmp); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	dstPath := filepath.Join(dir, filename)
	if err := s.fs.Rename(tmp.Name(), dstPath); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", dstPath, err)
	}

	return dstPath, nil
}

// Delete removes the file from storage.
func (s *Storage) Delete(subdir, filename string) error {
	return s.fs.Remove(s.Path(subdir, filename))
}
