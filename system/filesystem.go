// Package system abstracts the file system documents are read from and generated files are
// written to.
package system

import (
	"io/fs"
	"os"
	"path/filepath"
)

// VirtualFS is a read-only file system. Paths are passed through unchanged, so implementations
// backed by the OS accept absolute and relative paths.
type VirtualFS interface {
	fs.FS
}

// WritableVirtualFS is a VirtualFS that can also create files.
type WritableVirtualFS interface {
	VirtualFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// FileSystem is the OS file system.
type FileSystem struct{}

var (
	_ VirtualFS         = (*FileSystem)(nil)
	_ WritableVirtualFS = (*FileSystem)(nil)
	_ fs.ReadFileFS     = (*FileSystem)(nil)
)

func (*FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec
}

func (*FileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec
}

// WriteFile writes data to name, creating missing parent directories.
func (f *FileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, perm)
}

func (*FileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}
