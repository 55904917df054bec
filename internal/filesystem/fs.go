package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"vision-infra/internal/logging"
)

// FileSystem is the set of filesystem operations used by vision-infra.
// Query methods report failure as a zero value rather than an error.
type FileSystem interface {
	Exists(path string) bool
	IsFile(path string) bool
	IsDirectory(path string) bool

	CreateDirectory(path string) error
	CreateDirectories(path string) error
	Remove(path string) error
	RemoveAll(path string) error

	// ReadFile returns the file contents and false if the file cannot be read.
	ReadFile(path string) ([]byte, bool)
	WriteFile(path string, data []byte) error

	// ListFiles and ListDirectories return sorted base names of the regular
	// files and directories directly inside dir.
	ListFiles(dir string) []string
	ListDirectories(dir string) []string

	// FileSize returns -1 if the size cannot be determined.
	FileSize(path string) int64
	// Extension returns the extension including the dot, and false if there is none.
	Extension(path string) (string, bool)
	FileName(path string) string
	DirectoryName(path string) string
	JoinPath(elem ...string) string
	AbsolutePath(path string) string
	WorkingDirectory() string
}

// OS implements FileSystem on the host filesystem. Stat and read calls
// retry NFS stale handle errors using Retry.
type OS struct {
	Retry RetryConfig
}

var _ FileSystem = (*OS)(nil)

// NewOS returns an OS filesystem with the default retry configuration.
func NewOS() *OS {
	return &OS{Retry: DefaultRetryConfig()}
}

func (o *OS) stat(path string) (os.FileInfo, error) {
	return StatWithRetry(path, o.Retry)
}

// Exists reports whether path exists.
func (o *OS) Exists(path string) bool {
	_, err := o.stat(path)
	return err == nil
}

// IsFile reports whether path is a regular file.
func (o *OS) IsFile(path string) bool {
	info, err := o.stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDirectory reports whether path is a directory.
func (o *OS) IsDirectory(path string) bool {
	info, err := o.stat(path)
	return err == nil && info.IsDir()
}

// CreateDirectory creates a single directory; the parent must exist.
func (o *OS) CreateDirectory(path string) error {
	if err := os.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// CreateDirectories creates path and any missing parents.
func (o *OS) CreateDirectories(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directories %s: %w", path, err)
	}
	return nil
}

// Remove deletes a file or empty directory.
func (o *OS) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func (o *OS) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the whole file.
func (o *OS) ReadFile(path string) ([]byte, bool) {
	data, err := ReadFileWithRetry(path, o.Retry)
	if err != nil {
		logging.Debug("failed to read %s: %v", path, err)
		return nil, false
	}
	return data, true
}

// WriteFile writes data to path, truncating an existing file.
func (o *OS) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ListFiles returns the sorted names of regular files in dir.
func (o *OS) ListFiles(dir string) []string {
	return listDir(dir, func(e os.DirEntry) bool { return e.Type().IsRegular() })
}

// ListDirectories returns the sorted names of subdirectories of dir.
func (o *OS) ListDirectories(dir string) []string {
	return listDir(dir, func(e os.DirEntry) bool { return e.IsDir() })
}

func listDir(dir string, keep func(os.DirEntry) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Debug("failed to list %s: %v", dir, err)
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// FileSize returns the size of path in bytes.
func (o *OS) FileSize(path string) int64 {
	info, err := o.stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}

// Extension returns the extension of path, including the leading dot.
func (o *OS) Extension(path string) (string, bool) {
	ext := filepath.Ext(path)
	return ext, ext != ""
}

// FileName returns the last element of path.
func (o *OS) FileName(path string) string {
	return filepath.Base(path)
}

// DirectoryName returns all but the last element of path.
func (o *OS) DirectoryName(path string) string {
	return filepath.Dir(path)
}

// JoinPath joins path elements with the OS separator.
func (o *OS) JoinPath(elem ...string) string {
	return filepath.Join(elem...)
}

// AbsolutePath returns the absolute form of path, or path itself if it
// cannot be resolved.
func (o *OS) AbsolutePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// WorkingDirectory returns the current directory, or "." if it cannot be
// determined.
func (o *OS) WorkingDirectory() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

var (
	defaultFS   FileSystem = NewOS()
	defaultFSMu sync.RWMutex
)

// Default returns the process-wide FileSystem.
func Default() FileSystem {
	defaultFSMu.RLock()
	defer defaultFSMu.RUnlock()
	return defaultFS
}

// SetDefault replaces the process-wide FileSystem and returns the previous
// one. A nil fs restores the host filesystem.
func SetDefault(fs FileSystem) FileSystem {
	if fs == nil {
		fs = NewOS()
	}
	defaultFSMu.Lock()
	defer defaultFSMu.Unlock()
	prev := defaultFS
	defaultFS = fs
	return prev
}
