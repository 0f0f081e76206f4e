package orders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that escape the configured directory
var ErrOutsideDirectory = errors.New("path is outside configured directory")

// PathValidator keeps input paths inside one directory. Symlinks are resolved
// before the check, so a link cannot point out of the directory.
type PathValidator struct {
	directory string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(directory string) (*PathValidator, error) {
	if directory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}
	return &PathValidator{directory: abs}, nil
}

// Directory returns the configured directory
func (v *PathValidator) Directory() string {
	return v.directory
}

// Resolve returns the absolute path of path, relative paths being taken from
// the configured directory, and fails if it lies outside the directory
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.directory, path)
	}
	path = filepath.Clean(path)

	ok, err := v.Contains(path)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}
	return path, nil
}

// Contains reports whether the absolute path lies inside the directory, both
// as written and after resolving symlinks
func (v *PathValidator) Contains(path string) (bool, error) {
	realDir, err := filepath.EvalSymlinks(v.directory)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate directory symlinks: %w", err)
	}

	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		// missing files are reported by the reader
		realPath = path
	}

	written := within(path, v.directory) || within(path, realDir)
	resolved := within(realPath, v.directory) || within(realPath, realDir)
	return written && resolved, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// FindPDFs lists the PDF files directly or indirectly below dir in lexical
// order. Symlinked entries that lead outside the validator's directory are
// skipped when a validator is given.
func FindPDFs(dir string, paths *PathValidator) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// unreadable entries do not stop the walk
			return nil //nolint:nilerr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}
		if paths != nil {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil //nolint:nilerr
			}
			if ok, err := paths.Contains(abs); err != nil || !ok {
				return nil //nolint:nilerr
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}
	return files, nil
}
