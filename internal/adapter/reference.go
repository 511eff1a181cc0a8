package adapter

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// FileLoadError reports a file that could not be read.
type FileLoadError struct {
	Path m.Path
	Err  error
}

func (e *FileLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *FileLoadError) Unwrap() error {
	return e.Err
}

// ReferenceLoader reads the gold-standard tagged text.
type ReferenceLoader interface {
	// Load returns the trimmed reference text. A missing file yields an empty
	// string and a *FileLoadError wrapping fs.ErrNotExist.
	Load() (string, error)
}

type fileReferenceLoader struct {
	fs   TextFSAdapter
	path m.Path
}

// NewFileReferenceLoader reads reference labels from path.
func NewFileReferenceLoader(fs TextFSAdapter, path m.Path) ReferenceLoader {
	return &fileReferenceLoader{fs: fs, path: path}
}

func (l *fileReferenceLoader) Load() (string, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		return "", &FileLoadError{Path: l.path, Err: err}
	}

	return strings.TrimSpace(string(data)), nil
}
