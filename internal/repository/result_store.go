package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const resultFileMode os.FileMode = 0o644

// ResultStore persists the available domains found by a run.
type ResultStore interface {
	Save(ctx context.Context, domains []string) error
}

// FileResultStore writes one domain per line. In overwrite mode the file is
// replaced atomically; in append mode lines are added to the end.
type FileResultStore struct {
	fs     afero.Fs
	path   string
	append bool
}

func NewFileResultStore(fs afero.Fs, path string, appendMode bool) *FileResultStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileResultStore{fs: fs, path: path, append: appendMode}
}

func (s *FileResultStore) Path() string {
	return s.path
}

func (s *FileResultStore) Save(ctx context.Context, domains []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, d := range domains {
		buf.WriteString(d)
		buf.WriteByte('\n')
	}

	if s.append {
		if len(domains) == 0 {
			return nil
		}
		return s.appendFile(buf.Bytes())
	}
	return s.writeFile(buf.Bytes())
}

func (s *FileResultStore) appendFile(b []byte) error {
	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, resultFileMode)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return f.Close()
}

// writeFile writes via a temp file in the target directory, then renames it
// over the target.
func (s *FileResultStore) writeFile(b []byte) error {
	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path)

	f, err := afero.TempFile(s.fs, dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	tmp := f.Name()

	defer func() { _ = s.fs.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := s.fs.Chmod(tmp, resultFileMode); err != nil {
		return err
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
