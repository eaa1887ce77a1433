// Package sink provides output files that only appear at their final path once
// the whole split succeeded.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// File is a buffered writer backed by a temp file next to Path.
// Commit renames it onto Path; Abort removes it along with any stale Path.
type File struct {
	Path string

	mu      sync.Mutex
	tmpPath string
	f       *os.File
	w       *bufio.Writer
	done    bool
}

// Create opens the temp file for path. The parent directory is created if missing.
func Create(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output %s: %w", path, err)
	}

	return &File{
		Path:    path,
		tmpPath: tmpPath,
		f:       f,
		w:       bufio.NewWriter(f),
	}, nil
}

// Write implements io.Writer.
func (s *File) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return 0, os.ErrClosed
	}
	return s.w.Write(p)
}

// TempPath returns where the data is staged until Commit.
func (s *File) TempPath() string {
	return s.tmpPath
}

// Commit flushes, syncs and moves the temp file onto Path.
// If any step fails the temp file is removed.
func (s *File) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return os.ErrClosed
	}
	s.done = true

	err := s.w.Flush()
	if err == nil {
		err = s.f.Sync()
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(s.tmpPath, s.Path)
	}
	if err != nil {
		_ = os.Remove(s.tmpPath)
		return fmt.Errorf("failed to commit %s: %w", s.Path, err)
	}
	return nil
}

// Abort discards the staged data and removes any previous file at Path so a
// failed run never leaves an output that looks complete. Abort after Commit is
// a no-op.
func (s *File) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true

	var errs []error
	if err := s.f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		errs = append(errs, err)
	}
	if err := os.Remove(s.tmpPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to abort %s: %w", s.Path, errors.Join(errs...))
	}
	return nil
}

// Pair holds the two outputs of one split.
type Pair struct {
	A, B *File
}

// CreatePair creates sinks for both paths. If the second cannot be created the
// first is aborted.
func CreatePair(pathA, pathB string) (*Pair, error) {
	a, err := Create(pathA)
	if err != nil {
		return nil, err
	}
	b, err := Create(pathB)
	if err != nil {
		_ = a.Abort()
		return nil, err
	}
	return &Pair{A: a, B: b}, nil
}

// Commit commits both outputs. If B fails after A succeeded, A is removed again.
func (p *Pair) Commit() error {
	if err := p.A.Commit(); err != nil {
		_ = p.B.Abort()
		return err
	}
	if err := p.B.Commit(); err != nil {
		_ = os.Remove(p.A.Path)
		return err
	}
	return nil
}

// Abort aborts both outputs.
func (p *Pair) Abort() error {
	return errors.Join(p.A.Abort(), p.B.Abort())
}
