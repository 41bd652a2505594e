// Package filestore persists a single JSON document on disk.
//
// Every operation loads the whole file and every mutation rewrites it,
// pretty-printed, through a temp file and a rename. A per-store mutex is
// held across the read-modify-write so concurrent mutations are applied
// one after another.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Store[T any] struct {
	mu    sync.Mutex
	path  string
	empty func() T
}

// New returns a store backed by dir/name. The directory is created if needed.
// empty builds the value used when the file does not exist yet.
func New[T any](dir, name string, empty func() T) (*Store[T], error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store[T]{
		path:  filepath.Join(dir, name),
		empty: empty,
	}, nil
}

func (s *Store[T]) Path() string {
	return s.path
}

// Read returns the current document.
func (s *Store[T]) Read(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return s.load()
}

// Update loads the document, passes it to fn and writes back whatever fn returns.
// When fn returns an error nothing is written and the error is returned as is.
func (s *Store[T]) Update(ctx context.Context, fn func(data T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.load()
	if err != nil {
		return err
	}

	data, err = fn(data)
	if err != nil {
		return err
	}

	return s.save(data)
}

func (s *Store[T]) load() (T, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.empty(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return s.empty(), nil
	}

	data := s.empty()
	if err := json.Unmarshal(raw, &data); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Store[T]) save(data T) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
