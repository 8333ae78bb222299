package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

// FileStore keeps each sequence as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns ~/.config/flowglyph/sequences.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "flowglyph", "sequences"), nil
}

// NewFileStore creates a file-based store in baseDir.
// If baseDir is empty, defaults to DefaultDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create sequence dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

type fileRecord struct {
	UpdatedAt time.Time           `json:"updated_at"`
	Sequence  pictograph.Sequence `json:"sequence"`
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Put(ctx context.Context, seq pictograph.Sequence) (string, error) {
	seq, err := prepare(seq)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(fileRecord{UpdatedAt: time.Now().UTC(), Sequence: seq}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sequence: %w", err)
	}
	tmp := s.path(seq.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("write sequence file: %w", err)
	}
	if err := os.Rename(tmp, s.path(seq.ID)); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write sequence file: %w", err)
	}
	return seq.ID, nil
}

func (s *FileStore) read(id string) (fileRecord, error) {
	var rec fileRecord
	if err := errors.ValidateSequenceID(id); err != nil {
		return rec, ErrNotFound
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return rec, ErrNotFound
		}
		return rec, fmt.Errorf("read sequence file: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, errors.Wrap(errors.ErrCodeInvalidSequence, err, "parse sequence %s", id)
	}
	return rec, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (pictograph.Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.read(id)
	if err != nil {
		return pictograph.Sequence{}, err
	}
	return rec.Sequence, nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read sequence dir: %w", err)
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, Summary{
			ID:        rec.Sequence.ID,
			Word:      rec.Sequence.Word,
			Author:    rec.Sequence.Author,
			Beats:     len(rec.Sequence.Beats),
			UpdatedAt: rec.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.ValidateSequenceID(id); err != nil {
		return ErrNotFound
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove sequence file: %w", err)
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for sequence files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
