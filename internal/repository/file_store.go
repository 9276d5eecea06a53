package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"feedback-backend/internal/models"
)

// FileStore keeps every submission in a single JSON array document,
// newest first. Appends are serialized and the document is replaced
// atomically, so concurrent writers never drop each other's records.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at path. The parent directory is created
// on first write.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("repository: file store path must not be empty")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Path() string {
	return f.path
}

// Append prepends s to the document and rewrites it in full.
func (f *FileStore) Append(ctx context.Context, s models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	subs, err := f.read()
	if err != nil {
		return fmt.Errorf("repository: file append: %w", err)
	}
	subs = append([]models.Submission{s}, subs...)
	if err := f.write(subs); err != nil {
		return fmt.Errorf("repository: file append: %w", err)
	}
	return nil
}

// ListAll returns the stored submissions. A missing or unparsable document
// reads as an empty list; any other read failure is returned.
func (f *FileStore) ListAll(ctx context.Context) ([]models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	subs, err := f.read()
	if err != nil {
		return nil, fmt.Errorf("repository: file list: %w", err)
	}
	return subs, nil
}

// read loads the document. Only a file that exists but cannot be read is an
// error, so Append never replaces a document it could not see.
func (f *FileStore) read() ([]models.Submission, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Submission{}, nil
		}
		return nil, fmt.Errorf("read submissions file: %w", err)
	}
	var subs []models.Submission
	if err := json.Unmarshal(raw, &subs); err != nil {
		log.Error().Err(err).Str("path", f.path).Msg("parse submissions file; treating as empty")
		return []models.Submission{}, nil
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, nil
}

func (f *FileStore) write(subs []models.Submission) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	buf, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode submissions: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace submissions file: %w", err)
	}
	return nil
}
