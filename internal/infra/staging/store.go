package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"portfolio-site/internal/domain/media"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("staged file not found")

// Store keeps files picked in the editor on local disk until the work is
// submitted. Each file lives at <dir>/<id> next to <dir>/<id>.json.
type Store struct {
	dir     string
	maxSize int64
}

func NewStore(dir string, maxSize int64) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "portfolio-staging")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("staging dir: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

func (s *Store) Dir() string { return s.dir }

// ids are uuids, which also keeps them from escaping the directory
func (s *Store) paths(id string) (data, meta string, err error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", "", ErrNotFound
	}
	data = filepath.Join(s.dir, id)
	return data, data + ".json", nil
}

// Stage copies r to disk and records its sniffed content type.
func (s *Store) Stage(originalName string, r io.Reader) (media.File, error) {
	id := uuid.NewString()
	dataPath, metaPath, _ := s.paths(id)

	out, err := os.Create(dataPath)
	if err != nil {
		return media.File{}, fmt.Errorf("stage: %w", err)
	}
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = fmt.Errorf("file is larger than %d bytes", s.maxSize)
	}
	if err != nil {
		_ = os.Remove(dataPath)
		return media.File{}, fmt.Errorf("stage: %w", err)
	}

	mt, err := mimetype.DetectFile(dataPath)
	if err != nil {
		_ = os.Remove(dataPath)
		return media.File{}, fmt.Errorf("stage: detect type: %w", err)
	}

	f := media.File{
		ID:           id,
		OriginalName: filepath.Base(originalName),
		ContentType:  mt.String(),
		Size:         n,
		CreatedAt:    time.Now().UTC(),
	}
	meta, err := json.Marshal(f)
	if err == nil {
		err = os.WriteFile(metaPath, meta, 0o644)
	}
	if err != nil {
		_ = os.Remove(dataPath)
		return media.File{}, fmt.Errorf("stage: write meta: %w", err)
	}
	return f, nil
}

func (s *Store) Get(id string) (media.File, error) {
	_, metaPath, err := s.paths(id)
	if err != nil {
		return media.File{}, err
	}
	raw, err := os.ReadFile(metaPath)
	if errors.Is(err, os.ErrNotExist) {
		return media.File{}, ErrNotFound
	}
	if err != nil {
		return media.File{}, err
	}
	var f media.File
	if err := json.Unmarshal(raw, &f); err != nil {
		return media.File{}, fmt.Errorf("staged meta %s: %w", id, err)
	}
	return f, nil
}

// Open returns the file contents; the caller closes it.
func (s *Store) Open(id string) (io.ReadCloser, media.File, error) {
	f, err := s.Get(id)
	if err != nil {
		return nil, media.File{}, err
	}
	dataPath, _, _ := s.paths(id)
	fh, err := os.Open(dataPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, media.File{}, ErrNotFound
	}
	if err != nil {
		return nil, media.File{}, err
	}
	return fh, f, nil
}

// Remove deletes the given files. Unknown ids are ignored.
func (s *Store) Remove(ids ...string) error {
	var errs []error
	for _, id := range ids {
		dataPath, metaPath, err := s.paths(id)
		if err != nil {
			continue
		}
		for _, p := range []string{dataPath, metaPath} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Sweep removes files staged before cutoff and returns how many went.
func (s *Store) Sweep(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	var stale []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id := e.Name()[:len(e.Name())-len(".json")]
		f, err := s.Get(id)
		if err != nil {
			continue
		}
		if f.CreatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	return len(stale), s.Remove(stale...)
}
