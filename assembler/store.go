package assembler

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"bible-scraper/model"
)

const backupSuffix = ".bak.xz"

// Store persists one document file. It is the single writer for that file:
// Save serializes callers and replaces the file atomically, so a reader
// never sees a half-written document.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file yields an empty document; a file
// that does not decode yields a CorruptDocumentError.
func (s *Store) Load() (model.Bible, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Bible{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", s.path)
	}
	doc, err := model.Decode(data)
	if err != nil {
		return nil, &model.CorruptDocumentError{Path: s.path, Err: err}
	}
	return doc, nil
}

// LoadOrCreate is NewStore(path).Load().
func LoadOrCreate(path string) (model.Bible, error) {
	return NewStore(path).Load()
}

// Save writes doc and returns the BLAKE3 digest of the bytes written.
func (s *Store) Save(doc model.Bible) (string, error) {
	data, err := doc.Encode()
	if err != nil {
		return "", errors.Wrap(err, "failed to encode document")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		return "", err
	}
	return Digest(data), nil
}

// Digest is the hex BLAKE3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "failed to replace document")
	}
	return nil
}

// Backup writes an xz-compressed copy of the current file next to it and
// returns its path. It returns "" when there is nothing to back up.
func (s *Store) Backup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to open document")
	}
	defer in.Close()

	backup := fmt.Sprintf("%s.%s%s", s.path, s.now().UTC().Format("20060102T150405.000"), backupSuffix)
	out, err := os.Create(backup)
	if err != nil {
		return "", errors.Wrap(err, "failed to create backup")
	}
	defer out.Close()

	w, err := xz.NewWriter(out)
	if err != nil {
		return "", errors.Wrap(err, "failed to create xz writer")
	}
	if _, err := io.Copy(w, in); err != nil {
		return "", errors.Wrap(err, "failed to compress backup")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finish backup")
	}
	return backup, nil
}

// Restore replaces the document with the contents of a backup written by
// Backup. The backup must decode as a document.
func (s *Store) Restore(backup string) (string, error) {
	f, err := os.Open(backup)
	if err != nil {
		return "", errors.Wrap(err, "failed to open backup")
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return "", &model.CorruptDocumentError{Path: backup, Err: err}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &model.CorruptDocumentError{Path: backup, Err: err}
	}
	if _, err := model.Decode(data); err != nil {
		return "", &model.CorruptDocumentError{Path: backup, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(s.path, data); err != nil {
		return "", err
	}
	return Digest(data), nil
}

// Backups lists the backups of this store's file, oldest first.
func (s *Store) Backups() ([]string, error) {
	matches, err := filepath.Glob(s.path + ".*" + backupSuffix)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
