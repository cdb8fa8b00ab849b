// Package trust persists the allow-list that gates startup file execution.
//
// A startup file runs arbitrary code, so it must be approved before the
// launcher executes it. Approval records the file's SHA-256 digest; any
// later content change invalidates the approval until the file is approved
// again. Records live in a line-oriented store file, one record per line:
//
//	/abs/path<TAB>hex-sha256<TAB>approved-at(RFC 3339)
//
// The timestamp field is optional on read for stores written by older
// releases.
package trust

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/brl0/konch/internal/logging"
)

// Status reports the trust state of a startup file.
type Status int

const (
	// StatusBlocked means no approval record exists for the path.
	StatusBlocked Status = iota
	// StatusChanged means the file's contents differ from the approved hash.
	StatusChanged
	// StatusOK means the approval record matches the current contents.
	StatusOK
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "blocked"
	case StatusChanged:
		return "changed"
	case StatusOK:
		return "ok"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Record pairs an approved file with its content hash.
type Record struct {
	Path      string
	Hash      string
	Timestamp time.Time // zero when the store line carried no timestamp
}

// clock supplies approval timestamps; tests substitute a fixed one.
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store is the persistent allow-list. It rewrites the whole store file on
// every mutation via a temp file and rename, so a crash leaves either the
// old or the new contents.
type Store struct {
	path    string
	keyring string
	clock   clock
	logger  logging.Logger
}

// NewStore returns a Store backed by the file at path. keyring may be
// empty; when set, Allow additionally verifies a detached signature
// sidecar next to the target file. A nil logger is replaced by a no-op.
func NewStore(path, keyring string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Store{
		path:    path,
		keyring: keyring,
		clock:   systemClock{},
		logger:  logger,
	}
}

// Allow approves the file at path, replacing any prior record. The target
// must exist. When a keyring is configured and a signature sidecar exists,
// the signature must verify before the approval is recorded.
func (s *Store) Allow(path string) error {
	abs, err := s.requireFile(path)
	if err != nil {
		return err
	}

	if err := s.verifySidecar(abs); err != nil {
		return err
	}

	hash, err := hashFile(abs)
	if err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}

	records, err := s.load()
	if err != nil {
		return err
	}
	records[abs] = Record{Path: abs, Hash: hash, Timestamp: s.clock.Now().UTC()}
	if err := s.save(records); err != nil {
		return err
	}

	s.logger.Debugw("approved startup file", "path", abs, "hash", hash, "store", s.path)
	return nil
}

// Deny removes any approval record for the file at path, returning it to
// the blocked state. The target must exist; a missing record is a no-op.
func (s *Store) Deny(path string) error {
	abs, err := s.requireFile(path)
	if err != nil {
		return err
	}

	records, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := records[abs]; !ok {
		return nil
	}
	delete(records, abs)
	if err := s.save(records); err != nil {
		return err
	}

	s.logger.Debugw("revoked startup file approval", "path", abs, "store", s.path)
	return nil
}

// Check classifies the file at path against the store: StatusBlocked when
// no record exists, StatusChanged when the contents differ from the
// approved hash, StatusOK otherwise.
func (s *Store) Check(path string) (Status, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return StatusBlocked, fmt.Errorf("resolve %s: %w", path, err)
	}

	records, err := s.load()
	if err != nil {
		return StatusBlocked, err
	}
	rec, ok := records[abs]
	if !ok {
		return StatusBlocked, nil
	}

	hash, err := hashFile(abs)
	if err != nil {
		return StatusBlocked, fmt.Errorf("hash %s: %w", path, err)
	}
	if !strings.EqualFold(hash, rec.Hash) {
		return StatusChanged, nil
	}
	return StatusOK, nil
}

// Records returns the store's contents sorted by path.
func (s *Store) Records() ([]Record, error) {
	byPath, err := s.load()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(byPath))
	for _, rec := range byPath {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// requireFile resolves path to absolute and fails with a *FileNotFoundError
// when it is missing.
func (s *Store) requireFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", &FileNotFoundError{Path: path}
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return abs, nil
}

func (s *Store) load() (map[string]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Record{}, nil
		}
		return nil, fmt.Errorf("open trust store: %w", err)
	}
	defer f.Close()

	records := map[string]Record{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 {
			continue
		}
		rec := Record{Path: parts[0], Hash: parts[1]}
		if len(parts) == 3 {
			if ts, err := time.Parse(time.RFC3339, parts[2]); err == nil {
				rec.Timestamp = ts
			}
		}
		records[rec.Path] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan trust store: %w", err)
	}
	return records, nil
}

func (s *Store) save(records map[string]Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create trust store directory: %w", err)
	}

	paths := make([]string, 0, len(records))
	for p := range records {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf strings.Builder
	for _, p := range paths {
		rec := records[p]
		buf.WriteString(rec.Path)
		buf.WriteByte('\t')
		buf.WriteString(rec.Hash)
		if !rec.Timestamp.IsZero() {
			buf.WriteByte('\t')
			buf.WriteString(rec.Timestamp.Format(time.RFC3339))
		}
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(dir, ".konch_auth-*")
	if err != nil {
		return fmt.Errorf("create temp trust store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(buf.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write trust store: %w", err)
	}
	// Approval records are private to the user.
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod trust store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close trust store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace trust store: %w", err)
	}
	return nil
}

// hashFile computes the hex SHA-256 digest of the file's contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
