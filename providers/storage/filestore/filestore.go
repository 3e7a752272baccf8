package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact names written by the pipeline.
const (
	DescriptionFile = "project_description.txt"
	ProfileFile     = "project_profile.json"
	BillingFile     = "mock_billing.json"
	ReportFile      = "cost_optimization_report.json"
	SummaryFile     = "cost_optimization_summary.txt"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrNotFound is returned when a requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store reads and writes artifacts below Dir.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Dir returns the store root.
func (s *Store) Dir() string { return s.dir }

// Path returns the on-disk path of the named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether the named artifact is present.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// SaveJSON encodes v as indented JSON and writes it atomically.
func (s *Store) SaveJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return s.write(name, buf.Bytes())
}

// LoadJSON decodes the named artifact into out.
func (s *Store) LoadJSON(name string, out any) error {
	data, err := s.read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// SaveText writes text as-is.
func (s *Store) SaveText(name, text string) error {
	return s.write(name, []byte(text))
}

// LoadText returns the contents of the named artifact.
func (s *Store) LoadText(name string) (string, error) {
	data, err := s.read(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path(name))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) write(name string, data []byte) (err error) {
	if err = ensureDir(s.dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err = tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
