package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DocumentDefaults are render settings remembered for one document file.
type DocumentDefaults struct {
	Platform      string    `json:"platform,omitempty"`
	View          string    `json:"view,omitempty"`
	Resources     string    `json:"resources,omitempty"`
	ImageStrategy string    `json:"images,omitempty"`
	FileKey       string    `json:"fileKey,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (d DocumentDefaults) empty() bool {
	return d.Platform == "" && d.View == "" && d.Resources == "" && d.ImageStrategy == "" && d.FileKey == ""
}

// storeFile is the on-disk layout of the store.
type storeFile struct {
	DefaultPlatform string `json:"defaultPlatform,omitempty"`
	// Documents is keyed by absolute document path.
	Documents map[string]DocumentDefaults `json:"documents,omitempty"`
}

// Store keeps user-level state across projects: the fallback platform and
// per-document render defaults.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore opens the store at <user config dir>/figkit/config.json,
// honoring XDG_CONFIG_HOME.
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	return NewStoreAt(filepath.Join(dir, "figkit", "config.json")), nil
}

// NewStoreAt opens the store backed by path.
func NewStoreAt(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the store file location.
func (s *Store) Path() string { return s.path }

func (s *Store) read() (storeFile, error) {
	var f storeFile
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return f, nil
}

// update applies fn to the stored state and writes it back.
func (s *Store) update(fn func(*storeFile)) error {
	f, err := s.read()
	if err != nil {
		return err
	}
	fn(&f)
	if len(f.Documents) == 0 {
		f.Documents = nil
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	return writeAtomic(s.path, append(data, '\n'))
}

// writeAtomic replaces path with data through a temp file in the same directory.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// DefaultPlatform returns the fallback platform, or "" if unset.
func (s *Store) DefaultPlatform() (string, error) {
	f, err := s.read()
	return f.DefaultPlatform, err
}

// SetDefaultPlatform sets the fallback platform. Empty clears it.
func (s *Store) SetDefaultPlatform(platform string) error {
	return s.update(func(f *storeFile) { f.DefaultPlatform = platform })
}

// DocumentKey is the key a document file is remembered under.
func DocumentKey(dir, file string) string {
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}
	return filepath.Clean(file)
}

// Document returns the defaults remembered for the document at key.
func (s *Store) Document(key string) (DocumentDefaults, bool, error) {
	f, err := s.read()
	if err != nil {
		return DocumentDefaults{}, false, err
	}
	d, ok := f.Documents[key]
	return d, ok, nil
}

// Remember merges d into the defaults of the document at key. Empty fields
// keep their stored value.
func (s *Store) Remember(key string, d DocumentDefaults) error {
	return s.update(func(f *storeFile) {
		if f.Documents == nil {
			f.Documents = make(map[string]DocumentDefaults)
		}
		cur := f.Documents[key]
		override(&cur.Platform, d.Platform)
		override(&cur.View, d.View)
		override(&cur.Resources, d.Resources)
		override(&cur.ImageStrategy, d.ImageStrategy)
		override(&cur.FileKey, d.FileKey)
		if cur.empty() {
			return
		}
		cur.UpdatedAt = s.now().UTC()
		f.Documents[key] = cur
	})
}

// Forget drops the defaults of the document at key.
func (s *Store) Forget(key string) error {
	return s.update(func(f *storeFile) { delete(f.Documents, key) })
}

// Documents returns the remembered document keys in order.
func (s *Store) Documents() ([]string, error) {
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.Documents))
	for k := range f.Documents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
