package collection

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/collectorking/collectorking/pkg/errors"
)

// fileDocument is the on-disk shape of a collection file.
type fileDocument struct {
	Records []Record `yaml:"records"`
}

// FileStore is a Store persisted to a single YAML file. It keeps the full
// record set in memory and writes the file back after every mutation, so the
// durable state is never more than one operation behind.
type FileStore struct {
	*MemoryStore
	path string

	// writeMu covers each mutate-and-save pair so two interleaved writers
	// cannot rename an older snapshot over a newer one.
	writeMu sync.Mutex
}

// NewFileStore opens (or creates) a file-backed store at path. An existing
// file is loaded; a missing one yields an empty store and is created on the
// first write.
func NewFileStore(path string, opts ...MemoryOption) (*FileStore, error) {
	if path == "" {
		return nil, &errors.ValidationError{Field: "path", Message: "cannot be empty"}
	}

	s := &FileStore{
		MemoryStore: NewMemoryStore(opts...),
		path:        path,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the collection file.
func (s *FileStore) Path() string {
	return s.path
}

// Upsert implements Store.
func (s *FileStore) Upsert(rec Record) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.MemoryStore.Upsert(rec); err != nil {
		return err
	}
	return s.save()
}

// SetQuantity implements Store.
func (s *FileStore) SetQuantity(key Key, quantity int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.MemoryStore.SetQuantity(key, quantity); err != nil {
		return err
	}
	return s.save()
}

// UpdatePrice implements Store.
func (s *FileStore) UpdatePrice(key Key, price float64, newRarity string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.MemoryStore.UpdatePrice(key, price, newRarity); err != nil {
		return err
	}
	return s.save()
}

// load reads the collection file into memory.
func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("read", s.path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	s.replaceAll(doc.Records)
	return nil
}

// save writes the current record set back to disk atomically: marshal to a
// temp file in the target directory, then rename over the old file.
func (s *FileStore) save() error {
	doc := fileDocument{Records: s.List()}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".collection_*.yaml")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", s.path, err)
	}
	return nil
}
