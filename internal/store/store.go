// Package store is the browser-preview persistence fallback: the same two
// namespaced records the web page keeps in localStorage (profiles and
// documents), each a single JSON array read whole and rewritten whole on
// every mutation. Records are optionally encrypted at rest with keys derived
// from the vault master key.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pothipatra/internal/models"
)

const (
	NamespaceProfiles  = "pothipatra.profiles"
	NamespaceDocuments = "pothipatra.documents"
)

// Store owns the on-disk records. All reads and writes go through one
// RWMutex; there is no partial update and no transaction log.
type Store struct {
	dir    string
	master []byte // nil = plaintext records
	mu     sync.RWMutex
}

// Open prepares a store rooted at dir. master may be nil for plaintext
// records (development), or a 32-byte key for AES-GCM at rest.
func Open(dir string, master []byte) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir, master: master}, nil
}

func (s *Store) path(namespace string) string {
	name := namespace + ".json"
	if s.master != nil {
		name += ".enc"
	}
	return filepath.Join(s.dir, name)
}

// Read unmarshals the whole record into v. A missing record is not an
// error: v is left untouched, matching a first run with empty localStorage.
func (s *Store) Read(namespace string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, err := os.ReadFile(s.path(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if s.master != nil {
		key, err := DeriveRecordKey(s.master, namespace)
		if err != nil {
			return err
		}
		blob, err = DecryptAESGCM(key, blob)
		if err != nil {
			return fmt.Errorf("decrypt %s: %w", namespace, err)
		}
	}
	return json.Unmarshal(blob, v)
}

// Write marshals v and rewrites the whole record.
func (s *Store) Write(namespace string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if s.master != nil {
		key, err := DeriveRecordKey(s.master, namespace)
		if err != nil {
			return err
		}
		blob, err = EncryptAESGCM(key, blob)
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", namespace, err)
		}
	}
	return os.WriteFile(s.path(namespace), blob, 0600)
}

// Profiles returns the profiles record, empty if none has been written.
func (s *Store) Profiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.Read(NamespaceProfiles, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Store) SaveProfiles(profiles []models.Profile) error {
	return s.Write(NamespaceProfiles, profiles)
}

// Documents returns the documents record, empty if none has been written.
func (s *Store) Documents() ([]models.StoredDocument, error) {
	var docs []models.StoredDocument
	if err := s.Read(NamespaceDocuments, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) SaveDocuments(docs []models.StoredDocument) error {
	return s.Write(NamespaceDocuments, docs)
}
