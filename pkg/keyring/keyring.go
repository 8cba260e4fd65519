// Package keyring maintains a small JSON registry mapping key IDs to KEK
// files on disk, so callers can refer to wrapping keys by name instead of
// path. The registry stores no key material itself.
package keyring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Entry records one KEK known to the keyring.
type Entry struct {
	KeyID   string    `json:"key_id"`
	Path    string    `json:"path"`
	Created time.Time `json:"created"`
	Revoked bool      `json:"revoked"`
}

type Store struct {
	Entries []Entry `json:"entries"`
}

var ErrKeyNotFound = errors.New("keyring: key not found")

func load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s Store
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("keyring %s: %w", path, err)
	}
	return &s, nil
}

func save(path string, s *Store) error {
	b, _ := json.MarshalIndent(s, "", "  ")
	return os.WriteFile(path, b, 0600)
}

// checkPerm rejects KEK files readable by anyone but the owner.
func checkPerm(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := st.Mode().Perm(); mode != 0o600 {
		return fmt.Errorf("kek file %s permissions %o (want 0600)", path, mode)
	}
	return nil
}

// Resolve returns the KEK file path registered under keyID. Revoked
// entries and KEK files with lax permissions are refused.
func Resolve(path, keyID string) (string, error) {
	s, err := load(path)
	if err != nil {
		return "", err
	}
	for _, e := range s.Entries {
		if e.KeyID != keyID {
			continue
		}
		if e.Revoked {
			return "", fmt.Errorf("keyring: key %s is revoked", keyID)
		}
		if err := checkPerm(e.Path); err != nil {
			return "", err
		}
		return e.Path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
}

// Rotate points keyID at a new KEK file, adding the entry if missing. The
// new file must already exist with 0600 permissions.
func Rotate(path, keyID, kekPath string) error {
	if err := checkPerm(kekPath); err != nil {
		return err
	}
	s, err := load(path)
	if err != nil {
		return err
	}
	found := false
	for i := range s.Entries {
		if s.Entries[i].KeyID == keyID {
			s.Entries[i].Path = kekPath
			s.Entries[i].Created = time.Now().UTC()
			s.Entries[i].Revoked = false
			found = true
		}
	}
	if !found {
		s.Entries = append(s.Entries, Entry{KeyID: keyID, Path: kekPath, Created: time.Now().UTC()})
	}
	return save(path, s)
}

// Revoke marks keyID as no longer usable for wrapping or unwrapping.
func Revoke(path, keyID string) error {
	s, err := load(path)
	if err != nil {
		return err
	}
	found := false
	for i := range s.Entries {
		if s.Entries[i].KeyID == keyID {
			s.Entries[i].Revoked = true
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
	}
	return save(path, s)
}

// List returns all entries, for display.
func List(path string) ([]Entry, error) {
	s, err := load(path)
	if err != nil {
		return nil, err
	}
	return s.Entries, nil
}
