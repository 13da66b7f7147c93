// Package store persists saved recipient tokens (label + token + enabled
// flag) in a local JSON file, one list per surface, so frequently used
// devices don't need re-entering between runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Namespaces mirror the tool's send surfaces; Expo and native APNs tokens
// are different strings for the same device, so they never share a list.
const (
	NamespaceExpo         = "expo"
	NamespaceNativePush   = "nativePush"
	NamespaceLiveActivity = "liveActivity"
	NamespaceFCM          = "fcm"
)

// SavedToken is one remembered recipient.
type SavedToken struct {
	ID      uuid.UUID `json:"id"`
	Label   string    `json:"label"`
	Token   string    `json:"token"`
	Enabled bool      `json:"enabled"`
}

// TokenStore reads and writes the token file. All methods are safe for
// concurrent use within one process; the file itself is last-writer-wins.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the saved tokens for a namespace. A missing file is an empty
// store, not an error.
func (s *TokenStore) Load(namespace string) ([]SavedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return data[namespace], nil
}

// Enabled returns just the token strings of enabled entries, the set a send
// actually addresses.
func (s *TokenStore) Enabled(namespace string) ([]string, error) {
	saved, err := s.Load(namespace)
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, t := range saved {
		if t.Enabled {
			tokens = append(tokens, t.Token)
		}
	}
	return tokens, nil
}

// Add appends a new enabled token with a fresh ID.
func (s *TokenStore) Add(namespace, label, token string) (SavedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return SavedToken{}, err
	}
	saved := SavedToken{ID: uuid.New(), Label: label, Token: token, Enabled: true}
	data[namespace] = append(data[namespace], saved)
	if err := s.write(data); err != nil {
		return SavedToken{}, err
	}
	return saved, nil
}

// Remove deletes the token with the given ID.
func (s *TokenStore) Remove(namespace string, id uuid.UUID) error {
	return s.update(namespace, func(tokens []SavedToken) ([]SavedToken, error) {
		for i, t := range tokens {
			if t.ID == id {
				return append(tokens[:i], tokens[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("no saved token with id %s", id)
	})
}

// SetEnabled toggles whether a saved token participates in sends.
func (s *TokenStore) SetEnabled(namespace string, id uuid.UUID, enabled bool) error {
	return s.update(namespace, func(tokens []SavedToken) ([]SavedToken, error) {
		for i := range tokens {
			if tokens[i].ID == id {
				tokens[i].Enabled = enabled
				return tokens, nil
			}
		}
		return nil, fmt.Errorf("no saved token with id %s", id)
	})
}

func (s *TokenStore) update(namespace string, fn func([]SavedToken) ([]SavedToken, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	updated, err := fn(data[namespace])
	if err != nil {
		return err
	}
	data[namespace] = updated
	return s.write(data)
}

func (s *TokenStore) read() (map[string][]SavedToken, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]SavedToken{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token store: %w", err)
	}
	var data map[string][]SavedToken
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("token store is corrupt: %w", err)
	}
	if data == nil {
		data = map[string][]SavedToken{}
	}
	return data, nil
}

func (s *TokenStore) write(data map[string][]SavedToken) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create token store directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write token store: %w", err)
	}
	return nil
}
