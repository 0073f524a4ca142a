// Package session keeps the signed-in identity for the portal client. The
// identity is written to every configured backend on login and wiped from all
// of them on logout or when the server rejects the token.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/edupanel/edupanel-go/internal/models"
)

// Identity is the signed-in user together with the issued token.
type Identity struct {
	UserID   int64           `json:"user_id"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
	Token    string          `json:"token"`
}

// Backend persists an identity somewhere.
type Backend interface {
	Load() (*Identity, error)
	Save(identity *Identity) error
	Clear() error
}

// Store coordinates identity persistence across backends and notifies
// subscribers when the session ends.
type Store struct {
	mu       sync.RWMutex
	backends []Backend
	current  *Identity
	nextSub  int
	subs     map[int]func()
}

// NewStore builds a store over the given backends. The first backend holding
// a saved identity seeds the in-memory state.
func NewStore(backends ...Backend) *Store {
	s := &Store{backends: backends, subs: make(map[int]func())}
	for _, b := range backends {
		identity, err := b.Load()
		if err == nil && identity != nil && identity.Token != "" {
			s.current = identity
			break
		}
	}
	return s
}

// Set writes the identity to every backend and memory.
func (s *Store) Set(identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.backends {
		if err := b.Save(identity); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	s.current = identity
	return nil
}

// Get returns the current identity, or nil when signed out.
func (s *Store) Get() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Token returns the current token, or empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Clear wipes every backend and fires teardown subscribers.
func (s *Store) Clear() error {
	s.mu.Lock()
	var firstErr error
	for _, b := range s.backends {
		if err := b.Clear(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clear session: %w", err)
		}
	}
	wasActive := s.current != nil
	s.current = nil
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if wasActive {
		for _, fn := range subs {
			fn()
		}
	}
	return firstErr
}

// Subscribe registers a teardown callback fired when an active session is
// cleared. The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// MemoryBackend keeps the identity in process memory only.
type MemoryBackend struct {
	mu       sync.Mutex
	identity *Identity
}

// NewMemoryBackend builds an empty volatile backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the held identity.
func (b *MemoryBackend) Load() (*Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		return nil, nil
	}
	copied := *b.identity
	return &copied, nil
}

// Save stores the identity.
func (b *MemoryBackend) Save(identity *Identity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := *identity
	b.identity = &copied
	return nil
}

// Clear drops the identity.
func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identity = nil
	return nil
}

// FileBackend persists the identity as JSON on disk so sessions survive
// process restarts.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend builds a backend writing to the given file path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the identity file; a missing file is not an error.
func (b *FileBackend) Load() (*Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var identity Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &identity, nil
}

// Save writes the identity file with owner-only permissions.
func (b *FileBackend) Save(identity *Identity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("prepare session directory: %w", err)
	}
	if err := os.WriteFile(b.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the identity file if present.
func (b *FileBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
