package memory

import (
	"context"
	"io"
	"strings"
	"sync"

	"imagehub/pkg/media"
)

type Storage struct {
	mu      sync.RWMutex
	items   map[string][]byte
	baseURL string
}

// NewStorage returns an in-process media store serving URLs under baseURL.
func NewStorage(baseURL string) *Storage {
	return &Storage{
		items:   map[string][]byte{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Storage) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = data

	return s.baseURL + "/" + key, nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return media.ErrNotFound
	}
	delete(s.items, key)
	return nil
}

// Get returns the stored bytes for key.
func (s *Storage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[key]
	return data, ok
}

// Len reports how many objects are stored.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
