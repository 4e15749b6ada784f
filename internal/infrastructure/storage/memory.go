package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	reservationapp "github.com/travel/backend/internal/application/reservation"
)

var _ reservationapp.BlobStorage = (*MemoryBlobStorage)(nil)

// StoredObject is an object held by MemoryBlobStorage
type StoredObject struct {
	Data        []byte
	ContentType string
}

// MemoryBlobStorage keeps objects in process memory. Used in development
// and tests; nothing survives a restart.
type MemoryBlobStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]StoredObject
}

// NewMemoryBlobStorage creates an empty store. URLs are built from baseURL,
// which defaults to "memory://receipts".
func NewMemoryBlobStorage(baseURL string) *MemoryBlobStorage {
	if baseURL == "" {
		baseURL = "memory://receipts"
	}
	return &MemoryBlobStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]StoredObject),
	}
}

// Put implements BlobStorage
func (s *MemoryBlobStorage) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = StoredObject{
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
	}
	return s.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}

// Get returns a stored object
func (s *MemoryBlobStorage) Get(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryBlobStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
