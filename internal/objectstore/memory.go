package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"clearway/pkg/sentinel"
)

type object struct {
	contentType string
	data        []byte
}

// Memory is an in-memory object store for development and tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewMemory creates an empty in-memory object store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]object)}
}

// PutObject stores a copy of data under key, overwriting any prior object.
func (m *Memory) PutObject(_ context.Context, key, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = object{contentType: contentType, data: buf}
	return nil
}

// GetObject returns a copy of the object stored under key.
func (m *Memory) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	buf := make([]byte, len(obj.data))
	copy(buf, obj.data)
	return buf, nil
}

// ListObjects returns the sorted keys under prefix.
func (m *Memory) ListObjects(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := []string{}
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ ObjectStore = (*Memory)(nil)
