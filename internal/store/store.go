// Package store persists the SoundCloud field value of host documents.
package store

import (
	"context"
	"errors"
	"sync"

	"scinput/internal/core"
)

// ErrNotFound is returned when a document has no stored value.
var ErrNotFound = errors.New("document value not found")

// DocumentStore keeps one SoundcloudData value per document id.
type DocumentStore interface {
	Get(ctx context.Context, docID string) (core.SoundcloudData, error)
	Put(ctx context.Context, docID string, data core.SoundcloudData) error
	Delete(ctx context.Context, docID string) error
	Close() error
}

// MemoryStore is a thread-safe in-memory DocumentStore.
type MemoryStore struct {
	docs  map[string]core.SoundcloudData
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]core.SoundcloudData),
	}
}

func (ms *MemoryStore) Get(_ context.Context, docID string) (core.SoundcloudData, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	data, exists := ms.docs[docID]
	if !exists {
		return core.SoundcloudData{}, ErrNotFound
	}
	return core.NewSoundcloudData(data.Tracks), nil
}

func (ms *MemoryStore) Put(_ context.Context, docID string, data core.SoundcloudData) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.docs[docID] = core.NewSoundcloudData(data.Tracks)
	return nil
}

// Delete removes the value. Deleting a missing value is not an error.
func (ms *MemoryStore) Delete(_ context.Context, docID string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	delete(ms.docs, docID)
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
