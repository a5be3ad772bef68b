// Package drafts keeps each user's uncommitted calculator state between
// requests. A draft is replaced as a whole on every change.
package drafts

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/pagetally/internal/models"
)

// KeyPrefix namespaces draft keys; a user's draft lives at KeyPrefix + ":" + userID.
const KeyPrefix = "calculatorData"

// Key returns the storage key for a user's draft.
func Key(userID string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, userID)
}

// Store persists drafts per user.
type Store interface {
	// Get returns the user's draft and whether one exists.
	Get(ctx context.Context, userID string) (*models.Draft, bool, error)
	// Put replaces the user's draft.
	Put(ctx context.Context, userID string, draft *models.Draft) error
	// Delete removes the user's draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, userID string) error
	Close() error
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]models.Draft
}

// NewMemoryStore creates an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]models.Draft)}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*models.Draft, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drafts[Key(userID)]
	if !ok {
		return nil, false, nil
	}
	return clone(&d), true, nil
}

func (m *MemoryStore) Put(_ context.Context, userID string, draft *models.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drafts[Key(userID)] = *clone(draft)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, Key(userID))
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// clone copies the document slice so callers cannot mutate stored state.
func clone(d *models.Draft) *models.Draft {
	c := *d
	c.Documents = append([]models.Document{}, d.Documents...)
	return &c
}
