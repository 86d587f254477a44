package services

import (
	"sync"

	"inmo-pipeline/models"
)

// SessionStore is the single-slot cache holding the last published
// result bundle. A new ingestion replaces the bundle wholesale; the
// bundle itself is never mutated after publication, so readers may hold
// on to whatever Current returned even across a replace.
type SessionStore struct {
	mu     sync.RWMutex
	result *models.PipelineResult
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Publish atomically replaces the cached bundle.
func (s *SessionStore) Publish(result *models.PipelineResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
}

// Current returns the last published bundle, or nil before the first
// ingestion.
func (s *SessionStore) Current() *models.PipelineResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Loaded reports whether a bundle has been published.
func (s *SessionStore) Loaded() bool {
	return s.Current() != nil
}
