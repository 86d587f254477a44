package services

import (
	"sync"
	"testing"

	"inmo-pipeline/models"
)

func TestSessionStoreReplaces(t *testing.T) {
	store := NewSessionStore()
	if store.Loaded() {
		t.Error("new store must be empty")
	}

	first := &models.PipelineResult{}
	store.Publish(first)
	if store.Current() != first {
		t.Error("Current should return the published bundle")
	}

	second := &models.PipelineResult{}
	store.Publish(second)
	if store.Current() != second {
		t.Error("Publish must replace the bundle wholesale")
	}
}

func TestSessionStoreConcurrentReaders(t *testing.T) {
	store := NewSessionStore()
	store.Publish(&models.PipelineResult{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Current() == nil {
				t.Error("reader saw nil after publish")
			}
		}()
	}
	wg.Wait()
}
