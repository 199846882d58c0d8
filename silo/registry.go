package silo

import (
	"context"
	"github.com/johnewart/go-orleans-docstore/silo/state"
	"sort"
	"sync"
	"zombiezen.com/go/log"
)

const DefaultStorageProviderName = "Default"

// GrainStorageRegistry holds the named storage providers grains can be
// configured with.
type GrainStorageRegistry struct {
	mu        sync.RWMutex
	providers map[string]state.GrainStorage
}

func NewGrainStorageRegistry() *GrainStorageRegistry {
	return &GrainStorageRegistry{
		providers: make(map[string]state.GrainStorage),
	}
}

func (h *GrainStorageRegistry) Register(ctx context.Context, name string, storage state.GrainStorage) error {
	if name == "" {
		name = DefaultStorageProviderName
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.providers[name]; ok {
		return DuplicateStorageProviderError{Name: name}
	}
	h.providers[name] = storage
	log.Infof(ctx, "Registered grain storage provider %s", name)
	return nil
}

func (h *GrainStorageRegistry) Deregister(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.providers, name)
}

// Get returns the named provider; an empty name selects the default one.
func (h *GrainStorageRegistry) Get(name string) (state.GrainStorage, error) {
	if name == "" {
		name = DefaultStorageProviderName
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if storage, ok := h.providers[name]; ok {
		return storage, nil
	} else {
		return nil, UnknownStorageProviderError{Name: name}
	}
}

func (h *GrainStorageRegistry) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.providers))
	for name := range h.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
