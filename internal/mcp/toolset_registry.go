package mcp

import (
	"errors"
	"sort"
	"sync"
)

type ToolsetFactory func() Toolset

type toolsetRegistry struct {
	mu        sync.RWMutex
	factories map[string]ToolsetFactory
}

var toolsets = toolsetRegistry{factories: map[string]ToolsetFactory{}}

func RegisterToolset(id string, factory ToolsetFactory) error {
	if id == "" {
		return errors.New("toolset id required")
	}
	if factory == nil {
		return errors.New("toolset factory required")
	}
	toolsets.mu.Lock()
	defer toolsets.mu.Unlock()
	if _, exists := toolsets.factories[id]; exists {
		return errors.New("toolset already registered")
	}
	toolsets.factories[id] = factory
	return nil
}

func MustRegisterToolset(id string, factory ToolsetFactory) {
	if err := RegisterToolset(id, factory); err != nil {
		panic(err)
	}
}

func ToolsetFactoryFor(id string) (ToolsetFactory, bool) {
	toolsets.mu.RLock()
	defer toolsets.mu.RUnlock()
	factory, ok := toolsets.factories[id]
	return factory, ok
}

func RegisteredToolsets() []string {
	toolsets.mu.RLock()
	defer toolsets.mu.RUnlock()
	ids := make([]string, 0, len(toolsets.factories))
	for id := range toolsets.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
