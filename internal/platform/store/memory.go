package store

import (
	"context"
	"sync"
)

// Memory is an in-process RecordStore. It backs local development, the seed
// command against a fresh instance, and the test suite.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Fields
	watchers    *watcherHub
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]Fields),
		watchers:    newWatcherHub(),
	}
}

func (m *Memory) Get(_ context.Context, path string) (Fields, error) {
	coll, id, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.collections[coll][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneFields(rec), nil
}

func (m *Memory) Set(_ context.Context, path string, value Fields) error {
	coll, id, err := SplitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.collections[coll] == nil {
		m.collections[coll] = make(map[string]Fields)
	}
	m.collections[coll][id] = cloneFields(value)
	snapshot := cloneFields(value)
	m.mu.Unlock()

	m.watchers.notify(path, snapshot)
	return nil
}

func (m *Memory) Update(_ context.Context, path string, partial Fields) error {
	coll, id, err := SplitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.collections[coll] == nil {
		m.collections[coll] = make(map[string]Fields)
	}
	rec, ok := m.collections[coll][id]
	if !ok {
		rec = make(Fields)
		m.collections[coll][id] = rec
	}
	for k, v := range partial {
		if v == nil {
			delete(rec, k)
			continue
		}
		rec[k] = cloneValue(v)
	}
	snapshot := cloneFields(rec)
	m.mu.Unlock()

	m.watchers.notify(path, snapshot)
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	coll, id, err := SplitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.collections[coll], id)
	m.mu.Unlock()

	m.watchers.notify(path, nil)
	return nil
}

func (m *Memory) List(_ context.Context, path string) (map[string]Fields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Fields, len(m.collections[path]))
	for id, rec := range m.collections[path] {
		out[id] = cloneFields(rec)
	}
	return out, nil
}

func (m *Memory) Subscribe(path string, fn func(Fields)) func() {
	return m.watchers.add(path, fn)
}

// cloneFields deep-copies a field bag, including nested maps and slices, so
// stored records never alias caller data and returned records never alias
// stored data.
func cloneFields(in Fields) Fields {
	if in == nil {
		return nil
	}
	out := make(Fields, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
