package store

import "sync"

// watcherHub fans write notifications out to path subscribers. Notifications
// fire after the local write commits; there is no ordering guarantee between
// a subscriber's own writes and the callbacks it receives beyond eventual
// delivery, matching the backing database's push contract.
type watcherHub struct {
	mu      sync.Mutex
	nextID  int
	byPath  map[string]map[int]func(Fields)
}

func newWatcherHub() *watcherHub {
	return &watcherHub{byPath: make(map[string]map[int]func(Fields))}
}

func (h *watcherHub) add(path string, fn func(Fields)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	if h.byPath[path] == nil {
		h.byPath[path] = make(map[int]func(Fields))
	}
	h.byPath[path][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.byPath[path], id)
		if len(h.byPath[path]) == 0 {
			delete(h.byPath, path)
		}
	}
}

func (h *watcherHub) notify(path string, value Fields) {
	h.mu.Lock()
	fns := make([]func(Fields), 0, len(h.byPath[path]))
	for _, fn := range h.byPath[path] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}
