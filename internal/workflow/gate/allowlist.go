package gate

import (
	"slices"
	"sync"
)

// AllowList is the set of "proceed always" grants for one session.
// Keys are a tool name or "name:scope".
type AllowList struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewAllowList creates an empty allow-list.
func NewAllowList() *AllowList {
	return &AllowList{keys: make(map[string]struct{})}
}

// Add records key. Adding an existing key is a no-op.
func (a *AllowList) Add(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys[key] = struct{}{}
}

// Contains reports whether key has been granted.
func (a *AllowList) Contains(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.keys[key]
	return ok
}

// Keys returns the granted keys in sorted order.
func (a *AllowList) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0, len(a.keys))
	for k := range a.keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
