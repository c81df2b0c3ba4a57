// File path: internal/assistant/registry.go
package assistant

import (
	"container/list"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("chat session not found")

// DefaultSessionCapacity bounds the number of live sessions.
const DefaultSessionCapacity = 256

// Registry holds sessions by id. The least recently used session is evicted
// once capacity is exceeded.
type Registry struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	ll       *list.List

	bridge *Bridge
	source Source
	opts   []SessionOption
}

// NewRegistry builds a registry whose sessions share bridge and source.
func NewRegistry(bridge *Bridge, source Source, capacity int, opts ...SessionOption) *Registry {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	return &Registry{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		ll:       list.New(),
		bridge:   bridge,
		source:   source,
		opts:     opts,
	}
}

// Create starts and stores a new session.
func (r *Registry) Create() *Session {
	session := NewSession(uuid.NewString(), r.bridge, r.source, r.opts...)
	r.mu.Lock()
	defer r.mu.Unlock()
	elem := r.ll.PushFront(session)
	r.items[session.ID] = elem
	if r.ll.Len() > r.capacity {
		if tail := r.ll.Back(); tail != nil {
			r.ll.Remove(tail)
			delete(r.items, tail.Value.(*Session).ID)
		}
	}
	return session
}

// Get returns a live session and marks it recently used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	elem, ok := r.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	r.ll.MoveToFront(elem)
	return elem.Value.(*Session), nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ll.Len()
}
