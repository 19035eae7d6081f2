/*
Package presence holds the list of currently active members and applies the
membership events delivered by the external presence service.

Presence itself is tracked elsewhere; this package only mirrors the resulting list.
*/
package presence

import (
	"slices"
	"sync"
)

// ActiveList is a concurrency-safe set of active member emails.
type ActiveList struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

// NewActiveList returns an empty list.
func NewActiveList() *ActiveList {
	return &ActiveList{members: make(map[string]struct{})}
}

// Add marks id as active.
func (l *ActiveList) Add(id string) {
	if id == "" {
		return
	}

	l.mu.Lock()
	l.members[id] = struct{}{}
	l.mu.Unlock()
}

// Remove marks id as inactive.
func (l *ActiveList) Remove(id string) {
	l.mu.Lock()
	delete(l.members, id)
	l.mu.Unlock()
}

// Set replaces the whole list.
func (l *ActiveList) Set(ids []string) {
	members := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			members[id] = struct{}{}
		}
	}

	l.mu.Lock()
	l.members = members
	l.mu.Unlock()
}

// IsMember reports whether id is active.
func (l *ActiveList) IsMember(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.members[id]
	return ok
}

// Members returns the active ids in sorted order.
func (l *ActiveList) Members() []string {
	l.mu.RLock()
	ids := make([]string, 0, len(l.members))
	for id := range l.members {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Len returns the number of active members.
func (l *ActiveList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.members)
}
