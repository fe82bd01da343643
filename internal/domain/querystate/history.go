package querystate

import (
	"strings"
	"sync"
)

// History is the address bar: it holds the current location's query string
// and a list of entries the user can navigate through.
type History interface {
	// Location returns the current query string without the leading "?".
	Location() string

	// Replace swaps the current entry's query string.
	Replace(rawQuery string)

	// Push appends a new entry and makes it current.
	Push(rawQuery string)

	// Subscribe registers fn for back/forward navigation. Replace and Push
	// do not notify. The returned func removes the subscription.
	Subscribe(fn func(rawQuery string)) func()
}

// SessionHistory is an in-memory History with back/forward navigation.
type SessionHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func(string)
	nextID    int
}

// NewSessionHistory starts a history with a single entry.
func NewSessionHistory(initial string) *SessionHistory {
	return &SessionHistory{
		entries:   []string{normalizeLocation(initial)},
		listeners: make(map[int]func(string)),
	}
}

// Location returns the current query string.
func (h *SessionHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Replace swaps the current entry.
func (h *SessionHistory) Replace(rawQuery string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = normalizeLocation(rawQuery)
}

// Push drops any forward entries and appends rawQuery. Pushing the current
// location again is a no-op.
func (h *SessionHistory) Push(rawQuery string) {
	rawQuery = normalizeLocation(rawQuery)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.index] == rawQuery {
		return
	}
	h.entries = append(h.entries[:h.index+1], rawQuery)
	h.index++
}

// Subscribe registers a navigation listener.
func (h *SessionHistory) Subscribe(fn func(rawQuery string)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Back moves one entry back. It returns false at the first entry.
func (h *SessionHistory) Back() bool {
	return h.Go(-1)
}

// Forward moves one entry forward. It returns false at the last entry.
func (h *SessionHistory) Forward() bool {
	return h.Go(1)
}

// Go moves delta entries and notifies listeners with the new location.
// Out-of-range moves do nothing and return false.
func (h *SessionHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	location := h.entries[target]
	listeners := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(location)
	}
	return true
}

// CanGoBack reports whether Back would move.
func (h *SessionHistory) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanGoForward reports whether Forward would move.
func (h *SessionHistory) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// Position returns the 1-based index of the current entry and the number of
// entries.
func (h *SessionHistory) Position() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index + 1, len(h.entries)
}

func normalizeLocation(rawQuery string) string {
	return strings.TrimPrefix(strings.TrimSpace(rawQuery), "?")
}
