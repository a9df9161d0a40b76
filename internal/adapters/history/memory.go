// Package history provides the in-memory HistoryPort implementation
// used by tests and server-side hosts. Browser hosts supply their own
// adapter on top of the History API.
package history

import "sync"

// MemoryHistory keeps a linear history of query strings.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	pos     int
	onPop   func(query string)

	// Navigations records full page loads requested in fallback mode,
	// newest last. Exposed for hosts and tests via LastNavigation.
	navigations []string
}

// NewMemory starts history at the given query string.
func NewMemory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []string{initial}}
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

func (h *MemoryHistory) Push(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.pos+1], query)
	h.pos = len(h.entries) - 1
}

func (h *MemoryHistory) Replace(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = query
}

func (h *MemoryHistory) Navigate(query string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navigations = append(h.navigations, query)
}

func (h *MemoryHistory) OnPop(fn func(query string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPop = fn
}

// Back moves one entry back and fires the pop listener, mimicking the
// browser back button.
func (h *MemoryHistory) Back() {
	h.mu.Lock()
	if h.pos > 0 {
		h.pos--
	}
	query := h.entries[h.pos]
	fn := h.onPop
	h.mu.Unlock()

	if fn != nil {
		fn(query)
	}
}

// Forward moves one entry forward and fires the pop listener.
func (h *MemoryHistory) Forward() {
	h.mu.Lock()
	if h.pos < len(h.entries)-1 {
		h.pos++
	}
	query := h.entries[h.pos]
	fn := h.onPop
	h.mu.Unlock()

	if fn != nil {
		fn(query)
	}
}

// LastNavigation returns the most recent full-navigation request, if any.
func (h *MemoryHistory) LastNavigation() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.navigations) == 0 {
		return "", false
	}
	return h.navigations[len(h.navigations)-1], true
}
