package session

// History keeps the most recent messages.
type History struct {
	size  int
	items []string
}

// NewHistory creates a history holding at most size entries (minimum 1).
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{size: size, items: make([]string, 0, size)}
}

// Add appends a message, dropping the oldest when full. Empty strings are ignored.
func (h *History) Add(msg string) {
	if msg == "" {
		return
	}
	if len(h.items) == h.size {
		copy(h.items, h.items[1:])
		h.items = h.items[:h.size-1]
	}
	h.items = append(h.items, msg)
}

// Items returns a copy of the stored messages, newest first.
func (h *History) Items() []string {
	out := make([]string, len(h.items))
	for i, m := range h.items {
		out[len(h.items)-1-i] = m
	}
	return out
}

// Reset drops every message.
func (h *History) Reset() {
	h.items = h.items[:0]
}
