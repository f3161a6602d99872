package history

import "time"

// Entry represents a single step of navigation history.
// It records which screen was shown where, with the parameters it was shown with.
type Entry struct {
	Screen    string
	Manager   int
	Layer     int
	Params    []any
	Timestamp time.Time
}

// Stack manages navigation history for back navigation on one manager.
type Stack struct {
	entries []Entry
}

// NewStack creates a new empty navigation stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]Entry, 0),
	}
}

// Push adds a new entry to the stack.
// The parameter slice is copied so later mutation by the caller does not
// leak into history.
func (s *Stack) Push(entry Entry) {
	if entry.Params != nil {
		entry.Params = append([]any(nil), entry.Params...)
	}
	s.entries = append(s.entries, entry)
}

// Pop removes and returns the top entry from the stack.
// Returns nil if the stack is empty.
func (s *Stack) Pop() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	entry := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = Entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return &entry
}

// Peek returns a copy of the top entry without removing it.
// Returns nil if the stack is empty.
func (s *Stack) Peek() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	entry := s.entries[len(s.entries)-1]
	return &entry
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear removes all entries from the stack and returns how many were dropped.
func (s *Stack) Clear() int {
	n := len(s.entries)
	clear(s.entries)
	s.entries = s.entries[:0]
	return n
}

// Entries returns a snapshot of the stack, most recent first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i := range s.entries {
		out[i] = s.entries[len(s.entries)-1-i]
	}
	return out
}
