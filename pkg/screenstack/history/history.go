package history

// History keeps one Stack per manager. It is not safe for concurrent use;
// the navigator serializes access.
type History struct {
	stacks map[int]*Stack
}

func New() *History {
	return &History{stacks: make(map[int]*Stack)}
}

// Push records an entry on its manager's stack.
func (h *History) Push(entry Entry) {
	stack, ok := h.stacks[entry.Manager]
	if !ok {
		stack = NewStack()
		h.stacks[entry.Manager] = stack
	}
	stack.Push(entry)
}

// Pop removes the most recent entry for a manager, or returns nil.
func (h *History) Pop(manager int) *Entry {
	if stack, ok := h.stacks[manager]; ok {
		return stack.Pop()
	}
	return nil
}

func (h *History) Peek(manager int) *Entry {
	if stack, ok := h.stacks[manager]; ok {
		return stack.Peek()
	}
	return nil
}

func (h *History) CanGoBack(manager int) bool {
	stack, ok := h.stacks[manager]
	return ok && !stack.IsEmpty()
}

func (h *History) Len(manager int) int {
	if stack, ok := h.stacks[manager]; ok {
		return stack.Len()
	}
	return 0
}

// Clear empties a manager's stack and returns the number of entries dropped.
func (h *History) Clear(manager int) int {
	if stack, ok := h.stacks[manager]; ok {
		return stack.Clear()
	}
	return 0
}

// Drop forgets a manager entirely.
func (h *History) Drop(manager int) {
	delete(h.stacks, manager)
}

// ClearAll empties every stack.
func (h *History) ClearAll() {
	for _, stack := range h.stacks {
		stack.Clear()
	}
	clear(h.stacks)
}

// Entries returns a manager's history, most recent first.
func (h *History) Entries(manager int) []Entry {
	if stack, ok := h.stacks[manager]; ok {
		return stack.Entries()
	}
	return []Entry{}
}
