package screenstack

import "context"

// GoBack re-shows the most recent history entry of a manager. The occupant of
// the entry's layer is hidden immediately first, and the re-shown screen is
// not pushed onto history again. It returns nil, nil when history is empty.
func (n *Navigator) GoBack(ctx context.Context, manager int) (*Instance, error) {
	n.mu.Lock()
	entry := n.history.Pop(manager)
	var occupant *Instance
	if entry != nil {
		occupant, _ = n.registry.layer(entry.Layer, manager)
	}
	n.mu.Unlock()

	if entry == nil {
		return nil, nil
	}

	if occupant != nil {
		n.evict(occupant)
	}

	inst, err := n.Show(ctx, ShowRequest{
		Type:         ScreenType(entry.Screen),
		Manager:      manager,
		Layer:        entry.Layer,
		Params:       entry.Params,
		AddToHistory: false,
	})
	if err != nil {
		n.log.Error("Back navigation failed", "screen", entry.Screen, "manager", manager, "error", err)
		return inst, err
	}

	n.bus.emit(Event{
		Kind:     EventBackNavigation,
		Screen:   inst.typ,
		Instance: inst,
		Manager:  manager,
		Layer:    entry.Layer,
		From:     occupant,
	})
	return inst, nil
}

func (n *Navigator) CanGoBack(manager int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history.CanGoBack(manager)
}

// ClearHistory drops every history entry of a manager.
func (n *Navigator) ClearHistory(manager int) {
	n.mu.Lock()
	dropped := n.history.Clear(manager)
	n.mu.Unlock()

	n.bus.emit(Event{Kind: EventHistoryCleared, Manager: manager, Count: dropped})
}

func (n *Navigator) HistoryCount(manager int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history.Len(manager)
}

// History returns a copy of a manager's history, most recent first.
func (n *Navigator) History(manager int) []HistoryEntry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history.Entries(manager)
}

// PeekHistory returns the entry GoBack would re-show next.
func (n *Navigator) PeekHistory(manager int) (HistoryEntry, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e := n.history.Peek(manager); e != nil {
		return *e, true
	}
	return HistoryEntry{}, false
}
