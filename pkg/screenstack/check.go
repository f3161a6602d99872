package screenstack

// CanOpen reports whether a screen type could be opened on a manager's layer
// right now. It has no side effects. The returned *NavigationError carries one
// of ErrManagerNotFound, ErrInvalidLayer, ErrDuplicateScreen or ErrLayerOccupied.
func (n *Navigator) CanOpen(t ScreenType, manager, layer int, force bool) (err error) {
	defer func() { localize(err, n.language) }()
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.canOpenLocked(t, manager, layer, force)
}

func (n *Navigator) canOpenLocked(t ScreenType, manager, layer int, force bool) error {
	rec, ok := n.managers.get(manager)
	if !ok {
		return newError("check", ErrManagerNotFound, manager, layer, t, nil)
	}

	if !rec.validLayer(layer) {
		return newError("check", ErrInvalidLayer, manager, layer, t, nil)
	}

	if inst, active := n.registry.screen(t, manager); active && inst.hiding == nil {
		return newError("check", ErrDuplicateScreen, manager, layer, t, nil)
	}

	if !force {
		if occ, occupied := n.registry.layer(layer, manager); occupied && !(occ.typ == t && occ.hiding != nil) {
			return newError("check", ErrLayerOccupied, manager, layer, t, nil)
		}
	}

	return nil
}

// HasConfig reports whether a descriptor is registered for a type on a manager.
func (n *Navigator) HasConfig(t ScreenType, manager int) bool {
	_, ok := n.Descriptor(manager, t)
	return ok
}

// CanShow reports whether an instance is in a state that allows showing it.
func CanShow(inst *Instance) bool {
	if inst == nil {
		return false
	}
	s := inst.state.load()
	if s.Has(StateInUse) {
		return false
	}
	if s&(StateLoading|StateUnloading) != 0 {
		return false
	}
	return true
}

// CanHide reports whether an instance is in a state that allows hiding it.
func CanHide(inst *Instance) bool {
	if inst == nil {
		return false
	}
	s := inst.state.load()
	if !s.Has(StateInUse) {
		return false
	}
	if s&(StateInHideAnimation|StateUnloading) != 0 {
		return false
	}
	return true
}
