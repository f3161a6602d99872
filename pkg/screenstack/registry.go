package screenstack

import "github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"

type typeKey struct {
	manager int
	typ     ScreenType
}

type layerKey struct {
	manager int
	layer   int
}

type tagKey struct {
	manager int
	tag     constants.Tag
}

// activeRegistry indexes shown instances by (manager, type), (manager, layer)
// and (manager, tag). It is a pure index: uniqueness is enforced by the
// navigator, not here. Not safe for concurrent use.
type activeRegistry struct {
	byType  map[typeKey]*Instance
	byLayer map[layerKey]*Instance
	byTag   map[tagKey][]*Instance
	// Placement recorded at add time, so removal finds the same slots.
	entries map[*Instance]placement
}

func newActiveRegistry() *activeRegistry {
	return &activeRegistry{
		byType:  make(map[typeKey]*Instance),
		byLayer: make(map[layerKey]*Instance),
		byTag:   make(map[tagKey][]*Instance),
		entries: make(map[*Instance]placement),
	}
}

func (r *activeRegistry) add(inst *Instance) {
	if inst == nil {
		return
	}
	if _, ok := r.entries[inst]; ok {
		r.remove(inst)
	}

	p := inst.placement()
	r.entries[inst] = p
	r.byType[typeKey{p.manager, inst.typ}] = inst
	r.byLayer[layerKey{p.manager, p.layer}] = inst

	tk := tagKey{p.manager, p.tag}
	r.byTag[tk] = append(r.byTag[tk], inst)

	inst.state.add(StateInUse)
}

func (r *activeRegistry) remove(inst *Instance) {
	if inst == nil {
		return
	}
	inst.state.remove(StateInUse)

	p, ok := r.entries[inst]
	if !ok {
		return
	}
	delete(r.entries, inst)

	tk := typeKey{p.manager, inst.typ}
	if r.byType[tk] == inst {
		delete(r.byType, tk)
	}

	lk := layerKey{p.manager, p.layer}
	if r.byLayer[lk] == inst {
		delete(r.byLayer, lk)
	}

	gk := tagKey{p.manager, p.tag}
	list := r.byTag[gk]
	for i, other := range list {
		if other == inst {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.byTag, gk)
	} else {
		r.byTag[gk] = list
	}
}

func (r *activeRegistry) contains(inst *Instance) bool {
	_, ok := r.entries[inst]
	return ok
}

// screen returns the active instance of a type on a manager.
func (r *activeRegistry) screen(t ScreenType, manager int) (*Instance, bool) {
	inst, ok := r.byType[typeKey{manager, t}]
	return inst, ok
}

// layer returns the occupant of a manager's layer.
func (r *activeRegistry) layer(layer, manager int) (*Instance, bool) {
	inst, ok := r.byLayer[layerKey{manager, layer}]
	return inst, ok
}

// byTagSnapshot returns a copy; callers may mutate the registry while iterating it.
func (r *activeRegistry) byTagSnapshot(tag constants.Tag, manager int) []*Instance {
	list := r.byTag[tagKey{manager, tag}]
	return append(make([]*Instance, 0, len(list)), list...)
}

func (r *activeRegistry) byManager(manager int) []*Instance {
	out := make([]*Instance, 0)
	for inst, p := range r.entries {
		if p.manager == manager {
			out = append(out, inst)
		}
	}
	return out
}

func (r *activeRegistry) all() []*Instance {
	out := make([]*Instance, 0, len(r.entries))
	for inst := range r.entries {
		out = append(out, inst)
	}
	return out
}

func (r *activeRegistry) len() int {
	return len(r.entries)
}

func (r *activeRegistry) clear() {
	for inst := range r.entries {
		inst.state.remove(StateInUse)
	}
	clear(r.byType)
	clear(r.byLayer)
	clear(r.byTag)
	clear(r.entries)
}
