package screenstack

// passivePool holds idle instances keyed by screen type for reuse. Each type
// keeps a LIFO so the most recently hidden (cache-hot) instance is reused first.
// Pooled instances are detached from any manager layer. Not safe for concurrent use.
type passivePool struct {
	byType map[ScreenType][]*Instance
	detach func(*Instance)
}

func newPassivePool(detach func(*Instance)) *passivePool {
	return &passivePool{
		byType: make(map[ScreenType][]*Instance),
		detach: detach,
	}
}

func (p *passivePool) indexOf(inst *Instance) int {
	for i, other := range p.byType[inst.typ] {
		if other == inst {
			return i
		}
	}
	return -1
}

// add pools an instance once; adding it again is a no-op.
func (p *passivePool) add(inst *Instance) bool {
	if inst == nil || p.indexOf(inst) >= 0 {
		return false
	}

	p.byType[inst.typ] = append(p.byType[inst.typ], inst)
	inst.state.add(StateInPool)

	if p.detach != nil {
		p.detach(inst)
	}
	return true
}

func (p *passivePool) remove(inst *Instance) bool {
	if inst == nil {
		return false
	}
	idx := p.indexOf(inst)
	if idx < 0 {
		return false
	}

	list := p.byType[inst.typ]
	list = append(list[:idx], list[idx+1:]...)
	if len(list) == 0 {
		delete(p.byType, inst.typ)
	} else {
		p.byType[inst.typ] = list
	}
	inst.state.remove(StateInPool)
	return true
}

func (p *passivePool) contains(inst *Instance) bool {
	return inst != nil && p.indexOf(inst) >= 0
}

// take removes and returns the most recently pooled instance of a type.
func (p *passivePool) take(t ScreenType) (*Instance, bool) {
	list := p.byType[t]
	if len(list) == 0 {
		return nil, false
	}

	inst := list[len(list)-1]
	list[len(list)-1] = nil
	list = list[:len(list)-1]
	if len(list) == 0 {
		delete(p.byType, t)
	} else {
		p.byType[t] = list
	}

	inst.state.remove(StateInPool)
	return inst, true
}

func (p *passivePool) count(t ScreenType) int {
	return len(p.byType[t])
}

func (p *passivePool) all() []*Instance {
	out := make([]*Instance, 0)
	for _, list := range p.byType {
		out = append(out, list...)
	}
	return out
}

func (p *passivePool) len() int {
	n := 0
	for _, list := range p.byType {
		n += len(list)
	}
	return n
}

// clear hands every pooled instance to destroy and empties the pool.
func (p *passivePool) clear(destroy func(*Instance)) {
	for _, list := range p.byType {
		for _, inst := range list {
			inst.state.remove(StateInPool)
			if destroy != nil {
				destroy(inst)
			}
		}
	}
	clear(p.byType)
}
