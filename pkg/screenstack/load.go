package screenstack

import (
	"context"
	"errors"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
)

// acquire returns an idle instance of the descriptor's type, reusing the pool
// before loading. Loads of one descriptor are serialized: a second request
// waits for the first and then checks the pool again.
func (n *Navigator) acquire(ctx context.Context, desc *Descriptor, manager int) (*Instance, error) {
	if inst, ok := n.takePooled(desc.Type); ok {
		n.log.Debug("Reusing pooled screen", "screen", desc.Type, "id", inst.id)
		return inst, nil
	}

	unlock, err := n.loadLocks.Lock(ctx, descriptorKey(manager, desc.Type))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if inst, ok := n.takePooled(desc.Type); ok {
		return inst, nil
	}

	return n.load(ctx, desc, manager, false)
}

// takePooled pops pooled instances of t until one can be shown.
func (n *Navigator) takePooled(t ScreenType) (*Instance, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for {
		inst, ok := n.pool.take(t)
		if !ok {
			return nil, false
		}
		if CanShow(inst) && !inst.destroyed {
			return inst, true
		}
	}
}

// load produces a new instance. Every new instance passes through the passive
// pool; unless keep is set it is taken back out in the same critical section
// so no concurrent show can claim it.
func (n *Navigator) load(ctx context.Context, desc *Descriptor, manager int, keep bool) (*Instance, error) {
	if err := desc.Validate(); err != nil {
		var navErr *NavigationError
		if errors.As(err, &navErr) {
			navErr.Op = "load"
			navErr.Manager = manager
			return nil, navErr
		}
		return nil, newError("load", ErrInvalidSource, manager, desc.DefaultLayer, desc.Type, err)
	}

	n.log.Debug("Loading screen", "screen", desc.Type, "manager", manager, "source", desc.Source.Kind.String())

	visual, err := n.loader.Load(ctx, desc)
	if err != nil {
		n.log.Error("Failed to load screen", "screen", desc.Type, "manager", manager, "error", err)
		return nil, newError("load", ErrLoadFailure, manager, desc.DefaultLayer, desc.Type, err)
	}

	body, err := n.catalog.build(desc.Type, visual)
	if err != nil {
		n.loader.Destroy(visual)
		n.log.Error("Failed to build screen", "screen", desc.Type, "manager", manager, "error", err)
		return nil, newError("load", ErrLoadFailure, manager, desc.DefaultLayer, desc.Type, err)
	}

	inst := newInstance(desc, manager, visual, body)
	inst.state.add(StateLoading)

	n.mu.Lock()
	n.managers.markLoaded(desc)
	inst.state.remove(StateLoading)
	n.pool.add(inst)
	if !keep {
		n.pool.remove(inst)
	}
	n.mu.Unlock()

	n.bus.emit(Event{Kind: EventLoaded, Screen: desc.Type, Instance: inst, Manager: manager, Layer: desc.DefaultLayer})
	return inst, nil
}

// Preload loads one instance of a screen type into the passive pool so a
// later show does not wait on the content loader. It does nothing if an
// instance is already pooled or active.
func (n *Navigator) Preload(ctx context.Context, manager int, t ScreenType) (err error) {
	defer func() { localize(err, n.language) }()
	desc, err := n.resolve("preload", manager, t)
	if err != nil {
		return err
	}

	unlock, err := n.loadLocks.Lock(ctx, descriptorKey(manager, t))
	if err != nil {
		return err
	}
	defer unlock()

	n.mu.Lock()
	_, active := n.registry.screen(t, manager)
	pooled := n.pool.count(t) > 0
	n.mu.Unlock()
	if active || pooled {
		return nil
	}

	_, err = n.load(ctx, desc, manager, true)
	return err
}

// resolve looks up the descriptor for t on a manager.
func (n *Navigator) resolve(op string, manager int, t ScreenType) (*Descriptor, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.managers.get(manager); !ok {
		return nil, newError(op, ErrManagerNotFound, manager, -1, t, nil)
	}
	desc, ok := n.managers.descriptor(manager, t)
	if !ok {
		return nil, newError(op, ErrConfigNotFound, manager, -1, t, nil)
	}
	return desc, nil
}

// dispose destroys an instance: it leaves every index, releases remote content
// once no instance of its descriptor remains, and hands the visual to the
// loader's disposal path. Disposing twice is a no-op.
func (n *Navigator) dispose(inst *Instance) {
	n.mu.Lock()
	if inst.destroyed {
		n.mu.Unlock()
		return
	}
	inst.destroyed = true
	inst.state.add(StateUnloading)
	n.pool.remove(inst)
	n.registry.remove(inst)
	remaining := n.managers.markUnloaded(inst.origin)
	p := inst.placement()
	n.mu.Unlock()

	n.layout.Detach(inst.visual)
	if inst.origin.Source.Kind == constants.LoadRemote && remaining == 0 {
		n.loader.Release(inst.origin)
	}
	n.loader.Destroy(inst.visual)
	inst.state.reset()

	n.log.Debug("Screen unloaded", "screen", inst.typ, "id", inst.id, "manager", p.manager)
	n.bus.emit(Event{Kind: EventUnloaded, Screen: inst.typ, Instance: inst, Manager: p.manager, Layer: p.layer})
}
