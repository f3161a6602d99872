package screenstack

import (
	"context"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"golang.org/x/sync/errgroup"
)

// Unload destroys an instance. An active instance is hidden first,
// respecting immediate; an instance already playing its hide animation is
// destroyed only once that animation resolves. Unloading an instance that is
// already unloading or destroyed is a silent no-op.
//
// Once Unload has been called, Show and Hide no longer act on the instance.
func (n *Navigator) Unload(ctx context.Context, inst *Instance, immediate bool) error {
	if inst == nil {
		return nil
	}

	n.mu.Lock()
	if inst.destroyed || inst.HasState(StateUnloading) {
		n.mu.Unlock()
		return nil
	}
	inst.state.add(StateUnloading)
	active := inst.HasState(StateInUse) || inst.hiding != nil
	n.mu.Unlock()

	n.log.Debug("Unloading screen", "screen", inst.typ, "id", inst.id, "active", active)

	if active {
		if err := n.hide(ctx, inst, immediate, true); err != nil {
			return err
		}
	}

	n.dispose(inst)
	return nil
}

// UnloadByTag unloads every screen with a tag on a manager: the active ones
// first, then the idle ones left in the passive pool.
func (n *Navigator) UnloadByTag(ctx context.Context, tag constants.Tag, manager int, immediate bool) error {
	return n.unloadMatching(ctx, n.ActiveByTag(tag, manager), immediate, func(p placement) bool {
		return p.manager == manager && p.tag == tag
	})
}

// UnloadAll unloads every screen that belongs to a manager, active then pooled.
func (n *Navigator) UnloadAll(ctx context.Context, manager int, immediate bool) error {
	return n.unloadMatching(ctx, n.ActiveScreens(manager), immediate, func(p placement) bool {
		return p.manager == manager
	})
}

// UnloadEverything unloads every screen on every manager, active then pooled.
func (n *Navigator) UnloadEverything(ctx context.Context, immediate bool) error {
	n.mu.Lock()
	active := n.registry.all()
	n.mu.Unlock()

	return n.unloadMatching(ctx, active, immediate, func(placement) bool { return true })
}

// unloadMatching unloads the active set concurrently and waits for it before
// sweeping the pool, so no instance is destroyed during its hide animation.
func (n *Navigator) unloadMatching(ctx context.Context, active []*Instance, immediate bool, match func(placement) bool) error {
	var g errgroup.Group
	for _, inst := range active {
		g.Go(func() error {
			return n.Unload(ctx, inst, immediate)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	n.mu.Lock()
	var idle []*Instance
	for _, inst := range n.pool.all() {
		if match(inst.placement()) {
			idle = append(idle, inst)
		}
	}
	n.mu.Unlock()

	for _, inst := range idle {
		if err := n.Unload(ctx, inst, immediate); err != nil {
			return err
		}
	}
	return nil
}
