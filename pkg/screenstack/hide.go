package screenstack

import (
	"context"
	"time"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"golang.org/x/sync/errgroup"
)

// Hide takes an active screen off its layer and returns it to the passive
// pool. Hiding an instance that is not active, already hiding or unloading is
// a silent no-op.
//
// With immediate set, or when the descriptor has no hide animation, the hide
// completes before Hide returns. Otherwise Hide blocks until the animation
// resolves or ctx is done; the instance stays in the active registry for
// the length of the animation.
func (n *Navigator) Hide(ctx context.Context, inst *Instance, immediate bool) error {
	return n.hide(ctx, inst, immediate, false)
}

// hide is Hide with the Unloading rejection lifted for the unload and evict
// paths. Such a caller that finds a hide already in flight waits for it
// instead, resolving it first when immediate is set.
func (n *Navigator) hide(ctx context.Context, inst *Instance, immediate, force bool) error {
	if inst == nil {
		return nil
	}
	started := n.now()

	n.mu.Lock()
	if inst.destroyed {
		n.mu.Unlock()
		return nil
	}
	if pending := inst.hiding; pending != nil {
		n.mu.Unlock()
		if !force {
			return nil
		}
		if immediate {
			pending.Resolve()
		}
		return pending.Wait(ctx)
	}

	s := inst.state.load()
	allowed := CanHide(inst) || (force && s.Has(StateInUse) && !s.Has(StateInHideAnimation))
	if !allowed {
		n.mu.Unlock()
		return nil
	}

	animator, canAnimate := inst.body.(Animator)
	animate := !immediate && canAnimate && inst.Descriptor().HideAnimation

	sig := newSignal(func() { n.completeHide(inst, started) })
	inst.hiding = sig
	if animate {
		inst.state.add(StateInHideAnimation)
	}
	n.mu.Unlock()

	if !animate {
		sig.Resolve()
		return nil
	}

	animator.PlayHide(sig)
	return sig.Wait(ctx)
}

// evict clears a layer for a new occupant without waiting on any animation.
// An occupant already playing its hide animation has that hide resolved early.
func (n *Navigator) evict(inst *Instance) {
	_ = n.hide(context.Background(), inst, true, true)
}

// completeHide runs once per hide, when its signal resolves.
func (n *Navigator) completeHide(inst *Instance, started time.Time) {
	inst.state.remove(StateInShowAnimation | StateInHideAnimation)

	n.mu.Lock()
	p := inst.placement()
	n.registry.remove(inst)
	n.mu.Unlock()

	if hook, ok := inst.body.(HiddenHook); ok {
		hook.OnHidden()
	}

	n.mu.Lock()
	inst.hiding = nil
	discard := inst.destroyed || inst.HasState(StateUnloading)
	if !discard && n.poolLimit > 0 && n.pool.count(inst.typ) >= n.poolLimit {
		discard = true
	}
	if !discard {
		n.pool.add(inst)
	}
	n.mu.Unlock()

	n.log.Debug("Screen hidden", "screen", inst.typ, "id", inst.id, "manager", p.manager, "layer", p.layer, "pooled", !discard)
	n.bus.emit(Event{
		Kind:     EventHidden,
		Screen:   inst.typ,
		Instance: inst,
		Manager:  p.manager,
		Layer:    p.layer,
		Duration: n.now().Sub(started),
	})

	if discard {
		n.dispose(inst)
	}
}

// HideByTag hides every active screen with a tag on a manager and waits for
// all of them.
func (n *Navigator) HideByTag(ctx context.Context, tag constants.Tag, manager int, immediate bool) error {
	return n.hideEach(ctx, n.ActiveByTag(tag, manager), immediate)
}

// HideLayer hides the occupant of a manager's layer, if any.
func (n *Navigator) HideLayer(ctx context.Context, layer, manager int, immediate bool) error {
	inst, ok := n.IsLayerOccupied(layer, manager)
	if !ok {
		return nil
	}
	return n.Hide(ctx, inst, immediate)
}

// HideAll hides every active screen on a manager and waits for all of them.
func (n *Navigator) HideAll(ctx context.Context, manager int, immediate bool) error {
	return n.hideEach(ctx, n.ActiveScreens(manager), immediate)
}

func (n *Navigator) hideEach(ctx context.Context, targets []*Instance, immediate bool) error {
	var g errgroup.Group
	for _, inst := range targets {
		g.Go(func() error {
			return n.Hide(ctx, inst, immediate)
		})
	}
	return g.Wait()
}
