package screenstack

import (
	"context"
	"fmt"
	"time"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/history"
)

// ShowRequest is a fully resolved navigation request.
type ShowRequest struct {
	Type         ScreenType
	Manager      int
	Layer        int
	Params       []any
	AddToHistory bool

	// keepOccupant refuses an occupied layer instead of evicting its occupant.
	keepOccupant bool
}

func layerKeyString(manager, layer int) string {
	return fmt.Sprintf("%d/%d", manager, layer)
}

// Show places a screen on a manager's layer and returns its instance.
//
// An occupant of the target layer is hidden immediately first, skipping its
// hide animation. The instance comes from the passive pool when one is idle,
// otherwise from the content loader. If the type is already active on the
// manager the existing instance is returned unchanged; one still playing its
// hide animation has that hide completed and is shown again.
//
// Show blocks until the show animation resolves or ctx is done. A cancelled
// wait returns the instance together with ctx.Err(); the transition still
// completes when the animation resolves.
func (n *Navigator) Show(ctx context.Context, req ShowRequest) (_ *Instance, err error) {
	defer func() { localize(err, n.language) }()
	started := n.now()

	n.mu.Lock()
	rec, ok := n.managers.get(req.Manager)
	if !ok {
		n.mu.Unlock()
		return nil, newError("show", ErrManagerNotFound, req.Manager, req.Layer, req.Type, nil)
	}
	desc, ok := rec.descriptors[req.Type]
	if !ok {
		n.mu.Unlock()
		return nil, newError("show", ErrConfigNotFound, req.Manager, req.Layer, req.Type, nil)
	}
	if !rec.validLayer(req.Layer) {
		n.mu.Unlock()
		return nil, newError("show", ErrInvalidLayer, req.Manager, req.Layer, req.Type, nil)
	}
	layer := rec.layers[req.Layer]
	n.mu.Unlock()

	unlock, err := n.layerLocks.Lock(ctx, layerKeyString(req.Manager, req.Layer))
	if err != nil {
		return nil, err
	}

	inst, existing, err := n.place(ctx, desc, layer, req)
	unlock()
	if err != nil || existing {
		return inst, err
	}

	return inst, n.playShow(ctx, inst, desc, started)
}

// place runs the part of Show that must hold the layer lock: eviction,
// acquisition, attachment and registration. existing reports that the type
// was already active and inst is that instance.
func (n *Navigator) place(ctx context.Context, desc *Descriptor, layer Layer, req ShowRequest) (inst *Instance, existing bool, err error) {
	n.mu.Lock()
	var reshow *Instance
	if active, ok := n.registry.screen(req.Type, req.Manager); ok {
		if active.hiding == nil {
			n.mu.Unlock()
			n.log.Debug("Screen already active", "screen", req.Type, "manager", req.Manager)
			return active, true, nil
		}
		reshow = active
	}
	occupant, occupied := n.registry.layer(req.Layer, req.Manager)
	if occupied && occupant == reshow {
		occupied = false
	}
	n.mu.Unlock()

	if occupied && req.keepOccupant {
		return nil, false, newError("show", ErrLayerOccupied, req.Manager, req.Layer, req.Type, nil)
	}

	// Shown again while hiding: finish the hide so the instance returns to
	// the pool, then take it back out below.
	if reshow != nil {
		n.log.Debug("Cutting hide short for reshow", "screen", req.Type, "id", reshow.id, "manager", req.Manager)
		n.evict(reshow)
	}
	if occupied {
		n.log.Debug("Evicting layer occupant", "screen", occupant.typ, "manager", req.Manager, "layer", req.Layer)
		n.evict(occupant)
	}

	inst, err = n.acquire(ctx, desc, req.Manager)
	if err != nil {
		return nil, false, err
	}

	inst.place(desc, req.Manager, req.Layer, req.Params, req.AddToHistory)

	setup, _ := inst.body.(SetupHook)
	if setup != nil {
		setup.BeforeSetup()
	}
	n.layout.Attach(inst.visual, layer)
	if setup != nil {
		setup.AfterSetup()
	}

	if len(req.Params) > 0 {
		if recv, ok := inst.body.(ParameterReceiver); ok {
			recv.SetParameters(inst.Params())
		}
	}

	n.mu.Lock()
	if inst.destroyed || inst.HasState(StateUnloading) {
		n.mu.Unlock()
		n.layout.Detach(inst.visual)
		return nil, false, newError("show", ErrLoadFailure, req.Manager, req.Layer, req.Type,
			fmt.Errorf("instance %d was unloaded while being placed", inst.id))
	}
	if active, ok := n.registry.screen(req.Type, req.Manager); ok {
		// Lost a race with a Show of the same type on another layer.
		n.pool.add(inst)
		n.mu.Unlock()
		return active, true, nil
	}
	n.registry.add(inst)
	if req.AddToHistory {
		n.history.Push(history.Entry{
			Screen:    string(req.Type),
			Manager:   req.Manager,
			Layer:     req.Layer,
			Params:    req.Params,
			Timestamp: n.now(),
		})
	}
	n.mu.Unlock()

	return inst, false, nil
}

// playShow runs the show transition. Without an enabled animation, or when the
// screen body cannot animate, it completes synchronously.
func (n *Navigator) playShow(ctx context.Context, inst *Instance, desc *Descriptor, started time.Time) error {
	animator, ok := inst.body.(Animator)
	if !desc.ShowAnimation || !ok {
		n.finishShow(inst, started)
		return nil
	}

	inst.state.add(StateInShowAnimation)
	sig := newSignal(func() {
		inst.state.remove(StateInShowAnimation)
		n.finishShow(inst, started)
	})

	animator.PlayShow(sig)
	return sig.Wait(ctx)
}

// finishShow fires the shown hook unless the instance was hidden or unloaded
// while its show animation played.
func (n *Navigator) finishShow(inst *Instance, started time.Time) {
	n.mu.Lock()
	live := n.registry.contains(inst) && inst.hiding == nil && !inst.destroyed
	n.mu.Unlock()
	if !live {
		return
	}

	if hook, ok := inst.body.(ShownHook); ok {
		hook.OnShown()
	}

	p := inst.placement()
	n.log.Debug("Screen shown", "screen", inst.typ, "id", inst.id, "manager", p.manager, "layer", p.layer)
	n.bus.emit(Event{
		Kind:     EventShown,
		Screen:   inst.typ,
		Instance: inst,
		Manager:  p.manager,
		Layer:    p.layer,
		Duration: n.now().Sub(started),
	})
}
