package screenstack

import (
	"context"
	"errors"
)

// Builder assembles a show request. Each call to Open returns a fresh
// Builder, so builders are never shared between requests.
//
// Example:
//
//	inst, err := nav.Open("settings", 0).
//	    Layer(1).
//	    Params(user).
//	    AddToHistory().
//	    Show(ctx)
type Builder struct {
	nav     *Navigator
	typ     ScreenType
	manager int

	layer    int
	layerSet bool
	force    bool
	params   []any
	history  bool
}

// Open starts a request to show a screen type on a manager.
func (n *Navigator) Open(t ScreenType, manager int) *Builder {
	return &Builder{nav: n, typ: t, manager: manager}
}

// Layer overrides the descriptor's default layer.
func (b *Builder) Layer(layer int) *Builder {
	b.layer = layer
	b.layerSet = true
	return b
}

// ForceOpen evicts the layer's occupant instead of failing with ErrLayerOccupied.
func (b *Builder) ForceOpen(force bool) *Builder {
	b.force = force
	return b
}

func (b *Builder) Params(params ...any) *Builder {
	b.params = append([]any(nil), params...)
	return b
}

// AddToHistory records the screen for GoBack even when its descriptor does not.
func (b *Builder) AddToHistory() *Builder {
	b.history = true
	return b
}

// Request resolves the builder into a ShowRequest using the descriptor's
// defaults for anything not set.
func (b *Builder) Request() ShowRequest {
	req := ShowRequest{
		Type:         b.typ,
		Manager:      b.manager,
		Layer:        b.layer,
		Params:       b.params,
		AddToHistory: b.history,
		keepOccupant: !b.force,
	}
	if desc, ok := b.nav.Descriptor(b.manager, b.typ); ok {
		if !b.layerSet {
			req.Layer = desc.DefaultLayer
		}
		req.AddToHistory = req.AddToHistory || desc.AddToHistory
	}
	return req
}

// Show checks the request and shows the screen. A screen type that is already
// active on the manager is not an error: its existing instance is returned.
func (b *Builder) Show(ctx context.Context) (*Instance, error) {
	req := b.Request()

	// Show itself returns the existing instance of a duplicate.
	if err := b.nav.CanOpen(req.Type, req.Manager, req.Layer, b.force); err != nil && !errors.Is(err, ErrDuplicateScreen) {
		return nil, err
	}

	return b.nav.Show(ctx, req)
}

// ShowAs shows the screen and returns its body as T.
func ShowAs[T any](ctx context.Context, b *Builder) (T, *Instance, error) {
	var zero T
	inst, err := b.Show(ctx)
	if err != nil || inst == nil {
		return zero, inst, err
	}
	body, ok := inst.body.(T)
	if !ok {
		return zero, inst, nil
	}
	return body, inst, nil
}
