package screenstack

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
)

// ContentLoader turns a descriptor into an instantiated visual and disposes of it.
// Implementations for resource and remote sources live in the loader package.
type ContentLoader interface {
	// Load produces a new visual for d. Each call yields a distinct object.
	Load(ctx context.Context, d *Descriptor) (Visual, error)
	// Release drops any shared resource held for d. Idempotent.
	Release(d *Descriptor)
	// Destroy disposes of a visual produced by Load.
	Destroy(v Visual)
}

// LayoutAdapter places visuals in a manager's layers.
type LayoutAdapter interface {
	// Attach parents v under layer, stretches it to fill the layer's bounds
	// and resets its local transform.
	Attach(v Visual, layer Layer)
	// Detach moves v to an inactive holding area. Idempotent. Must not call
	// back into the Navigator.
	Detach(v Visual)
}

// Destroyer is implemented by visuals that own resources.
type Destroyer interface {
	Destroy()
}

// DirectLoader loads LoadDirect descriptors by calling their Instantiate
// function. It is the default loader when Options.Loader is nil.
type DirectLoader struct{}

func (DirectLoader) Load(_ context.Context, d *Descriptor) (Visual, error) {
	if d.Source.Kind != constants.LoadDirect {
		return nil, fmt.Errorf("%s sources need a content loader that supports them", d.Source.Kind)
	}
	if d.Source.Instantiate == nil {
		return nil, fmt.Errorf("no instantiate function")
	}
	return d.Source.Instantiate()
}

func (DirectLoader) Release(*Descriptor) {}

func (DirectLoader) Destroy(v Visual) {
	if d, ok := v.(Destroyer); ok {
		d.Destroy()
	}
}

// NopLayout is a LayoutAdapter for headless use.
type NopLayout struct{}

func (NopLayout) Attach(Visual, Layer) {}
func (NopLayout) Detach(Visual)        {}
