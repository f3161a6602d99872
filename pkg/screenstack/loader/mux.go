// Package loader provides content loaders for resource and remote screens and
// a Mux that routes each descriptor to the loader for its source kind.
//
// # Basic Usage
//
//	//go:embed screens
//	var screens embed.FS
//
//	size := image.Pt(1024, 768)
//	nav := screenstack.New(screenstack.Options{
//	    Loader: loader.NewMux(
//	        loader.NewResource(screens, size),
//	        loader.NewRemote("https://cdn.example.com/screens/", size),
//	    ),
//	})
//
// Resource and remote screens load as *Art. Direct screens are produced by
// their descriptor's Instantiate function.
package loader

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
)

// Mux dispatches to one ContentLoader per source kind.
type Mux struct {
	loaders map[constants.LoadKind]screenstack.ContentLoader
}

// NewMux routes direct sources to screenstack.DirectLoader and the other
// kinds to the given loaders. A nil loader leaves its kind unsupported.
func NewMux(resource, remote screenstack.ContentLoader) *Mux {
	m := &Mux{loaders: make(map[constants.LoadKind]screenstack.ContentLoader)}
	m.Handle(constants.LoadDirect, screenstack.DirectLoader{})
	if resource != nil {
		m.Handle(constants.LoadResource, resource)
	}
	if remote != nil {
		m.Handle(constants.LoadRemote, remote)
	}
	return m
}

// Handle sets the loader for a source kind.
func (m *Mux) Handle(kind constants.LoadKind, l screenstack.ContentLoader) *Mux {
	m.loaders[kind] = l
	return m
}

func (m *Mux) Load(ctx context.Context, d *screenstack.Descriptor) (screenstack.Visual, error) {
	l, ok := m.loaders[d.Source.Kind]
	if !ok {
		return nil, fmt.Errorf("no loader for %s sources", d.Source.Kind)
	}
	return l.Load(ctx, d)
}

func (m *Mux) Release(d *screenstack.Descriptor) {
	if l, ok := m.loaders[d.Source.Kind]; ok {
		l.Release(d)
	}
}

// Destroy disposes of visuals that implement screenstack.Destroyer, which
// covers every visual the bundled loaders produce.
func (m *Mux) Destroy(v screenstack.Visual) {
	destroy(v)
}
