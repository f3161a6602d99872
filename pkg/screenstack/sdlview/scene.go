package sdlview

import (
	"sort"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/loader"
	"github.com/veandco/go-sdl2/sdl"
)

// Region is the layer handle the view understands: a rectangle of the window
// and a stacking order. Higher Z draws on top.
type Region struct {
	Name   string
	Bounds sdl.Rect
	Z      int
}

// Stack returns one full-window region per name, stacked in order.
func Stack(width, height int32, names ...string) []screenstack.Layer {
	out := make([]screenstack.Layer, len(names))
	for i, name := range names {
		out[i] = Region{Name: name, Bounds: sdl.Rect{W: width, H: height}, Z: i}
	}
	return out
}

func regionOf(layer screenstack.Layer) (Region, bool) {
	switch r := layer.(type) {
	case Region:
		return r, true
	case *Region:
		if r != nil {
			return *r, true
		}
	}
	return Region{}, false
}

type placed struct {
	art    *loader.Art
	region Region
	seq    uint64
}

// scene tracks which artwork sits in which region. Not safe for concurrent use.
type scene struct {
	items map[*loader.Art]placed
	seq   uint64
}

func newScene() *scene {
	return &scene{items: make(map[*loader.Art]placed)}
}

// attach places art in a region, moving it if it was placed elsewhere.
func (s *scene) attach(art *loader.Art, region Region) {
	s.seq++
	s.items[art] = placed{art: art, region: region, seq: s.seq}
}

func (s *scene) detach(art *loader.Art) bool {
	if _, ok := s.items[art]; !ok {
		return false
	}
	delete(s.items, art)
	return true
}

func (s *scene) contains(art *loader.Art) bool {
	_, ok := s.items[art]
	return ok
}

// ordered returns the placed artwork in draw order: by Z, then attach order.
func (s *scene) ordered() []placed {
	out := make([]placed, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].region.Z != out[j].region.Z {
			return out[i].region.Z < out[j].region.Z
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (s *scene) len() int {
	return len(s.items)
}
