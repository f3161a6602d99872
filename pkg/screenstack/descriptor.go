package screenstack

import (
	"fmt"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
)

// ScreenType is the stable identity of a kind of screen. It keys the catalog,
// the per-manager descriptor table, the passive pool and history entries.
type ScreenType string

// Visual is the loader's handle to an instantiated screen object. The core
// never looks inside it; only the ContentLoader and LayoutAdapter do.
type Visual any

// Layer is a manager's handle to one of its display layers, passed through to
// the LayoutAdapter untouched.
type Layer any

// Source describes where a screen's visual comes from.
type Source struct {
	Kind constants.LoadKind

	// Instantiate builds the visual for LoadDirect sources.
	Instantiate func() (Visual, error)
	// Path names the resource for LoadResource sources.
	Path string
	// Key addresses the content for LoadRemote sources.
	Key string
}

// Descriptor is the static configuration of a screen type on one manager.
// It is read-only once registered.
type Descriptor struct {
	Type          ScreenType
	Source        Source
	DefaultLayer  int
	Tag           constants.Tag
	ShowAnimation bool
	HideAnimation bool
	AddToHistory  bool
}

// Direct returns a descriptor whose visual is produced in process.
func Direct(t ScreenType, instantiate func() (Visual, error)) *Descriptor {
	return &Descriptor{Type: t, Source: Source{Kind: constants.LoadDirect, Instantiate: instantiate}}
}

// Resource returns a descriptor loaded from a named resource path.
func Resource(t ScreenType, path string) *Descriptor {
	return &Descriptor{Type: t, Source: Source{Kind: constants.LoadResource, Path: path}}
}

// Remote returns a descriptor fetched by key from remote content storage.
func Remote(t ScreenType, key string) *Descriptor {
	return &Descriptor{Type: t, Source: Source{Kind: constants.LoadRemote, Key: key}}
}

// OnLayer sets the default layer and returns d for chaining.
func (d *Descriptor) OnLayer(layer int) *Descriptor {
	d.DefaultLayer = layer
	return d
}

// WithTag sets the tag and returns d for chaining.
func (d *Descriptor) WithTag(tag constants.Tag) *Descriptor {
	d.Tag = tag
	return d
}

// Animated sets the show and hide animation flags and returns d for chaining.
func (d *Descriptor) Animated(show, hide bool) *Descriptor {
	d.ShowAnimation = show
	d.HideAnimation = hide
	return d
}

// Tracked marks screens of this type for history by default.
func (d *Descriptor) Tracked() *Descriptor {
	d.AddToHistory = true
	return d
}

// Validate checks that the descriptor can be loaded.
func (d *Descriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("nil descriptor")
	}
	if d.Type == "" {
		return fmt.Errorf("descriptor has no screen type")
	}
	if d.DefaultLayer < 0 {
		return newError("validate", ErrInvalidSource, -1, d.DefaultLayer, d.Type,
			fmt.Errorf("default layer must be >= 0"))
	}

	var missing string
	switch d.Source.Kind {
	case constants.LoadDirect:
		if d.Source.Instantiate == nil {
			missing = "instantiate function"
		}
	case constants.LoadResource:
		if d.Source.Path == "" {
			missing = "resource path"
		}
	case constants.LoadRemote:
		if d.Source.Key == "" {
			missing = "remote key"
		}
	default:
		return newError("validate", ErrInvalidSource, -1, -1, d.Type,
			fmt.Errorf("unknown load kind %d", d.Source.Kind))
	}

	if missing != "" {
		return newError("validate", ErrInvalidSource, -1, -1, d.Type,
			fmt.Errorf("%s source requires a %s", d.Source.Kind, missing))
	}
	return nil
}

// descriptorKey identifies a descriptor within the navigator.
func descriptorKey(manager int, t ScreenType) string {
	return fmt.Sprintf("%d/%s", manager, t)
}
