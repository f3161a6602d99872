package screenstack

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"github.com/BurntSushi/toml"
)

// Manifest describes managers, their layers and their screens in TOML:
//
//	[[managers]]
//	id = 0
//	layers = ["base", "popup"]
//
//	  [[managers.screens]]
//	  type = "library"
//	  kind = "resource"
//	  path = "screens/library.svg"
//	  history = true
//
//	  [[managers.screens]]
//	  type = "confirm"
//	  layer = 1
//	  tag = "Dialog"
//	  show_animation = true
type Manifest struct {
	Managers []ManifestManager `toml:"managers"`
}

// ManifestManager is one manager of a Manifest.
type ManifestManager struct {
	ID      int              `toml:"id"`
	Layers  []string         `toml:"layers"`
	Screens []ManifestScreen `toml:"screens"`
}

// ManifestScreen is the TOML form of a Descriptor. Direct screens get their
// instantiate function from ManifestBindings when the manifest is applied.
type ManifestScreen struct {
	Type          string             `toml:"type"`
	Kind          constants.LoadKind `toml:"kind"`
	Path          string             `toml:"path,omitempty"`
	Key           string             `toml:"key,omitempty"`
	Layer         int                `toml:"layer"`
	Tag           constants.Tag      `toml:"tag"`
	ShowAnimation bool               `toml:"show_animation"`
	HideAnimation bool               `toml:"hide_animation"`
	History       bool               `toml:"history"`
}

// ManifestBindings supplies what a TOML file cannot express.
type ManifestBindings struct {
	// Layer maps a manager's layer name to its Layer handle. When nil the
	// name itself is the handle.
	Layer func(manager int, name string) Layer
	// Instantiate returns the constructor for a direct screen type.
	Instantiate func(t ScreenType) func() (Visual, error)
}

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// DecodeManifest decodes a manifest and rejects keys it does not know.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode manifest: unknown key %q", undecoded[0].String())
	}
	return &m, nil
}

// Validate checks the manifest without binding it to a Navigator. All
// problems are reported, joined.
func (m *Manifest) Validate() error {
	var errs []error
	seen := make(map[int]bool, len(m.Managers))

	for _, mgr := range m.Managers {
		if seen[mgr.ID] {
			errs = append(errs, fmt.Errorf("manager %d: declared twice", mgr.ID))
			continue
		}
		seen[mgr.ID] = true

		if len(mgr.Layers) == 0 {
			errs = append(errs, fmt.Errorf("manager %d: no layers", mgr.ID))
		}

		types := make(map[string]bool, len(mgr.Screens))
		for _, s := range mgr.Screens {
			if types[s.Type] {
				errs = append(errs, fmt.Errorf("manager %d: screen %s declared twice", mgr.ID, s.Type))
				continue
			}
			types[s.Type] = true

			if s.Layer >= len(mgr.Layers) {
				errs = append(errs, newError("manifest", ErrInvalidLayer, mgr.ID, s.Layer, ScreenType(s.Type), nil))
				continue
			}

			d := s.descriptor(nil)
			if d.Source.Kind == constants.LoadDirect {
				// Bound at apply time.
				d.Source.Instantiate = func() (Visual, error) { return nil, nil }
			}
			if err := d.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("manager %d: %w", mgr.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s ManifestScreen) descriptor(b *ManifestBindings) *Descriptor {
	d := &Descriptor{
		Type: ScreenType(s.Type),
		Source: Source{
			Kind: s.Kind,
			Path: s.Path,
			Key:  s.Key,
		},
		DefaultLayer:  s.Layer,
		Tag:           s.Tag,
		ShowAnimation: s.ShowAnimation,
		HideAnimation: s.HideAnimation,
		AddToHistory:  s.History,
	}
	if s.Kind == constants.LoadDirect && b != nil && b.Instantiate != nil {
		d.Source.Instantiate = b.Instantiate(d.Type)
	}
	return d
}

// Descriptors builds the descriptors of one manager.
func (mm ManifestManager) Descriptors(b ManifestBindings) []*Descriptor {
	out := make([]*Descriptor, 0, len(mm.Screens))
	for _, s := range mm.Screens {
		out = append(out, s.descriptor(&b))
	}
	return out
}

// Apply validates the manifest and registers every manager on nav.
func (m *Manifest) Apply(nav *Navigator, b ManifestBindings) error {
	if err := m.Validate(); err != nil {
		return err
	}

	for _, mgr := range m.Managers {
		layers := make([]Layer, len(mgr.Layers))
		for i, name := range mgr.Layers {
			if b.Layer != nil {
				layers[i] = b.Layer(mgr.ID, name)
			} else {
				layers[i] = name
			}
		}

		if err := nav.RegisterManager(mgr.ID, layers, mgr.Descriptors(b)...); err != nil {
			return err
		}
	}
	return nil
}
