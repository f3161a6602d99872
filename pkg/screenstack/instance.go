package screenstack

import (
	"sync"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"go.uber.org/atomic"
)

var instanceIDs atomic.Uint64

// Instance is one live screen object and its lifecycle state. It is created
// on first load and destroyed by Unload. Placement fields are rewritten by the
// navigator each time the instance is shown.
type Instance struct {
	id     uint64
	typ    ScreenType
	visual Visual
	body   Screen
	state  stateWord
	// Descriptor the visual was loaded from; remote handles are tied to it.
	origin *Descriptor

	mu           sync.RWMutex
	desc         *Descriptor
	manager      int
	layer        int
	tag          constants.Tag
	params       []any
	addToHistory bool

	// Guarded by the navigator's lock.
	hiding    *Signal
	destroyed bool
}

func newInstance(desc *Descriptor, manager int, visual Visual, body Screen) *Instance {
	inst := &Instance{
		id:      instanceIDs.Inc(),
		typ:     desc.Type,
		visual:  visual,
		body:    body,
		origin:  desc,
		desc:    desc,
		manager: manager,
		layer:   desc.DefaultLayer,
		tag:     desc.Tag,
	}
	return inst
}

// ID is a process-unique identity for the instance.
func (i *Instance) ID() uint64 { return i.id }

func (i *Instance) Type() ScreenType { return i.typ }

func (i *Instance) Visual() Visual { return i.visual }

// Screen returns the application object built by the catalog factory.
func (i *Instance) Screen() Screen { return i.body }

// State returns a snapshot of the lifecycle flags.
func (i *Instance) State() State { return i.state.load() }

func (i *Instance) HasState(s State) bool { return i.state.load().Has(s) }

func (i *Instance) IsActive() bool    { return i.HasState(StateInUse) }
func (i *Instance) IsPooled() bool    { return i.HasState(StateInPool) }
func (i *Instance) IsLoading() bool   { return i.HasState(StateLoading) }
func (i *Instance) IsUnloading() bool { return i.HasState(StateUnloading) }

func (i *Instance) IsAnimating() bool {
	s := i.state.load()
	return s&(StateInShowAnimation|StateInHideAnimation) != 0
}

func (i *Instance) Manager() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.manager
}

func (i *Instance) Layer() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.layer
}

func (i *Instance) Tag() constants.Tag {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tag
}

// Params returns a copy of the parameters the instance was last shown with.
func (i *Instance) Params() []any {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]any(nil), i.params...)
}

func (i *Instance) AddToHistory() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.addToHistory
}

// Descriptor returns the descriptor the instance was last placed with.
func (i *Instance) Descriptor() *Descriptor {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.desc
}

// place rewrites the placement fields for a new show request.
func (i *Instance) place(desc *Descriptor, manager, layer int, params []any, addToHistory bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.desc = desc
	i.manager = manager
	i.layer = layer
	i.tag = desc.Tag
	i.params = append([]any(nil), params...)
	i.addToHistory = addToHistory
}

type placement struct {
	manager int
	layer   int
	tag     constants.Tag
}

func (i *Instance) placement() placement {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return placement{manager: i.manager, layer: i.layer, tag: i.tag}
}
