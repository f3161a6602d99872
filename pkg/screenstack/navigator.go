package screenstack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/constants"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/history"
	"github.com/BrandonKowalski/screenstack/pkg/screenstack/internal"
)

// HistoryEntry is one step of a manager's back-navigation history.
type HistoryEntry = history.Entry

// Options configures a Navigator.
type Options struct {
	Loader   ContentLoader // Produces and disposes visuals (default: DirectLoader)
	Layout   LayoutAdapter // Places visuals in layers (default: NopLayout)
	Catalog  *Catalog      // Screen body factories (default: empty, bodies are the visuals)
	LogPath  string        // Log file path; takes effect only before the first logger is built
	LogLevel string        // Engine log level: "debug", "info", "warn", "error" (default: error)
	Language string        // BCP 47 tag for this navigator's error messages (default: process language)
	// PoolLimit caps idle instances per screen type. Hidden instances beyond
	// the cap are unloaded instead of pooled. Zero means unlimited.
	PoolLimit int
	Clock     func() time.Time // Timestamps for history entries (default: time.Now)
}

// Navigator is the lifecycle orchestrator. It owns the manager table, the
// active registry, the passive pool and history, and drives every screen
// through load, show, hide and unload.
//
// All methods are safe for concurrent use. Blocking methods wait for content
// loads and animation completion; none of them hold internal locks while waiting.
type Navigator struct {
	mu       sync.Mutex
	managers *managerTable
	registry *activeRegistry
	pool     *passivePool
	history  *history.History

	layerLocks *internal.KeyedLock
	loadLocks  *internal.KeyedLock

	loader    ContentLoader
	layout    LayoutAdapter
	catalog   *Catalog
	bus       *eventBus
	log       *slog.Logger
	poolLimit int
	language  string
	now       func() time.Time
}

// New creates a Navigator. Environment variables SCREENSTACK_LOG_LEVEL,
// SCREENSTACK_LOG_PATH and SCREENSTACK_LANG override the matching options.
func New(opts Options) *Navigator {
	if v := os.Getenv(constants.LogPathEnvVar); v != "" {
		opts.LogPath = v
	}
	if opts.LogPath != "" {
		internal.SetLogPath(opts.LogPath)
	}

	level := opts.LogLevel
	if v := os.Getenv(constants.LogLevelEnvVar); v != "" {
		level = v
	} else if constants.IsDevMode() && level == "" {
		level = "debug"
	}

	if v := os.Getenv(constants.LanguageEnvVar); v != "" {
		opts.Language = v
	}

	n := &Navigator{
		managers:   newManagerTable(),
		registry:   newActiveRegistry(),
		history:    history.New(),
		layerLocks: internal.NewKeyedLock(),
		loadLocks:  internal.NewKeyedLock(),
		loader:     opts.Loader,
		layout:     opts.Layout,
		catalog:    opts.Catalog,
		bus:        newEventBus(),
		log:        internal.GetInternalLogger(),
		language:   opts.Language,
		poolLimit:  opts.PoolLimit,
		now:        opts.Clock,
	}

	if n.loader == nil {
		n.loader = DirectLoader{}
	}
	if n.layout == nil {
		n.layout = NopLayout{}
	}
	if n.catalog == nil {
		n.catalog = NewCatalog()
	}
	if n.now == nil {
		n.now = time.Now
	}
	if level != "" {
		n.log = internal.NewInternalLogger(internal.ParseLevel(level))
	}

	n.pool = newPassivePool(func(inst *Instance) {
		n.layout.Detach(inst.visual)
	})

	return n
}

// Catalog returns the navigator's screen factory table.
func (n *Navigator) Catalog() *Catalog {
	return n.catalog
}

// Subscribe registers a lifecycle event listener and returns a function that removes it.
func (n *Navigator) Subscribe(fn Listener) func() {
	return n.bus.subscribe(fn)
}

// RegisterManager registers a navigation domain with its ordered layers and
// the descriptors of the screens it can show. Registering an existing id
// replaces its record.
func (n *Navigator) RegisterManager(id int, layers []Layer, descs ...*Descriptor) (err error) {
	defer func() { localize(err, n.language) }()

	n.mu.Lock()
	err = n.managers.register(id, layers, descs)
	n.mu.Unlock()

	if err != nil {
		return fmt.Errorf("register manager %d: %w", id, err)
	}

	n.log.Debug("Manager registered", "manager", id, "layers", len(layers), "screens", len(descs))
	n.bus.emit(Event{Kind: EventManagerRegistered, Manager: id, Count: len(layers)})
	return nil
}

// UnregisterManager removes a manager record, its descriptors and its history.
// Screens still active on it are left in place; unload them first with UnloadAll.
func (n *Navigator) UnregisterManager(id int) bool {
	n.mu.Lock()
	ok := n.managers.unregister(id)
	if ok {
		n.history.Drop(id)
	}
	n.mu.Unlock()

	if ok {
		n.log.Debug("Manager unregistered", "manager", id)
		n.bus.emit(Event{Kind: EventManagerUnregistered, Manager: id})
	}
	return ok
}

// RegisterScreen adds or replaces one descriptor on a registered manager.
func (n *Navigator) RegisterScreen(manager int, d *Descriptor) error {
	n.mu.Lock()
	err := n.managers.addDescriptor(manager, d)
	n.mu.Unlock()

	localize(err, n.language)
	return err
}

// UnregisterScreen removes a descriptor from a manager.
func (n *Navigator) UnregisterScreen(manager int, t ScreenType) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.managers.removeDescriptor(manager, t)
}

// Managers returns the ids of all registered managers.
func (n *Navigator) Managers() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.managers.ids()
}

// LayerCount returns the number of layers of a manager, or -1 if it is not registered.
func (n *Navigator) LayerCount(manager int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if rec, ok := n.managers.get(manager); ok {
		return len(rec.layers)
	}
	return -1
}

// Descriptor returns the descriptor registered for a screen type on a manager.
func (n *Navigator) Descriptor(manager int, t ScreenType) (*Descriptor, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.managers.descriptor(manager, t)
}

// DescriptorsByTag returns every registered descriptor with a tag, across managers.
func (n *Navigator) DescriptorsByTag(tag constants.Tag) []*Descriptor {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.managers.byTag(tag)
}

// IsScreenActive returns the active instance of a type on a manager.
func (n *Navigator) IsScreenActive(t ScreenType, manager int) (*Instance, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.screen(t, manager)
}

// IsLayerOccupied returns the screen currently shown on a manager's layer.
func (n *Navigator) IsLayerOccupied(layer, manager int) (*Instance, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.layer(layer, manager)
}

// ActiveByTag returns a snapshot of the active screens with a tag on a manager.
func (n *Navigator) ActiveByTag(tag constants.Tag, manager int) []*Instance {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.byTagSnapshot(tag, manager)
}

// ActiveScreens returns a snapshot of the active screens on a manager.
func (n *Navigator) ActiveScreens(manager int) []*Instance {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.byManager(manager)
}

// PooledScreens returns a snapshot of every idle instance in the passive pool.
func (n *Navigator) PooledScreens() []*Instance {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pool.all()
}

// PoolCount returns how many idle instances of a type are pooled.
func (n *Navigator) PoolCount(t ScreenType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pool.count(t)
}

// Active returns the screen body of an active screen, typed.
func Active[T any](n *Navigator, t ScreenType, manager int) (T, bool) {
	var zero T
	inst, ok := n.IsScreenActive(t, manager)
	if !ok {
		return zero, false
	}
	body, ok := inst.body.(T)
	return body, ok
}

// Close unloads every screen and clears all history. The shared log file stays
// open; applications close it with CloseLogger at shutdown.
func (n *Navigator) Close(ctx context.Context) error {
	err := n.UnloadEverything(ctx, true)

	var drained []*Instance
	n.mu.Lock()
	n.pool.clear(func(inst *Instance) { drained = append(drained, inst) })
	n.history.ClearAll()
	n.mu.Unlock()

	for _, inst := range drained {
		n.dispose(inst)
	}

	return err
}
