package screenstack

import (
	"sort"
	"sync"
	"time"
)

// EventKind identifies a lifecycle event.
type EventKind int

const (
	EventLoaded              EventKind = iota // A new instance was produced by the loader
	EventShown                                // Show transition completed
	EventHidden                               // Hide transition completed
	EventUnloaded                             // Instance was destroyed
	EventManagerRegistered                    // A manager record was registered
	EventManagerUnregistered                  // A manager record was removed
	EventBackNavigation                       // GoBack re-showed a history entry
	EventHistoryCleared                       // A manager's history was cleared
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventShown:
		return "shown"
	case EventHidden:
		return "hidden"
	case EventUnloaded:
		return "unloaded"
	case EventManagerRegistered:
		return "manager_registered"
	case EventManagerUnregistered:
		return "manager_unregistered"
	case EventBackNavigation:
		return "back_navigation"
	case EventHistoryCleared:
		return "history_cleared"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle change. Fields that do not apply to a kind
// are left zero.
type Event struct {
	Kind     EventKind
	Screen   ScreenType
	Instance *Instance
	Manager  int
	Layer    int

	// From is the screen that was replaced during back navigation.
	From *Instance
	// Count carries the layer count for EventManagerRegistered and the
	// number of dropped entries for EventHistoryCleared.
	Count int
	// Duration is how long a show or hide transition took.
	Duration time.Duration
}

// Listener receives events synchronously on the goroutine that caused them.
// Listeners must not block and must not call back into the Navigator.
type Listener func(Event)

type eventBus struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]Listener
}

func newEventBus() *eventBus {
	return &eventBus{listeners: make(map[int]Listener)}
}

func (b *eventBus) subscribe(fn Listener) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

func (b *eventBus) emit(ev Event) {
	b.mu.RLock()
	if len(b.listeners) == 0 {
		b.mu.RUnlock()
		return
	}
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.listeners[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
