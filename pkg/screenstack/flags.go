package screenstack

import (
	"strings"

	"go.uber.org/atomic"
)

// State is the lifecycle flag set of a screen instance. Flags combine freely
// except for two pairs: InUse/InPool and InShowAnimation/InHideAnimation.
type State uint32

const (
	StateNone            State = 0
	StateLoading         State = 1 << 0 // Content is being produced by the loader
	StateUnloading       State = 1 << 1 // Instance is being torn down
	StateInPool          State = 1 << 2 // Idle in the passive pool
	StateInUse           State = 1 << 3 // Shown and indexed in the active registry
	StateInShowAnimation State = 1 << 4 // Playing its show transition
	StateInHideAnimation State = 1 << 5 // Playing its hide transition
)

var stateNames = []struct {
	flag State
	name string
}{
	{StateLoading, "Loading"},
	{StateUnloading, "Unloading"},
	{StateInPool, "InPool"},
	{StateInUse, "InUse"},
	{StateInShowAnimation, "InShowAnimation"},
	{StateInHideAnimation, "InHideAnimation"},
}

// Has reports whether every flag in mask is set.
func (s State) Has(mask State) bool {
	return s&mask == mask
}

func (s State) String() string {
	if s == StateNone {
		return "None"
	}
	var parts []string
	for _, n := range stateNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// exclusive returns the flags that must be cleared when adding s.
func exclusive(s State) State {
	var out State
	if s&StateInUse != 0 {
		out |= StateInPool
	}
	if s&StateInPool != 0 {
		out |= StateInUse
	}
	if s&StateInShowAnimation != 0 {
		out |= StateInHideAnimation
	}
	if s&StateInHideAnimation != 0 {
		out |= StateInShowAnimation
	}
	return out
}

// stateWord is a lock-free flag word. Adding a flag clears its exclusive partner
// in the same compare-and-swap so no observer sees both set.
type stateWord struct {
	v atomic.Uint32
}

func (w *stateWord) load() State {
	return State(w.v.Load())
}

func (w *stateWord) add(s State) {
	drop := exclusive(s)
	for {
		old := w.v.Load()
		next := (old &^ uint32(drop)) | uint32(s)
		if w.v.CompareAndSwap(old, next) {
			return
		}
	}
}

func (w *stateWord) remove(s State) {
	for {
		old := w.v.Load()
		next := old &^ uint32(s)
		if w.v.CompareAndSwap(old, next) {
			return
		}
	}
}

func (w *stateWord) reset() {
	w.v.Store(0)
}
