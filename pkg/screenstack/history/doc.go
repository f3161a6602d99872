// Package history provides per-manager back-navigation stacks.
//
// Each manager owns a LIFO of entries. An entry records the screen type, the
// layer it was shown on and a snapshot of the parameters it was shown with, so
// that navigating back can re-show it exactly.
//
// # Basic Usage
//
//	h := history.New()
//
//	// Forward navigation records where the user has been
//	h.Push(history.Entry{Screen: "inventory", Manager: 0, Layer: 1, Params: []any{42}})
//	h.Push(history.Entry{Screen: "item", Manager: 0, Layer: 1})
//
//	// Back navigation pops the most recent entry
//	if entry := h.Pop(0); entry != nil {
//	    show(entry.Screen, entry.Layer, entry.Params)
//	}
//
// Stacks are independent: popping manager 0 never touches manager 1.
package history
