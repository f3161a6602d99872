// Package screenstack drives full-view UI screens through their lifecycle
// across several independent display surfaces.
//
// A manager is one display surface, split into ordered layers. Each manager
// registers a Descriptor per screen type it can show. The Navigator loads
// screens through a ContentLoader, places them with a LayoutAdapter and keeps
// three indexes: the active registry (what is on screen), the passive pool
// (idle instances kept for reuse) and per-manager history (for GoBack).
//
// # Basic Usage
//
//	nav := screenstack.New(screenstack.Options{})
//
//	err := nav.RegisterManager(0, []screenstack.Layer{"base", "popup"},
//	    screenstack.Direct("library", newLibraryView).Tracked(),
//	    screenstack.Direct("confirm", newConfirmView).OnLayer(1).WithTag(constants.TagDialog),
//	)
//
//	lib, err := nav.Open("library", 0).Show(ctx)
//
//	// A second Open of an active type returns the same instance
//	same, _ := nav.Open("library", 0).Show(ctx)
//
//	// Hiding returns the instance to the pool; the next Show reuses it
//	_ = nav.Hide(ctx, lib, false)
//
//	// Tear everything down
//	_ = nav.Close(ctx)
//
// # Lifecycle
//
// An instance moves through these flags:
//
//	Loading -> InPool -> [InShowAnimation] -> InUse -> [InHideAnimation] -> InPool -> ... -> Unloading
//
// InUse and InPool are never set together, and neither are the two animation
// flags. Once Unloading is set, Show and Hide ignore the instance.
//
// # Animations
//
// A screen body that implements Animator plays transitions when its
// descriptor enables them. PlayShow and PlayHide receive a *Signal that must
// be resolved exactly once. There is no timeout: a signal that is never
// resolved leaves the caller waiting until its context ends.
//
// # Concurrency
//
// All Navigator methods are safe for concurrent use. Shows targeting the same
// manager layer are serialized, as are loads of the same descriptor. Event
// listeners and screen hooks run without internal locks held, but they must
// not block.
package screenstack
