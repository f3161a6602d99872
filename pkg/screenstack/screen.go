package screenstack

// Screen is the application's object behind a screen instance, built by the
// factory registered in the Catalog. It may implement any of the optional
// hook interfaces below; the navigator calls the ones it finds.
type Screen any

// Factory builds a new screen body around a freshly loaded visual.
type Factory func(v Visual) (Screen, error)

// Animator plays show and hide transitions. Each method must resolve the
// given Signal exactly once, synchronously or from another goroutine.
// It is only consulted when the screen's descriptor enables the animation.
type Animator interface {
	PlayShow(done *Signal)
	PlayHide(done *Signal)
}

// ParameterReceiver accepts the parameters a screen was opened with.
// It is only called when at least one parameter was supplied.
type ParameterReceiver interface {
	SetParameters(params []any)
}

// SetupHook brackets attachment of the screen's visual to its layer.
type SetupHook interface {
	BeforeSetup()
	AfterSetup()
}

// ShownHook is called once the show transition has completed.
type ShownHook interface {
	OnShown()
}

// HiddenHook is called when a hide completes, before the instance returns to the pool.
type HiddenHook interface {
	OnHidden()
}
