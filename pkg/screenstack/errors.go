package screenstack

import (
	"errors"
	"fmt"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack/locale"
)

// Failure reasons. Check operations report them through a *NavigationError
// rather than failing outright, so the facade can choose a recovery policy.
var (
	ErrManagerNotFound = errors.New("manager not found")
	ErrInvalidLayer    = errors.New("invalid layer")
	ErrDuplicateScreen = errors.New("duplicate screen")
	ErrLayerOccupied   = errors.New("layer occupied")
	ErrConfigNotFound  = errors.New("config not found")
	ErrLoadFailure     = errors.New("load failure")
	ErrInvalidSource   = errors.New("invalid load source")
)

var reasonIDs = map[error]string{
	ErrManagerNotFound: "ManagerNotFound",
	ErrInvalidLayer:    "InvalidLayer",
	ErrDuplicateScreen: "DuplicateScreen",
	ErrLayerOccupied:   "LayerOccupied",
	ErrConfigNotFound:  "ConfigNotFound",
	ErrLoadFailure:     "LoadFailure",
	ErrInvalidSource:   "InvalidSource",
}

// NavigationError describes why a navigation request was refused or failed.
// errors.Is matches it against its Reason sentinel and against Err.
type NavigationError struct {
	Op      string // Operation that failed (e.g., "show", "load", "check")
	Reason  error  // One of the Err* sentinels
	Manager int
	Layer   int
	Screen  ScreenType
	Err     error // Underlying error, if any

	lang string
}

func (e *NavigationError) Error() string {
	msg := e.Message(e.lang)
	if e.Err != nil {
		return fmt.Sprintf("screenstack: %s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("screenstack: %s: %s", e.Op, msg)
}

// Message renders the reason in the given language, or in the process-wide
// language when lang is empty. Error uses the language of the navigator that
// returned the error, if it was configured with one.
func (e *NavigationError) Message(lang string) string {
	id, ok := reasonIDs[e.Reason]
	if !ok {
		if e.Reason != nil {
			return e.Reason.Error()
		}
		return "navigation failed"
	}

	data := map[string]any{
		"Manager": e.Manager,
		"Layer":   e.Layer,
		"Screen":  string(e.Screen),
	}
	if lang == "" {
		return locale.Message(id, data)
	}
	return locale.MessageIn(lang, id, data)
}

func (e *NavigationError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Reason != nil {
		out = append(out, e.Reason)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func newError(op string, reason error, manager, layer int, screen ScreenType, err error) *NavigationError {
	return &NavigationError{Op: op, Reason: reason, Manager: manager, Layer: layer, Screen: screen, Err: err}
}

// localize stamps lang on the navigation errors in err that have none.
func localize(err error, lang string) {
	if err == nil || lang == "" {
		return
	}
	switch e := err.(type) {
	case *NavigationError:
		if e.lang == "" {
			e.lang = lang
		}
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			localize(inner, lang)
		}
	case interface{ Unwrap() error }:
		localize(e.Unwrap(), lang)
	}
}

// ReasonOf returns the failure reason carried by err, or nil.
func ReasonOf(err error) error {
	var navErr *NavigationError
	if errors.As(err, &navErr) {
		return navErr.Reason
	}
	return nil
}

// IsNavigationError checks if an error is a navigation error.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}

// IsDuplicate checks if an error reports an already-active screen.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateScreen)
}
