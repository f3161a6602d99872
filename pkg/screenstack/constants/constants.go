// Package constants defines shared enums and configuration values
// used throughout the screenstack navigation engine.
package constants

import (
	"fmt"
	"os"
	"strings"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read by screenstack.
const (
	LogLevelEnvVar = "SCREENSTACK_LOG_LEVEL" // Overrides Options.LogLevel when set
	LogPathEnvVar  = "SCREENSTACK_LOG_PATH"  // Overrides Options.LogPath when set
	LanguageEnvVar = "SCREENSTACK_LANG"      // BCP 47 tag for localized error messages
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// Tag is a coarse category label on a screen, used for batch hide and unload.
type Tag int

const (
	TagDefault  Tag = iota // Uncategorized screens
	TagPopup               // Modal overlays
	TagOverlay             // Non-modal overlays on top of content
	TagDialog              // Confirmation or input dialogs
	TagHUD                 // Heads-up display elements
	TagMenu                // Main menu, pause menu, etc.
	TagLoading             // Shown during loading operations
	TagTutorial            // Onboarding and help content
)

// Tags lists every defined tag in declaration order.
var Tags = []Tag{TagDefault, TagPopup, TagOverlay, TagDialog, TagHUD, TagMenu, TagLoading, TagTutorial}

func (t Tag) GetName() string {
	switch t {
	case TagDefault:
		return "Default"
	case TagPopup:
		return "Popup"
	case TagOverlay:
		return "Overlay"
	case TagDialog:
		return "Dialog"
	case TagHUD:
		return "HUD"
	case TagMenu:
		return "Menu"
	case TagLoading:
		return "Loading"
	case TagTutorial:
		return "Tutorial"
	default:
		return "Unknown"
	}
}

func (t Tag) String() string {
	return t.GetName()
}

// ParseTag resolves a tag by name, ignoring case. An empty name is TagDefault.
func ParseTag(name string) (Tag, error) {
	if name == "" {
		return TagDefault, nil
	}
	for _, t := range Tags {
		if strings.EqualFold(t.GetName(), name) {
			return t, nil
		}
	}
	return TagDefault, fmt.Errorf("unknown screen tag %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.GetName()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so tags can be
// written by name in manifest files.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LoadKind selects how a screen's visual content is produced.
type LoadKind int

const (
	LoadDirect   LoadKind = iota // Direct reference, instantiated in process
	LoadResource                 // Named resource path in a local file system
	LoadRemote                   // Remote key fetched from a content server
)

func (k LoadKind) String() string {
	switch k {
	case LoadDirect:
		return "direct"
	case LoadResource:
		return "resource"
	case LoadRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k LoadKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *LoadKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "direct":
		*k = LoadDirect
	case "resource":
		*k = LoadResource
	case "remote":
		*k = LoadRemote
	default:
		return fmt.Errorf("unknown load kind %q", string(text))
	}
	return nil
}
