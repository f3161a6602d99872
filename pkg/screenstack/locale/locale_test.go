package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMessage_DefaultsToEnglish(t *testing.T) {
	got := MessageIn("en", "LayerOccupied", map[string]any{"Layer": 2, "Manager": 0})
	assert.Equal(t, "layer 2 is already occupied on manager 0", got)
}

func TestMessageIn_Spanish(t *testing.T) {
	got := MessageIn("es", "ManagerNotFound", map[string]any{"Manager": 3})
	assert.Equal(t, "no se encontró el gestor 3", got)
}

func TestMessageIn_UnsupportedFallsBack(t *testing.T) {
	got := MessageIn("ja", "ManagerNotFound", map[string]any{"Manager": 3})
	assert.Equal(t, "manager 3 not found", got)
}

func TestMessage_UnknownID(t *testing.T) {
	assert.Equal(t, "NoSuchMessage", MessageIn("en", "NoSuchMessage", nil))
}

func TestSetLanguage(t *testing.T) {
	t.Cleanup(func() { SetLanguage("en") })

	SetLanguage("de")
	assert.Equal(t, "Manager 1 nicht gefunden", Message("ManagerNotFound", map[string]any{"Manager": 1}))
}

func TestSupported(t *testing.T) {
	tags := Supported()
	assert.Contains(t, tags, language.English)
	assert.Contains(t, tags, language.Spanish)
	assert.Contains(t, tags, language.German)
}
