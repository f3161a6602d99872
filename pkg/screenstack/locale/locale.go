// Package locale renders human-readable navigation failure messages.
// English, Spanish and German catalogs are embedded; English is the fallback.
package locale

import (
	"embed"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messageFS embed.FS

var messageFiles = []string{
	"messages/active.en.toml",
	"messages/active.es.toml",
	"messages/active.de.toml",
}

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle

	mu        sync.RWMutex
	localizer *i18n.Localizer
)

// Bundle returns the shared message bundle, loading the embedded catalogs on first use.
func Bundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		for _, name := range messageFiles {
			// Embedded files are fixed at build time; a parse failure is a packaging bug.
			if _, err := bundle.LoadMessageFileFS(messageFS, name); err != nil {
				panic(err)
			}
		}
	})
	return bundle
}

// SetLanguage selects the message language by BCP 47 tags in preference order.
// Unknown or unsupported tags fall back to English.
func SetLanguage(langs ...string) {
	l := i18n.NewLocalizer(Bundle(), langs...)

	mu.Lock()
	localizer = l
	mu.Unlock()
}

// Supported lists the languages with embedded catalogs.
func Supported() []language.Tag {
	return Bundle().LanguageTags()
}

func current() *i18n.Localizer {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		return i18n.NewLocalizer(Bundle(), language.English.String())
	}
	return l
}

// Message renders the message with the given id. Missing ids render as the id itself.
func Message(id string, data map[string]any) string {
	out, err := current().Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || out == "" {
		return id
	}
	return out
}

// MessageIn renders a message in a specific language without changing the
// process-wide selection.
func MessageIn(lang string, id string, data map[string]any) string {
	out, err := i18n.NewLocalizer(Bundle(), lang).Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || out == "" {
		return id
	}
	return out
}
