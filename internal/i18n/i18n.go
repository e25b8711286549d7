// Package i18n provides the host localization service for the terminal
// dashboard: a small message catalog keyed by Home Assistant frontend keys.
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Frontend keys used by the card and its controls.
const (
	KeyMoreInfo  = "ui.card.thermostat.more_info"
	KeyCurrently = "ui.card.climate.currently"
	KeyTarget    = "ui.card.climate.target"
	KeyMode      = "ui.card.water_heater.mode"
)

var translations = map[string]map[language.Tag]string{
	KeyMoreInfo: {
		language.English: "More info",
		language.Italian: "Altre informazioni",
		language.French:  "Plus d'infos",
		language.German:  "Weitere Informationen",
	},
	KeyCurrently: {
		language.English: "Currently",
		language.Italian: "Attuale",
		language.French:  "Actuellement",
		language.German:  "Aktuell",
	},
	KeyTarget: {
		language.English: "Target",
		language.Italian: "Obiettivo",
		language.French:  "Cible",
		language.German:  "Ziel",
	},
	KeyMode: {
		language.English: "Mode",
		language.Italian: "Modalità",
		language.French:  "Mode",
		language.German:  "Modus",
	},
}

// Localizer resolves frontend keys for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// supported lists the catalog languages; the first one is the fallback.
var supported = []language.Tag{language.English, language.Italian, language.French, language.German}

var (
	builder = newCatalog()
	matcher = language.NewMatcher(supported)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byLang := range translations {
		for tag, text := range byLang {
			// Messages carry no format verbs; SetString only fails on invalid input.
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// New returns a Localizer for a BCP 47 language tag such as "it" or "fr-CA".
// Unknown or malformed tags use English.
func New(lang string) *Localizer {
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, confidence := matcher.Match(parsed)
			if confidence != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Language returns the tag the Localizer resolved to.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Localize returns the translation for key, or "" when the key is unknown.
func (l *Localizer) Localize(key string) string {
	if _, known := translations[key]; !known {
		return ""
	}
	return l.printer.Sprintf(key)
}

// ModeTitle turns a mode or action identifier such as "heat_cool" into a
// title for display ("Heat Cool").
func (l *Localizer) ModeTitle(mode string) string {
	if mode == "" {
		return ""
	}
	words := strings.ReplaceAll(strings.ToLower(mode), "_", " ")
	return cases.Title(l.tag).String(words)
}
