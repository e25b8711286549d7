package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLocalize(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		want string
	}{
		{lang: "en", key: KeyMoreInfo, want: "More info"},
		{lang: "it", key: KeyMoreInfo, want: "Altre informazioni"},
		{lang: "fr-CA", key: KeyMoreInfo, want: "Plus d'infos"},
		{lang: "de", key: KeyTarget, want: "Ziel"},
		{lang: "", key: KeyCurrently, want: "Currently"},
		{lang: "not a tag!", key: KeyMoreInfo, want: "More info"},
		{lang: "it", key: "ui.card.unknown", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.lang).Localize(tt.key))
		})
	}
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, language.English, New("").Language())
	assert.Equal(t, language.Italian, New("it").Language())
}

func TestModeTitle(t *testing.T) {
	l := New("en")
	assert.Equal(t, "Heat Cool", l.ModeTitle("heat_cool"))
	assert.Equal(t, "Eco", l.ModeTitle("ECO"))
	assert.Equal(t, "", l.ModeTitle(""))
}
