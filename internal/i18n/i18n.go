package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

// Translator localizes message IDs using bundled TOML translation files
type Translator struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewTranslator creates a translator with the embedded translations loaded.
// defaultLang is used when a request asks for a language we do not have.
func NewTranslator(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(translationFS, "translations/*.toml")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		data, err := translationFS.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(file)); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s: %w", file, err)
		}
	}

	return &Translator{bundle: bundle, defaultLang: tag}, nil
}

// Translate returns the localized message and whether a translation was found
func (t *Translator) Translate(lang, msgID string, data map[string]any) (string, bool) {
	localizer := i18n.NewLocalizer(t.bundle, lang, t.defaultLang.String())

	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(data) > 0 {
		lc.TemplateData = data
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return "", false
	}
	return msg, true
}

// Languages lists the languages that have translations loaded
func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}
