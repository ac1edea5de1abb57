// Package locale turns navigation errors and path state into user-facing
// strings. Catalogs are TOML files embedded in the binary; English is the
// fallback for unknown languages and missing messages.
package locale

import (
	"embed"
	"errors"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

//go:embed catalog/*.toml
var catalogFS embed.FS

var defaultMessages = map[string]*i18n.Message{
	"ErrInvalidState":   {ID: "ErrInvalidState", Other: "That screen can't be opened right now."},
	"ErrSheetPresented": {ID: "ErrSheetPresented", Other: "Close the open panel first."},
	"ErrEmptyStack":     {ID: "ErrEmptyStack", Other: "There is nothing to go back to."},
	"ErrReentrant":      {ID: "ErrReentrant", Other: "Please wait for the current screen to close."},
	"ErrUnknown":        {ID: "ErrUnknown", Other: "Navigation failed."},
	"Depth":             {ID: "Depth", One: "{{.Count}} screen", Other: "{{.Count}} screens"},
}

// NewBundle loads the embedded catalogs.
func NewBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := catalogFS.ReadDir("catalog")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(catalogFS, "catalog/"+f.Name()); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}

// Localizer renders navigation messages in one language.
type Localizer struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// New creates a localizer for lang, a BCP 47 tag such as "es" or "en-GB".
// Unparseable or unsupported languages fall back to English.
func New(lang string) (*Localizer, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}
	return NewWithBundle(bundle, lang), nil
}

// NewWithBundle creates a localizer from an existing bundle.
func NewWithBundle(bundle *i18n.Bundle, lang string) *Localizer {
	matcher := language.NewMatcher(bundle.LanguageTags())
	tag, _, confidence := matcher.Match(language.Make(lang))
	if confidence == language.No {
		tag = language.English
	}
	base, _ := tag.Base()
	return &Localizer{
		tag:       language.Make(base.String()),
		localizer: i18n.NewLocalizer(bundle, lang, language.English.String()),
	}
}

// Language returns the matched language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Error returns a user-facing message for a navigation error. Nil errors
// produce an empty string.
func (l *Localizer) Error(err error) string {
	if err == nil {
		return ""
	}

	id := "ErrUnknown"
	switch {
	case errors.Is(err, navpath.ErrSheetPresented):
		id = "ErrSheetPresented"
	case navpath.IsInvalidState(err):
		id = "ErrInvalidState"
	case navpath.IsEmptyStack(err):
		id = "ErrEmptyStack"
	case navpath.IsReentrant(err):
		id = "ErrReentrant"
	}
	return l.localize(id, nil, nil)
}

// Depth returns a plural-aware description of the number of screens.
func (l *Localizer) Depth(n int) string {
	return l.localize("Depth", map[string]any{"Count": n}, n)
}

func (l *Localizer) localize(id string, data map[string]any, count any) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: defaultMessages[id],
		TemplateData:   data,
		PluralCount:    count,
	})
	if err != nil && msg == "" {
		return defaultMessages[id].Other
	}
	return msg
}
