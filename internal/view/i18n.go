// internal/view/i18n.go
//
// Translation bundle for view rendering.
//
// Message files live under <dir>/messages.<lang>.toml (go-i18n format).
// The bundle hands templates a per-locale localizer; the "t" func in the
// renderer's func map goes through T(), which falls back to the message
// ID itself when a translation is missing, so views never break on an
// untranslated key.

package view

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/yanizio/mvc/internal/locale"
)

// Bundle wraps a go-i18n bundle keyed by the request locale.
type Bundle struct {
	bundle *i18n.Bundle
}

// NewBundle loads every messages.*.toml under dir.  The default locale
// anchors fallback resolution.  A missing or empty dir yields a usable
// bundle that translates everything to its message ID.
func NewBundle(def locale.Locale, dir string) (*Bundle, error) {
	b := i18n.NewBundle(def.Tag())
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := filepath.Glob(filepath.Join(dir, "messages.*.toml"))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := b.LoadMessageFile(f); err != nil {
			return nil, err
		}
	}
	return &Bundle{bundle: b}, nil
}

// T translates messageID for loc, with template data for placeholders.
// Missing translations return the message ID unchanged.
func (b *Bundle) T(loc locale.Locale, messageID string, data map[string]any) string {
	localizer := i18n.NewLocalizer(b.bundle, loc.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
