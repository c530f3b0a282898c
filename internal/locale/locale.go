// internal/locale/locale.go
//
// Locale value type.
//
// A Locale wraps a canonical BCP-47 language tag.  The zero value means
// "no locale" and is what resolvers return when they decline.  Once a
// request's locale is computed it never changes; reqctx caches the value
// for the rest of the request.

package locale

import "golang.org/x/text/language"

// Locale is an immutable language identifier.  The zero value is "none".
type Locale struct {
	tag language.Tag
}

// Make parses a BCP-47 tag ("en", "pt-BR") into a Locale.  Invalid input
// yields the zero Locale and the parse error.
func Make(s string) (Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, err
	}
	return Locale{tag: tag}, nil
}

// MustMake is Make for trusted literals; it panics on parse failure.
func MustMake(s string) Locale {
	l, err := Make(s)
	if err != nil {
		panic("locale: " + err.Error())
	}
	return l
}

// IsZero reports whether l is the "no locale" value.
func (l Locale) IsZero() bool { return l.tag == language.Und }

// Tag exposes the underlying language.Tag for matching and formatting.
func (l Locale) Tag() language.Tag { return l.tag }

// String renders the canonical tag, or "" for the zero Locale.
func (l Locale) String() string {
	if l.IsZero() {
		return ""
	}
	return l.tag.String()
}
