// internal/reqctx/links.go
//
// Outbound link builder.
//
// Controllers and templates build application URLs through the request
// context instead of concatenating strings, so a deployment under a
// non-root base path keeps every link correct.

package reqctx

import (
	"net/url"
	"path"
	"strings"
)

// LinkBuilder renders application-relative URLs against the base path.
type LinkBuilder struct {
	basePath string
}

// To builds a link to an application path, e.g. To("/orders/7").
func (b *LinkBuilder) To(p string) string {
	if b.basePath == "" || b.basePath == "/" {
		if !strings.HasPrefix(p, "/") {
			return "/" + p
		}
		return p
	}
	return path.Join(b.basePath, p)
}

// ToQuery builds a link with query parameters from name/value pairs.
// An odd trailing name is ignored.
func (b *LinkBuilder) ToQuery(p string, pairs ...string) string {
	base := b.To(p)
	if len(pairs) < 2 {
		return base
	}
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Add(pairs[i], pairs[i+1])
	}
	return base + "?" + q.Encode()
}
