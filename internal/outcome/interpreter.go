// internal/outcome/interpreter.go
//
// Controller return-value interpreter.
//
// Context
//   Controllers return nothing, a view path, or a *Response wrapper.
//   Interpret() maps the raw value plus the method's registered metadata
//   to one Outcome.  The mapping is pure; all side effects (rendering,
//   writing the redirect, persisting scope) belong to the pipeline.
//
// Rules
//   void     – render the method's default view (metadata validated at
//              registration, so a missing default never reaches here).
//   string   – "redirect:<uri>" is a redirect, resolved against the
//              application base path unless absolute; any other non-nil
//              string is the view path; nil falls back to the default
//              view or fails the request.
//   Response – a wrapper whose entity is itself void/string/nil is
//              unwrapped and re-interpreted, keeping the wrapper's
//              explicit status and headers; any other entity passes
//              through untouched.

package outcome

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/yanizio/mvc/internal/fault"
)

// RedirectPrefix is the exact, case-sensitive marker on view paths.
const RedirectPrefix = "redirect:"

// ReturnKind categorizes a controller method's return type.
type ReturnKind int

const (
	ReturnVoid ReturnKind = iota
	ReturnString
	ReturnResponse
)

// MethodMeta is the registration-time metadata for one controller method.
type MethodMeta struct {
	Return      ReturnKind
	DefaultView string // optional; required for ReturnVoid
}

// Options carries application-level interpreter settings.
type Options struct {
	BasePath       string // mount point redirect URIs resolve against
	LegacyRedirect bool   // emit 302 instead of 303 for old clients
}

// Errors surfaced by validation and interpretation.
var (
	ErrVoidNeedsDefaultView = errors.New("outcome: void return requires a default view")
	ErrUnsupportedReturn    = errors.New("outcome: unsupported controller return kind")
	ErrNilViewNoDefault     = errors.New("outcome: nil view path and no default view")
)

// ValidateMeta runs the registration-time checks.  A failure here must
// abort route registration; per-request interpretation assumes metadata
// already passed.
func ValidateMeta(meta MethodMeta) error {
	switch meta.Return {
	case ReturnVoid:
		if meta.DefaultView == "" {
			return fault.Config(ErrVoidNeedsDefaultView)
		}
	case ReturnString, ReturnResponse:
		// Nothing to check up front.
	default:
		return fault.Config(ErrUnsupportedReturn)
	}
	return nil
}

// Interpret maps one raw controller return to an Outcome.
func Interpret(raw any, meta MethodMeta, opts Options) (Outcome, error) {
	switch meta.Return {
	case ReturnVoid:
		return Render(meta.DefaultView, http.StatusOK), nil

	case ReturnString:
		return interpretString(raw, meta, opts)

	case ReturnResponse:
		resp, _ := raw.(*Response)
		if resp == nil {
			// A nil wrapper carries no entity; apply the nil-string rules.
			return interpretString(nil, meta, opts)
		}
		return interpretResponse(resp, meta, opts)
	}
	return Outcome{}, fault.Config(ErrUnsupportedReturn)
}

// interpretString applies the view-path rules to a raw string return.
func interpretString(raw any, meta MethodMeta, opts Options) (Outcome, error) {
	s, ok := stringValue(raw)
	if !ok {
		if meta.DefaultView == "" {
			return Outcome{}, fault.Request(ErrNilViewNoDefault)
		}
		s = meta.DefaultView
	}

	if rest, found := strings.CutPrefix(s, RedirectPrefix); found {
		status := http.StatusSeeOther
		if opts.LegacyRedirect {
			status = http.StatusFound
		}
		return Redirect(resolveURI(rest, opts.BasePath), status), nil
	}
	return Render(s, http.StatusOK), nil
}

// interpretResponse unwraps a Response whose entity is void/string/nil,
// or passes anything else through unmodified.
func interpretResponse(resp *Response, meta MethodMeta, opts Options) (Outcome, error) {
	switch entity := resp.Entity.(type) {
	case nil, string, *string:
		inner, err := interpretString(entity, meta, opts)
		if err != nil {
			return Outcome{}, err
		}
		if resp.Status != 0 {
			inner.status = resp.Status
		}
		inner.header = resp.Header
		return inner, nil
	default:
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}
		return Passthrough(resp), nil
	}
}

// stringValue normalizes the Go renderings of the "null string" case:
// nil, a nil *string, and the empty string all count as absent.
func stringValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case *string:
		if v == nil || *v == "" {
			return "", false
		}
		return *v, true
	default:
		return "", false
	}
}

// resolveURI resolves uri against the application base path.  Absolute
// URLs (with a scheme) pass through untouched.
func resolveURI(uri, basePath string) string {
	parsed, err := url.Parse(uri)
	if err == nil && parsed.IsAbs() {
		return uri
	}
	if basePath == "" || basePath == "/" {
		if !strings.HasPrefix(uri, "/") {
			return "/" + uri
		}
		return uri
	}
	if err != nil {
		// Unparseable; fall back to plain joining.
		return path.Join(basePath, uri)
	}
	parsed.Path = path.Join(basePath, parsed.Path)
	return parsed.String()
}
