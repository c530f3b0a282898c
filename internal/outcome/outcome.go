// internal/outcome/outcome.go
//
// Normalized controller outcomes.
//
// A controller may return nothing, a view path, or a fully-formed
// Response wrapper.  The interpreter flattens those into one of three
// outcome variants; the pipeline switches on the variant and never looks
// at the raw return again.

package outcome

import "net/http"

// Outcome is the normalized result of a controller invocation.  Exactly
// one of the variant methods below constructs it.
type Outcome struct {
	kind OutcomeKind

	// RenderView
	viewPath string

	// RedirectTo
	uri string

	status int

	// Extra headers from an unwrapped Response; nil for plain returns.
	header http.Header

	// Passthrough
	response *Response
}

// OutcomeKind discriminates the variants.
type OutcomeKind int

const (
	KindRender OutcomeKind = iota
	KindRedirect
	KindPassthrough
)

// Response is the explicit escape hatch: a controller that builds one
// keeps full control of status, headers, and entity.
type Response struct {
	Status int
	Header http.Header
	Entity any
}

// NewResponse returns a Response with an initialized header map and the
// zero status (meaning "unset"; the interpreter fills in defaults).
func NewResponse(entity any) *Response {
	return &Response{Header: http.Header{}, Entity: entity}
}

// Render constructs a render-view outcome.
func Render(viewPath string, status int) Outcome {
	return Outcome{kind: KindRender, viewPath: viewPath, status: status}
}

// Redirect constructs a redirect outcome.
func Redirect(uri string, status int) Outcome {
	return Outcome{kind: KindRedirect, uri: uri, status: status}
}

// Passthrough wraps a Response the pipeline must emit unmodified.
func Passthrough(resp *Response) Outcome {
	return Outcome{kind: KindPassthrough, response: resp}
}

// Kind reports the variant.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// ViewPath is valid for KindRender.
func (o Outcome) ViewPath() string { return o.viewPath }

// URI is valid for KindRedirect.
func (o Outcome) URI() string { return o.uri }

// Status is valid for KindRender and KindRedirect.
func (o Outcome) Status() int { return o.status }

// Header returns extra response headers carried over from an unwrapped
// Response wrapper; it may be nil.
func (o Outcome) Header() http.Header { return o.header }

// Response is valid for KindPassthrough.
func (o Outcome) Response() *Response { return o.response }
