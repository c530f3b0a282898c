// internal/fault/fault.go
//
// Two-tier error taxonomy.
//
// Context
//   Startup problems (bad controller metadata, no usable locale resolver)
//   must abort boot, while per-request problems must surface as a 500 on
//   that request alone.  Wrapping an error with Config() or Request()
//   tags it for the boundary that decides between those fates; the tags
//   survive further %w wrapping.
package fault

import (
	"errors"
	"fmt"
)

type kind int

const (
	kindConfig kind = iota
	kindRequest
)

type tagged struct {
	k   kind
	err error
}

func (t *tagged) Error() string { return t.err.Error() }
func (t *tagged) Unwrap() error { return t.err }

// Config marks err as a configuration error: fatal, detected at startup
// or registration, never served past.
func Config(err error) error {
	if err == nil {
		return nil
	}
	return &tagged{k: kindConfig, err: err}
}

// Configf is Config(fmt.Errorf(...)).
func Configf(format string, args ...any) error {
	return Config(fmt.Errorf(format, args...))
}

// Request marks err as a per-request error: recovered at the pipeline
// boundary and converted into a server-error response.
func Request(err error) error {
	if err == nil {
		return nil
	}
	return &tagged{k: kindRequest, err: err}
}

// Requestf is Request(fmt.Errorf(...)).
func Requestf(format string, args ...any) error {
	return Request(fmt.Errorf(format, args...))
}

// IsConfig reports whether err carries the configuration tag.
func IsConfig(err error) bool { return is(err, kindConfig) }

// IsRequest reports whether err carries the request tag.
func IsRequest(err error) bool { return is(err, kindRequest) }

func is(err error, k kind) bool {
	var t *tagged
	if errors.As(err, &t) {
		return t.k == k
	}
	return false
}
