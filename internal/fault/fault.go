// Package fault defines the error taxonomy used throughout the
// transcription pipeline. Every failure a component can raise is tagged
// with a Kind so that handlers and logs can branch on the failure class
// without parsing message strings.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// Validation marks malformed or missing client input.
	Validation Kind = "validation"
	// Storage marks scratch-space I/O failures.
	Storage Kind = "storage"
	// Conversion marks failures of the external media conversion tool.
	Conversion Kind = "conversion"
	// Transcription marks upstream speech-to-text failures other than
	// credential problems.
	Transcription Kind = "transcription"
	// Configuration marks an invalid or expired upstream credential.
	// It affects every subsequent request, not just the current one.
	Configuration Kind = "configuration"
	// Persistence marks a record-store failure after transcription.
	Persistence Kind = "persistence"
)

// Fault is an error with a named kind and an optional wrapped cause.
type Fault struct {
	Kind Kind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Msg, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// New creates a fault without a cause.
func New(kind Kind, msg string) *Fault {
	return &Fault{Kind: kind, Msg: msg}
}

// Newf creates a fault with a formatted message.
func Newf(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a fault around an underlying error.
func Wrap(kind Kind, msg string, err error) *Fault {
	return &Fault{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) a Fault, and ""
// otherwise.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
