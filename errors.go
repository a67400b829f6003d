package fontid

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrLoad reports an input image that is missing or cannot be decoded.
	ErrLoad = errors.New("load error")
	// ErrConfig reports a missing or malformed label map or configuration.
	ErrConfig = errors.New("config error")
	// ErrClassifierUnavailable reports a classifier that failed to
	// initialize or failed during inference.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrDegenerateGlyph marks a glyph candidate that cannot be normalized,
	// e.g. an empty crop. The predictor drops such glyphs silently.
	ErrDegenerateGlyph = errors.New("degenerate glyph")
)

// Error is a structured pipeline error carrying its kind, the failing
// operation and, when relevant, the file involved.
type Error struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func loadError(op, path string, err error) error {
	return &Error{Kind: ErrLoad, Op: op, Path: path, Err: err}
}

func configError(op, path string, err error) error {
	return &Error{Kind: ErrConfig, Op: op, Path: path, Err: err}
}

func configErrorf(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrConfig, Op: op, Err: fmt.Errorf(format, args...)}
}

func classifierError(op, path string, err error) error {
	return &Error{Kind: ErrClassifierUnavailable, Op: op, Path: path, Err: err}
}
