package stego

import (
	"errors"
	"fmt"
)

// Error kinds returned by the embedder. Every error produced by Embedder
// wraps exactly one of these, so callers can classify failures with
// errors.Is.
var (
	// ErrDecode means an input raster could not be read or decoded.
	ErrDecode = errors.New("decode failed")

	// ErrGeometryDegenerate means the capacity-resized embed image has a
	// zero side or does not fit inside the QR raster.
	ErrGeometryDegenerate = errors.New("embed does not fit inside QR raster")

	// ErrEncode means the output raster could not be written.
	ErrEncode = errors.New("encode failed")
)

// EmbedError describes a failed embedding call.
type EmbedError struct {
	// Kind is one of ErrDecode, ErrGeometryDegenerate or ErrEncode.
	Kind error

	// Path is the file involved, if any.
	Path string

	// Err is the underlying cause. May be nil.
	Err error
}

func (e *EmbedError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *EmbedError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func decodeError(path string, err error) error {
	return &EmbedError{Kind: ErrDecode, Path: path, Err: err}
}

func encodeError(path string, err error) error {
	return &EmbedError{Kind: ErrEncode, Path: path, Err: err}
}

func degenerateError(format string, args ...interface{}) error {
	return &EmbedError{Kind: ErrGeometryDegenerate, Err: fmt.Errorf(format, args...)}
}
