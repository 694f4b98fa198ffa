// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

import (
	"errors"
	"strconv"
)

var (
	// ErrMissingHeader reports a header block without a recognizable Content-Length
	// header, or one that is not terminated correctly.
	ErrMissingHeader = errors.New("lspframe: missing required Content-Length header")

	// ErrInvalidLength reports a Content-Length value that is not a valid
	// non-negative base-10 integer.
	ErrInvalidLength = errors.New("lspframe: unable to parse content length")

	// ErrInvalidType reports a malformed Content-Type header or a charset other
	// than utf-8 / utf8.
	ErrInvalidType = errors.New("lspframe: unable to parse content type")

	// ErrUTF8 reports input that is not valid UTF-8. Returned errors are *UTF8Error.
	ErrUTF8 = errors.New("lspframe: invalid UTF-8")

	// ErrEncode reports a sink that rejected an encoded frame. Returned errors are *EncodeError.
	ErrEncode = errors.New("lspframe: failed to encode message")

	// ErrInvalidArgument reports an invalid configuration or nil reader/writer.
	ErrInvalidArgument = errors.New("lspframe: invalid argument")

	// ErrTooLong reports a frame whose declared length or header block exceeds
	// the configured limits.
	ErrTooLong = errors.New("lspframe: message too long")
)

// UTF8Error reports the offset of the first invalid byte in the decode buffer.
type UTF8Error struct {
	Offset int
}

func (e *UTF8Error) Error() string {
	return "lspframe: invalid UTF-8 at offset " + strconv.Itoa(e.Offset)
}

func (e *UTF8Error) Is(target error) bool { return target == ErrUTF8 }

// EncodeError wraps the error returned by the destination sink.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	if e.Err == nil {
		return ErrEncode.Error()
	}
	return ErrEncode.Error() + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }
