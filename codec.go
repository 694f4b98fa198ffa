// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

import (
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"
)

// frameSlack is added to the payload size when growing an encode destination.
const frameSlack = 30

// limits bounds what the decoder accepts. Zero means no limit.
type limits struct {
	length int // declared Content-Length
	header int // header block bytes
}

// Codec encodes and decodes Content-Length framed messages.
//
// The zero value is ready to use. A Codec is not safe for concurrent use; it is
// meant to be driven by the single reader that owns the decode buffer.
//
// Encoding an empty payload is a no-op: no header is written for it.
type Codec struct {
	// need is the minimum buffered length before the next parse can succeed.
	// Zero when unknown.
	need int
	lim  limits
}

// Reset returns the codec to its initial state.
func (c *Codec) Reset() { c.need = 0 }

// AppendFrame appends the wire form of payload to dst and returns the extended slice.
// An empty payload appends nothing.
func AppendFrame(dst []byte, payload string) []byte {
	if len(payload) == 0 {
		return dst
	}
	dst = appendHeader(dst, len(payload))
	return append(dst, payload...)
}

func appendHeader(dst []byte, n int) []byte {
	dst = append(dst, contentLengthPrefix...)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, crlf+crlf...)
}

// Encode writes payload as one frame to dst. When dst can Grow, it is grown
// ahead of the write. Failures of dst are reported as *EncodeError.
func (c *Codec) Encode(dst io.Writer, payload string) error {
	if len(payload) == 0 {
		return nil
	}
	if g, ok := dst.(interface{ Grow(int) }); ok {
		g.Grow(len(payload) + frameSlack)
	}

	var hdr [64]byte
	if err := writeFull(dst, appendHeader(hdr[:0], len(payload))); err != nil {
		return &EncodeError{Err: err}
	}
	n, err := io.WriteString(dst, payload)
	if err == nil && n != len(payload) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

// Decode extracts at most one payload from the front of src.
//
// It returns ok == false with a nil error while the next frame is still
// arriving; src is left untouched in that case. On success exactly one frame
// is consumed from src. Errors are ErrMissingHeader, ErrInvalidLength,
// ErrInvalidType, ErrTooLong or a *UTF8Error; after an error the caller is
// expected to discard or resynchronize src before decoding again.
func (c *Codec) Decode(src *bytes.Buffer) (payload string, ok bool, err error) {
	payload, n, err := c.DecodeBytes(src.Bytes())
	if err != nil || n == 0 {
		return "", false, err
	}
	src.Next(n)
	return payload, true, nil
}

// DecodeBytes is the slice form of Decode. It returns the payload and the
// number of bytes it occupied in src; n == 0 with a nil error means no complete
// frame is buffered yet. src is never modified.
func (c *Codec) DecodeBytes(src []byte) (payload string, n int, err error) {
	if c.need > 0 && len(src) < c.need {
		return "", 0, nil
	}

	tail, err := validUTF8(src)
	if err != nil {
		c.need = 0
		return "", 0, err
	}

	span, need, v, tag := scanFrame(src, c.lim)
	switch v {
	case short:
		if need > 0 {
			c.need = need
		}
		return "", 0, nil
	case mismatch:
		c.need = 0
		return "", 0, tag.err()
	}

	end := span.end()
	if end > tail {
		c.need = 0
		return "", 0, &UTF8Error{Offset: tail}
	}
	c.need = 0
	return string(src[span.header:end]), end, nil
}

// validUTF8 checks b for invalid UTF-8, tolerating one rune cut off by the end
// of b. tail is the offset of that partial rune, or len(b) if there is none.
func validUTF8(b []byte) (tail int, err error) {
	if utf8.Valid(b) {
		return len(b), nil
	}
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			if !utf8.FullRune(b[i:]) {
				return i, nil
			}
			return 0, &UTF8Error{Offset: i}
		}
		i += size
	}
	return len(b), nil
}
