// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lspframe implements the header-delimited message framing used by
// editor tooling RPC protocols such as the Language Server Protocol.
//
// Wire format:
//
//	Content-Length: <decimal byte count>\r\n
//	[Content-Type: <text>[; charset=utf-8|utf8]\r\n]
//	\r\n
//	<payload, exactly Content-Length bytes>
//
// There is no delimiter after the payload; the next frame's header follows
// immediately. Payloads are opaque UTF-8 text.
//
// Layers:
//   - Codec: the in-memory encoder and incremental decoder. It never performs I/O;
//     callers append transport bytes to a buffer and call Decode as they arrive.
//   - Reader, Writer, ReadWriter, Forwarder: adapters that drive a Codec over
//     io.Reader and io.Writer. On boundary-preserving transports (SeqPacket,
//     Datagram) they are pass-through.
//   - Non-blocking first: iox.ErrWouldBlock and iox.ErrMore are surfaced as
//     control-flow signals (re-exposed as ErrWouldBlock / ErrMore) and partial
//     progress is kept for the retry.
package lspframe

import (
	"io"

	"code.hybscloud.com/iox"
)

// NewReader returns a Reader that reads framed messages from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	return &Reader{fr: newFramer(r, nil, opts...)}
}

// NewWriter returns a Writer that writes framed messages to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{fr: newFramer(nil, w, opts...)}
}

// NewReadWriter returns a ReadWriter that reads and writes framed messages.
func NewReadWriter(r io.Reader, w io.Writer, opts ...Option) *ReadWriter {
	fr := newFramer(r, w, opts...)
	return &ReadWriter{Reader: &Reader{fr: fr}, Writer: &Writer{fr: fr}}
}

// NewPipe returns a synchronous in-memory framing pipe.
func NewPipe(opts ...Option) (*Reader, *Writer) {
	r, w := io.Pipe()
	pipe := NewReadWriter(r, w, opts...)
	return pipe.Reader, pipe.Writer
}

// Reader reads framed messages.
type Reader struct{ fr *framer }

// ReadMessage returns the next payload.
//
// It returns io.EOF when the transport ends at a frame boundary and
// io.ErrUnexpectedEOF when it ends inside a frame. Decode errors discard the
// buffered input. On ErrWouldBlock the partial frame is kept; call again.
func (r *Reader) ReadMessage() (string, error) { return r.fr.readMessage() }

// Read copies one payload into p. If p is too small it returns
// io.ErrShortBuffer and the payload is kept for the next call.
func (r *Reader) Read(p []byte) (int, error) { return r.fr.read(p) }

// WriteTo implements io.WriterTo. It copies payloads to dst until io.EOF,
// without any framing on the destination side.
//
// If dst returns an error after a partial write, the rest of that payload is
// written first on the next call.
func (r *Reader) WriteTo(dst io.Writer) (int64, error) { return r.fr.writeTo(dst) }

// Writer writes framed messages.
type Writer struct{ fr *framer }

// WriteMessage writes payload as one message. An empty payload writes nothing
// on stream transports. After ErrWouldBlock or ErrMore, retry with the same payload.
func (w *Writer) WriteMessage(payload string) error {
	_, err := w.fr.write([]byte(payload))
	return err
}

// Write writes p as one message and reports the payload bytes written.
func (w *Writer) Write(p []byte) (int, error) { return w.fr.write(p) }

// ReadFrom implements io.ReaderFrom.
//
// Each successful src.Read becomes one framed message. This does not preserve
// upstream application message boundaries.
func (w *Writer) ReadFrom(src io.Reader) (int64, error) { return w.fr.readFrom(src) }

// ReadWriter groups Reader and Writer.
type ReadWriter struct {
	*Reader
	*Writer
}

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// Caller action: stop the current attempt and retry later (after readiness/event),
	// or configure RetryDelay to emulate cooperative blocking on top of a non-blocking transport.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will follow”.
	//
	// Caller action: process the returned bytes/result, then call again to obtain the next chunk.
	ErrMore = iox.ErrMore
)
