// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

import (
	"io"
)

// Forwarder relays messages from a source to a destination while preserving
// message boundaries, re-framing each payload for the destination side.
//
// Semantics:
//   - One call to ForwardOnce processes at most one logical message.
//   - Two phases per message: decode one payload from src, then write it as one
//     message to dst. Either phase may stop early with ErrWouldBlock or ErrMore;
//     the in-flight message is kept and the next call resumes it.
//   - Returns (n, nil) when a whole message has been forwarded, n being the
//     payload bytes written in this call.
//   - Source-side decode errors are returned as-is and the offending input is
//     dropped; the Forwarder stays usable.
//   - Empty payloads are consumed but produce nothing on stream destinations.
//
// Retry rule: on ErrWouldBlock or ErrMore, call ForwardOnce again on the SAME
// Forwarder.
type Forwarder struct {
	rr *framer // read side (uses rr.rd, rr.rpr)
	ww *framer // write side (uses ww.wr, ww.wpr)

	msg     []byte // payload in flight
	writing bool
}

// NewForwarder constructs a Forwarder that relays messages from src to dst.
// Options apply per direction (read/write) following the same rules as Reader/Writer.
func NewForwarder(dst io.Writer, src io.Reader, opts ...Option) *Forwarder {
	return &Forwarder{
		rr: newFramer(src, nil, opts...),
		ww: newFramer(nil, dst, opts...),
	}
}

// ForwardOnce forwards at most one message. See Forwarder docs for semantics.
func (f *Forwarder) ForwardOnce() (n int, err error) {
	if !f.writing {
		msg, err := f.rr.readMessage()
		if err != nil {
			return 0, err
		}
		f.msg = append(f.msg[:0], msg...)
		f.writing = true
	}

	n, err = f.ww.write(f.msg)
	if err != nil {
		return n, err
	}
	f.writing = false
	return n, nil
}

// Forward calls ForwardOnce until the source is exhausted. It returns nil on
// io.EOF and the number of payload bytes written.
func (f *Forwarder) Forward() (int64, error) {
	var total int64
	for {
		n, err := f.ForwardOnce()
		total += int64(n)
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}
