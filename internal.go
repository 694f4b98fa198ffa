// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

import (
	"bytes"
	"io"
	"runtime"
	"time"
)

// defaultPacketCap bounds a single packet when no ReadLimit is configured.
const defaultPacketCap = 64 * 1024

type framer struct {
	rd  io.Reader
	rpr Protocol
	wr  io.Writer
	wpr Protocol

	codec      Codec
	readLimit  int
	chunkSize  int
	retryDelay time.Duration
	logger     Logger

	// read state
	in   bytes.Buffer // received bytes not yet consumed by the codec
	rbuf []byte       // scratch buffer for transport reads
	eof  bool         // transport reported io.EOF

	// payload held back by Read after io.ErrShortBuffer
	pending string
	held    bool

	// WriteTo resume state: the part of the current payload dst has not
	// accepted yet.
	wtRest string

	// write state
	frame  []byte // encoded frame in flight
	offset int    // bytes of frame already written
	length int    // payload length of the frame in flight

	// reusable scratch buffer for Writer.ReadFrom
	wbuf []byte
}

func newFramer(r io.Reader, w io.Writer, opts ...Option) *framer {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}

	fr := &framer{
		rd:        r,
		wr:        w,
		rpr:       o.ReadProto,
		wpr:       o.WriteProto,
		readLimit: o.ReadLimit,
		chunkSize: o.ChunkSize,
		logger:    o.Logger,

		retryDelay: o.RetryDelay,
	}
	fr.codec.lim = limits{length: o.ReadLimit, header: o.HeaderLimit}
	return fr
}

func (fr *framer) resetWrite() {
	fr.offset = 0
	fr.length = 0
}

func (fr *framer) waitOnceOnWouldBlock() bool {
	// returns whether the caller should retry
	if fr.retryDelay < 0 {
		return false
	}
	if fr.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(fr.retryDelay)
	return true
}

func (fr *framer) readOnce(p []byte) (n int, err error) {
	for {
		n, err = fr.rd.Read(p)
		// Guard against broken Readers that return (0, nil) on a non-empty
		// buffer; the decode loop would otherwise spin.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrNoProgress
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !fr.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (fr *framer) writeOnce(p []byte) (n int, err error) {
	for {
		n, err = fr.wr.Write(p)
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrShortWrite
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !fr.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (fr *framer) readMessage() (string, error) {
	if fr.rd == nil {
		return "", ErrInvalidArgument
	}
	if fr.held {
		msg := fr.pending
		fr.pending, fr.held = "", false
		return msg, nil
	}
	if fr.rpr.preserveBoundary() {
		return fr.readPacket()
	}
	return fr.readStream()
}

func (fr *framer) read(p []byte) (int, error) {
	msg, err := fr.readMessage()
	if err != nil {
		return 0, err
	}
	if len(p) < len(msg) {
		fr.pending, fr.held = msg, true
		return 0, io.ErrShortBuffer
	}
	return copy(p, msg), nil
}

func (fr *framer) readStream() (string, error) {
	for {
		msg, ok, err := fr.codec.Decode(&fr.in)
		if err != nil {
			// The stream cannot be resynchronized at this layer; drop what is buffered.
			fr.logger.Debug("lspframe: discarding undecodable input", "buffered", fr.in.Len(), "error", err)
			fr.in.Reset()
			fr.codec.Reset()
			return "", err
		}
		if ok {
			return msg, nil
		}
		if fr.eof {
			if fr.in.Len() == 0 {
				return "", io.EOF
			}
			fr.logger.Debug("lspframe: stream ended mid-frame", "buffered", fr.in.Len())
			return "", io.ErrUnexpectedEOF
		}
		if err := fr.fill(); err != nil {
			return "", err
		}
	}
}

// fill appends one transport read to the decode buffer.
func (fr *framer) fill() error {
	if fr.rbuf == nil {
		fr.rbuf = make([]byte, fr.chunkSize)
	}
	n, err := fr.readOnce(fr.rbuf)
	if n > 0 {
		fr.in.Write(fr.rbuf[:n])
		// Decode what arrived before surfacing control-flow signals.
		if err == ErrWouldBlock || err == ErrMore {
			err = nil
		}
	}
	if err == io.EOF {
		fr.eof = true
		return nil
	}
	return err
}

func (fr *framer) readPacket() (string, error) {
	if fr.eof {
		return "", io.EOF
	}
	if fr.rbuf == nil {
		size := defaultPacketCap
		if fr.readLimit > 0 {
			// One spare byte detects packets over the limit.
			size = fr.readLimit + 1
		}
		fr.rbuf = make([]byte, size)
	}

	n, err := fr.readOnce(fr.rbuf)
	if err == io.EOF {
		if n == 0 {
			return "", io.EOF
		}
		// Deliver the final packet now and report io.EOF on the next call.
		fr.eof = true
	}
	if n == 0 {
		return "", err
	}
	if fr.readLimit > 0 && n > fr.readLimit {
		return "", ErrTooLong
	}

	p := fr.rbuf[:n]
	tail, err := validUTF8(p)
	if err == nil && tail < n {
		err = &UTF8Error{Offset: tail}
	}
	if err != nil {
		fr.logger.Debug("lspframe: dropping packet", "size", n, "error", err)
		return "", err
	}
	return string(p), nil
}

func (fr *framer) write(p []byte) (n int, err error) {
	if fr.wr == nil {
		return 0, ErrInvalidArgument
	}
	if fr.wpr.preserveBoundary() {
		return fr.writePacket(p)
	}
	return fr.writeStream(p)
}

func (fr *framer) writePacket(p []byte) (n int, err error) {
	n, err = fr.writeOnce(p)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// writeStream frames p and writes it. Partial progress is kept across
// ErrWouldBlock/ErrMore; the caller must retry with the same message.
func (fr *framer) writeStream(p []byte) (n int, err error) {
	if fr.offset == 0 {
		if len(p) == 0 {
			// Empty payloads are not framed.
			return 0, nil
		}
		fr.length = len(p)
		fr.frame = appendHeader(fr.frame[:0], len(p))
		fr.frame = append(fr.frame, p...)
	}
	if fr.length != len(p) {
		// The caller changed the message buffer mid-frame.
		return 0, io.ErrShortWrite
	}

	hdrSize := len(fr.frame) - fr.length
	for fr.offset < len(fr.frame) {
		before := fr.offset
		wn, we := fr.writeOnce(fr.frame[fr.offset:])
		fr.offset += wn
		n += max(fr.offset-hdrSize, 0) - max(before-hdrSize, 0)
		if we != nil {
			return n, we
		}
	}

	fr.resetWrite()
	return n, nil
}

func (fr *framer) writeTo(dst io.Writer) (int64, error) {
	var total int64
	for {
		if fr.wtRest == "" {
			msg, err := fr.readMessage()
			if err != nil {
				if err == io.EOF {
					return total, nil
				}
				return total, err
			}
			fr.wtRest = msg
		}
		for fr.wtRest != "" {
			wn, we := io.WriteString(dst, fr.wtRest)
			if wn > 0 {
				total += int64(wn)
				fr.wtRest = fr.wtRest[wn:]
			}
			if we != nil {
				return total, we
			}
			if wn == 0 {
				// Avoid potential infinite loop on pathological writers.
				return total, io.ErrShortWrite
			}
		}
	}
}

func (fr *framer) readFrom(src io.Reader) (int64, error) {
	if fr.wbuf == nil {
		fr.wbuf = make([]byte, 32*1024)
	}
	var total int64
	if fr.offset > 0 && !fr.wpr.preserveBoundary() {
		// Finish the frame interrupted by a previous call.
		wn, we := fr.write(fr.frame[len(fr.frame)-fr.length:])
		total += int64(wn)
		if we != nil {
			return total, we
		}
	}
	for {
		n, er := src.Read(fr.wbuf)
		if n > 0 {
			// Encode this chunk as one framed message.
			wn, we := fr.write(fr.wbuf[:n])
			if wn > 0 {
				total += int64(wn)
			}
			if we != nil {
				return total, we
			}
			if wn != n {
				return total, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return total, nil
			}
			return total, er
		}
	}
}
