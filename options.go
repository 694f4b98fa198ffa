// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

import (
	"time"
)

// Protocol describes the expected message-boundary behavior of the underlying transport.
//
// The adapters pick their algorithm based on this setting:
//   - Stream: boundaries are not preserved (e.g., TCP, stdio). Messages carry a
//     Content-Length header block.
//   - SeqPacket / Datagram: boundaries are preserved (e.g., WebSocket). One
//     transport message is one payload; no headers are added or expected.
type Protocol uint8

const (
	Stream    Protocol = 1
	SeqPacket Protocol = 2
	Datagram  Protocol = 3
)

func (p Protocol) preserveBoundary() bool {
	switch p {
	case SeqPacket, Datagram:
		return true
	default:
		return false
	}
}

// Options configures framing behavior.
type Options struct {
	ReadProto  Protocol
	WriteProto Protocol

	// ReadLimit caps the declared payload length (bytes). Zero means no limit.
	ReadLimit int

	// HeaderLimit caps the header block, blank line included. Zero means no limit.
	HeaderLimit int

	// ChunkSize is the size of each read from the underlying transport.
	ChunkSize int

	// RetryDelay controls how the adapters handle iox.ErrWouldBlock from the underlying transport:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration

	// Logger receives debug records for errors surfaced by the adapters.
	Logger Logger
}

const defaultChunkSize = 4 * 1024

var defaultOptions = Options{
	ReadProto:   Stream,
	WriteProto:  Stream,
	ReadLimit:   0,
	HeaderLimit: 0,
	ChunkSize:   defaultChunkSize,
	RetryDelay:  -1, // default: nonblock
}

type Option func(*Options)

func WithProtocol(proto Protocol) Option {
	return func(o *Options) {
		o.ReadProto = proto
		o.WriteProto = proto
	}
}

func WithReadProtocol(proto Protocol) Option {
	return func(o *Options) { o.ReadProto = proto }
}

func WithWriteProtocol(proto Protocol) Option {
	return func(o *Options) { o.WriteProto = proto }
}

func WithReadLimit(limit int) Option {
	return func(o *Options) { o.ReadLimit = limit }
}

func WithHeaderLimit(limit int) Option {
	return func(o *Options) { o.HeaderLimit = limit }
}

// WithChunkSize sets the read size used against the underlying transport.
// Non-positive values keep the default.
func WithChunkSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}

// WithRetryDelay sets the retry/wait policy used when the underlying transport returns iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}

// WithLogger sets the logger. If not set, records are discarded.
func WithLogger(logger Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
