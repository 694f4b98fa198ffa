// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

// Network option helpers and mapping.
//
// Transport → Protocol:
//   - TCP        → Stream
//   - Unix       → Stream
//   - Stdio      → Stream     // language servers launched as child processes
//   - WebSocket  → SeqPacket  // boundaries preserved; pass-through
//   - SCTP       → SeqPacket
//   - UDP        → Datagram
//   - UnixPacket → Datagram

type netKind uint8

const (
	netTCP netKind = iota
	netUnix
	netStdio
	netWebSocket
	netSCTP
	netUDP
	netUnixPacket
)

func protocolFor(kind netKind) Protocol {
	switch kind {
	case netWebSocket, netSCTP:
		// Both preserve message boundaries; headers would be redundant.
		return SeqPacket
	case netUDP, netUnixPacket:
		return Datagram
	default:
		return Stream
	}
}

// WithReadTCP configures the reader side for TCP: Content-Length framed stream.
func WithReadTCP() Option {
	return func(o *Options) { o.ReadProto = protocolFor(netTCP) }
}

// WithWriteTCP configures the writer side for TCP: Content-Length framed stream.
func WithWriteTCP() Option {
	return func(o *Options) { o.WriteProto = protocolFor(netTCP) }
}

// WithReadUnix configures the reader side for Unix stream sockets.
func WithReadUnix() Option {
	return func(o *Options) { o.ReadProto = protocolFor(netUnix) }
}

// WithWriteUnix configures the writer side for Unix stream sockets.
func WithWriteUnix() Option {
	return func(o *Options) { o.WriteProto = protocolFor(netUnix) }
}

// WithStdio configures both sides for standard input/output pipes.
func WithStdio() Option {
	return func(o *Options) {
		o.ReadProto = protocolFor(netStdio)
		o.WriteProto = protocolFor(netStdio)
	}
}

// WithReadWebSocket configures the reader side for WebSocket: SeqPacket, one payload per message.
func WithReadWebSocket() Option {
	return func(o *Options) { o.ReadProto = protocolFor(netWebSocket) }
}

// WithWriteWebSocket configures the writer side for WebSocket: SeqPacket, one payload per message.
func WithWriteWebSocket() Option {
	return func(o *Options) { o.WriteProto = protocolFor(netWebSocket) }
}

// WithReadSCTP configures the reader side for SCTP: SeqPacket (boundaries preserved).
func WithReadSCTP() Option {
	return func(o *Options) { o.ReadProto = protocolFor(netSCTP) }
}

// WithWriteSCTP configures the writer side for SCTP: SeqPacket (boundaries preserved).
func WithWriteSCTP() Option {
	return func(o *Options) { o.WriteProto = protocolFor(netSCTP) }
}

// WithReadUDP configures the reader side for UDP: Datagram (pass-through).
func WithReadUDP() Option {
	return func(o *Options) { o.ReadProto = protocolFor(netUDP) }
}

// WithWriteUDP configures the writer side for UDP: Datagram (pass-through).
func WithWriteUDP() Option {
	return func(o *Options) { o.WriteProto = protocolFor(netUDP) }
}

// WithReadUnixPacket configures the reader side for Unix datagram sockets: Datagram.
func WithReadUnixPacket() Option {
	return func(o *Options) { o.ReadProto = protocolFor(netUnixPacket) }
}

// WithWriteUnixPacket configures the writer side for Unix datagram sockets: Datagram.
func WithWriteUnixPacket() Option {
	return func(o *Options) { o.WriteProto = protocolFor(netUnixPacket) }
}
