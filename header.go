// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

const (
	contentLengthPrefix = "Content-Length: "
	contentTypePrefix   = "Content-Type:"
	charsetPrefix       = "charset="
	crlf                = "\r\n"

	maxInt = int(^uint(0) >> 1)
)

// verdict is the outcome of one grammar step.
type verdict uint8

const (
	matched  verdict = iota
	short            // input ended before the step could decide
	mismatch         // definite structural failure, see headerScanner.tag
)

// failTag names the grammar rule that rejected the input.
type failTag uint8

const (
	tagNone failTag = iota
	tagLiteral
	tagCRLF
	tagDigit
	tagNumber
	tagContentType
	tagCharset
	tagTooLong
)

// err maps a failing rule to the error reported to callers.
func (t failTag) err() error {
	switch t {
	case tagDigit, tagNumber:
		return ErrInvalidLength
	case tagContentType, tagCharset:
		return ErrInvalidType
	case tagTooLong:
		return ErrTooLong
	default:
		return ErrMissingHeader
	}
}

// headerScanner evaluates the header grammar over a possibly truncated buffer.
// Steps advance pos only on a match; on mismatch tag records the failing rule.
type headerScanner struct {
	b   []byte
	pos int
	tag failTag
}

func (s *headerScanner) fail(tag failTag) verdict {
	s.tag = tag
	return mismatch
}

// literal matches lit at the current position. A truncated prefix of lit is short.
func (s *headerScanner) literal(lit string, tag failTag) verdict {
	rest := s.b[s.pos:]
	n := min(len(rest), len(lit))
	if string(rest[:n]) != lit[:n] {
		return s.fail(tag)
	}
	if n < len(lit) {
		return short
	}
	s.pos += len(lit)
	return matched
}

// digits parses a run of one or more decimal digits.
func (s *headerScanner) digits() (int, verdict) {
	i, n := s.pos, 0
	for ; i < len(s.b) && '0' <= s.b[i] && s.b[i] <= '9'; i++ {
		d := int(s.b[i] - '0')
		if n > (maxInt-d)/10 {
			return 0, s.fail(tagNumber)
		}
		n = n*10 + d
	}
	if i == len(s.b) {
		return 0, short
	}
	if i == s.pos {
		return 0, s.fail(tagDigit)
	}
	s.pos = i
	return n, matched
}

// contentType consumes an optional Content-Type header line. Once the
// header name has matched, every failure is charged to the content type.
func (s *headerScanner) contentType() verdict {
	switch s.literal(contentTypePrefix, tagLiteral) {
	case short:
		return short
	case mismatch:
		s.tag = tagNone
		return matched
	}

	start := s.pos
	for s.pos < len(s.b) && s.b[s.pos] != ';' && s.b[s.pos] != '\r' {
		s.pos++
	}
	switch {
	case s.pos == len(s.b):
		return short
	case s.pos == start:
		return s.fail(tagContentType)
	}

	if s.b[s.pos] == ';' {
		if v := s.charset(); v != matched {
			return v
		}
	}
	return s.literal(crlf, tagContentType)
}

// charset consumes `;` spaces* `charset=` (utf-8|utf8).
func (s *headerScanner) charset() verdict {
	s.pos++
	for s.pos < len(s.b) && s.b[s.pos] == ' ' {
		s.pos++
	}
	if v := s.literal(charsetPrefix, tagCharset); v != matched {
		return v
	}
	if v := s.literal("utf-8", tagCharset); v != mismatch {
		return v
	}
	return s.literal("utf8", tagCharset)
}

// header consumes the whole header block including the terminating blank line
// and returns the declared payload length.
func (s *headerScanner) header() (int, verdict) {
	if v := s.literal(contentLengthPrefix, tagLiteral); v != matched {
		return 0, v
	}
	length, v := s.digits()
	if v != matched {
		return 0, v
	}
	if v = s.literal(crlf, tagCRLF); v != matched {
		return 0, v
	}
	if v = s.contentType(); v != matched {
		return 0, v
	}
	if v = s.literal(crlf, tagCRLF); v != matched {
		return 0, v
	}
	return length, matched
}

// frameSpan locates one complete frame at the start of a buffer.
type frameSpan struct {
	header int // header block bytes, blank line included
	length int // payload bytes
}

func (f frameSpan) end() int { return f.header + f.length }

// scanFrame runs the grammar against b. On short, need is the minimum total
// buffer length for the frame to complete, or zero when that is not yet known.
func scanFrame(b []byte, lim limits) (span frameSpan, need int, v verdict, tag failTag) {
	s := headerScanner{b: b}
	length, v := s.header()
	switch v {
	case mismatch:
		return frameSpan{}, 0, mismatch, s.tag
	case short:
		if lim.header > 0 && len(b) > lim.header {
			return frameSpan{}, 0, mismatch, tagTooLong
		}
		return frameSpan{}, 0, short, tagNone
	}

	if lim.header > 0 && s.pos > lim.header {
		return frameSpan{}, 0, mismatch, tagTooLong
	}
	if lim.length > 0 && length > lim.length {
		return frameSpan{}, 0, mismatch, tagTooLong
	}
	if length > maxInt-s.pos {
		return frameSpan{}, 0, mismatch, tagNumber
	}

	span = frameSpan{header: s.pos, length: length}
	if len(b) < span.end() {
		return frameSpan{}, span.end(), short, tagNone
	}
	return span, 0, matched, tagNone
}
