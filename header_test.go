// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lspframe

import (
	"bytes"
	"errors"
	"testing"
)

func TestScanFrame_Verdicts(t *testing.T) {
	cases := []struct {
		in   string
		v    verdict
		tag  failTag
		need int
	}{
		{"", short, tagNone, 0},
		{"Content-Length: 5\r\n\r\nhel", short, tagNone, len("Content-Length: 5\r\n\r\n") + 5},
		{"Content-Length: 5\r\n\r\nhello", matched, tagNone, 0},
		{"Content-Length: x", mismatch, tagDigit, 0},
		{"Content-Length: 99999999999999999999", mismatch, tagNumber, 0},
		{"Content-Length: 1\r\nContent-Type: a; charset=koi8\r\n\r\nX", mismatch, tagCharset, 0},
		{"Content-Length: 1\r\nContent-Type: a\rX", mismatch, tagContentType, 0},
		{"Content-Length: 1\r\nContent-Type: a; charset=utf-8 \r\n\r\nX", mismatch, tagContentType, 0},
		{"Content-Length: 1\r\n\rX", mismatch, tagCRLF, 0},
		{"Xontent-Length: 1\r\n\r\nX", mismatch, tagLiteral, 0},
	}
	for _, tc := range cases {
		span, need, v, tag := scanFrame([]byte(tc.in), limits{})
		if v != tc.v || tag != tc.tag || need != tc.need {
			t.Fatalf("%q: got (v=%d tag=%d need=%d) want (v=%d tag=%d need=%d)",
				tc.in, v, tag, need, tc.v, tc.tag, tc.need)
		}
		if v == matched && span.end() != len(tc.in) {
			t.Fatalf("%q: span end %d", tc.in, span.end())
		}
	}
}

func TestScanFrame_Limits(t *testing.T) {
	in := []byte("Content-Length: 100\r\n\r\n")
	if _, _, v, tag := scanFrame(in, limits{length: 99}); v != mismatch || tag != tagTooLong {
		t.Fatalf("length limit: v=%d tag=%d", v, tag)
	}
	if _, need, v, _ := scanFrame(in, limits{length: 100}); v != short || need != len(in)+100 {
		t.Fatalf("length at limit: v=%d need=%d", v, need)
	}

	long := []byte("Content-Length: 1\r\nContent-Type: " + string(bytes.Repeat([]byte("a"), 64)))
	if _, _, v, tag := scanFrame(long, limits{header: 32}); v != mismatch || tag != tagTooLong {
		t.Fatalf("header limit while incomplete: v=%d tag=%d", v, tag)
	}
	if _, _, v, _ := scanFrame(long, limits{header: 256}); v != short {
		t.Fatalf("header under limit: v=%d", v)
	}
	if !errors.Is(tagTooLong.err(), ErrTooLong) {
		t.Fatalf("tagTooLong maps to %v", tagTooLong.err())
	}
}

func TestFailTag_Classification(t *testing.T) {
	cases := map[failTag]error{
		tagDigit:       ErrInvalidLength,
		tagNumber:      ErrInvalidLength,
		tagCharset:     ErrInvalidType,
		tagContentType: ErrInvalidType,
		tagLiteral:     ErrMissingHeader,
		tagCRLF:        ErrMissingHeader,
		tagNone:        ErrMissingHeader,
	}
	for tag, want := range cases {
		if got := tag.err(); got != want {
			t.Fatalf("tag %d: got %v want %v", tag, got, want)
		}
	}
}

func TestCodec_HintShortCircuits(t *testing.T) {
	var c Codec
	frame := AppendFrame(nil, "hello, hint")
	hdr := len(frame) - len("hello, hint")

	buf := bytes.NewBuffer(append([]byte(nil), frame[:hdr+2]...))
	if _, ok, err := c.Decode(buf); ok || err != nil {
		t.Fatalf("partial: ok=%v err=%v", ok, err)
	}
	if c.need != len(frame) {
		t.Fatalf("need=%d want %d", c.need, len(frame))
	}

	// Garbage past the known frame start is not looked at while the hint is unsatisfied.
	buf.WriteByte(0xff)
	if _, ok, err := c.Decode(buf); ok || err != nil {
		t.Fatalf("short-circuit: ok=%v err=%v", ok, err)
	}

	c.Reset()
	if c.need != 0 {
		t.Fatalf("Reset kept need=%d", c.need)
	}
}

func TestCodec_HintClearedOnSuccessAndError(t *testing.T) {
	var c Codec
	frame := AppendFrame(nil, "abc")

	buf := bytes.NewBuffer(append([]byte(nil), frame[:len(frame)-1]...))
	c.Decode(buf)
	if c.need == 0 {
		t.Fatalf("need not set")
	}
	buf.WriteByte(frame[len(frame)-1])
	if msg, ok, err := c.Decode(buf); err != nil || !ok || msg != "abc" {
		t.Fatalf("got (%q, %v, %v)", msg, ok, err)
	}
	if c.need != 0 {
		t.Fatalf("need=%d after success", c.need)
	}

	buf.WriteString("Content-Length: 10\r\n\r\n")
	c.Decode(buf)
	buf.WriteString("0123456789"[:9] + "\xff")
	if _, _, err := c.Decode(buf); !errors.Is(err, ErrUTF8) {
		t.Fatalf("err=%v want ErrUTF8", err)
	}
	if c.need != 0 {
		t.Fatalf("need=%d after error", c.need)
	}
}

func TestValidUTF8_Tail(t *testing.T) {
	cases := []struct {
		in      string
		tail    int
		invalid bool
	}{
		{"plain", 5, false},
		{"é", 2, false},
		{"a\xc3", 1, false},
		{"a\xe2\x82", 1, false},
		{"a\xe2\x41", 0, true},
		{"\xff", 0, true},
		{"\xc3a", 0, true},
	}
	for _, tc := range cases {
		tail, err := validUTF8([]byte(tc.in))
		if (err != nil) != tc.invalid {
			t.Fatalf("%q: err=%v", tc.in, err)
		}
		if !tc.invalid && tail != tc.tail {
			t.Fatalf("%q: tail=%d want %d", tc.in, tail, tc.tail)
		}
	}
}
