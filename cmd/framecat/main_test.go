// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"code.hybscloud.com/lspframe"
)

var testLogger = slog.New(slog.DiscardHandler)

func TestRunDecode(t *testing.T) {
	in := strings.NewReader("Content-Length: 5\r\n\r\nhelloContent-Length: 5\r\nContent-Type: text/plain; charset=utf8\r\n\r\nworld")
	var out bytes.Buffer

	cfg := defaultConfig()
	if err := run(cfg, in, &out, testLogger); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "hello\nworld\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRunEncode(t *testing.T) {
	in := strings.NewReader("hello\n\nwörld\r\n")
	var out bytes.Buffer

	cfg := defaultConfig()
	cfg.Mode = modeEncode
	if err := run(cfg, in, &out, testLogger); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Content-Length: 5\r\n\r\nhelloContent-Length: 6\r\n\r\nwörld"
	if got := out.String(); got != want {
		t.Fatalf("unexpected output: %q want %q", got, want)
	}
}

func TestRunDecodeEmbeddedNewlineIsVerbatim(t *testing.T) {
	in := strings.NewReader("Content-Length: 3\r\n\r\na\nb")
	var out bytes.Buffer

	if err := run(defaultConfig(), in, &out, testLogger); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "a\nb\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRunRelayKeepsEmbeddedNewline(t *testing.T) {
	frame := "Content-Length: 3\r\n\r\na\nb"
	var out bytes.Buffer

	cfg := defaultConfig()
	cfg.Mode = modeRelay
	if err := run(cfg, strings.NewReader(frame), &out, testLogger); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != frame {
		t.Fatalf("unexpected output: %q want %q", got, frame)
	}
}

func TestRunRelayNormalizesHeaders(t *testing.T) {
	in := strings.NewReader("Content-Length: 2\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\n{}")
	var out bytes.Buffer

	cfg := defaultConfig()
	cfg.Mode = modeRelay
	if err := run(cfg, in, &out, testLogger); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "Content-Length: 2\r\n\r\n{}" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRunDecodeReportsFramingError(t *testing.T) {
	in := strings.NewReader("Content-Length: abc\r\n\r\nX")
	var out bytes.Buffer

	err := run(defaultConfig(), in, &out, testLogger)
	if !errors.Is(err, lspframe.ErrInvalidLength) {
		t.Fatalf("err=%v want ErrInvalidLength", err)
	}
}

func TestRunDecodeTruncatedInput(t *testing.T) {
	in := strings.NewReader("Content-Length: 10\r\n\r\nabc")
	var out bytes.Buffer

	if err := run(defaultConfig(), in, &out, testLogger); err == nil {
		t.Fatalf("expected error for truncated frame")
	}
}
