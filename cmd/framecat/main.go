// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command framecat converts between Content-Length framed messages and
// newline-separated payloads on standard input and output.
//
//	framecat -mode decode < frames > payloads
//	framecat -mode encode < payloads > frames
//	framecat -mode relay  < frames > frames
//
// Payloads are written verbatim followed by a newline, and encode reads one
// payload per line with the line terminator stripped. A payload that itself
// contains a newline is therefore indistinguishable from two payloads in
// decode output and cannot round-trip through encode; use relay for such
// streams.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"code.hybscloud.com/lspframe"
	"github.com/pkg/errors"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	mode := flag.String("mode", "", "decode, encode or relay (overrides the config file)")
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "framecat: %v\n", err)
			os.Exit(2)
		}
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "framecat: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err := run(cfg, os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "framecat: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, in io.Reader, out io.Writer, logger lspframe.Logger) error {
	bw := bufio.NewWriter(out)
	var err error
	switch cfg.Mode {
	case modeDecode:
		err = decode(cfg, in, bw, logger)
	case modeEncode:
		err = encode(cfg, in, bw, logger)
	case modeRelay:
		err = relay(cfg, in, bw, logger)
	default:
		err = errors.Errorf("unknown mode %q", cfg.Mode)
	}
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = errors.Wrap(ferr, "flush output")
	}
	return err
}

func decode(cfg config, in io.Reader, out *bufio.Writer, logger lspframe.Logger) error {
	r := lspframe.NewReader(in, cfg.options(logger)...)
	count := 0
	for {
		msg, err := r.ReadMessage()
		if err == io.EOF {
			logger.Debug("decode finished", "messages", count)
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "decode message %d", count+1)
		}
		out.WriteString(msg)
		out.WriteByte('\n')
		count++
	}
}

func encode(cfg config, in io.Reader, out *bufio.Writer, logger lspframe.Logger) error {
	var codec lspframe.Codec
	maxLine := 1 << 20
	if cfg.ReadLimit > 0 {
		maxLine = cfg.ReadLimit
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	count := 0
	for sc.Scan() {
		if err := codec.Encode(out, sc.Text()); err != nil {
			return errors.Wrapf(err, "encode line %d", count+1)
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}
	logger.Debug("encode finished", "lines", count)
	return nil
}

func relay(cfg config, in io.Reader, out *bufio.Writer, logger lspframe.Logger) error {
	n, err := lspframe.NewForwarder(out, in, cfg.options(logger)...).Forward()
	if err != nil {
		return errors.Wrap(err, "relay")
	}
	logger.Debug("relay finished", "payload_bytes", n)
	return nil
}
