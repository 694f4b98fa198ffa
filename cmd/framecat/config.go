// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"strings"

	"code.hybscloud.com/lspframe"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	modeDecode = "decode"
	modeEncode = "encode"
	modeRelay  = "relay"
)

type fileConfig struct {
	Mode        string `toml:"mode"`
	ReadLimit   int    `toml:"read_limit"`
	HeaderLimit int    `toml:"header_limit"`
	ChunkSize   int    `toml:"chunk_size"`
	LogLevel    string `toml:"log_level"`
}

type config struct {
	Mode        string
	ReadLimit   int
	HeaderLimit int
	ChunkSize   int
	LogLevel    slog.Level
}

func defaultConfig() config {
	return config{
		Mode:     modeDecode,
		LogLevel: slog.LevelInfo,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, errors.Wrap(err, "load framecat config")
	}

	if meta.IsDefined("mode") {
		cfg.Mode = strings.TrimSpace(raw.Mode)
	}
	if meta.IsDefined("read_limit") {
		cfg.ReadLimit = raw.ReadLimit
	}
	if meta.IsDefined("header_limit") {
		cfg.HeaderLimit = raw.HeaderLimit
	}
	if meta.IsDefined("chunk_size") {
		cfg.ChunkSize = raw.ChunkSize
	}
	if meta.IsDefined("log_level") {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(raw.LogLevel))); err != nil {
			return config{}, errors.Wrapf(err, "parse log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Mode {
	case modeDecode, modeEncode, modeRelay:
	default:
		return errors.Errorf("unknown mode %q", c.Mode)
	}
	if c.ReadLimit < 0 || c.HeaderLimit < 0 || c.ChunkSize < 0 {
		return errors.New("limits must not be negative")
	}
	return nil
}

func (c config) options(logger lspframe.Logger) []lspframe.Option {
	return []lspframe.Option{
		lspframe.WithStdio(),
		lspframe.WithBlock(),
		lspframe.WithReadLimit(c.ReadLimit),
		lspframe.WithHeaderLimit(c.HeaderLimit),
		lspframe.WithChunkSize(c.ChunkSize),
		lspframe.WithLogger(logger),
	}
}
