// Package config loads the wodcat configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/profile"
	"github.com/iquod/wod/workpool"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LogConfig controls logging and log file rotation.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"` // text or json
	File       string `yaml:"file" toml:"file"`     // empty logs to stderr only
	MaxSizeMB  int    `yaml:"maxSizeMB" toml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays" toml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups" toml:"maxBackups"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// DecodeConfig holds decoder settings.
type DecodeConfig struct {
	// LenientLength lets records whose size prefix disagrees with their content decode.
	LenientLength bool `yaml:"lenientLength" toml:"lenientLength"`
}

// EncodeConfig holds encoder and output settings.
type EncodeConfig struct {
	LineWidth  int  `yaml:"lineWidth" toml:"lineWidth"`
	SingleLine bool `yaml:"singleLine" toml:"singleLine"`
	// Compression names the codec used for written files: none, gzip, zstd, s2 or lz4.
	Compression string `yaml:"compression" toml:"compression"`
}

// Config is the top-level configuration.
type Config struct {
	Workers workpool.Config `yaml:"workers" toml:"workers"`
	Decode  DecodeConfig    `yaml:"decode" toml:"decode"`
	Encode  EncodeConfig    `yaml:"encode" toml:"encode"`
	Logs    LogConfig       `yaml:"logs" toml:"logs"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	_ = cfg.applyDefaults("")

	return cfg
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file, fills unset fields
// with defaults and validates the result. A relative log file is resolved
// against the directory of the configuration file.
func Load(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.NewDecoder(f).Decode(&cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parse %s: unknown key %s", path, undecoded[0])
		}
	default:
		return cfg, fmt.Errorf("unsupported configuration format %q", ext)
	}

	if err := cfg.applyDefaults(filepath.Dir(path)); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults(baseDir string) error {
	if c.Workers.Concurrency <= 0 {
		c.Workers.Concurrency = runtime.NumCPU()
	}
	if c.Workers.Timeout < 0 {
		return fmt.Errorf("negative workers.timeout %s", c.Workers.Timeout)
	}

	if c.Encode.LineWidth == 0 {
		c.Encode.LineWidth = codec.LineWidth
	}
	if c.Encode.LineWidth < 0 {
		return fmt.Errorf("negative encode.lineWidth %d", c.Encode.LineWidth)
	}
	if c.Encode.Compression == "" {
		c.Encode.Compression = "none"
	}
	if _, err := format.ParseCompressionType(c.Encode.Compression); err != nil {
		return err
	}

	if c.Logs.Level == "" {
		c.Logs.Level = logrus.InfoLevel.String()
	}
	if _, err := logrus.ParseLevel(c.Logs.Level); err != nil {
		return err
	}
	switch c.Logs.Format {
	case "":
		c.Logs.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unknown logs.format %q", c.Logs.Format)
	}
	if c.Logs.File != "" && !filepath.IsAbs(c.Logs.File) && baseDir != "" {
		c.Logs.File = filepath.Clean(filepath.Join(baseDir, c.Logs.File))
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = 25
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = 7
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = 5
	}

	return nil
}

// Compression returns the configured output codec type.
func (c Config) Compression() format.CompressionType {
	ct, _ := format.ParseCompressionType(c.Encode.Compression)
	return ct
}

// DecodeOptions converts the decode settings to decoder options.
func (c Config) DecodeOptions(log logrus.FieldLogger) []profile.DecodeOption {
	opts := []profile.DecodeOption{profile.WithStrictLength(!c.Decode.LenientLength)}
	if log != nil {
		opts = append(opts, profile.WithLogger(log))
	}

	return opts
}

// EncodeOptions converts the encode settings to encoder options.
func (c Config) EncodeOptions() []profile.EncodeOption {
	width := c.Encode.LineWidth
	if c.Encode.SingleLine {
		width = 0
	}

	return []profile.EncodeOption{profile.WithLineWidth(width)}
}
