// Package config loads crosswire settings from a TOML or YAML file.
//
// Without --config the file is $XDG_CONFIG_HOME/crosswire/config.toml
// (~/.config/crosswire/config.toml). A missing default file is not an
// error; every field has a default.
//
//	output_format = "jpz"
//	omit_play_state = true
//
//	[cache]
//	ttl = "12h"
//	redis_addr = "localhost:6379"
//
//	[archive]
//	compression = "xz"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/crosswire/pkg/archive"
	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
)

// AppName names the config, cache and data directories.
const AppName = "crosswire"

// Defaults.
const (
	DefaultOutputFormat  = codec.FormatIPuz
	DefaultCacheTTL      = 24 * time.Hour
	DefaultCompression   = "zstd"
	DefaultMongoDatabase = "crosswire"
	DefaultServerAddr    = ":8080"
	DefaultCacheNS       = "crosswire:"
)

// Config is the full configuration.
type Config struct {
	OutputFormat  codec.Format  `toml:"output_format" yaml:"output_format"`
	OmitPlayState bool          `toml:"omit_play_state" yaml:"omit_play_state"`
	Cache         CacheConfig   `toml:"cache" yaml:"cache"`
	Archive       ArchiveConfig `toml:"archive" yaml:"archive"`
	Server        ServerConfig  `toml:"server" yaml:"server"`
}

// CacheConfig configures the parse and conversion cache.
type CacheConfig struct {
	// Enabled is a pointer so an explicit false in the file survives
	// SetDefaults.
	Enabled   *bool    `toml:"enabled" yaml:"enabled"`
	Dir       string   `toml:"dir" yaml:"dir"`
	TTL       Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr string   `toml:"redis_addr" yaml:"redis_addr"`
	Namespace string   `toml:"namespace" yaml:"namespace"`
}

// IsEnabled reports whether caching is on.
func (c CacheConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// ArchiveConfig configures the puzzle archive.
type ArchiveConfig struct {
	Dir           string `toml:"dir" yaml:"dir"`
	MongoURI      string `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database" yaml:"mongo_database"`
	Compression   string `toml:"compression" yaml:"compression"`
}

// ServerConfig configures `crosswire serve`.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads path, or the default location when path is empty. A missing
// default file yields Default(); a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidPath, err, "read config")
	}

	c := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml", "":
		_, err = toml.Decode(string(data), c)
	default:
		return nil, cwerrors.New(cwerrors.ErrCodeInvalidInput, "config %s: unknown extension (want .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDefaults fills unset fields. It is idempotent.
func (c *Config) SetDefaults() {
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
	c.OutputFormat = codec.Format(strings.ToLower(string(c.OutputFormat)))
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir, _ = CacheDir()
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = DefaultCacheNS
	}
	if c.Archive.Dir == "" {
		c.Archive.Dir, _ = DataDir()
	}
	if c.Archive.MongoDatabase == "" {
		c.Archive.MongoDatabase = DefaultMongoDatabase
	}
	if c.Archive.Compression == "" {
		c.Archive.Compression = DefaultCompression
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case codec.FormatNative, codec.FormatIPuz, codec.FormatJPZ:
	default:
		return cwerrors.New(cwerrors.ErrCodeInvalidInput,
			"invalid output_format %q (must be one of: native, ipuz, jpz)", c.OutputFormat)
	}
	if c.Cache.TTL.Duration < 0 {
		return cwerrors.New(cwerrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if _, err := archive.ParseCompression(c.Archive.Compression); err != nil {
		return cwerrors.Wrap(cwerrors.ErrCodeInvalidInput, err, "archive.compression")
	}
	return nil
}

// Compression returns the parsed archive compression. Call after Validate.
func (c *Config) Compression() archive.Compression {
	comp, _ := archive.ParseCompression(c.Archive.Compression)
	return comp
}

// DefaultPath returns $XDG_CONFIG_HOME/crosswire/config.toml.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/crosswire/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the archive directory (~/.local/share/crosswire/archive/).
func DataDir() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "archive"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, fallback, AppName), nil
}
