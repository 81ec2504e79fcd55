package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/crosswire/pkg/archive"
	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xc")
	t.Setenv("XDG_DATA_HOME", "/tmp/xd")

	c := Default()
	if c.OutputFormat != codec.FormatIPuz {
		t.Errorf("OutputFormat = %v, want %v", c.OutputFormat, codec.FormatIPuz)
	}
	if !c.Cache.IsEnabled() {
		t.Error("cache should be enabled by default")
	}
	if c.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", c.Cache.TTL, DefaultCacheTTL)
	}
	if c.Cache.Dir != filepath.Join("/tmp/xc", AppName) {
		t.Errorf("Cache.Dir = %v", c.Cache.Dir)
	}
	if c.Archive.Dir != filepath.Join("/tmp/xd", AppName, "archive") {
		t.Errorf("Archive.Dir = %v", c.Archive.Dir)
	}
	if c.Compression() != archive.CompressionZstd {
		t.Errorf("Compression() = %v, want zstd", c.Compression())
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %v", c.Server.Addr)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
output_format = "JPZ"
omit_play_state = true

[cache]
enabled = false
ttl = "90m"
redis_addr = "localhost:6379"

[archive]
mongo_uri = "mongodb://localhost:27017"
compression = "xz"

[server]
addr = "127.0.0.1:9000"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.OutputFormat != codec.FormatJPZ || !c.OmitPlayState {
		t.Errorf("output = %v, omit %v", c.OutputFormat, c.OmitPlayState)
	}
	if c.Cache.IsEnabled() {
		t.Error("cache.enabled = false was not honoured")
	}
	if c.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %v, want 90m", c.Cache.TTL)
	}
	if c.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache.RedisAddr = %v", c.Cache.RedisAddr)
	}
	if c.Compression() != archive.CompressionXZ || c.Archive.MongoDatabase != DefaultMongoDatabase {
		t.Errorf("Archive = %+v", c.Archive)
	}
	if c.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %v", c.Server.Addr)
	}
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, `
output_format: native
cache:
  ttl: 2h
  namespace: "team-a:"
archive:
  compression: lz4
`)
			c, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if c.OutputFormat != codec.FormatNative {
				t.Errorf("OutputFormat = %v", c.OutputFormat)
			}
			if c.Cache.TTL.Duration != 2*time.Hour || c.Cache.Namespace != "team-a:" {
				t.Errorf("Cache = %+v", c.Cache)
			}
			if !c.Cache.IsEnabled() {
				t.Error("cache should default to enabled")
			}
			if c.Compression() != archive.CompressionLZ4 {
				t.Errorf("Compression() = %v", c.Compression())
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if c.OutputFormat != DefaultOutputFormat {
		t.Errorf("OutputFormat = %v", c.OutputFormat)
	}

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !cwerrors.Is(err, cwerrors.ErrCodeInvalidPath) {
		t.Errorf("explicit missing file error = %v, want INVALID_PATH", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, AppName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, AppName, "config.toml"), []byte(`output_format = "jpz"`), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.OutputFormat != codec.FormatJPZ {
		t.Errorf("OutputFormat = %v, want jpz", c.OutputFormat)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, file, content, want string
	}{
		{"bad format", "c.toml", `output_format = "puz"`, "output_format"},
		{"bad compression", "c.toml", "[archive]\ncompression = \"gzip\"", "archive.compression"},
		{"bad duration", "c.toml", "[cache]\nttl = \"soon\"", "parse config"},
		{"negative ttl", "c.yaml", "cache:\n  ttl: -1h", "cache.ttl"},
		{"bad syntax", "c.toml", "output_format = ", "parse config"},
		{"bad extension", "c.json", `{}`, "unknown extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !cwerrors.Is(err, cwerrors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want INVALID_INPUT", cwerrors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSetDefaultsIdempotent(t *testing.T) {
	c := &Config{OutputFormat: "IPUZ"}
	c.SetDefaults()
	first := *c
	c.SetDefaults()
	if c.OutputFormat != first.OutputFormat || c.Cache != first.Cache || c.Archive != first.Archive {
		t.Errorf("second SetDefaults changed config: %+v vs %+v", c, first)
	}
	if c.OutputFormat != codec.FormatIPuz {
		t.Errorf("OutputFormat = %v, want ipuz", c.OutputFormat)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}
