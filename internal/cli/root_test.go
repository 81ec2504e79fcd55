package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/codec/ipuz"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	"github.com/matzehuels/crosswire/pkg/puz/puztest"
)

// testEnv is a config file whose cache and archive live in a temp dir.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	content := `output_format = "ipuz"

[cache]
dir = "` + filepath.ToSlash(filepath.Join(dir, "cache")) + `"
ttl = "1h"

[archive]
dir = "` + filepath.ToSlash(filepath.Join(dir, "archive")) + `"
compression = "zstd"
`
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, config: cfg}
}

// run executes the root command with args and returns what it wrote to
// its stdout.
func (e testEnv) run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetIn(bytes.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writePuzzle writes the sample crossword, with play state, as IPuz.
func (e testEnv) writePuzzle(t *testing.T, name string) string {
	t.Helper()
	var buf bytes.Buffer
	p := puztest.Play(t, puztest.Crossword(t))
	if err := (ipuz.Codec{}).Write(&buf, p, codec.Options{}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"convert", "info", "validate", "clues", "cache", "archive", "serve", "completion"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil || cmd.Name() != name {
				t.Errorf("Find(%q) = %v, %v", name, cmd, err)
			}
		})
	}

	for _, flag := range []string{"config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"--version"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "crosswire version ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestMissingConfig(t *testing.T) {
	env := testEnv{dir: t.TempDir(), config: filepath.Join(t.TempDir(), "nope.toml")}
	_, err := env.run(t, nil, "cache", "path")
	if err == nil {
		t.Fatal("expected error for a missing --config file")
	}
}

func TestCachePath(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, nil, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(env.dir, "cache"); filepath.Clean(got) != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := env.run(t, nil, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, "crosswire") {
				t.Errorf("completion %s output does not mention crosswire", shell)
			}
		})
	}

	if _, err := env.run(t, nil, "completion", "tcsh"); err == nil {
		t.Error("expected error for an unsupported shell")
	}
}

func TestCodeOf(t *testing.T) {
	if got := codeOf(cwerrors.New(cwerrors.ErrCodeStructural, "bad")); got != cwerrors.ErrCodeStructural {
		t.Errorf("codeOf() = %q", got)
	}
}
