package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crosswire/pkg/archive"
	"github.com/matzehuels/crosswire/pkg/buildinfo"
	"github.com/matzehuels/crosswire/pkg/cache"
	"github.com/matzehuels/crosswire/pkg/config"
	"github.com/matzehuels/crosswire/pkg/observability"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Crosswire converts crossword puzzles between IPuz, JPZ and its native format",
		Long: `Crosswire reads and writes crossword and acrostic puzzles in the IPuz (JSON),
JPZ (Crossword Compiler XML) and native binary formats, keeping styling and
play state across conversions.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/crosswire/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.cluesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config, applies --verbose and registers the log hooks
// before any subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetConvertHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, c.Config.Cache.Namespace), c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache returns the configured cache. An unreachable Redis degrades
// to the file cache with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || !cfg.IsEnabled() {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr})
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", cfg.RedisAddr)
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	if cfg.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cfg.Dir)
}

// openArchive opens the configured archive: MongoDB when a URI is set,
// otherwise the file store.
func (c *CLI) openArchive(ctx context.Context) (*archive.Archive, error) {
	cfg := c.Config.Archive
	var (
		store archive.Store
		err   error
	)
	if cfg.MongoURI != "" {
		store, err = archive.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	} else {
		store, err = archive.NewFileStore(cfg.Dir)
	}
	if err != nil {
		return nil, err
	}
	return archive.New(store, c.Config.Compression(), c.Logger), nil
}
