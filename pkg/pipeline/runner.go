package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crosswire/pkg/cache"
	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/codec/native"
	"github.com/matzehuels/crosswire/pkg/observability"
	"github.com/matzehuels/crosswire/pkg/puz"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Registry *codec.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	TTL      time.Duration
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: DefaultRegistry(),
		Cache:    c,
		Keyer:    keyer,
		TTL:      cache.DefaultTTL,
		Logger:   logger,
	}
}

// Parse resolves the input format and decodes data, consulting the cache.
//
// Parsed puzzles are cached in the native encoding, which keeps every
// field, under a key of the input hash and the format it was read as.
func (r *Runner) Parse(ctx context.Context, data []byte, opts Options) (*puz.Puzzle, ParseInfo, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return nil, ParseInfo{}, err
	}
	if len(data) == 0 {
		return nil, ParseInfo{}, errEmpty
	}

	c, err := r.Registry.Resolve(opts.From, opts.Filename, data)
	if err != nil {
		return nil, ParseInfo{}, err
	}
	info := ParseInfo{Format: c.Format(), ContentHash: cache.Hash(data)}
	key := r.Keyer.PuzzleKey(info.ContentHash, info.Format)

	if !opts.Refresh {
		if p, ok := r.cachedPuzzle(ctx, key); ok {
			info.CacheHit = true
			info.Duration = time.Since(start)
			return p, info, nil
		}
	}

	hooks := observability.Convert()
	hooks.OnParseStart(ctx, string(info.Format))
	parseStart := time.Now()
	p, err := c.Parse(bytes.NewReader(data))
	hooks.OnParseComplete(ctx, string(info.Format), len(data), time.Since(parseStart), err)
	if err != nil {
		return nil, info, err
	}

	var buf bytes.Buffer
	if err := (native.Codec{}).Write(&buf, p, codec.Options{}); err == nil {
		r.store(ctx, "puzzle", key, buf.Bytes())
	} else {
		r.Logger.Warn("puzzle not cached", "err", err)
	}

	info.Duration = time.Since(start)
	r.Logger.Debug("parsed puzzle", "format", info.Format, "bytes", len(data),
		"width", p.Width(), "height", p.Height(), "duration", info.Duration)
	return p, info, nil
}

func (r *Runner) cachedPuzzle(ctx context.Context, key string) (*puz.Puzzle, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "puzzle")
		return nil, false
	}
	p, err := (native.Codec{}).Parse(bytes.NewReader(data))
	if err != nil {
		// Stale or corrupt entry: drop it and reparse.
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "puzzle")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "puzzle")
	return p, true
}

// Write encodes p as format.
func (r *Runner) Write(ctx context.Context, p *puz.Puzzle, format codec.Format, opts codec.Options) ([]byte, error) {
	c, err := r.Registry.Lookup(string(format))
	if err != nil {
		return nil, err
	}
	hooks := observability.Convert()
	hooks.OnWriteStart(ctx, string(c.Format()))
	start := time.Now()
	var buf bytes.Buffer
	err = c.Write(&buf, p, opts)
	hooks.OnWriteComplete(ctx, string(c.Format()), buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Convert parses data and writes it as opts.To. The output is cached under
// the input hash, the target format and the write options.
func (r *Runner) Convert(ctx context.Context, data []byte, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	target, err := r.Registry.Lookup(string(opts.To))
	if err != nil {
		return nil, err
	}

	p, info, err := r.Parse(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Puzzle: p, Parse: info, To: target.Format()}

	key := r.Keyer.ConvertKey(info.ContentHash, target.Format(), opts.CodecOptions())
	start := time.Now()
	if !opts.Refresh {
		if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "convert")
			result.Output = out
			result.WriteHit = true
			result.WriteDuration = time.Since(start)
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "convert")
	}

	out, err := r.Write(ctx, p, target.Format(), opts.CodecOptions())
	if err != nil {
		return nil, err
	}
	r.store(ctx, "convert", key, out)
	result.Output = out
	result.WriteDuration = time.Since(start)

	r.Logger.Info("converted puzzle",
		"from", info.Format, "to", target.Format(),
		"bytes", len(out), "cached", info.CacheHit)
	return result, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
