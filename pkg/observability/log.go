package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level; failed
// conversions and 5xx responses are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

var (
	_ ConvertHooks = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ ServerHooks  = (*LogHooks)(nil)
)

func (h *LogHooks) OnParseStart(_ context.Context, format string) {
	h.logger.Debug("parse start", "format", format)
}

func (h *LogHooks) OnParseComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.complete("parse", format, size, d, err)
}

func (h *LogHooks) OnWriteStart(_ context.Context, format string) {
	h.logger.Debug("write start", "format", format)
}

func (h *LogHooks) OnWriteComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.complete("write", format, size, d, err)
}

func (h *LogHooks) complete(op, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn(op+" failed", "format", format, "err", err)
		return
	}
	h.logger.Debug(op+" done", "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request received", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("response", "method", method, "route", route, "status", status, "took", d)
		return
	}
	h.logger.Debug("response", "method", method, "route", route, "status", status, "took", d)
}
