package weego

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

// Environment variables read by LogOptionsFromEnv.
const (
	EnvLogLevel = "WEEGO_LOG_LEVEL" // debug, info, warn or error
	EnvLogRate  = "WEEGO_LOG_RATE"  // records per second, 0 for unlimited
)

// Defaults for the host log handler.
const (
	DefaultLogRate  = 20
	DefaultLogBurst = 50
)

// LogOptions configures NewLogHandler.
type LogOptions struct {
	// Level is the minimum level written. Defaults to slog.LevelInfo.
	Level slog.Leveler

	// RateLimit caps records per second. Zero or rate.Inf disables the cap.
	RateLimit rate.Limit

	// Burst is the number of records allowed at once.
	Burst int
}

// LogOptionsFromEnv returns the default options adjusted by WEEGO_LOG_LEVEL
// and WEEGO_LOG_RATE. Unparseable values are ignored.
func LogOptionsFromEnv() *LogOptions {
	opts := &LogOptions{
		Level:     slog.LevelInfo,
		RateLimit: DefaultLogRate,
		Burst:     DefaultLogBurst,
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			opts.Level = lvl
		}
	}
	if v := os.Getenv(EnvLogRate); v != "" {
		if r, err := cast.ToFloat64E(v); err == nil && r >= 0 {
			if r == 0 {
				opts.RateLimit = rate.Inf
			} else {
				opts.RateLimit = rate.Limit(r)
			}
		}
	}
	return opts
}

// hostWriter writes each formatted record as one weechat.log line.
type hostWriter struct {
	w Weechat
}

func (hw hostWriter) Write(p []byte) (int, error) {
	hw.w.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

type logHandler struct {
	inner   slog.Handler
	limiter *rate.Limiter
	dropped *atomic.Int64
}

// NewLogHandler returns an slog.Handler writing logfmt records to
// weechat.log through w. Records over the rate limit are dropped; the next
// record written carries a dropped=N attribute.
func NewLogHandler(w Weechat, opts *LogOptions) slog.Handler {
	if opts == nil {
		opts = LogOptionsFromEnv()
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	limit, burst := opts.RateLimit, opts.Burst
	if limit == 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = DefaultLogBurst
	}

	inner := slog.NewTextHandler(hostWriter{w: w}, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// weechat.log stamps every line itself.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return &logHandler{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		dropped: new(atomic.Int64),
	}
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.limiter.Allow() {
		h.dropped.Add(1)
		return nil
	}
	if n := h.dropped.Swap(0); n > 0 {
		r = r.Clone()
		r.AddAttrs(slog.Int64("dropped", n))
	}
	return h.inner.Handle(ctx, r)
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{inner: h.inner.WithAttrs(attrs), limiter: h.limiter, dropped: h.dropped}
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	return &logHandler{inner: h.inner.WithGroup(name), limiter: h.limiter, dropped: h.dropped}
}

var logger atomic.Pointer[slog.Logger]

// Logger returns the logger used for recovered panics, refused
// registrations and events for released records. Until Load or SetLogger
// installs one it is slog.Default().
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// SetLogger replaces the logger. A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
