package weego_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/obinnaokechukwu/weego"
)

func TestLogHandlerWritesToHost(t *testing.T) {
	w, host := newWeechat(t)

	log := slog.New(weego.NewLogHandler(w, &weego.LogOptions{Level: slog.LevelInfo}))
	log.Debug("hidden")
	log.Info("started", "commands", 2)
	log.With("plugin", "demo").WithGroup("req").Warn("slow", "ms", 30)

	assert.Equal(t, []string{
		"level=INFO msg=started commands=2",
		"level=WARN msg=slow plugin=demo req.ms=30",
	}, host.LogLines())
}

func TestLogHandlerRateLimit(t *testing.T) {
	w, host := newWeechat(t)

	log := slog.New(weego.NewLogHandler(w, &weego.LogOptions{
		Level:     slog.LevelInfo,
		RateLimit: rate.Every(20 * time.Millisecond),
		Burst:     1,
	}))
	log.Info("a")
	log.Info("b")
	log.Info("c")
	require.Len(t, host.LogLines(), 1)

	time.Sleep(50 * time.Millisecond)
	log.Info("d")

	lines := host.LogLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "level=INFO msg=d dropped=2", lines[1])
}

func TestLogOptionsFromEnv(t *testing.T) {
	t.Setenv(weego.EnvLogLevel, "debug")
	t.Setenv(weego.EnvLogRate, "0")
	opts := weego.LogOptionsFromEnv()
	assert.Equal(t, slog.LevelDebug, opts.Level)
	assert.Equal(t, rate.Inf, opts.RateLimit)

	t.Setenv(weego.EnvLogLevel, "loud")
	t.Setenv(weego.EnvLogRate, "2.5")
	opts = weego.LogOptionsFromEnv()
	assert.Equal(t, slog.LevelInfo, opts.Level)
	assert.Equal(t, rate.Limit(2.5), opts.RateLimit)
	assert.Equal(t, weego.DefaultLogBurst, opts.Burst)
}

func TestLoggerDefault(t *testing.T) {
	weego.SetLogger(nil)
	assert.Same(t, slog.Default(), weego.Logger())

	l := slog.New(slog.DiscardHandler)
	weego.SetLogger(l)
	t.Cleanup(func() { weego.SetLogger(nil) })
	assert.Same(t, l, weego.Logger())
}
