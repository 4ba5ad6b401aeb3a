package weego_test

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/internal/handles"
	"github.com/obinnaokechukwu/weego/weegotest"
)

// payload counts how often the library closed it.
type payload struct {
	closed int
	err    error
}

func (p *payload) Close() error {
	p.closed++
	return p.err
}

func newWeechat(t *testing.T) (weego.Weechat, *weegotest.Host) {
	t.Helper()
	host := weegotest.New()
	w := weego.New(host)
	records := handles.Count()
	t.Cleanup(func() {
		w.CloseAll()
		assert.Empty(t, host.Violations(), "unregister of unknown host objects")
		assert.Equal(t, records, handles.Count(), "callback records leaked")
		assert.Zero(t, handles.Pending(), "released records never disposed of")
	})
	return w, host
}

func TestInputPayloadPersistsAcrossCalls(t *testing.T) {
	w, host := newWeechat(t)

	var seen []string
	buf, err := weego.BufferNew(w, "scratch",
		func(greeting *string, _ weego.Buffer, _ string) weego.ReturnCode {
			seen = append(seen, *greeting)
			*greeting += " world."
			return weego.OK
		}, "Hello",
		nil, struct{}{})
	require.NoError(t, err)

	rc, ok := host.Input(buf.Buffer().Pointer(), "")
	require.True(t, ok)
	assert.Equal(t, weego.OK, rc)

	_, ok = host.Input(buf.Buffer().Pointer(), "x")
	require.True(t, ok)
	assert.Equal(t, []string{"Hello", "Hello world."}, seen)
}

func TestTimerReleasesAfterLastCall(t *testing.T) {
	w, host := newWeechat(t)
	before := handles.Count()

	data := &payload{}
	var calls []int
	hook, err := weego.HookTimer(w, weego.TimerInfo{Interval: time.Microsecond, MaxCalls: 3},
		func(_ **payload, remaining int) weego.ReturnCode {
			calls = append(calls, remaining)
			return weego.OK
		}, data)
	require.Error(t, err, "an interval below one millisecond is refused")
	require.Nil(t, hook)

	hook, err = weego.HookTimer(w, weego.TimerInfo{Interval: time.Second, MaxCalls: 3},
		func(_ **payload, remaining int) weego.ReturnCode {
			calls = append(calls, remaining)
			return weego.OK
		}, data)
	require.NoError(t, err)
	p := hook.Pointer()

	for range 4 {
		host.Tick(p)
	}

	assert.Equal(t, []int{2, 1, 0}, calls)
	assert.False(t, host.Has(p))
	assert.True(t, hook.Closed())
	assert.Equal(t, 1, data.closed)
	assert.Equal(t, before, handles.Count())

	require.NoError(t, hook.Close())
	assert.Zero(t, host.Unregisters(p), "a self-removed timer must not be unhooked again")
}

func TestFailedRegistrationLeavesNothingBehind(t *testing.T) {
	w, host := newWeechat(t)
	before := handles.Count()

	data := &payload{}
	host.FailNext("hook_command")
	hook, err := weego.HookCommand(w, weego.CommandInfo{Name: "fail"},
		func(**payload, weego.Buffer, weego.Args) weego.ReturnCode { return weego.OK }, data)

	require.Error(t, err)
	assert.Nil(t, hook)
	assert.True(t, errors.Is(err, weego.ErrRegistration))
	var hostErr *weego.HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, "hook_command", hostErr.Op)
	assert.Equal(t, "fail", hostErr.Name)

	assert.Equal(t, before, handles.Count())
	assert.Equal(t, 1, data.closed)
	assert.Zero(t, w.Live())
	assert.Zero(t, host.Live())
}

func TestCloseAllUnregistersOnce(t *testing.T) {
	w, host := newWeechat(t)

	data := &payload{}
	hook, err := weego.HookSignal(w, "buffer_opened",
		func(**payload, string, weego.SignalData) weego.ReturnCode { return weego.OK }, data)
	require.NoError(t, err)
	p := hook.Pointer()

	w.CloseAll()
	w.CloseAll()
	require.NoError(t, hook.Close())

	assert.Equal(t, 1, host.Unregisters(p))
	assert.Equal(t, 1, data.closed)
	assert.True(t, hook.Closed())
	assert.Zero(t, w.Live())
}

func TestCloseTwiceUnregistersOnce(t *testing.T) {
	w, host := newWeechat(t)

	data := &payload{}
	hook, err := weego.HookCommand(w, weego.CommandInfo{Name: "twice"},
		func(**payload, weego.Buffer, weego.Args) weego.ReturnCode { return weego.OK }, data)
	require.NoError(t, err)
	p := hook.Pointer()

	require.NoError(t, hook.Close())
	require.NoError(t, hook.Close())

	assert.Equal(t, 1, host.Unregisters(p))
	assert.Equal(t, 1, data.closed)

	_, ok := host.RunCommand(nil, "/twice")
	assert.False(t, ok, "command must be gone")
}

func TestCloseInsideCallbackDefersPayloadClose(t *testing.T) {
	w, host := newWeechat(t)

	data := &payload{}
	var hook *weego.Hook
	hook, err := weego.HookCommand(w, weego.CommandInfo{Name: "quit"},
		func(p **payload, _ weego.Buffer, _ weego.Args) weego.ReturnCode {
			require.NoError(t, hook.Close())
			assert.True(t, hook.Closed())
			assert.Zero(t, (*p).closed, "payload closed while its callback runs")
			assert.Equal(t, 1, handles.Pending())
			return weego.OK
		}, data)
	require.NoError(t, err)
	p := hook.Pointer()

	rc, ok := host.RunCommand(nil, "/quit")
	require.True(t, ok)
	assert.Equal(t, weego.OK, rc)
	assert.Equal(t, 1, data.closed)
	assert.Equal(t, 1, host.Unregisters(p))
	assert.Zero(t, handles.Pending())
	assert.Zero(t, w.Live())
}

func TestCloseAllIsNewestFirst(t *testing.T) {
	w, host := newWeechat(t)

	var created []unsafe.Pointer
	for _, name := range []string{"first", "second", "third"} {
		cmd, err := weego.HookCommand(w, weego.CommandInfo{Name: name},
			func(*struct{}, weego.Buffer, weego.Args) weego.ReturnCode { return weego.OK }, struct{}{})
		require.NoError(t, err)
		sig, err := weego.HookSignal(w, name,
			func(*struct{}, string, weego.SignalData) weego.ReturnCode { return weego.OK }, struct{}{})
		require.NoError(t, err)
		created = append(created, cmd.Pointer(), sig.Pointer())
	}
	require.Equal(t, 6, w.Live())

	w.CloseAll()

	slices.Reverse(created)
	assert.Equal(t, created, host.UnregisterOrder())
	assert.Zero(t, host.Live())
	assert.Zero(t, w.Live())
}

// captureLog routes the package logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	weego.SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { weego.SetLogger(nil) })
	return &out
}

func TestPayloadCloseErrorIsLogged(t *testing.T) {
	w, _ := newWeechat(t)
	out := captureLog(t)

	data := &payload{err: errors.New("boom")}
	hook, err := weego.HookConfig(w, "weechat.look.*",
		func(**payload, string, string) weego.ReturnCode { return weego.OK }, data)
	require.NoError(t, err)
	require.NoError(t, hook.Close())
	assert.Equal(t, 1, data.closed)
	assert.Contains(t, out.String(), "payload close failed")
	assert.Contains(t, out.String(), "boom")
}

func TestNilPointerPayloadIsNotClosed(t *testing.T) {
	w, _ := newWeechat(t)

	var data *payload
	hook, err := weego.HookConfig(w, "*",
		func(**payload, string, string) weego.ReturnCode { return weego.OK }, data)
	require.NoError(t, err)
	assert.NotPanics(t, func() { hook.Close() })
}
